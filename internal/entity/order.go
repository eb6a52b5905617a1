package entity

import (
	"github.com/uptrace/bun"
)

// Flag names accepted by the status-toggle operations. Orders carry exactly
// these two independent booleans; there is no sequencing between them (an
// order may ship before it is paid).
const (
	FlagHavePaid = "havePaid"
	FlagHaveSend = "haveSend"
)

// ValidFlag reports whether name is one of the toggleable status flags.
func ValidFlag(name string) bool {
	return name == FlagHavePaid || name == FlagHaveSend
}

// ProductLine is one ordered product plus whether the signature add-on was
// purchased for it.
type ProductLine struct {
	Quantity int  `bun:"quantity" bson:"quantity" json:"quantity"`
	Signed   bool `bun:"signed" bson:"signed" json:"signed"`
}

// Order is a purchase order document. ID is assigned by the store on insert
// and is immutable, as is CreatedAt (epoch seconds, the listing sort key).
type Order struct {
	bun.BaseModel `bun:"table:orders" bson:"-" json:"-"`

	ID        string      `bun:"id,pk" bson:"_id" json:"id"`
	Name      string      `bun:"name" bson:"name" json:"name"`
	Phone     string      `bun:"phone" bson:"phone" json:"phone"`
	StoreID   string      `bun:"store_id" bson:"storeId" json:"storeId"`
	BankCode  string      `bun:"bank_code" bson:"bankCode" json:"bankCode"`
	Note      string      `bun:"note" bson:"note" json:"note"`
	Calendar  ProductLine `bun:"embed:calendar_" bson:"calendar" json:"calendar"`
	Polaroid  ProductLine `bun:"embed:polaroid_" bson:"polaroid" json:"polaroid"`
	CreatedAt int64       `bun:"created_at,notnull" bson:"createdAt" json:"createdAt"`
	Total     float64     `bun:"total" bson:"total" json:"total"`
	HavePaid  bool        `bun:"have_paid" bson:"havePaid" json:"havePaid"`
	HaveSend  bool        `bun:"have_send" bson:"haveSend" json:"haveSend"`
}

// Flag returns the current value of the named status flag. The second return
// is false for unknown flag names.
func (o *Order) Flag(name string) (bool, bool) {
	switch name {
	case FlagHavePaid:
		return o.HavePaid, true
	case FlagHaveSend:
		return o.HaveSend, true
	default:
		return false, false
	}
}
