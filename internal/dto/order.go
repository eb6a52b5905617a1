package dto

import (
	"strings"
	"time"

	"github.com/Additional-Code/orderdesk/internal/entity"
)

// Presentation carries the display rules applied when shaping rows.
type Presentation struct {
	// StoreSuffix is the locale token stripped from store ids (first
	// occurrence only, matching the dashboard the rows feed).
	StoreSuffix string
	// Placeholder replaces absent store ids and notes.
	Placeholder string
}

// LineView is the displayed form of one product line: the quantity plus
// whether the signed marker should be shown next to it.
type LineView struct {
	Quantity int  `json:"quantity"`
	Signed   bool `json:"signed"`
}

// OrderRow is one displayed row of the order board. Identity and raw fields
// travel alongside the presentation-shaped ones so callers can both render
// the row and address the underlying document.
type OrderRow struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Phone     string   `json:"phone"`
	Store     string   `json:"store"`
	BankCode  string   `json:"bankCode"`
	Note      string   `json:"note"`
	Calendar  LineView `json:"calendar"`
	Polaroid  LineView `json:"polaroid"`
	OrderedOn string   `json:"orderedOn"`
	CreatedAt int64    `json:"createdAt"`
	Total     float64  `json:"total"`
	HavePaid  bool     `json:"havePaid"`
	HaveSend  bool     `json:"haveSend"`
}

// NewOrderRow shapes a stored order into its displayed row.
func NewOrderRow(o entity.Order, p Presentation) OrderRow {
	return OrderRow{
		ID:        o.ID,
		Name:      o.Name,
		Phone:     o.Phone,
		Store:     displayStore(o.StoreID, p),
		BankCode:  o.BankCode,
		Note:      orPlaceholder(o.Note, p.Placeholder),
		Calendar:  LineView{Quantity: o.Calendar.Quantity, Signed: o.Calendar.Signed},
		Polaroid:  LineView{Quantity: o.Polaroid.Quantity, Signed: o.Polaroid.Signed},
		OrderedOn: time.Unix(o.CreatedAt, 0).UTC().Format("2006-01-02"),
		CreatedAt: o.CreatedAt,
		Total:     o.Total,
		HavePaid:  o.HavePaid,
		HaveSend:  o.HaveSend,
	}
}

// NewOrderRows shapes a loaded snapshot, preserving its order.
func NewOrderRows(orders []entity.Order, p Presentation) []OrderRow {
	rows := make([]OrderRow, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, NewOrderRow(o, p))
	}
	return rows
}

// displayStore strips the locale suffix once; an absent store id, or one that
// is nothing but the suffix, renders as the placeholder rather than an empty
// cell.
func displayStore(storeID string, p Presentation) string {
	stripped := storeID
	if p.StoreSuffix != "" {
		stripped = strings.Replace(storeID, p.StoreSuffix, "", 1)
	}
	return orPlaceholder(stripped, p.Placeholder)
}

func orPlaceholder(s, placeholder string) string {
	if s == "" {
		return placeholder
	}
	return s
}

// Summary is the pair of derived figures shown next to the order board.
type Summary struct {
	TotalRevenue float64 `json:"totalRevenue"`
	Fee          int64   `json:"fee"`
}

// CreateOrderRequest is the transport payload for registering a new order.
type CreateOrderRequest struct {
	Name     string            `json:"name" validate:"required"`
	Phone    string            `json:"phone"`
	StoreID  string            `json:"storeId"`
	BankCode string            `json:"bankCode" validate:"omitempty,len=5,numeric"`
	Note     string            `json:"note"`
	Calendar CreateProductLine `json:"calendar"`
	Polaroid CreateProductLine `json:"polaroid"`
	Total    float64           `json:"total" validate:"gte=0"`
}

// CreateProductLine mirrors entity.ProductLine on the create payload.
type CreateProductLine struct {
	Quantity int  `json:"quantity" validate:"gte=0"`
	Signed   bool `json:"signed"`
}
