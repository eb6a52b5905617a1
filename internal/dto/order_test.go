package dto_test

import (
	"testing"

	"github.com/Additional-Code/orderdesk/internal/dto"
	"github.com/Additional-Code/orderdesk/internal/entity"
)

var pres = dto.Presentation{StoreSuffix: "門市", Placeholder: "-"}

func TestNewOrderRowStoreDisplay(t *testing.T) {
	cases := []struct {
		name    string
		storeID string
		want    string
	}{
		{name: "suffix stripped", storeID: "西門門市", want: "西門"},
		{name: "no suffix untouched", storeID: "西門", want: "西門"},
		{name: "absent shows placeholder", storeID: "", want: "-"},
		{name: "bare suffix shows placeholder", storeID: "門市", want: "-"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			row := dto.NewOrderRow(entity.Order{StoreID: tc.storeID}, pres)
			if row.Store != tc.want {
				t.Errorf("Store = %q, want %q", row.Store, tc.want)
			}
		})
	}
}

func TestNewOrderRowNotePlaceholder(t *testing.T) {
	if row := dto.NewOrderRow(entity.Order{}, pres); row.Note != "-" {
		t.Errorf("empty note = %q, want placeholder", row.Note)
	}
	if row := dto.NewOrderRow(entity.Order{Note: "平日取貨"}, pres); row.Note != "平日取貨" {
		t.Errorf("note = %q, want original text", row.Note)
	}
}

func TestNewOrderRowDateOnly(t *testing.T) {
	// 2023-11-14T22:13:20Z
	row := dto.NewOrderRow(entity.Order{CreatedAt: 1700000000}, pres)
	if row.OrderedOn != "2023-11-14" {
		t.Errorf("OrderedOn = %q, want 2023-11-14", row.OrderedOn)
	}
}

func TestNewOrderRowProductLines(t *testing.T) {
	order := entity.Order{
		Calendar: entity.ProductLine{Quantity: 2, Signed: true},
		Polaroid: entity.ProductLine{Quantity: 3},
	}
	row := dto.NewOrderRow(order, pres)

	if row.Calendar.Quantity != 2 || !row.Calendar.Signed {
		t.Errorf("Calendar = %+v, want quantity 2 signed", row.Calendar)
	}
	if row.Polaroid.Quantity != 3 || row.Polaroid.Signed {
		t.Errorf("Polaroid = %+v, want quantity 3 unsigned", row.Polaroid)
	}
}

func TestNewOrderRowsPreservesOrder(t *testing.T) {
	orders := []entity.Order{{ID: "b"}, {ID: "a"}}
	rows := dto.NewOrderRows(orders, pres)
	if len(rows) != 2 || rows[0].ID != "b" || rows[1].ID != "a" {
		t.Fatalf("rows = %+v, want b then a", rows)
	}
}
