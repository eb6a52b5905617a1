package board

import (
	"github.com/shopspring/decimal"

	"github.com/Additional-Code/orderdesk/internal/dto"
)

// Summarize derives the board's summary figures from the displayed rows:
// total revenue is the plain sum of order totals, the fee is feeRate of that
// revenue rounded up to the next whole currency unit. Pure; it must always
// equal a direct recomputation over the current rows.
func Summarize(rows []dto.OrderRow, feeRate float64) dto.Summary {
	var revenue float64
	for i := range rows {
		revenue += rows[i].Total
	}

	fee := decimal.NewFromFloat(revenue).
		Mul(decimal.NewFromFloat(feeRate)).
		Ceil().
		IntPart()

	return dto.Summary{TotalRevenue: revenue, Fee: fee}
}
