package board_test

import (
	"testing"

	"github.com/Additional-Code/orderdesk/internal/board"
	"github.com/Additional-Code/orderdesk/internal/dto"
)

func TestSummarize(t *testing.T) {
	cases := []struct {
		name        string
		totals      []float64
		feeRate     float64
		wantRevenue float64
		wantFee     int64
	}{
		{name: "empty", totals: nil, feeRate: 0.08, wantRevenue: 0, wantFee: 0},
		{name: "single", totals: []float64{100}, feeRate: 0.08, wantRevenue: 100, wantFee: 8},
		{name: "rounds up", totals: []float64{100, 250, 33}, feeRate: 0.08, wantRevenue: 383, wantFee: 31},
		{name: "exact boundary", totals: []float64{25}, feeRate: 0.08, wantRevenue: 25, wantFee: 2},
		{name: "zero rate", totals: []float64{100, 250}, feeRate: 0, wantRevenue: 350, wantFee: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rows := make([]dto.OrderRow, len(tc.totals))
			for i, total := range tc.totals {
				rows[i] = dto.OrderRow{Total: total}
			}

			got := board.Summarize(rows, tc.feeRate)
			if got.TotalRevenue != tc.wantRevenue {
				t.Errorf("TotalRevenue = %v, want %v", got.TotalRevenue, tc.wantRevenue)
			}
			if got.Fee != tc.wantFee {
				t.Errorf("Fee = %d, want %d", got.Fee, tc.wantFee)
			}
		})
	}
}
