package cli

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/Additional-Code/orderdesk/internal/board"
	"github.com/Additional-Code/orderdesk/internal/config"
	"github.com/Additional-Code/orderdesk/internal/dto"
)

func boardConfig(cfg config.Config) board.Config {
	return board.Config{
		Presentation: dto.Presentation{
			StoreSuffix: cfg.Dashboard.StoreSuffix,
			Placeholder: cfg.Dashboard.Placeholder,
		},
		FeeRate: cfg.Dashboard.FeeRate,
	}
}

// renderBoard prints the order table and the two summary figures, the
// terminal twin of the web dashboard.
func renderBoard(cmd *cobra.Command, b *board.Board) error {
	out := cmd.OutOrStdout()

	table := tablewriter.NewTable(out)
	table.Header("ID", "Name", "Phone", "Store", "Bank", "Note", "Calendar", "Polaroid", "Ordered", "Total", "Paid", "Shipped")

	rows := b.Rows()
	for _, r := range rows {
		if err := table.Append([]string{
			r.ID,
			r.Name,
			r.Phone,
			r.Store,
			r.BankCode,
			r.Note,
			lineCell(r.Calendar),
			lineCell(r.Polaroid),
			r.OrderedOn,
			strconv.FormatFloat(r.Total, 'f', -1, 64),
			flagCell(r.HavePaid),
			flagCell(r.HaveSend),
		}); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	s := b.Summary()
	fmt.Fprintf(out, "\nTotal: $%s\n", strconv.FormatFloat(s.TotalRevenue, 'f', -1, 64))
	fmt.Fprintf(out, "Fee:   $%d\n", s.Fee)
	return nil
}

// lineCell renders a product line quantity with the signed marker.
func lineCell(l dto.LineView) string {
	if l.Signed {
		return strconv.Itoa(l.Quantity) + " ✳"
	}
	return strconv.Itoa(l.Quantity)
}

func flagCell(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
