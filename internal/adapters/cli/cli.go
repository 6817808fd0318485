package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"pdv/internal/app"
	"pdv/internal/core"

	"github.com/google/uuid"
)

const usage = "Available: resumo [data_inicio] [data_fim], venda <id|numero>, vendas [pagina], cancelar <id> [usuario]"

// Run executes a one-shot CLI command, writing its report to out.
// args is os.Args[1:]; the first element is the subcommand name.
func Run(ctx context.Context, svc app.ApplicationService, args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("missing command\n%s", usage)
	}

	switch args[0] {
	case "resumo", "summary":
		req := app.SummaryRequest{}
		var err error
		if len(args) > 1 {
			if req.From, err = parseDay(args[1]); err != nil {
				return err
			}
		}
		if len(args) > 2 {
			if req.To, err = parseDay(args[2]); err != nil {
				return err
			}
		}
		summary, err := svc.GetSalesSummary(ctx, req)
		if err != nil {
			return fmt.Errorf("failed to compute summary: %w", err)
		}
		printSummary(out, summary)

	case "venda", "sale":
		if len(args) < 2 {
			return fmt.Errorf("usage: app venda <id|numero>")
		}
		result, err := svc.GetSale(ctx, args[1])
		if err != nil {
			return err
		}
		printSale(out, result.Sale)

	case "vendas", "sales":
		page := core.Page{Number: 1}
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid page %q", args[1])
			}
			page.Number = n
		}
		result, err := svc.ListSales(ctx, app.ListSalesRequest{Page: page})
		if err != nil {
			return fmt.Errorf("failed to list sales: %w", err)
		}
		printSales(out, result)

	case "cancelar", "cancel":
		if len(args) < 2 {
			return fmt.Errorf("usage: app cancelar <id> [usuario]")
		}
		id, err := uuid.Parse(args[1])
		if err != nil {
			return fmt.Errorf("invalid sale id %q", args[1])
		}
		actor := "cli"
		if len(args) > 2 {
			actor = args[2]
		}
		result, err := svc.CancelSale(ctx, id, actor)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Venda %s cancelada.\n", result.Sale.SaleNumber)

	default:
		return fmt.Errorf("unknown command: %s\n%s", args[0], usage)
	}
	return nil
}

func parseDay(s string) (*time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return &t, nil
}

func printSummary(out io.Writer, s *core.SaleSummary) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, strings.Repeat("=", 50))
	fmt.Fprintf(out, "  RESUMO DE VENDAS (%s)\n", s.Status)
	fmt.Fprintln(out, strings.Repeat("=", 50))
	fmt.Fprintf(out, "  %-25s %22d\n", "Vendas", s.SalesCount)
	fmt.Fprintf(out, "  %-25s %22s\n", "Valor total", s.TotalAmount)
	fmt.Fprintf(out, "  %-25s %22s\n", "Ticket medio", s.AverageTicket.Shift(-2).StringFixed(2))

	if len(s.ByStatus) > 0 {
		fmt.Fprintln(out, strings.Repeat("-", 50))
		for _, st := range core.SaleStatuses {
			if n, ok := s.ByStatus[st]; ok {
				fmt.Fprintf(out, "  %-25s %22d\n", st, n)
			}
		}
	}
	if len(s.ByPaymentMethod) > 0 {
		fmt.Fprintln(out, strings.Repeat("-", 50))
		for _, m := range core.PaymentMethods {
			if t, ok := s.ByPaymentMethod[m]; ok {
				fmt.Fprintf(out, "  %-25s %6d %15s\n", m, t.Count, t.Amount)
			}
		}
	}
	fmt.Fprintln(out, strings.Repeat("=", 50))
}

func printSale(out io.Writer, s *core.Sale) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  Venda %s  [%s]  %s\n", s.SaleNumber, s.Status, s.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintln(out, strings.Repeat("-", 70))
	for _, it := range s.Items {
		fmt.Fprintf(out, "  %-34s %5d x %10s %14s\n", it.ProductName, it.Quantity, it.UnitPrice, it.Subtotal)
	}
	fmt.Fprintln(out, strings.Repeat("-", 70))
	fmt.Fprintf(out, "  %-52s %14s\n", "Subtotal", s.Subtotal)
	if s.DiscountTotal > 0 {
		fmt.Fprintf(out, "  %-52s %14s\n", "Desconto", "-"+s.DiscountTotal.String())
	}
	fmt.Fprintf(out, "  %-52s %14s\n", "Total", s.TotalDue)

	payments := append([]core.SalePayment(nil), s.Payments...)
	sort.SliceStable(payments, func(i, j int) bool { return payments[i].Method < payments[j].Method })
	for _, p := range payments {
		line := fmt.Sprintf("  %-52s %14s", p.Method, p.Amount)
		if p.Change > 0 {
			line += fmt.Sprintf("  (troco %s)", p.Change)
		}
		fmt.Fprintln(out, line)
	}
}

func printSales(out io.Writer, result *app.SaleListResult) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %-15s %-11s %-17s %14s\n", "NUMERO", "STATUS", "DATA", "TOTAL")
	fmt.Fprintln(out, strings.Repeat("-", 62))
	for _, s := range result.Sales {
		fmt.Fprintf(out, "  %-15s %-11s %-17s %14s\n", s.SaleNumber, s.Status, s.CreatedAt.Format("2006-01-02 15:04"), s.TotalDue)
	}
	fmt.Fprintln(out, strings.Repeat("-", 62))
	fmt.Fprintf(out, "  pagina %d de %d (%d vendas)\n", result.Page, result.TotalPages, result.Total)
}
