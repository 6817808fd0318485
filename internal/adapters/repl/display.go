package repl

import (
	"fmt"
	"io"
	"strings"

	"pdv/internal/core"
)

func printProducts(out io.Writer, products []core.Product) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, strings.Repeat("=", 78))
	fmt.Fprintln(out, "  PRODUCTS")
	fmt.Fprintln(out, strings.Repeat("=", 78))
	if len(products) == 0 {
		fmt.Fprintln(out, "  No products found.")
		fmt.Fprintln(out, strings.Repeat("=", 78))
		return
	}
	fmt.Fprintf(out, "  %-14s %-14s %-28s %-8s %10s\n", "BARCODE", "SKU", "NAME", "UNIT", "PRICE")
	fmt.Fprintln(out, strings.Repeat("-", 78))
	for _, p := range products {
		fmt.Fprintf(out, "  %-14s %-14s %-28s %-8s %10s\n",
			p.Barcode, p.SKU, truncate(p.Name, 28), p.Unit, p.SalePrice)
	}
	fmt.Fprintln(out, strings.Repeat("=", 78))
}

func printCustomers(out io.Writer, customers []core.Customer) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, strings.Repeat("=", 78))
	fmt.Fprintln(out, "  CUSTOMERS")
	fmt.Fprintln(out, strings.Repeat("=", 78))
	if len(customers) == 0 {
		fmt.Fprintln(out, "  No customers found.")
		fmt.Fprintln(out, strings.Repeat("=", 78))
		return
	}
	fmt.Fprintf(out, "  %-15s %-28s %-10s %-20s\n", "CPF/CNPJ", "NAME", "STATUS", "CITY")
	fmt.Fprintln(out, strings.Repeat("-", 78))
	for _, c := range customers {
		city := c.City
		if c.State != "" {
			city += "/" + c.State
		}
		fmt.Fprintf(out, "  %-15s %-28s %-10s %-20s\n", c.Document, truncate(c.Name, 28), c.Status, city)
	}
	fmt.Fprintln(out, strings.Repeat("=", 78))
}

// printReceipt renders a completed sale the way the counter slip shows it.
func printReceipt(out io.Writer, s *core.Sale) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, strings.Repeat("=", 48))
	fmt.Fprintf(out, "  VENDA %s\n", s.SaleNumber)
	fmt.Fprintf(out, "  %s\n", s.CreatedAt.Format("02/01/2006 15:04"))
	fmt.Fprintln(out, strings.Repeat("-", 48))
	for _, it := range s.Items {
		fmt.Fprintf(out, "  %-30s %15s\n", truncate(it.ProductName, 30), it.Subtotal)
		fmt.Fprintf(out, "    %d x %s", it.Quantity, it.UnitPrice)
		if it.Discount > 0 {
			fmt.Fprintf(out, "  desc. %s", it.Discount)
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintln(out, strings.Repeat("-", 48))
	fmt.Fprintf(out, "  %-30s %15s\n", "Subtotal", s.Subtotal)
	if s.DiscountTotal > 0 {
		fmt.Fprintf(out, "  %-30s %15s\n", "Desconto", s.DiscountTotal)
	}
	fmt.Fprintf(out, "  %-30s %15s\n", "TOTAL", s.TotalDue)
	for _, p := range s.Payments {
		fmt.Fprintf(out, "  %-30s %15s\n", p.Method, p.Amount)
		if p.Change != 0 {
			fmt.Fprintf(out, "  %-30s %15s\n", "  troco", p.Change)
		}
	}
	fmt.Fprintln(out, strings.Repeat("=", 48))
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  /nova-venda                    Ring up a new sale")
	fmt.Fprintln(out, "  /produtos [term]               List or search products")
	fmt.Fprintln(out, "  /clientes [term]               List or search customers")
	fmt.Fprintln(out, "  /venda <id|number>             Show one sale")
	fmt.Fprintln(out, "  /vendas [page]                 List recent sales")
	fmt.Fprintln(out, "  /resumo [from] [to]            Sales summary (YYYY-MM-DD)")
	fmt.Fprintln(out, "  /cancelar <id>                 Cancel a sale")
	fmt.Fprintln(out, "  /help                          Show this help")
	fmt.Fprintln(out, "  /sair                          Exit")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
