package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"pdv/internal/app"
	"pdv/internal/core"

	"github.com/google/uuid"
)

// prompt returns the next trimmed line. A read error is returned only once the
// input is exhausted, so a final line without a newline is still delivered.
func prompt(reader *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := reader.ReadString('\n')
	line = strings.TrimSpace(line)
	if line != "" {
		return line, nil
	}
	return "", err
}

// resolveProduct finds a product by barcode, then SKU, then id.
func resolveProduct(ctx context.Context, svc app.ApplicationService, code string) (*core.Product, error) {
	p, err := svc.GetProductByBarcode(ctx, code)
	if err == nil || !errors.Is(err, core.ErrNotFound) {
		return p, err
	}
	p, err = svc.GetProductBySKU(ctx, code)
	if err == nil || !errors.Is(err, core.ErrNotFound) {
		return p, err
	}
	id, perr := uuid.Parse(code)
	if perr != nil {
		return nil, err
	}
	return svc.GetProduct(ctx, id)
}

// handleNewSale runs an interactive checkout: items, sale discount, optional customer,
// then payments until the total is covered.
func handleNewSale(ctx context.Context, reader *bufio.Reader, out io.Writer, svc app.ApplicationService, operator string) {
	fmt.Fprintln(out, "New sale. Type 'fim' when done, 'cancelar' to abort.")
	fmt.Fprintln(out, "Format per item: <barcode|sku|id> <quantity> [unit-price] [item-discount]")
	fmt.Fprintln(out, "  Example: 7891000100101 2")
	fmt.Fprintln(out, "  Example: CAFE-500 1 17,90 1,00")

	var items []core.SaleItemInput
	for {
		raw, err := prompt(reader, out, fmt.Sprintf("  Item %d: ", len(items)+1))
		if err != nil {
			fmt.Fprintln(out, "\nSale cancelled.")
			return
		}
		switch strings.ToLower(raw) {
		case "cancelar", "cancel":
			fmt.Fprintln(out, "Sale cancelled.")
			return
		case "fim", "done":
		case "":
			continue
		default:
			item, err := parseItemLine(ctx, svc, out, raw)
			if err != nil {
				fmt.Fprintf(out, "  %v\n", err)
				continue
			}
			items = append(items, item)
			continue
		}
		break
	}

	if len(items) == 0 {
		fmt.Fprintln(out, "No items entered. Sale not created.")
		return
	}

	var discount core.Cents
	raw, err := prompt(reader, out, "Sale discount (blank for none): ")
	if err != nil {
		fmt.Fprintln(out, "\nSale cancelled.")
		return
	}
	if raw != "" {
		d, err := core.ParseCents(raw)
		if err != nil {
			fmt.Fprintf(out, "%v. Sale not created.\n", err)
			return
		}
		discount = d
	}

	totals, err := core.AggregateItems(items, discount)
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(out, "TOTAL: %s\n", totals.TotalDue)

	var customerID *uuid.UUID
	doc, err := prompt(reader, out, "Customer CPF/CNPJ (optional): ")
	if err != nil {
		fmt.Fprintln(out, "\nSale cancelled.")
		return
	}
	if doc != "" {
		c, err := svc.GetCustomerByDocument(ctx, doc)
		if err != nil {
			fmt.Fprintf(out, "Customer not found (%v); continuing without customer.\n", err)
		} else {
			fmt.Fprintf(out, "Customer: %s\n", c.Name)
			customerID = &c.ID
		}
	}

	payments, ok := readPayments(reader, out, totals.TotalDue)
	if !ok {
		fmt.Fprintln(out, "Sale cancelled.")
		return
	}

	result, err := svc.CreateSale(ctx, app.CreateSaleRequest{
		CustomerID:    customerID,
		DiscountTotal: discount,
		CreatedBy:     operator,
		Items:         items,
		Payments:      payments,
	})
	if err != nil {
		fmt.Fprintf(out, "[REPL] Error creating sale: %v\n", err)
		return
	}
	printReceipt(out, result.Sale)
}

func parseItemLine(ctx context.Context, svc app.ApplicationService, out io.Writer, raw string) (core.SaleItemInput, error) {
	parts := strings.Fields(raw)
	if len(parts) < 2 {
		return core.SaleItemInput{}, errors.New("invalid format. Use: <barcode|sku|id> <quantity> [unit-price] [item-discount]")
	}

	p, err := resolveProduct(ctx, svc, parts[0])
	if err != nil {
		return core.SaleItemInput{}, fmt.Errorf("product %s: %w", parts[0], err)
	}

	qty, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || qty <= 0 {
		return core.SaleItemInput{}, errors.New("invalid quantity")
	}

	item := core.SaleItemInput{ProductID: p.ID, Quantity: qty, UnitPrice: p.SalePrice}
	if len(parts) >= 3 {
		if item.UnitPrice, err = core.ParseCents(parts[2]); err != nil || item.UnitPrice < 0 {
			return core.SaleItemInput{}, errors.New("invalid price")
		}
	}
	if len(parts) >= 4 {
		if item.Discount, err = core.ParseCents(parts[3]); err != nil || item.Discount < 0 {
			return core.SaleItemInput{}, errors.New("invalid discount")
		}
	}

	gross := core.Cents(qty) * item.UnitPrice
	fmt.Fprintf(out, "    %s x%d @ %s = %s\n", p.Name, qty, item.UnitPrice, gross-item.Discount)
	return item, nil
}

// readPayments collects tenders until they cover due. It returns false when the
// operator aborts or the input ends.
func readPayments(reader *bufio.Reader, out io.Writer, due core.Cents) ([]core.SalePaymentInput, bool) {
	fmt.Fprintln(out, "Payments: <method> <amount> [tendered]. Methods:", methodList())

	var payments []core.SalePaymentInput
	var paid core.Cents
	for paid < due {
		raw, err := prompt(reader, out, fmt.Sprintf("  Remaining %s: ", due-paid))
		if err != nil {
			return nil, false
		}
		if raw == "" {
			continue
		}
		if strings.EqualFold(raw, "cancelar") || strings.EqualFold(raw, "cancel") {
			return nil, false
		}

		parts := strings.Fields(raw)
		method := core.PaymentMethod(strings.ToLower(parts[0]))
		if !method.Valid() {
			fmt.Fprintf(out, "  Unknown method %q\n", parts[0])
			continue
		}

		amount := due - paid
		if len(parts) >= 2 {
			a, err := core.ParseCents(parts[1])
			if err != nil || a <= 0 {
				fmt.Fprintln(out, "  Invalid amount.")
				continue
			}
			amount = a
		}
		if amount > due-paid {
			fmt.Fprintf(out, "  Amount exceeds remaining %s. Use 'dinheiro <amount> <tendered>' for change.\n", due-paid)
			continue
		}

		p := core.SalePaymentInput{Method: method, Amount: amount}
		if len(parts) >= 3 && method == core.PaymentCash {
			tendered, err := core.ParseCents(parts[2])
			if err != nil || tendered < amount {
				fmt.Fprintln(out, "  Invalid tendered amount.")
				continue
			}
			p.Tendered = &tendered
			fmt.Fprintf(out, "    Change: %s\n", core.CashChange(method, amount, &tendered))
		}

		payments = append(payments, p)
		paid += amount
	}

	// Every tender must be positive, so a sale totalling zero or less cannot be paid.
	if len(payments) == 0 {
		fmt.Fprintln(out, "Total is not positive; sale cannot be paid.")
		return nil, false
	}
	return payments, true
}

func methodList() string {
	names := make([]string, len(core.PaymentMethods))
	for i, m := range core.PaymentMethods {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}
