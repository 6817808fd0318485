package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"pdv/internal/adapters/cli"
	"pdv/internal/app"
	"pdv/internal/core"
)

var errExit = errors.New("exit")

// Run starts the interactive checkout loop.
// Slash commands are dispatched deterministically; /nova-venda opens the sale wizard
// and the read-only reports reuse the one-shot CLI commands.
func Run(ctx context.Context, svc app.ApplicationService, reader *bufio.Reader, out io.Writer, operator string) {
	fmt.Fprintln(out, "PDV - Caixa")
	fmt.Fprintf(out, "Operador: %s\n", operator)
	fmt.Fprintln(out, "Use /nova-venda to ring up a sale, or /help for commands.")
	fmt.Fprintln(out, strings.Repeat("-", 70))

	for {
		fmt.Fprint(out, "\n> ")
		input, err := reader.ReadString('\n')
		input = strings.TrimSpace(input)
		if input == "" {
			if err != nil {
				// EOF on stdin ends the session like /sair.
				fmt.Fprintln(out, "Ate logo!")
				return
			}
			continue
		}

		if !strings.HasPrefix(input, "/") {
			fmt.Fprintln(out, "Commands start with '/'. Type /help for the list.")
			continue
		}

		if err := dispatch(ctx, svc, reader, out, operator, input); err != nil {
			if errors.Is(err, errExit) {
				fmt.Fprintln(out, "Ate logo!")
				return
			}
			fmt.Fprintf(out, "Error: %v\n", err)
		}
	}
}

func dispatch(ctx context.Context, svc app.ApplicationService, reader *bufio.Reader, out io.Writer, operator, input string) error {
	tokens := strings.Fields(strings.TrimPrefix(input, "/"))
	if len(tokens) == 0 {
		return nil
	}
	cmd := strings.ToLower(tokens[0])
	args := tokens[1:]

	switch cmd {
	case "nova-venda", "new-sale", "nv":
		handleNewSale(ctx, reader, out, svc, operator)

	case "produtos", "products":
		term := strings.Join(args, " ")
		if term == "" {
			result, err := svc.ListProducts(ctx, core.ProductFilter{}, core.Page{Number: 1})
			if err != nil {
				return err
			}
			printProducts(out, result.Products)
			return nil
		}
		products, err := svc.SearchProducts(ctx, term, 20)
		if err != nil {
			return err
		}
		printProducts(out, products)

	case "clientes", "customers":
		term := strings.Join(args, " ")
		if term == "" {
			result, err := svc.ListCustomers(ctx, core.CustomerFilter{}, core.Page{Number: 1})
			if err != nil {
				return err
			}
			printCustomers(out, result.Customers)
			return nil
		}
		customers, err := svc.SearchCustomers(ctx, term, 20)
		if err != nil {
			return err
		}
		printCustomers(out, customers)

	case "cancelar", "cancel":
		if len(args) == 1 {
			args = append(args, operator)
		}
		return cli.Run(ctx, svc, append([]string{cmd}, args...), out)

	case "resumo", "summary", "venda", "sale", "vendas", "sales":
		return cli.Run(ctx, svc, append([]string{cmd}, args...), out)

	case "help", "h":
		printHelp(out)

	case "sair", "exit", "quit", "q":
		return errExit

	default:
		fmt.Fprintf(out, "Unknown command: /%s  (type /help for all commands)\n", cmd)
	}
	return nil
}
