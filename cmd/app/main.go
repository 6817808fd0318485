// app is the counter terminal. Without arguments it starts the interactive
// checkout; with arguments it runs one-shot commands.
//
// Usage: app [resumo [data_inicio] [data_fim] | venda <id|numero> | vendas [pagina] | cancelar <id> [usuario]]
package main

import (
	"bufio"
	"context"
	"log"
	"os"

	"pdv/internal/adapters/cli"
	"pdv/internal/adapters/repl"
	"pdv/internal/app"
	"pdv/internal/config"
	"pdv/internal/core"
	"pdv/internal/db"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.MaxConns)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer pool.Close()

	productService := core.NewProductService(pool)
	customerService := core.NewCustomerService(pool)
	saleService := core.NewSaleService(pool, productService, cfg.Location)
	svc := app.NewAppService(pool, saleService, productService, customerService, nil)

	if len(os.Args) > 1 {
		if err := cli.Run(ctx, svc, os.Args[1:], os.Stdout); err != nil {
			log.Fatal(err)
		}
		return
	}

	repl.Run(ctx, svc, bufio.NewReader(os.Stdin), os.Stdout, cfg.Operator)
}
