package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	webAdapter "pdv/internal/adapters/web"
	"pdv/internal/app"
	"pdv/internal/config"
	"pdv/internal/core"
	"pdv/internal/db"
	"pdv/internal/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.MaxConns)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	var m *metrics.Metrics
	if cfg.PrometheusEnabled {
		m = metrics.New()
		log.Println("prometheus metrics enabled at /metrics")
	}

	productService := core.NewProductService(pool)
	customerService := core.NewCustomerService(pool)
	saleService := core.NewSaleService(pool, productService, cfg.Location)

	svc := app.NewAppService(pool, saleService, productService, customerService, m)

	handler := webAdapter.NewHandler(svc, webAdapter.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		Metrics:        m,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("server starting on :%s (timezone %s)", cfg.ServerPort, cfg.Location)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server: %v", err)
	}
	log.Println("server stopped")
}
