package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/hskhan/scrapledger/internal/config"
	"github.com/hskhan/scrapledger/internal/database"
	ledgerHttp "github.com/hskhan/scrapledger/internal/http"
	importHandler "github.com/hskhan/scrapledger/internal/http/importlegacy"
	reportHandler "github.com/hskhan/scrapledger/internal/http/reports"
	txHandler "github.com/hskhan/scrapledger/internal/http/transaction"
	"github.com/hskhan/scrapledger/internal/ledger"
	"github.com/hskhan/scrapledger/internal/ledger/store"
	"github.com/hskhan/scrapledger/internal/legacyimport"
	"github.com/hskhan/scrapledger/internal/pdf"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var (
		ledgerService = ledger.NewService(
			store.New(db),
			ledger.NewSequencer(cfg.Invoice.PurchasePrefix, cfg.Invoice.SellPrefix),
		)
		renderer = pdf.NewRenderer(cfg.Business.Name, cfg.Business.Phone, cfg.Business.Currency)
	)

	var (
		transactionH = txHandler.NewHandler(ledgerService, renderer)
		reportsH     = reportHandler.NewHandler(ledgerService, renderer)
		importH      = importHandler.NewHandler(legacyimport.New(), ledgerService)
	)

	router := ledgerHttp.New(transactionH, reportsH, importH, cfg.Auth.JWTSecret)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
