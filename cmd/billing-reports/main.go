package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/nurpe/billing-reports/internal/auth"
	"github.com/nurpe/billing-reports/internal/config"
	"github.com/nurpe/billing-reports/internal/db"
	"github.com/nurpe/billing-reports/internal/excel"
	httphandler "github.com/nurpe/billing-reports/internal/http"
	"github.com/nurpe/billing-reports/internal/http/middleware"
	"github.com/nurpe/billing-reports/internal/logger"
	"github.com/nurpe/billing-reports/internal/metrics"
	"github.com/nurpe/billing-reports/internal/pdf"
	"github.com/nurpe/billing-reports/internal/repository"
	"github.com/nurpe/billing-reports/internal/repository/memory"
	"github.com/nurpe/billing-reports/internal/service"
)

type stores struct {
	bills     service.BillStore
	contracts service.ContractStore
	audit     service.AuditStore
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)
	metrics.Init()

	st, err := openStores(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	reportService := service.NewReportService(st.bills, st.contracts, st.audit, log,
		service.WithLocation(cfg.Reports.Location),
		service.WithRenderer(service.ExportFormatXLSX, excel.NewGenerator()),
		service.WithRenderer(service.ExportFormatPDF, pdf.NewGenerator()),
	)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(reportService, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment, cfg.HTTP.AllowedOrigins)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Str("store", cfg.DB.Driver).Msg("starting billing reports service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}

func openStores(cfg *config.Config, log zerolog.Logger) (stores, error) {
	if cfg.DB.Driver == config.StoreDriverMemory {
		store := memory.NewStore()
		return stores{bills: store, contracts: store, audit: store}, nil
	}

	database, err := db.New(cfg, log)
	if err != nil {
		return stores{}, err
	}
	return stores{
		bills:     repository.NewBillRepository(database),
		contracts: repository.NewContractRepository(database),
		audit:     repository.NewAuditRepository(database),
	}, nil
}
