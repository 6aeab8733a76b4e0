// Package main is the entry point for the StockPulse trading simulator.
// It wires the price oracle, forecast engine, and portfolio ledger, then
// serves the HTTP API with background maintenance jobs.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/stockpulse/stockpulse/internal/clients/alphavantage"
	"github.com/stockpulse/stockpulse/internal/clients/yahoo"
	"github.com/stockpulse/stockpulse/internal/config"
	"github.com/stockpulse/stockpulse/internal/database"
	"github.com/stockpulse/stockpulse/internal/domain"
	"github.com/stockpulse/stockpulse/internal/modules/forecast"
	"github.com/stockpulse/stockpulse/internal/modules/ledger"
	"github.com/stockpulse/stockpulse/internal/modules/market"
	"github.com/stockpulse/stockpulse/internal/modules/marketcache"
	"github.com/stockpulse/stockpulse/internal/modules/pricing"
	"github.com/stockpulse/stockpulse/internal/reliability"
	"github.com/stockpulse/stockpulse/internal/scheduler"
	"github.com/stockpulse/stockpulse/internal/server"
	"github.com/stockpulse/stockpulse/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		println("Failed to load configuration:", err.Error())
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().
		Str("data_dir", cfg.DataDir).
		Int("port", cfg.Port).
		Bool("dev_mode", cfg.DevMode).
		Msg("Starting StockPulse")

	accountsDB := mustOpenDatabase(log, cfg.DataDir, "accounts", database.ProfileLedger)
	defer accountsDB.Close()
	marketDataDB := mustOpenDatabase(log, cfg.DataDir, "marketdata", database.ProfileCache)
	defer marketDataDB.Close()
	forecastsDB := mustOpenDatabase(log, cfg.DataDir, "forecasts", database.ProfileStandard)
	defer forecastsDB.Close()

	databases := map[string]*database.DB{
		"accounts":   accountsDB,
		"marketdata": marketDataDB,
		"forecasts":  forecastsDB,
	}

	// Live market data clients. Both are best-effort: the pricing service
	// falls back to deterministic synthetic quotes when they fail.
	yahooClient := yahoo.NewClient(log)
	alphaClient := alphavantage.NewClient(cfg.AlphaVantageAPIKey, log)

	quoteStore := marketcache.NewRepository(marketDataDB.Conn())
	pricingService := pricing.NewService(
		yahooClient,
		alphaClient,
		pricing.NewQuoteCache(cfg.PriceCacheTTL, cfg.PriceCacheSize),
		quoteStore,
		marketcache.TTLQuote,
		log,
	)

	forecastService := forecast.NewService(
		pricingService,
		forecast.NewLinearTrainer(yahooClient),
		forecast.NewRepository(forecastsDB.Conn()),
		log,
	)

	ledgerService := ledger.NewService(
		ledger.NewAccountRepository(accountsDB.Conn()),
		pricingService,
		cfg.StartingBalance,
		log,
	)
	seedDemoAccount(ledgerService, log)

	marketService := market.NewService(yahooClient, log)

	// Optional cloud backups.
	var backupService *reliability.BackupService
	if cfg.Backup.Enabled {
		s3Client, err := reliability.NewS3Client(context.Background(), cfg.Backup, log)
		if err != nil {
			log.Error().Err(err).Msg("Failed to create S3 client, backups disabled")
		} else {
			backupService = reliability.NewBackupService(s3Client, databases, cfg.DataDir, log)
		}
	}

	sched := scheduler.New(log)
	registerJobs(sched, cfg, quoteStore, databases, backupService, log)
	sched.Start()
	defer sched.Stop()

	srv := server.New(server.Config{
		Log:             log,
		Config:          cfg,
		AccountsDB:      accountsDB,
		MarketDataDB:    marketDataDB,
		ForecastsDB:     forecastsDB,
		PricingService:  pricingService,
		ForecastService: forecastService,
		LedgerService:   ledgerService,
		MarketService:   marketService,
		BackupService:   backupService,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	case err := <-errCh:
		log.Error().Err(err).Msg("HTTP server exited")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}

	log.Info().Msg("StockPulse stopped")
}

// seedDemoAccount makes sure a ready-to-use demo login exists so the app
// is explorable on a fresh database.
func seedDemoAccount(ledgerService *ledger.Service, log zerolog.Logger) {
	account, err := ledgerService.Register("demo@stockpulse.in", "Demo User", "demo1234")
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateAccount) {
			return
		}
		log.Warn().Err(err).Msg("Failed to seed demo account")
		return
	}
	log.Info().Str("account_id", account.ID).Msg("Demo account created")
}

func mustOpenDatabase(log zerolog.Logger, dataDir, name string, profile database.DatabaseProfile) *database.DB {
	db, err := database.New(database.Config{
		Path:    filepath.Join(dataDir, name+".db"),
		Profile: profile,
		Name:    name,
	})
	if err != nil {
		log.Fatal().Err(err).Str("database", name).Msg("Failed to open database")
	}

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Str("database", name).Msg("Failed to migrate database")
	}

	log.Info().Str("database", name).Str("profile", string(profile)).Msg("Database ready")
	return db
}

// registerJobs wires the background maintenance schedule:
// expired-quote cleanup hourly, WAL maintenance every 6 hours, and a
// nightly backup at 02:30 when backups are configured.
func registerJobs(
	sched *scheduler.Scheduler,
	cfg *config.Config,
	quoteStore *marketcache.Repository,
	databases map[string]*database.DB,
	backupService *reliability.BackupService,
	log zerolog.Logger,
) {
	if err := sched.AddJob("@hourly", marketcache.NewCleanupJob(quoteStore, log)); err != nil {
		log.Error().Err(err).Msg("Failed to register cache cleanup job")
	}

	if err := sched.AddJob("0 0 */6 * * *", reliability.NewMaintenanceJob(databases, log)); err != nil {
		log.Error().Err(err).Msg("Failed to register maintenance job")
	}

	if backupService != nil {
		backupJob := reliability.NewBackupJob(backupService, cfg.Backup.RetentionDays)
		if err := sched.AddJob("0 30 2 * * *", backupJob); err != nil {
			log.Error().Err(err).Msg("Failed to register backup job")
		}
	}
}
