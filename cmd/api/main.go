package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"validator-engine/internal/adapter/callback"
	httpadp "validator-engine/internal/adapter/http"
	"validator-engine/internal/adapter/middleware"
	"validator-engine/internal/adapter/repository/mysql"
	"validator-engine/internal/checks"
	"validator-engine/internal/config"
	ledgerDomain "validator-engine/internal/domain/ledger"
	"validator-engine/internal/infrastructure/cache"
	"validator-engine/internal/infrastructure/collab"
	"validator-engine/internal/infrastructure/db"
	"validator-engine/internal/infrastructure/storage"
	ledgeruc "validator-engine/internal/usecase/ledger"
	"validator-engine/internal/usecase/validation"
)

func main() {
	_ = godotenv.Load()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid config", slog.Any("error", err))
		os.Exit(1)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Error("mysql unavailable", slog.Any("error", err))
		os.Exit(1)
	}
	if err := gdb.AutoMigrate(&ledgerDomain.Entry{}); err != nil {
		log.Error("ledger migration failed", slog.Any("error", err))
		os.Exit(1)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		log.Error("redis unavailable", slog.Any("error", err))
		os.Exit(1)
	}

	ledgerSvc := ledgeruc.NewService(mysql.NewLedgerRepository(gdb), log)
	if err := ledgerSvc.Resume(context.Background()); err != nil {
		log.Error("ledger resume failed", slog.Any("error", err))
		os.Exit(1)
	}

	monitor := ledgeruc.NewMonitor(ledgerSvc,
		time.Duration(cfg.LedgerVerifyMins)*time.Minute, log)
	monitor.Start(context.Background())
	defer monitor.Stop()

	fetcher := storage.NewHTTPFetcher(cfg.StorageBaseURL,
		time.Duration(cfg.FetchTimeoutSecs)*time.Second)

	uc := validation.NewUsecase(validation.Checks{
		ExifExtraction: checks.ExifExtraction{Fetcher: fetcher, Reader: collab.StubExifReader{Log: log}, Log: log},
		ExifHints:      checks.ExifHints{},
		GPS:            checks.GPS{Distance: checks.Haversine},
		TimeWindow:     checks.TimeWindow{},
		Forensics:      checks.Forensics{Fetcher: fetcher, Estimator: collab.StubQualityEstimator{Log: log}, Log: log},
		Duplicate:      checks.Duplicate{Fetcher: fetcher, Hasher: collab.StubHasher{Log: log}, Store: cache.NewPhashStore(rdb), Log: log},
		Tampering:      checks.Tampering{Fetcher: fetcher, Analyzer: collab.StubTamperAnalyzer{Log: log}, Log: log},
		Classifier:     checks.AssetClassifier{Fetcher: fetcher, Classifier: collab.StubClassifier{Log: log}, Log: log},
		Invoice:        checks.Invoice{Fetcher: fetcher, Reader: collab.StubTextReader{Log: log}, Log: log},
		Media:          checks.MediaRequirements{},
	},
		ledgerSvc,
		callback.NewNotifier(cfg.BackendURL, time.Duration(cfg.CallbackTimeoutSecs)*time.Second, log),
		log,
	)

	h := httpadp.NewHandler()
	vh := httpadp.NewValidateHandler(uc)
	lh := httpadp.NewLedgerHandler(ledgerSvc)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	// routes
	e.GET("/health", h.Health)
	e.POST("/validate", vh.Validate,
		middleware.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second))
	e.GET("/ledger", lh.Read)
	e.GET("/ledger/verify", lh.Verify)

	addr := ":" + cfg.AppPort
	log.Info("listening", slog.String("addr", addr))
	if err := e.Start(addr); err != nil {
		log.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
