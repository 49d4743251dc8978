package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v4/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mtgrater/mtgrater/internal/adapters/http/api"
	"github.com/mtgrater/mtgrater/internal/adapters/repository"
	"github.com/mtgrater/mtgrater/internal/adapters/scryfall"
	"github.com/mtgrater/mtgrater/internal/app"
	"github.com/mtgrater/mtgrater/internal/config"
	"github.com/mtgrater/mtgrater/internal/domain/catalog"
	"github.com/mtgrater/mtgrater/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		// Logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	db, err := openDatabase(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "database connection failed", logger.Error(err))
		return
	}

	store := repository.NewPostgresStore(db)
	if err := store.Migrate(ctx); err != nil {
		log.Error(ctx, "schema migration failed", logger.Error(err))
		return
	}

	index, err := catalog.Load(ctx, cfg.CollectionsPath)
	if err != nil {
		log.Error(ctx, "catalog load failed", logger.Error(err))
		return
	}

	fetcher := scryfall.NewClient(
		scryfall.WithBaseURL(cfg.ScryfallBaseURL),
		scryfall.WithTimeout(time.Duration(cfg.ScryfallTimeoutS)*time.Second),
		scryfall.WithPageDelay(time.Duration(cfg.ScryfallPageDelayMS)*time.Millisecond),
		scryfall.WithLogger(logger.Named("scryfall")),
	)

	svc := app.New(index, store,
		app.WithLogger(log),
		app.WithGateCapacity(cfg.ThrottleSize),
		app.WithNewCardCeiling(cfg.NewCardCeiling),
		app.WithFetcher(fetcher),
		app.WithSeedWorkers(cfg.SeedWorkers),
	)

	if cfg.SeedOnStart {
		log.Info(ctx, "seeding catalog", logger.Int("collections", index.Size()))
		if err := svc.SeedCatalog(ctx); err != nil {
			log.Error(ctx, "catalog seeding failed", logger.Error(err))
			return
		}
	}

	// HTTP mux and routes.
	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// openDatabase connects to Postgres, creating the target database on first
// boot, and applies the configured pool limits.
func openDatabase(ctx context.Context, cfg *config.Config, log logger.Logger) (*gorm.DB, error) {
	gcfg := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), gcfg)
	if err != nil {
		// 3D000 is Postgres for an unknown database.
		if strings.Contains(err.Error(), "does not exist") || strings.Contains(err.Error(), "3D000") {
			log.Info(ctx, "target database missing; creating it")
			if e := ensureDatabaseExists(cfg.DatabaseDSN); e != nil {
				return nil, e
			}
			db, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), gcfg)
		}
		if err != nil {
			return nil, err
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMins) * time.Minute)

	return db, nil
}

// ensureDatabaseExists connects to the admin database and creates the DSN's
// target database when absent. Idempotent across restarts.
func ensureDatabaseExists(dsn string) error {
	u, err := url.Parse(dsn)
	if err != nil {
		return err
	}
	dbname := strings.TrimPrefix(u.Path, "/")
	if idx := strings.Index(dbname, "?"); idx >= 0 {
		dbname = dbname[:idx]
	}
	dbname = strings.TrimSpace(dbname)
	if dbname == "" || dbname == "postgres" {
		return nil
	}
	u.Path = "/postgres"

	db, err := sql.Open("pgx", u.String())
	if err != nil {
		return err
	}
	defer func() {
		_ = db.Close()
	}()

	err = db.QueryRow("SELECT 1 FROM pg_database WHERE datname = $1", dbname).Scan(new(int))
	if errors.Is(err, sql.ErrNoRows) {
		_, err = db.Exec(`CREATE DATABASE "` + strings.ReplaceAll(dbname, `"`, `""`) + `"`)
		return err
	}
	return err
}
