package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/recyclerie/caisse-backend/internal/backend"
	"github.com/recyclerie/caisse-backend/internal/config"
	"github.com/recyclerie/caisse-backend/internal/modules/audit"
	"github.com/recyclerie/caisse-backend/internal/modules/auth"
	"github.com/recyclerie/caisse-backend/internal/modules/cart"
	"github.com/recyclerie/caisse-backend/internal/modules/category"
	"github.com/recyclerie/caisse-backend/internal/modules/legacyimport"
	"github.com/recyclerie/caisse-backend/internal/modules/operator"
	"github.com/recyclerie/caisse-backend/internal/modules/sale"
	"github.com/recyclerie/caisse-backend/internal/modules/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	// ── Collaborators: central backend or local database ────────
	var (
		sessionBackend session.Backend
		saleRecorder   sale.Recorder
		auditSink      audit.Sink
		categoryRepo   category.Repository
	)
	var db *sql.DB

	switch cfg.Mode {
	case config.ModeStandalone:
		db, err = sql.Open("postgres", cfg.PostgresURL)
		if err != nil {
			log.Fatal(err)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			log.Fatal(err)
		}
		if err := runMigrations(db, cfg.MigrationsDir); err != nil {
			log.Fatal(err)
		}
		logger.Info("standalone mode: using local database")

		sessionBackend = session.NewPostgresBackend(db)
		saleRecorder = sale.NewPostgresRecorder(db)
		auditSink = audit.NewPostgresSink(db)
		categoryRepo = category.NewPostgresRepository(db)

	case config.ModeConnected:
		api := backend.NewClient(cfg.BackendBaseURL, cfg.BackendToken, cfg.BackendTimeout)
		logger.Info("connected mode", zap.String("backend", cfg.BackendBaseURL))

		sessionBackend = session.NewHTTPBackend(api)
		saleRecorder = sale.NewHTTPRecorder(api)
		auditSink = audit.NewHTTPSink(api)
		categoryRepo = category.NewHTTPRepository(api)
	}

	// ── Active-session cache ────────────────────────────────────
	var sessionCache session.Cache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		sessionCache = session.NewRedisCache(rdb)
	} else {
		sessionCache = session.NewFileCache(cfg.SessionCacheFile)
	}

	// ── Register store ──────────────────────────────────────────
	auditLogger := audit.NewLogger(auditSink, logger)
	sessions := session.NewManager(sessionBackend, sessionCache, logger)
	cartStore := cart.NewStore(auditLogger, sessions, logger)
	engine := sale.NewEngine(saleRecorder, sessions, cartStore, auditLogger, logger)

	// re-validate any session cached by a previous run
	sessions.Refresh(context.Background())

	// ── Router ──────────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)

	identity := session.Identity{RegisterID: cfg.RegisterID, SiteID: cfg.SiteID}
	session.NewHandler(sessions, identity).RegisterRoutes(router)
	cart.NewHandler(cartStore).RegisterRoutes(router)
	sale.NewHandler(engine, saleRecorder).RegisterRoutes(router)
	audit.NewHandler(auditSink).RegisterRoutes(router)

	categoryService := category.NewService(categoryRepo)
	category.NewHandler(categoryService).RegisterRoutes(router)

	// operator login and legacy import need the local database
	if db != nil {
		guard := auth.RequireToken(cfg.JWTSecret)

		operatorRepo := operator.NewPostgresRepository(db)
		operatorService := operator.NewService(operatorRepo, cfg.JWTSecret)
		operator.NewHandler(operatorService, guard).RegisterRoutes(router)

		importer := legacyimport.NewImporter(saleRecorder, categoryRepo, logger)
		legacyimport.NewHandler(importer, guard).RegisterRoutes(router)
	}

	// ── Start Server ────────────────────────────────────────────
	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	logger.Info("caisse backend listening", zap.String("addr", addr))
	err = http.ListenAndServe(addr, router)
	auditLogger.Drain()
	log.Fatal(err)
}

func runMigrations(db *sql.DB, dir string) error {
	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("could not create migrate driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+dir, "postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}
	return nil
}
