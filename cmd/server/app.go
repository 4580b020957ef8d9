package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver

	"github.com/studyflow/studyflow-api/internal/config"
	"github.com/studyflow/studyflow-api/internal/platform/logger"
	"github.com/studyflow/studyflow-api/internal/platform/postgres"
	"github.com/studyflow/studyflow-api/internal/service"
	"github.com/studyflow/studyflow-api/internal/service/auth"
	"github.com/studyflow/studyflow-api/internal/store"
)

// application holds the initialized dependency graph of the server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore store.UserStore
	planStore store.PlanStore
	execStore store.ExecutionStore

	jwtService     auth.JWTService
	passwordHasher auth.PasswordHasher

	generatorService service.GeneratorService
	planService      service.PlanService
	userService      service.UserService
	streakService    *service.StreakService
}

// initializeApp loads configuration and builds the application's
// dependency graph: logging, database, stores, and services.
func initializeApp() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	db, err := openDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := postgres.MigrateUp(db, appLogger); err != nil {
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	app := &application{
		config: cfg,
		logger: appLogger,
		db:     db,
	}

	app.userStore = postgres.NewPostgresUserStore(db, appLogger)
	app.planStore = postgres.NewPostgresPlanStore(db, appLogger)
	app.execStore = postgres.NewPostgresExecutionStore(db, appLogger)

	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}
	app.passwordHasher = auth.NewBcryptHasher(cfg.Auth.BcryptCost)

	app.generatorService, err = service.NewGeneratorService(app.planStore, app.execStore, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create generator service: %w", err)
	}

	app.streakService, err = service.NewStreakService(app.userStore, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create streak service: %w", err)
	}

	app.planService, err = service.NewPlanService(
		app.userStore,
		app.planStore,
		app.execStore,
		app.generatorService,
		app.streakService,
		appLogger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create plan service: %w", err)
	}

	app.userService, err = service.NewUserService(
		app.userStore,
		app.passwordHasher,
		app.jwtService,
		appLogger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	appLogger.Info("application initialized", "port", cfg.Server.Port)
	return app, nil
}

// openDatabase opens and verifies the PostgreSQL connection pool.
func openDatabase(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", "error", err)
		}
	}
}
