package container

import (
	"context"
	"fmt"

	"gridimport/adapters/excel"
	"gridimport/adapters/memory"
	"gridimport/adapters/postgres"
	"gridimport/app"
	"gridimport/internal"
	"gridimport/internal/api"
	"gridimport/internal/coercion"
	"gridimport/internal/config"
	"gridimport/internal/errors"
	"gridimport/internal/guess"
	"gridimport/internal/migration"
	"gridimport/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// imports kept when no database is configured
const memoryCapacity = 1000

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	DB *sqlx.DB

	// Repositories (data access layer)
	ImportRepo ports.ImportRepository

	// Import pipeline
	Reader        *excel.Reader
	Engine        *coercion.Engine
	ImportService *app.ImportService
	SSEHub        *api.SSEHub
}

// New creates a container that keeps imports in memory. Call
// ConnectDatabase to switch to Postgres.
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))
	}

	c := &Container{
		Config:     cfg,
		Logger:     logger,
		ImportRepo: memory.NewImportRepository(memoryCapacity),
		Reader:     excel.NewReader(excel.DefaultReaderConfig(), logger),
		Engine: coercion.NewEngine(coercion.Config{
			HeaderRow: cfg.Import.HeaderRow,
			Workers:   cfg.Import.Workers,
		}, logger),
		SSEHub: api.NewSSEHub(logger),
	}
	c.initImportService()
	return c, nil
}

func (c *Container) initImportService() {
	options := app.ImportOptions{
		GuessCSV:  c.Config.Import.GuessCSV,
		GuessXLSX: c.Config.Import.GuessXLSX,
	}
	c.ImportService = app.NewImportService(
		c.Reader, c.Engine, guess.NewGuesser(guess.DefaultConfig()), c.ImportRepo, options, c.Logger,
	).WithEvents(c.SSEHub)
}

// ConnectDatabase opens the configured database, migrates it and stores
// imports there. It does nothing when no DATABASE_URL is set.
func (c *Container) ConnectDatabase(ctx context.Context) error {
	if !c.Config.Database.Enabled() {
		c.Logger.Info("[Container] no DATABASE_URL, imports are kept in memory")
		return nil
	}

	db, err := sqlx.ConnectContext(ctx, "postgres", c.Config.Database.URL)
	if err != nil {
		return errors.DatabaseError("failed to connect to database", err)
	}
	db.SetMaxOpenConns(c.Config.Database.MaxOpenConns)
	db.SetMaxIdleConns(c.Config.Database.MaxIdleConns)
	db.SetConnMaxLifetime(c.Config.Database.ConnMaxLifetime)

	if err := c.InitWithDatabase(ctx, db); err != nil {
		db.Close()
		return err
	}
	return nil
}

// InitWithDatabase migrates db and switches the import repository to it
func (c *Container) InitWithDatabase(ctx context.Context, db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}
	if err := db.PingContext(ctx); err != nil {
		return errors.DatabaseError("database connection test failed", err)
	}
	if err := migration.NewRunner().Run(ctx, db); err != nil {
		return errors.Wrap(err, "database migration failed")
	}

	c.DB = db
	c.ImportRepo = postgres.NewImportRepository(db)
	c.initImportService()

	c.Logger.Info("[Container] imports are stored in Postgres")
	return nil
}

// Server builds the HTTP server over the import service
func (c *Container) Server() *api.Server {
	return api.NewServer(c.ImportService, c.SSEHub, api.Config{
		MaxUploadBytes: c.Config.Import.MaxUploadBytes,
		MaxConcurrent:  c.Config.Import.MaxConcurrent,
		UploadDir:      c.Config.Import.UploadDir,
	}, c.Logger)
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	if c.SSEHub != nil {
		c.SSEHub.Close()
	}
	_ = c.Logger.Sync()

	// Close database connection
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
