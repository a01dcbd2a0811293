package database

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rpupo63/portfolio-content-backend/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

// Options configures Open.
type Options struct {
	DSN         string
	ReplicaDSNs []string
	Logger      logger.Interface
}

// Open connects to the primary Postgres database, registers read replicas
// when given and checks the connection.
func Open(opts Options) (*gorm.DB, error) {
	if opts.DSN == "" {
		return nil, errors.New("database DSN is empty")
	}
	db, err := gorm.Open(dialector(opts.DSN), &gorm.Config{
		PrepareStmt: false,
		Logger:      opts.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if len(opts.ReplicaDSNs) > 0 {
		replicas := make([]gorm.Dialector, 0, len(opts.ReplicaDSNs))
		for _, dsn := range opts.ReplicaDSNs {
			replicas = append(replicas, dialector(dsn))
		}
		err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.RandomPolicy{},
		}))
		if err != nil {
			return nil, fmt.Errorf("register read replicas: %w", err)
		}
	}

	// Test database connection
	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		return nil, fmt.Errorf("test database connection: %w", err)
	}
	return db, nil
}

func dialector(dsn string) gorm.Dialector {
	return postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	})
}

type Database struct {
	db               *gorm.DB
	projectRepo      *ProjectRepo
	projectAssetRepo *ProjectAssetRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:               db,
		projectRepo:      NewProjectRepo(db),
		projectAssetRepo: NewProjectAssetRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) ProjectAssetRepo() *ProjectAssetRepo {
	return d.projectAssetRepo
}

// Ping checks that the primary database answers.
func (d Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Migrate creates or extends the content tables.
func (d Database) Migrate() error {
	return models.Migrate(d.db)
}

// WriteSchemaReport compares the models with the live schema and writes the report to w.
func (d Database) WriteSchemaReport(w io.Writer) error {
	drift, err := models.DetectDrift(d.db)
	if err != nil {
		return err
	}
	models.WriteDriftReport(w, drift)
	return nil
}
