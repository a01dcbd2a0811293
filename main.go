package main

import (
	"context"
	"fmt"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm/logger"

	"github.com/rpupo63/portfolio-content-backend/api"
	"github.com/rpupo63/portfolio-content-backend/config"
	"github.com/rpupo63/portfolio-content-backend/content"
	"github.com/rpupo63/portfolio-content-backend/database"
	"github.com/rpupo63/portfolio-content-backend/repository"
	"github.com/rpupo63/portfolio-content-backend/storage"
)

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
	log.Info().Msg("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("Error loading .env file")
	}

	settings, err := config.Load(config.New())
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	log.Info().Str("dbType", settings.Database.Type).Msg("Configuration loaded")

	ctx := context.Background()
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	resolver := content.NewAssetResolver(settings.Storage.PublicBaseURL)
	dataset := content.EmbeddedDataset()
	if settings.FallbackDatasetPath != "" {
		dataset = content.FileDataset(settings.FallbackDatasetPath)
	}

	opts := repository.Options{
		Fallback:     content.NewFallbackLoader(dataset, resolver),
		Resolver:     resolver,
		RelatedLimit: settings.RelatedProjectsLimit,
		Metrics:      repository.NewMetrics(registry),
		Logger:       log.Logger,
	}
	pinger, exit, err := connectPrimaryStore(settings, &opts, openDatabase)
	if err != nil {
		log.Fatal().Err(err).Msg("Error preparing primary store")
	}
	if exit {
		return
	}

	if settings.Storage.Enabled() {
		store, err := storage.NewS3(ctx, storage.Config{
			Bucket:          settings.Storage.Bucket,
			Region:          settings.Storage.Region,
			Endpoint:        settings.Storage.Endpoint,
			AccessKeyID:     settings.Storage.AccessKeyID,
			SecretAccessKey: settings.Storage.SecretAccessKey,
			PathStyle:       settings.Storage.PathStyle,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Error configuring object storage")
		}
		opts.Objects = store
	}

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(settings.Server, api.Dependencies{
		Repository: repository.New(opts),
		Pinger:     pinger,
		Gatherer:   registry,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// connectPrimaryStore wires the database into opts. An unreachable store is
// not fatal: reads degrade to the fallback dataset. It reports exit=true once
// a one-shot schema report has been written.
func connectPrimaryStore(settings config.Settings, opts *repository.Options, open func(config.Database) (database.Database, error)) (pinger api.Pinger, exit bool, err error) {
	if settings.Database.Type == config.DBTypeNone {
		log.Warn().Msg("DB_TYPE=none: serving the fallback dataset only")
		return nil, false, nil
	}

	currentDB, err := open(settings.Database)
	if err != nil {
		if settings.AutoMigrate || settings.GenerateSchemaReport {
			return nil, false, err
		}
		log.Warn().Err(err).Msg("Primary store unreachable: serving the fallback dataset")
		return nil, false, nil
	}

	if settings.AutoMigrate {
		log.Info().Msg("Migrating content tables...")
		if err := currentDB.Migrate(); err != nil {
			return nil, false, fmt.Errorf("migrate: %w", err)
		}
	}

	// If generating the schema report, run it and exit
	if settings.GenerateSchemaReport {
		log.Info().Msg("Generating schema drift report...")
		if err := currentDB.WriteSchemaReport(os.Stdout); err != nil {
			return nil, false, fmt.Errorf("schema report: %w", err)
		}
		return nil, true, nil
	}

	opts.Projects = currentDB.ProjectRepo()
	opts.Assets = currentDB.ProjectAssetRepo()
	return currentDB, false, nil
}

func openDatabase(settings config.Database) (database.Database, error) {
	newLogger := logger.New(
		stdlog.New(os.Stdout, "\r\n", stdlog.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := database.Open(database.Options{
		DSN:         settings.DSN,
		ReplicaDSNs: settings.ReplicaDSNs,
		Logger:      newLogger,
	})
	if err != nil {
		return database.Database{}, fmt.Errorf("open %s database: %w", settings.Type, err)
	}
	return database.New(db), nil
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
