// Package app wires configuration into the stores, generator and publisher
// shared by the tourism CLI and the dashboard service.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	kafkaadapter "github.com/couchcryptid/tourism-intel/internal/adapter/kafka"
	"github.com/couchcryptid/tourism-intel/internal/adapter/memory"
	"github.com/couchcryptid/tourism-intel/internal/adapter/mongo"
	"github.com/couchcryptid/tourism-intel/internal/config"
	"github.com/couchcryptid/tourism-intel/internal/domain"
	"github.com/couchcryptid/tourism-intel/internal/observability"
	"github.com/couchcryptid/tourism-intel/internal/pipeline"
)

const connectAttempts = 3

// CloseFunc releases a store.
type CloseFunc func(ctx context.Context) error

func noopClose(context.Context) error { return nil }

// OpenStore returns the store selected by STORE_BACKEND, using the given
// Mongo database name for the mongo backend.
func OpenStore(ctx context.Context, cfg *config.Config, database string, logger *slog.Logger) (domain.Store, CloseFunc, error) {
	if cfg.StoreBackend == config.BackendMemory {
		logger.Info("using in-memory store")
		return memory.New(), noopClose, nil
	}

	var store *mongo.Store
	err := pipeline.Retry(ctx, logger, "connect mongo", connectAttempts, func(ctx context.Context) error {
		var err error
		store, err = mongo.Connect(ctx, cfg.MongoURI, database, cfg.MongoTimeout, logger)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	logger.Info("connected to mongo", "database", database)
	return store, store.Close, nil
}

// OpenStoreOrMemory behaves like OpenStore but falls back to an in-memory
// store, with a warning, when Mongo cannot be reached.
func OpenStoreOrMemory(ctx context.Context, cfg *config.Config, database string, logger *slog.Logger) (domain.Store, CloseFunc) {
	store, closeFn, err := OpenStore(ctx, cfg, database, logger)
	if err != nil {
		logger.Warn("store unavailable, falling back to in-memory store", "error", err)
		return memory.New(), noopClose
	}
	return store, closeFn
}

// NewGenerator builds the series generator from PROFILES_FILE, or from the
// built-in profiles when none is configured.
func NewGenerator(cfg *config.Config) (*domain.Generator, error) {
	if cfg.ProfilesFile == "" {
		return domain.NewGenerator()
	}
	f, err := os.Open(cfg.ProfilesFile)
	if err != nil {
		return nil, fmt.Errorf("open profiles: %w", err)
	}
	defer f.Close()

	profiles, err := domain.LoadProfiles(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.ProfilesFile, err)
	}
	return domain.NewGenerator(profiles...)
}

// NewSeeder assembles a seeder over store. When Kafka is enabled the
// returned close function also closes the publisher.
func NewSeeder(cfg *config.Config, gen *domain.Generator, store domain.Store, logger *slog.Logger, metrics *observability.Metrics, force bool) (*pipeline.Seeder, func() error) {
	opts := pipeline.Options{
		Seed:       cfg.Seed,
		MonthCount: cfg.MonthCount,
		StartDate:  cfg.StartDate,
		Force:      force,
	}
	if !cfg.KafkaEnabled {
		return pipeline.NewSeeder(gen, store, logger, metrics, opts), func() error { return nil }
	}

	writer := kafkaadapter.NewWriter(cfg, logger, metrics)
	logger.Info("kafka publishing enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	return pipeline.NewSeeder(gen, store, logger, metrics, opts, pipeline.WithPublisher(writer)), writer.Close
}
