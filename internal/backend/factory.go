package backend

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"fintrack/internal/ledger/memory"
	applog "fintrack/internal/log"
	"fintrack/internal/mongostore"
	"fintrack/internal/storage"
)

const defaultMongoTimeout = 10 * time.Second

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *applog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *applog.Logger) Factory {
	if logger == nil {
		logger = applog.FromContext(context.Background())
	}
	return &DefaultFactory{
		logger: logger.WithComponent(applog.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case MongoBackend:
		return f.createMongoBackend(ctx, config)
	case MemoryBackend:
		return f.createMemoryBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	return &BackendResult{
		Backend: repo,
		Cleanup: func(context.Context) error { return repo.Close() },
	}, nil
}

// mongoBackend adds a readiness probe on top of the repository.
type mongoBackend struct {
	*mongostore.Repository
	client *mongo.Client
}

func (m *mongoBackend) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

func (f *DefaultFactory) createMongoBackend(ctx context.Context, config Config) (*BackendResult, error) {
	timeout := config.MongoTimeout
	if timeout <= 0 {
		timeout = defaultMongoTimeout
	}
	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongostore.Connect(connectCtx, config.MongoURI)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MongoDB backend: %w", err)
	}

	repo := mongostore.NewRepository(mongostore.NewMongoProvider(client, config.MongoDatabase))

	f.logger.Info("Initialized MongoDB backend", "database", config.MongoDatabase)

	return &BackendResult{
		Backend: &mongoBackend{Repository: repo, client: client},
		Cleanup: func(ctx context.Context) error { return client.Disconnect(ctx) },
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(config Config) (*BackendResult, error) {
	dataDir := config.DataDirectory
	if dataDir == "" {
		dataDir = "data"
	}

	store := memory.NewFromFiles(dataDir)

	f.logger.Info("Initialized memory backend", "data_directory", dataDir)

	return &BackendResult{
		Backend: store,
	}, nil
}
