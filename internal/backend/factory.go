package backend

import (
	"context"
	"errors"
	"fmt"

	"budget/internal/amqp"
	"budget/internal/log"
	"budget/internal/storage"
	"budget/internal/store"
	"budget/internal/store/memory"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend. An unreachable AMQP broker
// is logged and leaves Publisher nil; storage failures are returned.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		st      store.Store
		closeSt func() error
		err     error
	)
	switch config.Type {
	case SQLiteBackend:
		st, closeSt, err = f.createSQLiteStore(ctx, config)
	case PostgresBackend:
		st, closeSt, err = f.createPostgresStore(ctx, config)
	case MemoryBackend:
		st, err = f.createMemoryStore(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	result := &BackendResult{Store: st}
	client := f.createPublisher(ctx, config)
	if client != nil {
		result.Publisher = client
	}

	result.Cleanup = func() error {
		var errs []error
		if client != nil {
			if err := client.Close(); err != nil {
				errs = append(errs, fmt.Errorf("amqp: %w", err))
			}
		}
		if closeSt != nil {
			if err := closeSt(); err != nil {
				errs = append(errs, fmt.Errorf("storage: %w", err))
			}
		}
		return errors.Join(errs...)
	}
	return result, nil
}

func (f *DefaultFactory) createSQLiteStore(ctx context.Context, config Config) (store.Store, func() error, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}
	f.logger.InfoContext(ctx, "Initialized SQLite backend", "db_path", config.SQLiteDBPath)
	return repo, repo.Close, nil
}

func (f *DefaultFactory) createPostgresStore(ctx context.Context, config Config) (store.Store, func() error, error) {
	repo, err := storage.NewPostgresRepository(config.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize PostgreSQL repository: %w", err)
	}
	f.logger.InfoContext(ctx, "Initialized PostgreSQL backend")
	return repo, repo.Close, nil
}

func (f *DefaultFactory) createMemoryStore(ctx context.Context, config Config) (store.Store, error) {
	dataDir := config.DataDirectory
	if dataDir == "" {
		dataDir = "data"
	}

	st, err := memory.NewFromFiles(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to seed memory backend: %w", err)
	}
	f.logger.InfoContext(ctx, "Initialized memory backend", "data_directory", dataDir)
	return st, nil
}

func (f *DefaultFactory) createPublisher(ctx context.Context, config Config) *amqp.Client {
	if config.AMQPURL == "" {
		return nil
	}
	client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue, f.logger)
	if err != nil {
		f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without events", log.FieldError, err)
		return nil
	}
	f.logger.InfoContext(ctx, "Initialized AMQP client",
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)
	return client
}
