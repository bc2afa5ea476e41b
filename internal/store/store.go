// Package store opens the record store selected by configuration and exposes
// its user, product and order repositories.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/config"
	"storefront/internal/models"
	"storefront/internal/repositories"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Supported store drivers.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Store bundles the repositories of one backend.
type Store struct {
	Driver   string
	Users    repositories.UserRepository
	Products repositories.ProductRepository
	Orders   repositories.OrderRepository

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

// Ping checks that the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

// Close releases the backend connection.
func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// Open connects to the backend named by cfg.Driver.
func Open(ctx context.Context, cfg config.StoreConfig) (*Store, error) {
	switch cfg.Driver {
	case DriverMongo:
		return openMongo(ctx, cfg)
	case DriverPostgres:
		return openGORM(postgres.Open(cfg.DSN), DriverPostgres)
	case DriverSQLite:
		return openGORM(sqlite.Open(cfg.DSN), DriverSQLite)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// NewMemory returns a process-local store. Data is lost on exit.
func NewMemory() *Store {
	return &Store{
		Driver:   DriverMemory,
		Users:    repositories.NewMemoryUserRepository(),
		Products: repositories.NewMemoryProductRepository(),
		Orders:   repositories.NewMemoryOrderRepository(),
	}
}

// NewGORM wraps an open GORM connection and migrates the schema.
func NewGORM(db *gorm.DB, driver string) (*Store, error) {
	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.Order{}, &models.OrderItem{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	return &Store{
		Driver:   driver,
		Users:    repositories.NewGORMUserRepository(db),
		Products: repositories.NewGORMProductRepository(db),
		Orders:   repositories.NewGORMOrderRepository(db),
		ping:     sqlDB.PingContext,
		close:    func(context.Context) error { return sqlDB.Close() },
	}, nil
}

func openGORM(dialector gorm.Dialector, driver string) (*Store, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	st, err := NewGORM(db, driver)
	if err != nil {
		return nil, err
	}
	log.WithField("driver", driver).Info("Database connected")
	return st, nil
}

func openMongo(ctx context.Context, cfg config.StoreConfig) (*Store, error) {
	if cfg.MongoURI == "" {
		return nil, errors.New("store.mongo_uri is required for the mongo driver")
	}
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(cfg.MongoDatabase)
	if err := repositories.EnsureMongoIndexes(connectCtx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	log.WithField("database", cfg.MongoDatabase).Info("MongoDB connected")

	return &Store{
		Driver:   DriverMongo,
		Users:    repositories.NewMongoUserRepository(db),
		Products: repositories.NewMongoProductRepository(db),
		Orders:   repositories.NewMongoOrderRepository(db),
		ping:     func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) },
		close:    client.Disconnect,
	}, nil
}
