package config

import (
	"context"
	"fmt"
	"time"

	"github.com/anonto42/inkwell/backend/internal/repositories"
	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB holds the database connection for the configured storage driver.
// Exactly one of SQL and Mongo is set.
type DB struct {
	SQL           *gorm.DB
	Mongo         *mongo.Client
	mongoDatabase string
}

// InitDB connects to the configured store and prepares its schema
func InitDB(ctx context.Context, cfg *Config) (*DB, error) {
	switch cfg.StorageDriver {
	case DriverMongo:
		client, err := initMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		if err := repositories.EnsureMongoIndexes(ctx, client.Database(cfg.MongoDatabase)); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &DB{Mongo: client, mongoDatabase: cfg.MongoDatabase}, nil

	case DriverPostgres:
		db, err := openGorm(postgres.Open(cfg.PostgresConnStr))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		log.Info().Msg("Successfully connected to PostgreSQL!")
		return migrated(db)

	case DriverSQLite:
		db, err := OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite: %w", err)
		}
		log.Info().Str("path", cfg.SQLitePath).Msg("Successfully opened SQLite!")
		return migrated(db)
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}

// OpenSQLite opens an SQLite database; ":memory:" gives a private in-memory store.
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := openGorm(sqlite.Open(path))
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// SQLite allows a single writer; one connection also keeps ":memory:" shared.
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

func openGorm(dialector gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	// Ping the database to verify connection
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err = sqlDB.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

func migrated(db *gorm.DB) (*DB, error) {
	if err := repositories.MigrateGorm(db); err != nil {
		return nil, fmt.Errorf("failed to auto migrate models: %w", err)
	}
	log.Info().Msg("SQL auto-migrations completed for all models.")
	return &DB{SQL: db}, nil
}

// initMongo initializes the MongoDB connection
func initMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	clientOptions := options.Client().ApplyURI(uri)
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	// Ping the primary to verify connection
	if err = client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	log.Info().Msg("Successfully connected to MongoDB!")
	return client, nil
}

// Repositories returns the repository set backed by the open connection
func (db *DB) Repositories() repositories.Repositories {
	if db.Mongo != nil {
		return repositories.NewMongoRepositories(db.Mongo.Database(db.mongoDatabase))
	}
	return repositories.NewGormRepositories(db.SQL)
}

// CloseDB closes the database connections
func (db *DB) CloseDB() {
	if db.SQL != nil {
		sqlDB, err := db.SQL.DB()
		if err != nil {
			log.Error().Err(err).Msg("Error getting SQL DB from GORM")
		} else if err := sqlDB.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing SQL connection")
		} else {
			log.Info().Msg("SQL connection closed.")
		}
	}

	if db.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Mongo.Disconnect(ctx); err != nil {
			log.Error().Err(err).Msg("Error closing MongoDB connection")
		} else {
			log.Info().Msg("MongoDB connection closed.")
		}
	}
}
