package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fieldops/config"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/valkey-io/valkey-go"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

type CacheClient valkey.Client

type Cache struct {
	General CacheClient
	User    CacheClient
	Order   CacheClient
	Events  CacheClient
}

type DB struct {
	SQL   *gorm.DB
	Cache Cache
	log   logger.Logger
}

func New(config config.Config) (DB, error) {
	log := logger.New("database").Function("New")

	log.Info("Initializing database")
	db := &DB{log: log}

	err := db.initializeDB(config)
	if err != nil {
		return DB{}, log.Err("failed to initialize database", err)
	}

	err = db.initializeCacheDB(config)
	if err != nil {
		return DB{}, log.Err("failed to initialize cache database", err)
	}

	return *db, nil
}

// NewGormConfig is shared by the server and the migration command.
func NewGormConfig() *gorm.Config {
	return &gorm.Config{
		Logger: gormLogger.New(
			slog.NewLogLogger(slog.Default().Handler(), slog.LevelError),
			gormLogger.Config{
				SlowThreshold:             2 * time.Second,
				LogLevel:                  gormLogger.Error,
				IgnoreRecordNotFoundError: true,
				ParameterizedQueries:      true,
				Colorful:                  false,
			},
		),
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		TranslateError:         true,
	}
}

func (s *DB) initializeDB(config config.Config) error {
	log := s.log.Function("initializeDB")

	if config.DatabaseHost == "" {
		return log.ErrMsg("database host is empty")
	}
	if config.DatabaseName == "" {
		return log.ErrMsg("database name is empty")
	}
	if config.DatabaseUser == "" {
		return log.ErrMsg("database user is empty")
	}

	log.Info(
		"Connecting to PostgreSQL",
		"host", config.DatabaseHost,
		"port", config.DatabasePort,
		"database", config.DatabaseName,
	)
	db, err := gorm.Open(postgres.Open(DSN(config)), NewGormConfig())
	if err != nil {
		return log.Err("failed to open PostgreSQL database with GORM", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return log.Err("failed to get database from GORM", err)
	}

	if err := sqlDB.Ping(); err != nil {
		return log.Err("failed to ping PostgreSQL database through GORM", err)
	}

	log.Info("Successfully connected to PostgreSQL with GORM")
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	s.SQL = db

	return nil
}

func DSN(config config.Config) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		config.DatabaseHost,
		config.DatabasePort,
		config.DatabaseUser,
		config.DatabasePassword,
		config.DatabaseName,
	)
}

func (s *DB) Close() (err error) {
	if s.SQL != nil {
		sqlDB, dbErr := s.SQL.DB()
		if dbErr == nil {
			if closeErr := sqlDB.Close(); closeErr != nil {
				err = s.log.Err("failed to close database", closeErr)
			}
		}
	}

	for _, client := range s.cacheClients() {
		client.client.Close()
	}

	return err
}

func (s *DB) SQLWithContext(ctx context.Context) *gorm.DB {
	return s.SQL.WithContext(ctx)
}

func (s *DB) FlushAllCaches() error {
	log := s.log.Function("FlushAllCaches")
	log.Info("Flushing all cache databases")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, cache := range s.cacheClients() {
		if err := cache.client.Do(ctx, cache.client.B().Flushdb().Build()).Error(); err != nil {
			return log.Err("Failed to flush cache database", err, "cache", cache.name)
		}
		log.Info("Successfully flushed cache database", "cache", cache.name)
	}

	return nil
}

type namedCache struct {
	client CacheClient
	name   string
}

func (s *DB) cacheClients() []namedCache {
	all := []namedCache{
		{s.Cache.General, "General"},
		{s.Cache.User, "User"},
		{s.Cache.Order, "Order"},
		{s.Cache.Events, "Events"},
	}

	clients := make([]namedCache, 0, len(all))
	for _, c := range all {
		if c.client != nil {
			clients = append(clients, c)
		}
	}
	return clients
}
