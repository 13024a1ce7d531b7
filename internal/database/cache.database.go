package database

import (
	"context"
	"fmt"
	"time"

	"fieldops/config"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/valkey-io/valkey-go"
)

// Valkey database indexes, one per cache concern.
const (
	// GENERAL_CACHE_INDEX (DB 0) - miscellaneous short-lived values
	GENERAL_CACHE_INDEX = iota

	// USER_CACHE_INDEX (DB 1) - resolved principals keyed by user id
	USER_CACHE_INDEX

	// ORDER_CACHE_INDEX (DB 2) - order snapshots, invalidated on every mutation
	ORDER_CACHE_INDEX

	// EVENTS_CACHE_INDEX (DB 3) - pub/sub for assignment and completion events
	EVENTS_CACHE_INDEX
)

func (s *DB) initializeCacheDB(config config.Config) error {
	log := s.log.Function("initializeCacheDB")
	log.Info("initializing cache database")

	address := config.DatabaseCacheAddress
	port := config.DatabaseCachePort
	if address == "" || port == 0 {
		return log.Errorf("failed to initialize cache database", "address or port is empty")
	}

	var cacheDB Cache
	clients := []struct {
		target *CacheClient
		index  int
		name   string
	}{
		{&cacheDB.General, GENERAL_CACHE_INDEX, "general"},
		{&cacheDB.User, USER_CACHE_INDEX, "user"},
		{&cacheDB.Order, ORDER_CACHE_INDEX, "order"},
		{&cacheDB.Events, EVENTS_CACHE_INDEX, "events"},
	}

	for _, c := range clients {
		client, err := valkey.NewClient(valkey.ClientOption{
			InitAddress: []string{fmt.Sprintf("%s:%d", address, port)},
			SelectDB:    c.index,
		})
		if err != nil {
			return log.Err("failed to create valkey client", err, "cache", c.name)
		}
		*c.target = client
	}

	s.Cache = cacheDB

	if config.DatabaseCacheReset != -1 {
		go clearCacheDB(config.DatabaseCacheReset, cacheDB)
	}

	return nil
}

func clearCacheDB(index int, cacheDB Cache) {
	log := logger.New("database").File("cache.database").Function("clearCacheDB")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var client CacheClient
	var dbName string

	switch index {
	case GENERAL_CACHE_INDEX:
		client, dbName = cacheDB.General, "General"
	case USER_CACHE_INDEX:
		client, dbName = cacheDB.User, "User"
	case ORDER_CACHE_INDEX:
		client, dbName = cacheDB.Order, "Order"
	case EVENTS_CACHE_INDEX:
		client, dbName = cacheDB.Events, "Events"
	default:
		log.Warn("Invalid cache database index", "index", index)
		return
	}

	if err := client.Do(ctx, client.B().Flushdb().Build()).Error(); err != nil {
		log.Er("Failed to clear cache database", err, "index", index, "dbName", dbName)
		return
	}

	log.Info("Successfully cleared cache database", "index", index, "dbName", dbName)
}
