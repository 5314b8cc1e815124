package database

import (
	"context"
	"fmt"
	"time"

	"maidhub/config"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/valkey-io/valkey-go"
)

// Valkey logical database per cache category.
const (
	// GENERAL_CACHE_INDEX (DB 0) - upstream lookups such as place predictions
	GENERAL_CACHE_INDEX = iota

	// USER_CACHE_INDEX (DB 1) - user profiles and per-user counters
	USER_CACHE_INDEX

	// EVENTS_CACHE_INDEX (DB 2) - pub/sub for job channel events
	EVENTS_CACHE_INDEX
)

type CacheClient valkey.Client

type Cache struct {
	General CacheClient
	User    CacheClient
	Events  CacheClient
}

type namedCacheClient struct {
	client *CacheClient
	index  int
	name   string
}

func (c *Cache) clients() []namedCacheClient {
	return []namedCacheClient{
		{&c.General, GENERAL_CACHE_INDEX, "General"},
		{&c.User, USER_CACHE_INDEX, "User"},
		{&c.Events, EVENTS_CACHE_INDEX, "Events"},
	}
}

func (s *DB) initializeCacheDB(config config.Config) error {
	log := s.log.Function("initializeCacheDB")
	log.Info("initializing cache database")

	if config.DatabaseCacheAddress == "" || config.DatabaseCachePort == 0 {
		return log.ErrMsg("cache address or port is empty")
	}
	address := fmt.Sprintf("%s:%d", config.DatabaseCacheAddress, config.DatabaseCachePort)

	var cache Cache
	for _, c := range cache.clients() {
		client, err := valkey.NewClient(valkey.ClientOption{
			InitAddress: []string{address},
			SelectDB:    c.index,
		})
		if err != nil {
			cache.close()
			return log.Err("failed to create valkey client", err, "cache", c.name)
		}
		*c.client = client
	}

	s.Cache = cache

	if config.DatabaseCacheReset != -1 {
		go s.resetCache(config.DatabaseCacheReset)
	}

	return nil
}

// resetCache flushes the logical database at index, used in development to
// start from a cold cache.
func (s *DB) resetCache(index int) {
	log := logger.New("database").File("cache.database").Function("resetCache")

	for _, c := range s.Cache.clients() {
		if c.index != index {
			continue
		}
		if err := flush(*c.client, 5*time.Second); err != nil {
			log.Er("Failed to clear cache database", err, "cache", c.name)
			return
		}
		log.Info("Cleared cache database", "cache", c.name)
		return
	}

	log.Warn("Invalid cache database index", "index", index)
}

func (s *DB) FlushAllCaches() error {
	log := s.log.Function("FlushAllCaches")

	for _, c := range s.Cache.clients() {
		if *c.client == nil {
			continue
		}
		if err := flush(*c.client, 10*time.Second); err != nil {
			return log.Err("Failed to flush cache database", err, "cache", c.name)
		}
		log.Info("Flushed cache database", "cache", c.name)
	}

	return nil
}

func flush(client CacheClient, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return client.Do(ctx, client.B().Flushdb().Build()).Error()
}

func (c *Cache) close() {
	for _, named := range c.clients() {
		if *named.client != nil {
			(*named.client).Close()
		}
	}
}
