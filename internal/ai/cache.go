package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const searchKeyPrefix = "beacon:search:"

// CachedSearcher keeps successful search results in redis for ttl. Redis
// failures fall through to the wrapped searcher.
type CachedSearcher struct {
	next   Searcher
	rdb    *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

func NewCachedSearcher(next Searcher, rdb *redis.Client, ttl time.Duration, logger zerolog.Logger) *CachedSearcher {
	return &CachedSearcher{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

// NewRedisClient parses a redis:// URL.
func NewRedisClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}

func (c *CachedSearcher) Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error) {
	key := searchKey(query, maxResults)

	data, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached []SearchResult
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
		c.logger.Warn().Str("key", key).Msg("discarding undecodable cached search results")
	case !errors.Is(err, redis.Nil):
		c.logger.Warn().Err(err).Msg("search cache read failed")
	}

	results, err := c.next.Search(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return results, nil
	}
	if b, err := json.Marshal(results); err == nil {
		if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
			c.logger.Warn().Err(err).Msg("search cache write failed")
		}
	}
	return results, nil
}

func searchKey(query string, maxResults int) string {
	return fmt.Sprintf("%s%d:%016x", searchKeyPrefix, maxResults, hashString(query))
}
