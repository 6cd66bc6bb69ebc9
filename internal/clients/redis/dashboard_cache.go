package redis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dealflowhq/dealflow-backend/internal/logger"
	"github.com/dealflowhq/dealflow-backend/internal/utils"
)

// DashboardCache is a read-through cache for computed dashboard
// payloads. Entries expire on a short TTL rather than being invalidated
// on write, so a hit may be at most one TTL behind the store.
type DashboardCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, payload []byte) error
	Close() error
}

type dashboardCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

// NewDashboardCache connects to REDIS_ADDR. A missing address is an
// error; the caller decides whether to run without caching.
func NewDashboardCache(log *logger.Logger) (DashboardCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ttlSeconds := utils.GetEnvAsInt("DASHBOARD_CACHE_TTL", 30, log)

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &dashboardCache{
		log: log.With("service", "RedisDashboardCache"),
		rdb: rdb,
		ttl: time.Duration(ttlSeconds) * time.Second,
	}, nil
}

func (c *dashboardCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if c == nil || c.rdb == nil {
		return nil, false, fmt.Errorf("dashboard cache not initialized")
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

func (c *dashboardCache) Set(ctx context.Context, key string, payload []byte) error {
	if c == nil || c.rdb == nil {
		return fmt.Errorf("dashboard cache not initialized")
	}
	return c.rdb.Set(ctx, key, payload, c.ttl).Err()
}

func (c *dashboardCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
