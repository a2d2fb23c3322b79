package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"commande-service/internal/models"

	"github.com/go-redis/redis/v8"
)

// Client caches the per-table latest order status, which is the hot path:
// every seated table polls it. Entries expire after a short TTL and are
// dropped eagerly whenever the table's orders change.
type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewClient creates a new Redis client and verifies connectivity.
func NewClient(addr, password string, db int, ttl time.Duration) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb, ttl: ttl}, nil
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}

func tableKey(table string) string {
	return fmt.Sprintf("table-status:%s", table)
}

// GetTableStatus returns the cached status for a table, or nil on a miss.
func (c *Client) GetTableStatus(ctx context.Context, table string) (*models.TableStatus, error) {
	raw, err := c.rdb.Get(ctx, tableKey(table)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var ts models.TableStatus
	if err := json.Unmarshal(raw, &ts); err != nil {
		return nil, fmt.Errorf("failed to decode cached table status: %w", err)
	}
	return &ts, nil
}

// SetTableStatus stores the status for a table with the configured TTL.
func (c *Client) SetTableStatus(ctx context.Context, table string, ts *models.TableStatus) error {
	raw, err := json.Marshal(ts)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, tableKey(table), raw, c.ttl).Err()
}

// InvalidateTable drops the cached status for a table.
func (c *Client) InvalidateTable(ctx context.Context, table string) error {
	return c.rdb.Del(ctx, tableKey(table)).Err()
}
