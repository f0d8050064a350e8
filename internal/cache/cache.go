// Package cache provides an optional read-through cache for single news posts.
//
// The cache is best effort: failures are logged and reported as a miss so a
// request never fails because Redis is unavailable.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/information-sharing-networks/newsposts/internal/database"
	"github.com/information-sharing-networks/newsposts/internal/logger"
	"github.com/redis/go-redis/v9"
)

// PostCache caches news posts by id
type PostCache interface {
	// Get returns the cached post and true on a hit.
	Get(ctx context.Context, id uuid.UUID) (database.NewsPost, bool)

	// Add stores the post unless the key already holds a post or a tombstone.
	// It is used after a read miss.
	Add(ctx context.Context, post database.NewsPost)

	// Invalidate replaces the post with a tombstone, used after updates and
	// deletes. Get reports a tombstone as a miss and Add cannot overwrite it,
	// so a read that loaded the row before the write cannot re-cache it.
	Invalidate(ctx context.Context, id uuid.UUID)

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}

// Noop is used when caching is disabled
type Noop struct{}

func (Noop) Get(context.Context, uuid.UUID) (database.NewsPost, bool) {
	return database.NewsPost{}, false
}
func (Noop) Add(context.Context, database.NewsPost)  {}
func (Noop) Invalidate(context.Context, uuid.UUID) {}
func (Noop) Ping(context.Context) error           { return nil }

// tombstone marks a post that was changed or deleted. It is never valid JSON for a post.
const tombstone = "-"

// DefaultTombstoneTTL must be at least the longest a request can run, otherwise a
// slow read could re-cache a post after its tombstone expired.
const DefaultTombstoneTTL = time.Minute

// Redis is a PostCache backed by Redis. Posts are stored as JSON with a TTL.
type Redis struct {
	rdb          redis.Cmdable
	prefix       string
	ttl          time.Duration
	tombstoneTTL time.Duration
}

type RedisOption func(*Redis)

func WithPrefix(prefix string) RedisOption {
	return func(r *Redis) {
		r.prefix = strings.Trim(prefix, ":")
	}
}

func WithTombstoneTTL(ttl time.Duration) RedisOption {
	return func(r *Redis) {
		r.tombstoneTTL = ttl
	}
}

func NewRedis(rdb redis.Cmdable, ttl time.Duration, opts ...RedisOption) *Redis {
	r := &Redis{
		rdb:          rdb,
		prefix:       "newsposts:post",
		ttl:          ttl,
		tombstoneTTL: DefaultTombstoneTTL,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Redis) key(id uuid.UUID) string {
	return r.prefix + ":" + id.String()
}

func (r *Redis) Get(ctx context.Context, id uuid.UUID) (database.NewsPost, bool) {
	var post database.NewsPost

	data, err := r.rdb.Get(ctx, r.key(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.ContextRequestLogger(ctx).Warn("post cache read failed",
				slog.String("component", "PostCache"),
				slog.String("error", err.Error()),
			)
		}
		return post, false
	}
	if string(data) == tombstone {
		return post, false
	}

	if err := json.Unmarshal(data, &post); err != nil {
		logger.ContextRequestLogger(ctx).Warn("discarding malformed post cache entry",
			slog.String("component", "PostCache"),
			slog.String("error", err.Error()),
		)
		if err := r.rdb.Del(ctx, r.key(id)).Err(); err != nil {
			logger.ContextRequestLogger(ctx).Warn("post cache cleanup failed",
				slog.String("component", "PostCache"),
				slog.String("error", err.Error()),
			)
		}
		return database.NewsPost{}, false
	}

	logger.ContextWithLogAttrs(ctx, slog.Bool("cache_hit", true))
	return post, true
}

func (r *Redis) Add(ctx context.Context, post database.NewsPost) {
	data, err := json.Marshal(post)
	if err != nil {
		logger.ContextRequestLogger(ctx).Warn("post cache encode failed",
			slog.String("component", "PostCache"),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := r.rdb.SetNX(ctx, r.key(post.ID), data, r.ttl).Err(); err != nil {
		logger.ContextRequestLogger(ctx).Warn("post cache write failed",
			slog.String("component", "PostCache"),
			slog.String("error", err.Error()),
		)
	}
}

func (r *Redis) Invalidate(ctx context.Context, id uuid.UUID) {
	if err := r.rdb.Set(ctx, r.key(id), tombstone, r.tombstoneTTL).Err(); err != nil {
		logger.ContextRequestLogger(ctx).Warn("post cache invalidation failed",
			slog.String("component", "PostCache"),
			slog.String("error", err.Error()),
		)
	}
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

// Connect parses the redis URL, creates a client and pings it.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}
