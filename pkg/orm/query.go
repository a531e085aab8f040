// Package orm wraps *gorm.DB with a small chainable query builder whose one
// extra trick is Cache: read-through caching of a result set in Redis.
package orm

import (
	"context"
	"time"

	"github.com/shashiranjanraj/shirtshop/pkg/cache"
	"github.com/shashiranjanraj/shirtshop/pkg/metrics"
	"gorm.io/gorm"
)

type Query struct {
	db *gorm.DB
}

// On starts a query on db (a repository's connection or an open transaction).
func On(db *gorm.DB) *Query {
	return &Query{db: db}
}

func (q *Query) WithContext(ctx context.Context) *Query {
	return &Query{db: q.db.WithContext(ctx)}
}

func (q *Query) Model(v interface{}) *Query {
	return &Query{db: q.db.Model(v)}
}

func (q *Query) Where(query interface{}, args ...interface{}) *Query {
	return &Query{db: q.db.Where(query, args...)}
}

func (q *Query) Order(value interface{}) *Query {
	return &Query{db: q.db.Order(value)}
}

func (q *Query) Get(dest interface{}) error {
	return q.db.Find(dest).Error
}

// Cache serves dest from Redis under key, falling back to the database and
// populating the cache on a miss. A cache write failure is not an error.
func (q *Query) Cache(key string, ttl time.Duration, dest interface{}) error {
	ctx := q.db.Statement.Context
	if ctx == nil {
		ctx = context.Background()
	}

	if cache.Enabled() {
		if cache.Get(ctx, key, dest) {
			metrics.CacheLookups.WithLabelValues("hit").Inc()
			return nil
		}
		metrics.CacheLookups.WithLabelValues("miss").Inc()
	}

	if err := q.db.Find(dest).Error; err != nil {
		return err
	}

	_ = cache.Set(ctx, key, dest, ttl)
	return nil
}
