package metadata

import (
	"context"
	"time"

	"github.com/puzpuzpuz/xsync"
	"github.com/rentable-lab/marketplace/internal/common"
	"github.com/rentable-lab/marketplace/pkg/api"
	"github.com/rentable-lab/marketplace/pkg/xcontext"
	"github.com/rentable-lab/marketplace/pkg/xredis"
)

// Cache keeps raw metadata documents keyed by token uri.
type Cache interface {
	Get(ctx context.Context, tokenURI string) (api.JSON, bool)
	Set(ctx context.Context, tokenURI string, doc api.JSON)
}

type redisCache struct {
	redisClient xredis.Client
	ttl         time.Duration
}

func NewRedisCache(redisClient xredis.Client, ttl time.Duration) *redisCache {
	return &redisCache{redisClient: redisClient, ttl: ttl}
}

func (c *redisCache) Get(ctx context.Context, tokenURI string) (api.JSON, bool) {
	doc := api.JSON{}
	if err := c.redisClient.GetObj(ctx, common.RedisKeyTokenMetadata(tokenURI), &doc); err != nil {
		if !xredis.IsNil(err) {
			xcontext.Logger(ctx).Warnf("Cannot get metadata of %s from redis: %v", tokenURI, err)
		}
		return nil, false
	}

	return doc, true
}

func (c *redisCache) Set(ctx context.Context, tokenURI string, doc api.JSON) {
	err := c.redisClient.SetObj(ctx, common.RedisKeyTokenMetadata(tokenURI), doc, c.ttl)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot set metadata of %s to redis: %v", tokenURI, err)
	}
}

type memoryCache struct {
	docs *xsync.MapOf[string, api.JSON]
}

func NewMemoryCache() *memoryCache {
	return &memoryCache{docs: xsync.NewMapOf[api.JSON]()}
}

func (c *memoryCache) Get(ctx context.Context, tokenURI string) (api.JSON, bool) {
	return c.docs.Load(tokenURI)
}

func (c *memoryCache) Set(ctx context.Context, tokenURI string, doc api.JSON) {
	c.docs.Store(tokenURI, doc)
}
