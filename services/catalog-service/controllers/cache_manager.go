package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	productCachePrefix = "product:detail:"
	productListPrefix  = "products:v:"
	cacheVersionKey    = "products:version"
	DefaultCacheTTL    = 5 * time.Minute
	cacheWriteTimeout  = 5 * time.Second
)

// CacheManager handles Redis caching for catalog reads. List entries are
// versioned; a version bump on any write invalidates every cached listing at
// once.
type CacheManager struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewCacheManager(client *redis.Client) *CacheManager {
	return &CacheManager{
		redis: client,
		ttl:   DefaultCacheTTL,
	}
}

func (cm *CacheManager) version(ctx context.Context) int64 {
	v, err := cm.redis.Get(ctx, cacheVersionKey).Int64()
	if err != nil {
		return 0
	}
	return v
}

func (cm *CacheManager) listKey(version int64, page, perPage int, category string) string {
	return fmt.Sprintf("%s%d:page:%d:per:%d:cat:%s", productListPrefix, version, page, perPage, category)
}

// GetProductList returns a cached listing response, if present.
func (cm *CacheManager) GetProductList(ctx context.Context, page, perPage int, category string) (map[string]interface{}, bool) {
	version := cm.version(ctx)
	if version == 0 {
		return nil, false
	}

	cached, err := cm.redis.Get(ctx, cm.listKey(version, page, perPage, category)).Result()
	if err != nil {
		return nil, false
	}

	var response map[string]interface{}
	if err := json.Unmarshal([]byte(cached), &response); err != nil {
		zap.L().Warn("Failed to unmarshal cached product list", zap.Error(err))
		return nil, false
	}
	return response, true
}

// SetProductListAsync caches a listing response off the request path.
func (cm *CacheManager) SetProductListAsync(page, perPage int, category string, response map[string]interface{}) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), cacheWriteTimeout)
		defer cancel()

		version := cm.version(ctx)
		if version == 0 {
			// First write establishes the version.
			if err := cm.redis.Set(ctx, cacheVersionKey, 1, 0).Err(); err != nil {
				return
			}
			version = 1
		}

		payload, err := json.Marshal(response)
		if err != nil {
			zap.L().Warn("Failed to marshal product list for cache", zap.Error(err))
			return
		}
		if err := cm.redis.Set(ctx, cm.listKey(version, page, perPage, category), payload, cm.ttl).Err(); err != nil {
			zap.L().Warn("Failed to cache product list", zap.Error(err))
		}
	}()
}

// GetProductDetail returns a cached product document, if present.
func (cm *CacheManager) GetProductDetail(ctx context.Context, id string) ([]byte, bool) {
	cached, err := cm.redis.Get(ctx, productCachePrefix+id).Bytes()
	if err != nil {
		return nil, false
	}
	return cached, true
}

// SetProductDetailAsync caches a product document off the request path.
func (cm *CacheManager) SetProductDetailAsync(id string, payload []byte) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), cacheWriteTimeout)
		defer cancel()
		if err := cm.redis.Set(ctx, productCachePrefix+id, payload, cm.ttl).Err(); err != nil {
			zap.L().Warn("Failed to cache product detail", zap.Error(err))
		}
	}()
}

// Invalidate drops the detail entry for id (when non-empty) and bumps the
// list version so every cached listing is discarded.
func (cm *CacheManager) Invalidate(id string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), cacheWriteTimeout)
		defer cancel()

		if id != "" {
			if err := cm.redis.Del(ctx, productCachePrefix+id).Err(); err != nil {
				zap.L().Warn("Failed to drop product detail cache", zap.String("id", id), zap.Error(err))
			}
		}
		if err := cm.redis.Incr(ctx, cacheVersionKey).Err(); err != nil {
			zap.L().Warn("Failed to bump product cache version", zap.Error(err))
		}
	}()
}
