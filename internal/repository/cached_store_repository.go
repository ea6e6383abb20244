package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/tadka-labs/storefront/internal/cache"
	"github.com/tadka-labs/storefront/internal/logger"
	"github.com/tadka-labs/storefront/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	defaultStoreCacheTTL = 5 * time.Minute
	storeGenerationTTL   = 24 * time.Hour
)

// CachedStoreRepository 带 Redis 读穿缓存的文档存储
// Redis 不可用时直接回落到数据库
type CachedStoreRepository struct {
	inner StoreRepository
	ttl   time.Duration
}

// NewCachedStoreRepository 包装文档存储
func NewCachedStoreRepository(inner StoreRepository, ttl time.Duration) *CachedStoreRepository {
	if ttl <= 0 {
		ttl = defaultStoreCacheTTL
	}
	return &CachedStoreRepository{inner: inner, ttl: ttl}
}

func storeCacheKey(key string) string {
	return "store:" + key
}

// storeGenerationKey 每次失效自增，回填前比对
func storeGenerationKey(key string) string {
	return "store:gen:" + key
}

// GetByKey 先查缓存，未命中再读库并回填
func (r *CachedStoreRepository) GetByKey(ctx context.Context, key string) (*models.StoreEntry, error) {
	var cached models.StoreEntry
	hit, err := cache.GetJSON(ctx, storeCacheKey(key), &cached)
	if err != nil {
		logger.Warnw("store_cache_read_failed", "key", key, "error", err)
	} else if hit {
		return &cached, nil
	}

	generation, genErr := readGeneration(ctx, key)
	entry, err := r.inner.GetByKey(ctx, key)
	if err != nil || entry == nil {
		return entry, err
	}
	if genErr != nil {
		logger.Warnw("store_cache_read_failed", "key", key, "error", genErr)
		return entry, nil
	}
	if err := r.fill(ctx, key, generation, entry); err != nil {
		logger.Warnw("store_cache_write_failed", "key", key, "error", err)
	}
	return entry, nil
}

func readGeneration(ctx context.Context, key string) (string, error) {
	client := cache.Client()
	if client == nil {
		return "", nil
	}
	gen, err := client.Get(ctx, cache.Key(storeGenerationKey(key))).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return gen, err
}

// fill 仅在读库期间没有发生失效时回填
// 读库之后若有写入自增了代数，旧值不会再写回缓存
func (r *CachedStoreRepository) fill(ctx context.Context, key, generation string, entry *models.StoreEntry) error {
	client := cache.Client()
	if client == nil {
		return nil
	}
	genKey := cache.Key(storeGenerationKey(key))
	err := client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != generation {
			logger.Debugw("store_cache_fill_skipped", "key", key)
			return nil
		}
		payload, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, cache.Key(storeCacheKey(key)), payload, r.ttl)
			return nil
		})
		return err
	}, genKey)
	if errors.Is(err, redis.TxFailedErr) {
		logger.Debugw("store_cache_fill_skipped", "key", key)
		return nil
	}
	return err
}

// Upsert 写库后失效缓存
func (r *CachedStoreRepository) Upsert(ctx context.Context, key string, value []byte, version int) error {
	if err := r.inner.Upsert(ctx, key, value, version); err != nil {
		return err
	}
	r.invalidate(ctx, key)
	return nil
}

// Delete 删库后失效缓存
func (r *CachedStoreRepository) Delete(ctx context.Context, key string) error {
	if err := r.inner.Delete(ctx, key); err != nil {
		return err
	}
	r.invalidate(ctx, key)
	return nil
}

// ListKeys 不走缓存
func (r *CachedStoreRepository) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	return r.inner.ListKeys(ctx, prefix)
}

// invalidate 先推进代数再删缓存，读库中的并发回填会被放弃
func (r *CachedStoreRepository) invalidate(ctx context.Context, key string) {
	if client := cache.Client(); client != nil {
		genKey := cache.Key(storeGenerationKey(key))
		_, err := client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Incr(ctx, genKey)
			pipe.Expire(ctx, genKey, storeGenerationTTL)
			return nil
		})
		if err != nil {
			logger.Warnw("store_cache_invalidate_failed", "key", key, "error", err)
		}
	}
	if err := cache.Del(ctx, storeCacheKey(key)); err != nil {
		logger.Warnw("store_cache_invalidate_failed", "key", key, "error", err)
	}
}
