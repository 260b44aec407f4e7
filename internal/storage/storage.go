package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gang-ground/internal/cache"
	"github.com/gang-ground/internal/cart"
	"github.com/gang-ground/internal/config"
	"github.com/gang-ground/internal/constants"
	"github.com/gang-ground/internal/logger"
	"github.com/gang-ground/internal/repository"
)

// Deps 存储驱动依赖
type Deps struct {
	KV repository.KVRepository
}

// New 根据配置创建购物车存储
func New(cfg config.CartConfig, deps Deps) (cart.Storage, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Storage))
	switch driver {
	case "", constants.CartStorageMemory:
		return NewMemoryStorage(), nil
	case constants.CartStorageRedis:
		if !cache.Enabled() {
			logger.Warnw("cart_storage_fallback", "driver", driver, "fallback", constants.CartStorageMemory, "reason", "redis_disabled")
			return NewMemoryStorage(), nil
		}
		return NewRedisStorage(), nil
	case constants.CartStorageDatabase:
		if deps.KV == nil {
			return nil, fmt.Errorf("cart storage %s requires database", driver)
		}
		return NewDatabaseStorage(deps.KV), nil
	default:
		return nil, fmt.Errorf("unsupported cart storage: %s", cfg.Storage)
	}
}

// MemoryStorage 进程内存储，重启后数据丢失
type MemoryStorage struct {
	store *cache.Memory
}

// NewMemoryStorage 创建内存存储
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{store: cache.NewMemory(0, 10*time.Minute)}
}

// Read 读取
func (s *MemoryStorage) Read(_ context.Context, key string) (string, bool, error) {
	value, ok := s.store.GetString(key)
	return value, ok, nil
}

// Write 写入
func (s *MemoryStorage) Write(_ context.Context, key, value string) error {
	s.store.Set(key, value, 0)
	return nil
}

// RedisStorage Redis 存储，不设置过期时间
type RedisStorage struct{}

// NewRedisStorage 创建 Redis 存储
func NewRedisStorage() *RedisStorage {
	return &RedisStorage{}
}

// Read 读取
func (s *RedisStorage) Read(ctx context.Context, key string) (string, bool, error) {
	return cache.GetString(ctx, key)
}

// Write 写入
func (s *RedisStorage) Write(ctx context.Context, key, value string) error {
	return cache.SetString(ctx, key, value, 0)
}

// DatabaseStorage 数据库键值表存储
type DatabaseStorage struct {
	repo repository.KVRepository
}

// NewDatabaseStorage 创建数据库存储
func NewDatabaseStorage(repo repository.KVRepository) *DatabaseStorage {
	return &DatabaseStorage{repo: repo}
}

// Read 读取
func (s *DatabaseStorage) Read(ctx context.Context, key string) (string, bool, error) {
	return s.repo.Get(ctx, key)
}

// Write 写入
func (s *DatabaseStorage) Write(ctx context.Context, key, value string) error {
	return s.repo.Put(ctx, key, value)
}
