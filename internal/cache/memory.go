package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory 进程内缓存
type Memory struct {
	store *gocache.Cache
}

// NewMemory 创建进程内缓存；defaultExpiration 为 0 时条目不过期
func NewMemory(defaultExpiration, cleanupInterval time.Duration) *Memory {
	if defaultExpiration == 0 {
		defaultExpiration = gocache.NoExpiration
	}
	return &Memory{store: gocache.New(defaultExpiration, cleanupInterval)}
}

// Get 读取
func (m *Memory) Get(key string) (interface{}, bool) {
	return m.store.Get(key)
}

// GetString 读取字符串
func (m *Memory) GetString(key string) (string, bool) {
	value, ok := m.store.Get(key)
	if !ok {
		return "", false
	}
	text, ok := value.(string)
	return text, ok
}

// Set 写入，duration 为 0 时使用默认过期策略
func (m *Memory) Set(key string, value interface{}, duration time.Duration) {
	if duration == 0 {
		duration = gocache.DefaultExpiration
	}
	m.store.Set(key, value, duration)
}

// Delete 删除
func (m *Memory) Delete(key string) {
	m.store.Delete(key)
}

// Count 条目数
func (m *Memory) Count() int {
	return m.store.ItemCount()
}

// Flush 清空
func (m *Memory) Flush() {
	m.store.Flush()
}
