package cart

import (
	"context"
	"sync"

	"github.com/gang-ground/internal/logger"

	"go.uber.org/zap"
)

// Storage 键值持久化端口
type Storage interface {
	Read(ctx context.Context, key string) (string, bool, error)
	Write(ctx context.Context, key, value string) error
}

// Store 购物车状态容器：每次变更先完成状态转移，再单独持久化
type Store struct {
	mu      sync.Mutex
	storage Storage
	key     string
	state   State
	log     *zap.SugaredLogger
}

// Option Store 选项
type Option func(*Store)

// WithLogger 指定日志实例
func WithLogger(log *zap.SugaredLogger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// NewStore 创建购物车容器，初始为空购物车
func NewStore(storage Storage, key string, opts ...Option) *Store {
	s := &Store{
		storage: storage,
		key:     key,
		state:   Empty(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.SW("cart_key", key)
	}
	return s
}

// Key 持久化键
func (s *Store) Key() string {
	return s.key
}

// Hydrate 读取持久化条目作为初始状态；缺失、读取失败或内容损坏时退化为空购物车
func (s *Store) Hydrate(ctx context.Context) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.load(ctx)
	s.state = Reduce(Empty(), LoadCart{Items: items})
	return s.state.clone()
}

func (s *Store) load(ctx context.Context) []LineItem {
	if s.storage == nil {
		return nil
	}
	raw, found, err := s.storage.Read(ctx, s.key)
	if err != nil {
		s.log.Warnw("cart_hydrate_failed", "reason", "read", "error", err)
		return nil
	}
	if !found || raw == "" {
		return nil
	}
	items, err := Decode(raw)
	if err != nil {
		s.log.Warnw("cart_hydrate_failed", "reason", "decode", "error", err)
		return nil
	}
	return items
}

// Dispatch 执行一次状态转移并持久化；持久化失败只记录日志，不回滚内存状态
func (s *Store) Dispatch(ctx context.Context, action Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = Reduce(s.state, action)
	s.persist(ctx, s.state.Items)
	return s.state.clone()
}

func (s *Store) persist(ctx context.Context, items []LineItem) {
	if s.storage == nil {
		return
	}
	payload, err := Encode(items)
	if err != nil {
		s.log.Errorw("cart_persist_failed", "reason", "encode", "error", err)
		return
	}
	if err := s.storage.Write(ctx, s.key, payload); err != nil {
		s.log.Errorw("cart_persist_failed", "reason", "write", "items", len(items), "error", err)
	}
}

// Snapshot 返回当前状态副本
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// AddItem 加购
func (s *Store) AddItem(ctx context.Context, candidate Candidate) State {
	return s.Dispatch(ctx, AddItem{Item: candidate})
}

// RemoveItem 移除条目
func (s *Store) RemoveItem(ctx context.Context, key string) State {
	return s.Dispatch(ctx, RemoveItem{Key: key})
}

// UpdateQuantity 设置数量
func (s *Store) UpdateQuantity(ctx context.Context, key string, quantity int) State {
	return s.Dispatch(ctx, UpdateQuantity{Key: key, Quantity: quantity})
}

// Clear 清空
func (s *Store) Clear(ctx context.Context) State {
	return s.Dispatch(ctx, ClearCart{})
}
