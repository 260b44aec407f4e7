package service

import (
	"context"
	"hash/fnv"
	"strings"
	"sync"

	"github.com/gang-ground/internal/cart"
	"github.com/gang-ground/internal/i18n"
	"github.com/gang-ground/internal/logger"
)

const (
	maxSessionIDLength = 128
	cartLockStripes    = 64
)

// CartLineView 购物车行展示
type CartLineView struct {
	cart.LineItem
	Key                string `json:"key"`
	LineTotal          int64  `json:"line_total"`
	LineTotalFormatted string `json:"line_total_formatted"`
}

// CartView 购物车展示
type CartView struct {
	Items               []CartLineView `json:"items"`
	TotalItems          int            `json:"total_items"`
	TotalPrice          int64          `json:"total_price"`
	TotalPriceFormatted string         `json:"total_price_formatted"`
}

// CartService 按会话管理购物车
type CartService struct {
	storage   cart.Storage
	keyPrefix string
	locks     [cartLockStripes]sync.Mutex
}

// NewCartService 创建购物车服务
func NewCartService(storage cart.Storage, keyPrefix string) *CartService {
	return &CartService{
		storage:   storage,
		keyPrefix: strings.TrimSpace(keyPrefix),
	}
}

// StorageKey 会话对应的持久化键
func (s *CartService) StorageKey(sessionID string) string {
	if s.keyPrefix == "" {
		return sessionID
	}
	return s.keyPrefix + ":" + sessionID
}

func normalizeSessionID(sessionID string) (string, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" || len(sessionID) > maxSessionIDLength {
		return "", ErrCartSessionInvalid
	}
	return sessionID, nil
}

// Open 创建并加载会话购物车
func (s *CartService) Open(ctx context.Context, sessionID string) (*cart.Store, error) {
	sessionID, err := normalizeSessionID(sessionID)
	if err != nil {
		return nil, err
	}
	key := s.StorageKey(sessionID)
	store := cart.NewStore(s.storage, key, cart.WithLogger(logger.SW("cart_key", key)))
	store.Hydrate(ctx)
	return store, nil
}

// lockFor 同一会话的读改写在进程内串行
func (s *CartService) lockFor(sessionID string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	return &s.locks[h.Sum32()%cartLockStripes]
}

func (s *CartService) dispatch(ctx context.Context, sessionID string, action cart.Action) (cart.State, error) {
	sessionID, err := normalizeSessionID(sessionID)
	if err != nil {
		return cart.Empty(), err
	}
	lock := s.lockFor(sessionID)
	lock.Lock()
	defer lock.Unlock()

	store, err := s.Open(ctx, sessionID)
	if err != nil {
		return cart.Empty(), err
	}
	if action == nil {
		return store.Snapshot(), nil
	}
	return store.Dispatch(ctx, action), nil
}

// Get 当前购物车
func (s *CartService) Get(ctx context.Context, sessionID string) (cart.State, error) {
	return s.dispatch(ctx, sessionID, nil)
}

// Add 加购；id 与 name 为必填
func (s *CartService) Add(ctx context.Context, sessionID string, candidate cart.Candidate) (cart.State, error) {
	if strings.TrimSpace(candidate.ID) == "" || strings.TrimSpace(candidate.Name) == "" {
		return cart.Empty(), ErrCartItemInvalid
	}
	return s.dispatch(ctx, sessionID, cart.AddItem{Item: candidate})
}

// Remove 按 key 删除行项目
func (s *CartService) Remove(ctx context.Context, sessionID, key string) (cart.State, error) {
	return s.dispatch(ctx, sessionID, cart.RemoveItem{Key: key})
}

// UpdateQuantity 设置数量，小于等于 0 时删除
func (s *CartService) UpdateQuantity(ctx context.Context, sessionID, key string, quantity int) (cart.State, error) {
	return s.dispatch(ctx, sessionID, cart.UpdateQuantity{Key: key, Quantity: quantity})
}

// Clear 清空购物车
func (s *CartService) Clear(ctx context.Context, sessionID string) (cart.State, error) {
	return s.dispatch(ctx, sessionID, cart.ClearCart{})
}

// View 附加格式化金额与行小计
func (s *CartService) View(state cart.State) CartView {
	view := CartView{
		Items:               make([]CartLineView, 0, len(state.Items)),
		TotalItems:          state.TotalItems,
		TotalPrice:          state.TotalPrice,
		TotalPriceFormatted: i18n.FormatRUB(state.TotalPrice),
	}
	for _, item := range state.Items {
		total := item.LineTotal()
		view.Items = append(view.Items, CartLineView{
			LineItem:           item,
			Key:                item.Key(),
			LineTotal:          total,
			LineTotalFormatted: i18n.FormatRUB(total),
		})
	}
	return view
}
