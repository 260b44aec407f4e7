package service

import (
	"strings"
	"time"

	"github.com/gang-ground/internal/constants"
	"github.com/gang-ground/internal/logger"
	"github.com/gang-ground/internal/models"
	"github.com/gang-ground/internal/repository"
)

const expireBatchSize = 100

// OrderService 下单请求查询与过期处理
type OrderService struct {
	orderRepo repository.OrderRepository
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository) *OrderService {
	return &OrderService{orderRepo: orderRepo}
}

// GetByOrderNo 按请求编号查询，顺带同步已过期状态
func (s *OrderService) GetByOrderNo(orderNo string) (*models.Order, error) {
	orderNo = strings.TrimSpace(orderNo)
	if orderNo == "" {
		return nil, ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByOrderNo(orderNo)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if _, err := s.expire(order, time.Now()); err != nil {
		return nil, ErrOrderUpdateFailed
	}
	return order, nil
}

// ListBySession 查询会话下的请求列表
func (s *OrderService) ListBySession(sessionID string, page, pageSize int) ([]models.Order, int64, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, 0, ErrCartSessionInvalid
	}
	orders, total, err := s.orderRepo.List(repository.OrderListFilter{
		Page:      page,
		PageSize:  pageSize,
		SessionID: sessionID,
	})
	if err != nil {
		return nil, 0, ErrOrderFetchFailed
	}
	now := time.Now()
	for i := range orders {
		if _, err := s.expire(&orders[i], now); err != nil {
			logger.Warnw("order_expire_failed", "order_id", orders[i].ID, "order_no", orders[i].OrderNo, "error", err)
		}
	}
	return orders, total, nil
}

// ExpireIfOverdue 待支付请求超过截止时间时置为过期
func (s *OrderService) ExpireIfOverdue(orderID uint, now time.Time) (bool, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return false, ErrOrderFetchFailed
	}
	if order == nil {
		return false, ErrOrderNotFound
	}
	return s.expire(order, now)
}

// ExpireOverdue 批量处理已过期的待支付请求，返回处理数量
func (s *OrderService) ExpireOverdue(now time.Time) (int, error) {
	orders, err := s.orderRepo.ListOverdue(constants.OrderStatusPendingPayment, now, expireBatchSize)
	if err != nil {
		return 0, ErrOrderFetchFailed
	}
	expired := 0
	for i := range orders {
		ok, err := s.expire(&orders[i], now)
		if err != nil {
			logger.Warnw("order_expire_failed", "order_id", orders[i].ID, "order_no", orders[i].OrderNo, "error", err)
			continue
		}
		if ok {
			expired++
		}
	}
	return expired, nil
}

func (s *OrderService) expire(order *models.Order, now time.Time) (bool, error) {
	if !isOrderOverdue(order, now) {
		return false, nil
	}
	updated, err := s.orderRepo.UpdateStatus(order.ID, constants.OrderStatusPendingPayment, constants.OrderStatusExpired, map[string]interface{}{
		"expired_at": now,
		"updated_at": now,
	})
	if err != nil {
		return false, err
	}
	if updated {
		order.Status = constants.OrderStatusExpired
		expiredAt := now
		order.ExpiredAt = &expiredAt
		logger.Infow("order_expired", "order_id", order.ID, "order_no", order.OrderNo)
	}
	return updated, nil
}
