package service

import (
	"time"

	"github.com/gang-ground/internal/constants"
	"github.com/gang-ground/internal/models"
)

// isOrderOverdue 待支付且已过截止时间
func isOrderOverdue(order *models.Order, now time.Time) bool {
	if order == nil || order.Status != constants.OrderStatusPendingPayment {
		return false
	}
	if order.ExpiresAt == nil {
		return false
	}
	return !order.ExpiresAt.After(now)
}

// initialOrderStatus 有支付地址时进入待支付，否则视为已提交
func initialOrderStatus(paymentURL string) string {
	if paymentURL != "" {
		return constants.OrderStatusPendingPayment
	}
	return constants.OrderStatusSubmitted
}
