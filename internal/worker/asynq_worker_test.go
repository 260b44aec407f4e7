package worker

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/gang-ground/internal/constants"
	"github.com/gang-ground/internal/models"
	"github.com/gang-ground/internal/provider"
	"github.com/gang-ground/internal/queue"
	"github.com/gang-ground/internal/repository"
	"github.com/gang-ground/internal/service"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

func setupWorkerConsumer(t *testing.T, now time.Time) (*Consumer, *repository.GormOrderRepository) {
	t.Helper()
	dsn := fmt.Sprintf("file:worker_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	repo := repository.NewOrderRepository(db)
	consumer := NewConsumer(&provider.Container{
		OrderRepo:    repo,
		OrderService: service.NewOrderService(repo),
	})
	consumer.now = func() time.Time { return now }
	return consumer, repo
}

func createPendingOrder(t *testing.T, repo *repository.GormOrderRepository, orderNo string, expiresAt time.Time) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderNo:      orderNo,
		SessionID:    "session-worker",
		Status:       constants.OrderStatusPendingPayment,
		Currency:     "RUB",
		TotalItems:   1,
		TotalAmount:  models.NewMoneyFromInt(4999),
		ContactName:  "Ivan",
		ContactPhone: "+79990000000",
		ExpiresAt:    &expiresAt,
	}
	items := []models.OrderItem{{
		ProductID:  "p1",
		Slug:       "hoodie",
		Name:       "Hoodie",
		Size:       "M",
		UnitPrice:  models.NewMoneyFromInt(4999),
		Quantity:   1,
		TotalPrice: models.NewMoneyFromInt(4999),
	}}
	if err := repo.Create(order, items); err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func timeoutTask(t *testing.T, order *models.Order) *asynq.Task {
	t.Helper()
	task, err := queue.NewOrderTimeoutCancelTask(queue.OrderTimeoutCancelPayload{OrderID: order.ID, OrderNo: order.OrderNo})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	return task
}

func TestHandleOrderTimeoutCancelExpiresOverdueOrder(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	consumer, repo := setupWorkerConsumer(t, now)
	order := createPendingOrder(t, repo, "REQ-W-1", now.Add(-time.Minute))

	if err := consumer.handleOrderTimeoutCancel(context.Background(), timeoutTask(t, order)); err != nil {
		t.Fatalf("handle task failed: %v", err)
	}
	got, err := repo.GetByID(order.ID)
	if err != nil || got == nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if got.Status != constants.OrderStatusExpired {
		t.Fatalf("expected expired status, got %s", got.Status)
	}
	if got.ExpiredAt == nil {
		t.Fatalf("expected expired_at to be set")
	}
}

func TestHandleOrderTimeoutCancelKeepsOrderBeforeDeadline(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	consumer, repo := setupWorkerConsumer(t, now)
	order := createPendingOrder(t, repo, "REQ-W-2", now.Add(10*time.Minute))

	if err := consumer.handleOrderTimeoutCancel(context.Background(), timeoutTask(t, order)); err != nil {
		t.Fatalf("handle task failed: %v", err)
	}
	got, _ := repo.GetByID(order.ID)
	if got.Status != constants.OrderStatusPendingPayment {
		t.Fatalf("order should stay pending, got %s", got.Status)
	}
}

func TestHandleOrderTimeoutCancelSkipsMissingOrder(t *testing.T) {
	consumer, _ := setupWorkerConsumer(t, time.Now())
	task, err := queue.NewOrderTimeoutCancelTask(queue.OrderTimeoutCancelPayload{OrderID: 404})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleOrderTimeoutCancel(context.Background(), task); err != nil {
		t.Fatalf("missing order should not be retried: %v", err)
	}
}

func TestHandleOrderTimeoutCancelIgnoresBrokenPayload(t *testing.T) {
	consumer, _ := setupWorkerConsumer(t, time.Now())
	task := asynq.NewTask(queue.TaskOrderTimeoutCancel, []byte("{not json"))
	if err := consumer.handleOrderTimeoutCancel(context.Background(), task); err != nil {
		t.Fatalf("broken payload should be dropped: %v", err)
	}
	var nilConsumer *Consumer
	if err := nilConsumer.handleOrderTimeoutCancel(context.Background(), task); err != nil {
		t.Fatalf("nil consumer should be noop: %v", err)
	}
}

func TestExpireOverdueOnce(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	consumer, repo := setupWorkerConsumer(t, now)
	createPendingOrder(t, repo, "REQ-W-3", now.Add(-time.Hour))
	createPendingOrder(t, repo, "REQ-W-4", now.Add(-time.Second))
	createPendingOrder(t, repo, "REQ-W-5", now.Add(time.Hour))

	if got := consumer.expireOverdueOnce(); got != 2 {
		t.Fatalf("expected 2 expired orders, got %d", got)
	}
	if got := consumer.expireOverdueOnce(); got != 0 {
		t.Fatalf("second pass should be idempotent, got %d", got)
	}
}

func TestNewServiceRequiresQueue(t *testing.T) {
	if _, err := NewService(nil, &Consumer{}); err == nil {
		t.Fatalf("expected error when queue disabled")
	}
}
