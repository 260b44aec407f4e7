package worker

import (
	"context"
	"errors"
	"time"

	"github.com/gang-ground/internal/config"
	"github.com/gang-ground/internal/logger"
	"github.com/gang-ground/internal/queue"

	"github.com/hibiken/asynq"
)

const (
	orderExpireInterval = time.Minute
)

// Service 异步队列服务
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	serverCfg.Logger = logger.S()
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.Container != nil && s.consumer.OrderService != nil {
		go s.consumer.runOrderExpireLoop(ctx, orderExpireInterval)
	}
	if err := s.server.Start(s.mux); err != nil {
		return err
	}
	<-ctx.Done()
	return nil
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// runOrderExpireLoop 兜底扫描过期的待支付请求，覆盖任务丢失的情况
func (c *Consumer) runOrderExpireLoop(ctx context.Context, interval time.Duration) {
	if c == nil || c.Container == nil || c.OrderService == nil {
		return
	}
	c.expireOverdueOnce()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.expireOverdueOnce()
		}
	}
}

func (c *Consumer) expireOverdueOnce() int {
	count, err := c.OrderService.ExpireOverdue(c.clock())
	if err != nil {
		logger.Warnw("worker_order_expire_overdue_failed", "error", err)
		return 0
	}
	if count > 0 {
		logger.Infow("worker_order_expire_overdue", "count", count)
	}
	return count
}
