package app

import (
	"errors"

	"github.com/gang-ground/internal/config"
	"github.com/gang-ground/internal/logger"
	"github.com/gang-ground/internal/provider"
	"github.com/gang-ground/internal/router"
	"github.com/gang-ground/internal/worker"

	"github.com/NYTimes/gziphandler"
)

// BuildRunner 构建服务运行器
func BuildRunner(cfg *config.Config, mode string) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	container, err := provider.NewContainer(cfg)
	if err != nil {
		return nil, err
	}
	return buildRunnerWithContainer(cfg, mode, container)
}

func buildRunnerWithContainer(cfg *config.Config, mode string, container *provider.Container) (*Runner, error) {
	var services []Service

	// 初始化 HTTP 服务
	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		httpService := NewHTTPService(cfg.Server.Addr(), gziphandler.GzipHandler(engine))
		services = append(services, httpService)
	}

	// 初始化 Worker 服务；all 模式下未启用队列时仅提供 HTTP
	if mode == ModeWorker || (mode == ModeAll && cfg.Queue.Enabled) {
		consumer := worker.NewConsumer(container)
		workerService, err := worker.NewService(&cfg.Queue, consumer)
		if err != nil {
			return nil, err
		}
		services = append(services, workerService)
	} else if mode == ModeAll {
		logger.Infow("app_worker_skipped", "reason", "queue disabled")
	}

	if len(services) == 0 {
		return nil, errors.New("no services initialized (check mode and config)")
	}

	return NewRunner(services...), nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	container, err := provider.NewContainer(opts.Config)
	if err != nil {
		return err
	}
	defer container.Close()

	runner, err := buildRunnerWithContainer(opts.Config, opts.Mode, container)
	if err != nil {
		return err
	}

	opts.Logger.Infow("app_start",
		"addr", opts.Config.Server.Addr(),
		"mode", opts.Mode,
		"catalog_backend", opts.Config.Catalog.Backend,
		"cart_storage", opts.Config.Cart.Storage,
	)
	return RunWithOptions(runner, opts)
}
