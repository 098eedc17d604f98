package app

import (
	"errors"

	"github.com/triaxx-pos/internal/config"
	"github.com/triaxx-pos/internal/logger"
	"github.com/triaxx-pos/internal/provider"
	"github.com/triaxx-pos/internal/router"
	"github.com/triaxx-pos/internal/worker"
)

// BuildRunner 按运行模式组装 HTTP 与自动结算 worker
func BuildRunner(cfg *config.Config, mode string) (*Runner, *provider.Container, error) {
	if cfg == nil {
		return nil, nil, errors.New("config is nil")
	}
	if !validMode(mode) {
		return nil, nil, errors.New("unknown run mode: " + mode)
	}

	container := provider.NewContainer(cfg)
	var services []Service

	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		services = append(services, NewHTTPService(cfg.Server.Addr(), engine))
	}

	if mode == ModeAll || mode == ModeWorker {
		workerService, err := worker.NewService(&cfg.Queue, worker.NewConsumer(container))
		switch {
		case err == nil:
			services = append(services, workerService)
		case mode == ModeWorker:
			container.Close()
			return nil, nil, err
		default:
			// all 模式下队列未启用时只启动 HTTP
			logger.Warnw("app_worker_skipped", "error", err)
		}
	}

	if len(services) == 0 {
		container.Close()
		return nil, nil, errors.New("no services initialized (check mode and config)")
	}
	return NewRunner(services...), container, nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, container, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}
	defer container.Close()

	opts.Logger.Infow("app_start", "addr", opts.Config.Server.Addr(), "mode", opts.Mode)
	return RunWithOptions(runner, opts)
}
