package app

import (
	"errors"

	"github.com/tadka-labs/storefront/internal/config"
	"github.com/tadka-labs/storefront/internal/logger"
	"github.com/tadka-labs/storefront/internal/provider"
	"github.com/tadka-labs/storefront/internal/router"
	"github.com/tadka-labs/storefront/internal/worker"
)

// BuildRunner 按运行模式组装服务
func BuildRunner(cfg *config.Config, mode string) (*Runner, *provider.Container, error) {
	if cfg == nil {
		return nil, nil, errors.New("config is nil")
	}

	container := provider.NewContainer(cfg)
	if err := PrepareStore(container, false); err != nil {
		container.Close()
		return nil, nil, err
	}

	var services []Service
	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		services = append(services, NewHTTPService(cfg.Server.Addr(), engine))
		// SSE 订阅者只在 API 进程内，需要接收其他进程发出的变更
		if container.Relay != nil {
			services = append(services, NewRelayService(container.Relay))
		}
	}

	if mode == ModeAll || mode == ModeWorker {
		if cfg.Queue.Enabled {
			workerService, err := worker.NewService(&cfg.Queue, worker.NewConsumer(container))
			if err != nil {
				container.Close()
				return nil, nil, err
			}
			services = append(services, workerService)
		} else {
			logger.Warnw("app_worker_skipped_queue_disabled", "mode", mode)
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
