package worker

import (
	"context"
	"errors"
	"time"

	"github.com/tadka-labs/storefront/internal/config"
	"github.com/tadka-labs/storefront/internal/logger"
	"github.com/tadka-labs/storefront/internal/queue"

	"github.com/hibiken/asynq"
)

// 兜底巡检，覆盖入队失败或 Redis 重启丢失的校验任务
const reconcileSweepInterval = 10 * time.Minute

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
	serverCfg.Logger = asynqLogger{}
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
	if s.consumer != nil && s.consumer.CouponService != nil {
		go s.runReconcileSweep(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(_ context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	s.server.Shutdown()
	return nil
}

func (s *Service) runReconcileSweep(ctx context.Context) {
	ticker := time.NewTicker(reconcileSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.consumer.CouponService.ReconcileAll(ctx); err != nil {
				logger.Warnw("worker_reconcile_sweep_failed", "error", err)
			}
		}
	}
}

// asynqLogger 将 asynq 日志接入 zap
type asynqLogger struct{}

func (asynqLogger) Debug(args ...interface{}) { logger.S().Debug(args...) }
func (asynqLogger) Info(args ...interface{})  { logger.S().Info(args...) }
func (asynqLogger) Warn(args ...interface{})  { logger.S().Warn(args...) }
func (asynqLogger) Error(args ...interface{}) { logger.S().Error(args...) }
func (asynqLogger) Fatal(args ...interface{}) { logger.S().Fatal(args...) }
