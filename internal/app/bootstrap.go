package app

import (
	"context"
	"errors"

	"github.com/amineweldmaryem/boutique/internal/cache"
	"github.com/amineweldmaryem/boutique/internal/config"
	"github.com/amineweldmaryem/boutique/internal/logger"
	"github.com/amineweldmaryem/boutique/internal/provider"
	"github.com/amineweldmaryem/boutique/internal/router"
	"github.com/amineweldmaryem/boutique/internal/worker"
)

// BuildRunner 按运行模式装配组件
func BuildRunner(cfg *config.Config, mode string) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	opts, err := Options{Config: cfg, Mode: mode}.withDefaults()
	if err != nil {
		return nil, err
	}
	if opts.Mode == ModeWorker && !cfg.Queue.Enabled {
		return nil, errors.New("worker mode requires queue.enabled=true")
	}

	container := provider.NewContainer(cfg)
	var services []Service

	if opts.runsAPI() {
		engine := router.SetupRouter(cfg, container)
		services = append(services, NewHTTPService(cfg.Server.Host+":"+cfg.Server.Port, engine))
	}

	// 队列关闭时下单后同步扣减库存，all 模式下不启动 worker
	if opts.runsWorker() && cfg.Queue.Enabled {
		workerService, err := worker.NewService(&cfg.Queue, worker.NewConsumer(container))
		if err != nil {
			return nil, err
		}
		services = append(services, workerService)
	}

	// 放在最前：Runner 逆序停止，先停 HTTP 与 worker，再关连接
	services = append([]Service{&closerService{name: "resources", closeFn: func(context.Context) error {
		if err := container.QueueClient.Close(); err != nil {
			logger.Warnw("queue_client_close_failed", "error", err)
		}
		return cache.Close()
	}}}, services...)
	return NewRunner(services...), nil
}

// Run 进程入口
func Run(opts Options) error {
	if opts.Config == nil {
		return errors.New("config is nil")
	}
	opts, err := opts.withDefaults()
	if err != nil {
		return err
	}
	runner, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}
	opts.Logger.Infow("app_start",
		"addr", opts.Config.Server.Host+":"+opts.Config.Server.Port,
		"mode", opts.Mode,
		"queue_enabled", opts.Config.Queue.Enabled,
		"auth_provider", opts.Config.Auth.Provider,
	)
	return RunWithOptions(runner, opts)
}

// closerService 不主动运行，仅在停止阶段释放共享连接
type closerService struct {
	name    string
	closeFn func(ctx context.Context) error
}

func (s *closerService) Name() string { return s.name }

func (s *closerService) Start(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

func (s *closerService) Stop(ctx context.Context) error {
	if s.closeFn == nil {
		return nil
	}
	return s.closeFn(ctx)
}
