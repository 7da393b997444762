package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/amineweldmaryem/boutique/internal/config"
	"github.com/amineweldmaryem/boutique/internal/logger"

	"go.uber.org/zap"
)

// 进程运行模式：api 只处理 HTTP，worker 只消费下单任务，all 两者都跑
const (
	ModeAll    = "all"
	ModeAPI    = "api"
	ModeWorker = "worker"
)

const defaultShutdownTimeout = 15 * time.Second

// Options 进程启动参数
type Options struct {
	Config          *config.Config
	Logger          *zap.SugaredLogger
	Signals         []os.Signal
	ShutdownTimeout time.Duration
	Mode            string
}

// ParseMode 校验 -mode 参数，空值视为 all
func ParseMode(raw string) (string, error) {
	switch mode := strings.ToLower(strings.TrimSpace(raw)); mode {
	case "":
		return ModeAll, nil
	case ModeAll, ModeAPI, ModeWorker:
		return mode, nil
	default:
		return "", fmt.Errorf("unknown mode %q (want all, api or worker)", raw)
	}
}

func (o Options) withDefaults() (Options, error) {
	mode, err := ParseMode(o.Mode)
	if err != nil {
		return o, err
	}
	o.Mode = mode
	if o.Logger == nil {
		o.Logger = logger.S()
	}
	if o.ShutdownTimeout <= 0 {
		o.ShutdownTimeout = defaultShutdownTimeout
	}
	return o, nil
}

func (o Options) runsAPI() bool    { return o.Mode == ModeAll || o.Mode == ModeAPI }
func (o Options) runsWorker() bool { return o.Mode == ModeAll || o.Mode == ModeWorker }
