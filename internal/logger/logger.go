package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options 文件输出与级别。Level 为空时 debug 模式用 debug 级别，否则 info
type Options struct {
	Level      string
	Dir        string
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

func (o Options) withDefaults() Options {
	if strings.TrimSpace(o.Filename) == "" {
		o.Filename = "app.log"
	}
	if o.MaxSizeMB <= 0 {
		o.MaxSizeMB = 100
	}
	if o.MaxBackups <= 0 {
		o.MaxBackups = 7
	}
	if o.MaxAgeDays <= 0 {
		o.MaxAgeDays = 30
	}
	return o
}

// L 进程级日志，Init 之前为 nil，取用请走 Z / S
var L *zap.Logger

var stdoutOnce = sync.OnceValue(func() *zap.Logger {
	return newLogger(zapcore.NewConsoleEncoder(encoderConfig()), zapcore.AddSync(os.Stdout), zapcore.InfoLevel)
})

// Init 创建并替换全局日志
func Init(mode string, opts Options) *zap.Logger {
	L = New(mode, opts)
	zap.ReplaceGlobals(L)
	return L
}

// New debug 模式输出彩色控制台，其余模式写 JSON 到滚动文件；文件不可写时退回 stdout
func New(mode string, opts Options) *zap.Logger {
	debug := strings.EqualFold(strings.TrimSpace(mode), "debug")
	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}
	if parsed, err := zapcore.ParseLevel(strings.TrimSpace(opts.Level)); err == nil && opts.Level != "" {
		level = parsed
	}

	if debug {
		cfg := encoderConfig()
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return newLogger(zapcore.NewConsoleEncoder(cfg), zapcore.AddSync(os.Stdout), level)
	}
	sink, err := rollingFile(opts.withDefaults())
	if err != nil {
		fmt.Fprintf(os.Stderr, "log file unavailable, writing to stdout: %v\n", err)
		sink = zapcore.AddSync(os.Stdout)
	}
	return newLogger(zapcore.NewJSONEncoder(encoderConfig()), sink, level)
}

func newLogger(enc zapcore.Encoder, sink zapcore.WriteSyncer, level zapcore.Level) *zap.Logger {
	return zap.New(zapcore.NewCore(enc, sink, level), zap.AddCaller(), zap.AddCallerSkip(1))
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "time"
	cfg.MessageKey = "message"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeDuration = zapcore.MillisDurationEncoder
	cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
	return cfg
}

// rollingFile 目录为空时写到工作目录下的 logs/
func rollingFile(opts Options) (zapcore.WriteSyncer, error) {
	path, err := resolveLogFilePath(opts)
	if err != nil {
		return nil, err
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   opts.Compress,
		LocalTime:  true,
	}), nil
}

func resolveLogFilePath(opts Options) (string, error) {
	opts = opts.withDefaults()
	dir := strings.TrimSpace(opts.Dir)
	if dir == "" {
		dir = "logs"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create log dir: %w", err)
	}
	path := filepath.Join(dir, strings.TrimSpace(opts.Filename))
	// 启动时探测一次可写性，避免运行中才发现日志丢失
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("open log file: %w", err)
	}
	return path, f.Close()
}

// Z Init 之前返回 stdout 日志
func Z() *zap.Logger {
	if L != nil {
		return L
	}
	return stdoutOnce()
}

func S() *zap.SugaredLogger { return Z().Sugar() }

// StdLogger 给 cmd 入口的启动期输出使用
func StdLogger() *log.Logger { return zap.NewStdLog(Z()) }
