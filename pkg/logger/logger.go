/*
Package logger 提供项目统一日志能力。

全局 zap logger 由组合根调用 Init 初始化；未初始化时所有包级函数都是空操作，
测试和命令行子命令可以直接调用而不必关心初始化顺序。

请求链路上的日志用 FromContext(ctx) 取 logger，它会带上中间件写入 ctx 的
request_id；涉及项目的日志用 ProjectID 字段，字段名在全项目保持一致。
*/
package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"ddd-skeleton/config"
	"ddd-skeleton/infrastructure/persistence"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// 日志字段名
const (
	FieldRequestID = "request_id"
	FieldProjectID = "project_id"
)

var log *zap.Logger

// Init 按配置安装全局 logger
// format 为空时开发环境用 console，其余环境用 json
func Init(cfg *config.LogConfig, env string) error {
	out, err := openOutput(cfg)
	if err != nil {
		return err
	}

	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level.SetLevel(zapcore.InfoLevel)
	}

	core := zapcore.NewCore(newEncoder(cfg.Format, env), out, level)
	log = zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	return nil
}

func newEncoder(format, env string) zapcore.Encoder {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeDuration = zapcore.MillisDurationEncoder

	switch {
	case format == "json":
		return zapcore.NewJSONEncoder(encCfg)
	case format == "console", env == "development" || env == "dev":
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		return zapcore.NewConsoleEncoder(encCfg)
	default:
		return zapcore.NewJSONEncoder(encCfg)
	}
}

// openOutput 文件输出经 lumberjack 滚动，其余情况写标准输出
func openOutput(cfg *config.LogConfig) (zapcore.WriteSyncer, error) {
	if cfg.Output != "file" {
		return zapcore.Lock(os.Stdout), nil
	}
	if cfg.FilePath == "" {
		return nil, errors.New("log.file_path is required when log.output is file")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	var w io.Writer = &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    positiveOr(cfg.MaxSize, 10),
		MaxBackups: positiveOr(cfg.MaxBackups, 5),
		MaxAge:     positiveOr(cfg.MaxAge, 7),
		Compress:   cfg.Compress,
	}
	return zapcore.AddSync(w), nil
}

func positiveOr(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

// Get 返回全局 logger，未初始化时返回 nil
func Get() *zap.Logger { return log }

// Sync 刷新缓冲；标准输出是终端或管道时 fsync 报的错误可以忽略
func Sync() error {
	if log == nil {
		return nil
	}
	err := log.Sync()
	if errors.Is(err, syscall.ENOTTY) || errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.EBADF) {
		return nil
	}
	return err
}

// FromContext 返回带 request_id 的 logger，ctx 中没有请求标识时原样返回
func FromContext(ctx context.Context) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	if id := persistence.RequestIDFromContext(ctx); id != "" {
		return log.With(RequestID(id))
	}
	return log
}

func RequestID(id string) zap.Field { return zap.String(FieldRequestID, id) }

func ProjectID(id int64) zap.Field { return zap.Int64(FieldProjectID, id) }

func Info(msg string, fields ...zap.Field) {
	if log != nil {
		log.Info(msg, fields...)
	}
}

func Warn(msg string, fields ...zap.Field) {
	if log != nil {
		log.Warn(msg, fields...)
	}
}

func Error(msg string, fields ...zap.Field) {
	if log != nil {
		log.Error(msg, fields...)
	}
}
