package sentry

import (
	"fmt"
	"time"

	"club-activity-system/config"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
)

// CodedError 定义带错误码的错误接口，用于判断是否需要上报
type CodedError interface {
	error
	GetCode() int32
}

// Init 初始化 Sentry SDK
// 返回 error 如果初始化失败
func Init() error {
	cfg := config.Get()

	// 如果没有配置 DSN，跳过初始化
	if cfg.Sentry.Dsn == "" {
		return nil
	}

	// 设置性能追踪采样率（错误事件始终 100% 上报）
	tracesSampleRate := cfg.Sentry.SampleRate
	if tracesSampleRate <= 0 {
		tracesSampleRate = 1.0 // 默认 100% 采样
	}

	// 设置环境
	environment := cfg.Sentry.Environment
	if environment == "" {
		environment = string(cfg.Mode)
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.Sentry.Dsn,
		Environment:      environment,
		Release:          "club-activity-system@1.0.0",
		SampleRate:       1.0, // 错误事件 100% 上报，不采样
		EnableTracing:    true,
		TracesSampleRate: tracesSampleRate, // 性能追踪可以采样（高流量时降低）
		EnableLogs:       true,             // 启用日志上报到 Sentry（日志也是 100% 上报）
	})

	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}

	return nil
}

// IsEnabled 判断 Sentry 是否已启用
func IsEnabled() bool {
	return config.Get().Sentry.Dsn != ""
}

// Middleware 返回 Sentry 的 gin 中间件
func Middleware() gin.HandlerFunc {
	return sentrygin.New(sentrygin.Options{
		Repanic: true,
	})
}

// Flush 退出前冲刷缓冲区中未上报的事件
func Flush() {
	if IsEnabled() {
		sentry.Flush(2 * time.Second)
	}
}
