package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

var (
	instance *Config
	mu       sync.Mutex
)

// Init 加载配置：先读取 config.yaml，再用环境变量覆盖
func Init() {
	mu.Lock()
	defer mu.Unlock()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := defaultConfig()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			panic(fmt.Errorf("读取配置文件失败: %w", err))
		}
		// 没有配置文件时完全依赖环境变量
	} else if err := v.Unmarshal(cfg); err != nil {
		panic(fmt.Errorf("解析配置文件失败: %w", err))
	}

	// 环境变量优先级最高
	if err := envconfig.Process("app", cfg); err != nil {
		panic(fmt.Errorf("读取环境变量失败: %w", err))
	}

	instance = cfg
}

// Get 获取全局配置；未调用 Init 时返回调试默认值（供测试使用）
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()
	if instance == nil {
		instance = defaultConfig()
	}
	return instance
}

func defaultConfig() *Config {
	return &Config{
		Host:   "0.0.0.0",
		Port:   "8080",
		Prefix: "api",
		Mode:   ModeDebug,
		JWT: JWT{
			AccessSecret: "club-activity-system-dev",
			AccessExpire: 72 * 3600,
		},
		Log: Log{
			Level: "info",
		},
	}
}
