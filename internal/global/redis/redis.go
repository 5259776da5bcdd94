package redis

import (
	"context"
	"fmt"

	"club-activity-system/config"
	"club-activity-system/tools"

	"github.com/redis/go-redis/v9"
)

var RDB *redis.Client

// Init 建立 Redis 连接；未启用时保持 RDB 为 nil，调用方需降级处理
func Init() {
	cfg := config.Get().Redis
	if !cfg.Enable {
		return
	}

	RDB = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	tools.PanicOnErr(RDB.Ping(context.Background()).Err())
}

// Enabled 判断 Redis 是否可用
func Enabled() bool {
	return RDB != nil
}
