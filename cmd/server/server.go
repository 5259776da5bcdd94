package server

import (
	"context"
	"fmt"
	"log/slog"

	"club-activity-system/config"
	"club-activity-system/internal/global/database"
	"club-activity-system/internal/global/httpclient"
	"club-activity-system/internal/global/logger"
	"club-activity-system/internal/global/middleware"
	internalOtel "club-activity-system/internal/global/otel"
	"club-activity-system/internal/global/redis"
	"club-activity-system/internal/global/sentry"
	"club-activity-system/internal/module"
	"club-activity-system/tools"

	"github.com/gin-gonic/gin"
)

var log *slog.Logger

func Init() {
	config.Init()

	if err := sentry.Init(); err != nil {
		panic(err)
	}

	log = logger.New("Server")

	database.Init()

	redis.Init()

	httpclient.Init()

	if config.Get().OTel.Enable {
		log.Info("OTel Enabled")
		internalOtel.Init()
	}

	for _, m := range module.Modules {
		log.Info(fmt.Sprintf("Init Module: %s", m.GetName()))
		m.Init()
	}
}

func Run() {
	gin.SetMode(string(config.Get().Mode))
	r := gin.New()

	switch config.Get().Mode {
	case config.ModeRelease:
		r.Use(middleware.Logger(logger.Get()))
	case config.ModeDebug:
		r.Use(gin.Logger())
	}
	r.Use(middleware.Cors())
	r.Use(middleware.Recovery())

	if sentry.IsEnabled() {
		r.Use(sentry.Middleware())
		r.Use(middleware.SentryEnrichIP())
	}

	if config.Get().OTel.Enable {
		r.Use(middleware.Trace())
	}

	for _, m := range module.Modules {
		log.Info(fmt.Sprintf("Init Router: %s", m.GetName()))
		m.InitRouter(r.Group("/" + config.Get().Prefix))
	}

	defer func() {
		sentry.Flush()
		if config.Get().OTel.Enable {
			if err := internalOtel.Shutdown(context.Background()); err != nil {
				log.Error("Failed to shutdown TracerProvider", "error", err)
			}
		}
	}()

	err := r.Run(config.Get().Host + ":" + config.Get().Port)
	tools.PanicOnErr(err)
}
