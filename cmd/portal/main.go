package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/complainthub/portal/api/swagger"
	"github.com/complainthub/portal/internal/handler"
	"github.com/complainthub/portal/internal/middleware"
	"github.com/complainthub/portal/internal/repository"
	"github.com/complainthub/portal/internal/service"
	"github.com/complainthub/portal/internal/upstream"
	"github.com/complainthub/portal/pkg/cache"
	"github.com/complainthub/portal/pkg/config"
	"github.com/complainthub/portal/pkg/logger"
	corsmiddleware "github.com/complainthub/portal/pkg/middleware/cors"
	reqidmiddleware "github.com/complainthub/portal/pkg/middleware/requestid"
)

// @title Complaint Portal
// @version 0.1.0
// @description Portal gateway for submitting and tracking complaints
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect redis", "error", err)
	}
	defer redisClient.Close() //nolint:errcheck

	var metricsSvc *service.MetricsService
	if cfg.Metrics.Enabled {
		metricsSvc = service.NewMetricsService()
	}

	upstreamClient := upstream.New(cfg.Upstream, metricsSvc)

	sessionRepo := repository.NewSessionRepository(redisClient, cfg.Session.StateTTL, logr)
	viewRepo := repository.NewViewStateRepository(redisClient, cfg.Session.ViewStateTTL, logr)

	sessionSvc := service.NewSessionService(sessionRepo, viewRepo, metricsSvc, logr)
	deriveSvc := service.NewAuthDeriveService(upstreamClient, sessionRepo, cfg.Upstream.Timeout, logr)
	listSvc := service.NewListService(upstreamClient, sessionRepo, viewRepo, logr)
	detailSvc := service.NewDetailService(upstreamClient, sessionRepo, logr)
	createSvc := service.NewCreateService(upstreamClient, sessionRepo, viewRepo, logr)

	sessionHandler := handler.NewSessionHandler(sessionSvc, deriveSvc)
	complaintHandler := handler.NewComplaintHandler(listSvc, detailSvc, createSvc)
	navHandler := handler.NewNavHandler(sessionSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	if cfg.Metrics.Enabled {
		r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	portal := r.Group("/portal")
	portal.Use(middleware.Session(cfg.Session))

	portal.GET("/nav", navHandler.Shell)

	portal.GET("/session", sessionHandler.Get)
	portal.PUT("/session/token", sessionHandler.SetToken)
	portal.PUT("/session/identifier", sessionHandler.SetIdentifier)
	portal.DELETE("/session", sessionHandler.Clear)

	portal.GET("/complaints", complaintHandler.ListView)
	portal.POST("/complaints", complaintHandler.Create)
	portal.POST("/complaints/refresh", complaintHandler.Refresh)
	portal.POST("/complaints/more", complaintHandler.LoadMore)
	portal.GET("/complaints/:id", complaintHandler.DetailView)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
