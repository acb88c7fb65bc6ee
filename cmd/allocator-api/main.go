package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/unialloc/room-alloc-api/api/swagger"
	"github.com/unialloc/room-alloc-api/internal/handler"
	"github.com/unialloc/room-alloc-api/internal/middleware"
	"github.com/unialloc/room-alloc-api/internal/repository"
	"github.com/unialloc/room-alloc-api/internal/service"
	"github.com/unialloc/room-alloc-api/pkg/cache"
	"github.com/unialloc/room-alloc-api/pkg/config"
	"github.com/unialloc/room-alloc-api/pkg/database"
	"github.com/unialloc/room-alloc-api/pkg/jobs"
	"github.com/unialloc/room-alloc-api/pkg/lock"
	"github.com/unialloc/room-alloc-api/pkg/logger"
	corsmiddleware "github.com/unialloc/room-alloc-api/pkg/middleware/cors"
	reqidmiddleware "github.com/unialloc/room-alloc-api/pkg/middleware/requestid"
)

// @title Room Allocation API
// @version 0.1.0
// @description Autonomous room allocation engine for semester course sections
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	demandRepo := repository.NewDemandRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	ruleRepo := repository.NewRuleRepository(db)
	professorRepo := repository.NewProfessorRepository(db)
	allocationRepo := repository.NewAllocationRepository(db)

	var decisionRepo *repository.DecisionRepository
	if cfg.Allocator.DecisionLog {
		decisionRepo = repository.NewDecisionRepository(db)
	}

	metricsSvc := service.NewMetricsService()
	ruleSvc := service.NewRuleService(ruleRepo, logr)
	scoringSvc := service.NewScoringService(cfg.Allocator.Weights, ruleSvc, logr)
	semesterLock := lock.NewSemesterLock(redisClient, cfg.Allocator.LockTTL)

	allocSvc := service.NewAllocationService(
		demandRepo,
		roomRepo,
		professorRepo,
		allocationRepo,
		ruleSvc,
		scoringSvc,
		decisionRepo,
		semesterLock,
		metricsSvc,
		validator.New(),
		logr,
		cfg.Allocator,
	)

	reportSvc := service.NewReportingService(allocationRepo, nil)
	if decisionRepo != nil {
		reportSvc = service.NewReportingService(allocationRepo, decisionRepo)
	}

	runQueue := jobs.NewQueue("allocation-runs", allocSvc.HandleJob, jobs.QueueConfig{
		Workers: cfg.Allocator.Workers,
		Logger:  logr,
	})
	runQueue.Start(context.Background())
	defer runQueue.Stop()
	allocSvc.AttachQueue(runQueue)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

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
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	allocationHandler := handler.NewAllocationHandler(allocSvc, reportSvc)
	allocationHandler.Register(api)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
