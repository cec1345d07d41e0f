package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/mkrogh/vagtplan-api/api/swagger"
	"github.com/mkrogh/vagtplan-api/internal/handler"
	internalmiddleware "github.com/mkrogh/vagtplan-api/internal/middleware"
	"github.com/mkrogh/vagtplan-api/internal/repository"
	"github.com/mkrogh/vagtplan-api/internal/service"
	"github.com/mkrogh/vagtplan-api/pkg/cache"
	"github.com/mkrogh/vagtplan-api/pkg/config"
	"github.com/mkrogh/vagtplan-api/pkg/database"
	"github.com/mkrogh/vagtplan-api/pkg/jobs"
	"github.com/mkrogh/vagtplan-api/pkg/logger"
	corsmiddleware "github.com/mkrogh/vagtplan-api/pkg/middleware/cors"
	reqidmiddleware "github.com/mkrogh/vagtplan-api/pkg/middleware/requestid"
)

// @title Vagtplan API
// @version 0.1.0
// @description Vacation and weekend shift planning service
// @BasePath /api/v1
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
		// The board cache is an optimisation; the API runs fine without it.
		logr.Sugar().Warnw("redis unavailable, board caching disabled", "error", err)
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	employeeRepo := repository.NewEmployeeRepository(db)
	absenceRepo := repository.NewAbsenceRepository(db)
	shiftRepo := repository.NewShiftRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	planningSvc := service.NewPlanningService(employeeRepo, absenceRepo, shiftRepo, cacheRepo, metricsSvc,
		cfg.Planning.DefaultMaxAway, cfg.Planning.BoardCacheTTL, logr)
	employeeSvc := service.NewEmployeeService(employeeRepo, planningSvc, nil, logr)
	absenceSvc := service.NewAbsenceService(absenceRepo, employeeRepo, planningSvc, nil, logr)
	shiftSvc := service.NewShiftService(shiftRepo, employeeRepo, planningSvc, nil, logr)

	queueCfg := jobs.QueueConfig{
		BufferSize: cfg.Distribution.QueueBuffer,
		MaxRetries: cfg.Distribution.MaxRetries,
		RetryDelay: cfg.Distribution.RetryDelay,
		Logger:     logr,
	}
	var distributionSvc *service.DistributionService
	queue := jobs.NewQueue("distribution", func(ctx context.Context, job jobs.Job) error {
		return distributionSvc.HandleJob(ctx, job)
	}, queueCfg)
	distributionSvc = service.NewDistributionService(employeeRepo, absenceRepo, shiftRepo, planningSvc, queue, metricsSvc,
		cfg.Planning.DefaultShiftType, nil, logr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	queue.Start(ctx)
	defer queue.Stop()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.Register(r, cfg.APIPrefix, handler.Handlers{
		Employees:    handler.NewEmployeeHandler(employeeSvc),
		Absences:     handler.NewAbsenceHandler(absenceSvc),
		Shifts:       handler.NewShiftHandler(shiftSvc),
		Planning:     handler.NewPlanningHandler(planningSvc),
		Distribution: handler.NewDistributionHandler(distributionSvc),
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("shutdown failed", "error", err)
	}
}
