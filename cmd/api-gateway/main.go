package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/siakad-api/api/swagger"
	"github.com/noah-isme/siakad-api/internal/handler"
	internalmiddleware "github.com/noah-isme/siakad-api/internal/middleware"
	"github.com/noah-isme/siakad-api/internal/repository"
	"github.com/noah-isme/siakad-api/internal/service"
	"github.com/noah-isme/siakad-api/pkg/cache"
	"github.com/noah-isme/siakad-api/pkg/config"
	"github.com/noah-isme/siakad-api/pkg/database"
	"github.com/noah-isme/siakad-api/pkg/jobs"
	"github.com/noah-isme/siakad-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/siakad-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/siakad-api/pkg/middleware/requestid"
)

// @title SIAKAD API
// @version 1.0.0
// @description Academic administration: KRS admission control and room scheduling.
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

	if err := run(cfg, logr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func run(cfg *config.Config, logr *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, cache disabled", zap.Error(err))
			redisClient = nil
		}
	}

	metrics := service.NewMetricsService()
	validate := service.NewValidator()
	transactor := database.NewTransactor(db)

	krsRepo := repository.NewKRSRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	lecturerRepo := repository.NewLecturerRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.KRS.SummaryCacheTTL, logr, redisClient != nil)
	queue := jobs.NewQueue("cache", cacheSvc.HandleJob, jobs.QueueConfig{
		Workers:    cfg.Cache.Workers,
		MaxRetries: cfg.Cache.Retries,
		Logger:     logr,
	})
	queue.Start(ctx)
	defer queue.Stop()
	cacheSvc.UseQueue(queue)

	krsSvc := service.NewKRSService(service.KRSServiceParams{
		Repo:      krsRepo,
		Students:  studentRepo,
		Courses:   courseRepo,
		Grades:    gradeRepo,
		Locker:    transactor,
		Cache:     cacheSvc,
		Metrics:   metrics,
		Validator: validate,
		Logger:    logr,
		Config: service.KRSServiceConfig{
			MaxCredits: cfg.KRS.MaxCredits,
			SummaryTTL: cfg.KRS.SummaryCacheTTL,
		},
	})
	scheduleSvc := service.NewScheduleService(service.ScheduleServiceParams{
		Repo:      scheduleRepo,
		Courses:   courseRepo,
		Lecturers: lecturerRepo,
		Rooms:     roomRepo,
		Locker:    transactor,
		Metrics:   metrics,
		Validator: validate,
		Logger:    logr,
	})

	courseSvc := service.NewCourseService(courseRepo, lecturerRepo, krsRepo, gradeRepo, validate, logr)
	courseSvc.UseSummaryCache(cacheSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics))
	r.Use(internalmiddleware.WithResponseMeta())

	checks := map[string]handler.ReadinessCheck{"database": db.PingContext}
	if redisClient != nil {
		checks["redis"] = cacheRepo.Ping
	}
	metricsHandler := handler.NewMetricsHandler(metrics, checks)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	handler.Handlers{
		KRS:       handler.NewKRSHandler(krsSvc),
		Schedules: handler.NewScheduleHandler(scheduleSvc),
		Rooms:     handler.NewRoomHandler(service.NewRoomService(roomRepo, scheduleRepo, validate, logr)),
		Courses:   handler.NewCourseHandler(courseSvc),
		Students:  handler.NewStudentHandler(service.NewStudentService(studentRepo, logr)),
		Lecturers: handler.NewLecturerHandler(service.NewLecturerService(lecturerRepo, logr)),
	}.Register(r.Group(cfg.APIPrefix))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "max_credits", krsSvc.MaxCredits(), "cache", cacheSvc.Enabled())
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logr.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}
