package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/tcioe-dev/department-portal-api/api/swagger"
	"github.com/tcioe-dev/department-portal-api/internal/handler"
	"github.com/tcioe-dev/department-portal-api/internal/middleware"
	"github.com/tcioe-dev/department-portal-api/internal/repository"
	"github.com/tcioe-dev/department-portal-api/internal/service"
	"github.com/tcioe-dev/department-portal-api/pkg/cache"
	"github.com/tcioe-dev/department-portal-api/pkg/config"
	"github.com/tcioe-dev/department-portal-api/pkg/database"
	"github.com/tcioe-dev/department-portal-api/pkg/logger"
	"github.com/tcioe-dev/department-portal-api/pkg/mailer"
	corsmiddleware "github.com/tcioe-dev/department-portal-api/pkg/middleware/cors"
	reqidmiddleware "github.com/tcioe-dev/department-portal-api/pkg/middleware/requestid"
	"github.com/tcioe-dev/department-portal-api/pkg/storage"
)

// @title Department Portal API
// @version 1.0.0
// @description Verified submission and content relay backend for the campus departments site
// @BasePath /api
// @schemes http https

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

	uploadStore, err := storage.NewLocalStorage(cfg.Submissions.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init upload storage", "error", err)
	}

	var mail mailer.Mailer
	if cfg.SMTP.Enabled {
		mail = mailer.NewSMTP(cfg.SMTP)
	} else {
		mail = mailer.NewLog(logr)
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	mailSvc := service.NewMailService(mail, cfg.SMTP, cfg.Contact.InboxAddress, logr)
	mailSvc.Start(context.Background())
	defer mailSvc.Stop()

	sessionRepo := repository.NewOTPSessionRepository(redisClient, logr)
	mailboxRepo := repository.NewMailboxRepository(redisClient)
	projectRepo := repository.NewProjectRepository(db)
	researchRepo := repository.NewResearchRepository(db)
	journalRepo := repository.NewJournalRepository(db)
	formRepo := repository.NewFormRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	otpSvc := service.NewOTPService(sessionRepo, mailboxRepo, mailSvc, metricsSvc, logr, cfg.OTP)
	submissionSvc := service.NewSubmissionService(
		projectRepo, researchRepo, journalRepo, formRepo,
		otpSvc, mailSvc, uploadStore,
		validate, metricsSvc, logr, cfg.Submissions,
	)

	routes := handler.Routes{
		OTP:        handler.NewOTPHandler(otpSvc),
		Submission: handler.NewSubmissionHandler(submissionSvc),
		Metrics:    metricsSvc,
	}
	if cfg.Content.Enabled {
		contentSvc := service.NewContentService(cacheRepo, metricsSvc, logr, cfg.Upstream, cfg.Content)
		routes.Content = handler.NewContentHandler(contentSvc)
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.MaxMultipartMemory = cfg.Submissions.MaxFileSizeBytes

	handler.RegisterHealth(r, func() error {
		if err := db.Ping(); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		return nil
	})
	routes.Register(r, cfg.APIPrefix)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logr.Sugar().Infow("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
