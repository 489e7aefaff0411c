package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ikkim/daily-report-backend/config"
	"github.com/ikkim/daily-report-backend/internal/app/controller"
	"github.com/ikkim/daily-report-backend/internal/app/repository"
	"github.com/ikkim/daily-report-backend/internal/app/service"
	"github.com/ikkim/daily-report-backend/internal/db"
	apperrors "github.com/ikkim/daily-report-backend/internal/errors"
	"github.com/ikkim/daily-report-backend/internal/middleware"
	"github.com/ikkim/daily-report-backend/internal/router"
	"github.com/ikkim/daily-report-backend/internal/scheduler"
	"github.com/ikkim/daily-report-backend/pkg/logger"
	"github.com/ikkim/daily-report-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logger.Initialize(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		EnableColor: !cfg.Server.IsProduction(),
	})
	apperrors.RegisterValidator()

	logger.Info("Starting Daily Report Backend Server", logger.Fields{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   cfg.Log.Level,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Token blacklist is optional; without redis logout is client-side only
	var (
		revoker service.TokenRevoker
		checker middleware.RevocationChecker
	)
	if cfg.Redis.Enabled() {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Fatal("Failed to initialize redis", err)
		}
		defer func() {
			if err := redis.Close(); err != nil {
				logger.Error("Failed to close redis connection", err)
			}
		}()
		blacklist := redis.NewTokenBlacklist(redis.GetClient())
		revoker = blacklist
		checker = blacklist
	} else {
		logger.Warn("Redis is not configured, token revocation disabled")
	}

	// Initialize repositories
	conn := db.GetDB()
	salesPersonRepo := repository.NewSalesPersonRepository(conn)
	customerRepo := repository.NewCustomerRepository(conn)
	reportRepo := repository.NewReportRepository(conn)
	commentRepo := repository.NewCommentRepository(conn)
	uow := repository.NewUnitOfWork(conn)

	// Initialize services
	authz := service.NewAuthorizationService(salesPersonRepo)
	authService := service.NewAuthService(
		salesPersonRepo,
		revoker,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	reportService := service.NewReportService(reportRepo, authz, uow)
	auditService := service.NewReportAuditService(reportRepo, authz)
	commentService := service.NewCommentService(reportRepo, commentRepo, authz)
	customerService := service.NewCustomerService(customerRepo)
	salesPersonService := service.NewSalesPersonService(salesPersonRepo, authz)

	// Initialize controllers
	r := router.NewRouter(
		controller.NewAuthController(authService),
		controller.NewReportController(reportService, auditService),
		controller.NewCommentController(commentService),
		controller.NewCustomerController(customerService),
		controller.NewSalesPersonController(salesPersonService),
		middleware.NewAuthMiddleware(cfg.JWT.Secret, checker),
		cfg,
	)

	if spec := cfg.Scheduler.MissingReportCron; spec != "" {
		auditScheduler := scheduler.NewMissingReportScheduler(auditService, spec)
		if err := auditScheduler.Start(); err != nil {
			logger.Fatal("Failed to start missing report scheduler", err)
		}
		defer auditScheduler.Stop()
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r.Setup(),
	}

	go func() {
		logger.Info("Server started successfully", logger.Fields{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...", logger.Fields{
		"timeout": cfg.Server.ShutdownTimeout.String(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
		return
	}

	logger.Info("Server stopped successfully")
}
