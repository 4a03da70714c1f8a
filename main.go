package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/melodymaster/enrollment-api/internal/config"
	"github.com/melodymaster/enrollment-api/internal/di"
	"github.com/melodymaster/enrollment-api/internal/domain"
	"github.com/melodymaster/enrollment-api/internal/logger"
	"github.com/melodymaster/enrollment-api/internal/middleware"
	"github.com/melodymaster/enrollment-api/internal/telemetry"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(&logger.Config{
		ServiceName: cfg.App.Name,
		Development: cfg.IsDevelopment(),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if _, err := telemetry.Init(ctx, &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    cfg.OTel.ServiceName,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
	}); err != nil {
		log.Fatal("failed to init telemetry", zap.Error(err))
	}

	container, err := di.NewContainer(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to build container", zap.Error(err))
	}
	defer container.Close()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	setupRoutes(router, container)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("environment", cfg.App.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		log.Error("telemetry shutdown failed", zap.Error(err))
	}

	log.Info("server stopped")
}

// setupRoutes mounts the HTTP surface. Public catalog endpoints take no
// guard; everything else layers Authenticate and, where needed, a role
// check on top.
func setupRoutes(router *gin.Engine, c *di.Container) {
	authed := middleware.Authenticate(c.TokenService)
	studentOnly := middleware.RequireRole(c.UserRepo, domain.RoleStudent)
	instructorOnly := middleware.RequireRole(c.UserRepo, domain.RoleInstructor)
	adminOnly := middleware.RequireRole(c.UserRepo, domain.RoleAdmin)

	// Health
	router.GET("/", c.HealthHandler.Banner)
	router.GET("/health", c.HealthHandler.Live)
	router.GET("/ready", c.HealthHandler.Ready)
	router.GET("/health/ready", c.HealthHandler.Ready)

	// Auth
	router.POST("/jwt", c.AuthHandler.IssueToken)

	// Public catalog
	router.GET("/classes", c.ClassHandler.ListApproved)
	router.GET("/popular-classes", c.ClassHandler.ListPopular)
	router.GET("/instructors", c.UserHandler.ListInstructors)

	// User directory
	router.POST("/users", c.UserHandler.CreateUser)
	router.GET("/users", authed, adminOnly, c.UserHandler.ListUsers)
	router.PATCH("/users/:id", authed, adminOnly, c.UserHandler.UpdateRole)
	router.GET("/users/student/:email", authed, c.UserHandler.ProbeStudent)
	router.GET("/users/instructor/:email", authed, c.UserHandler.ProbeInstructor)
	router.GET("/users/admin/:email", authed, c.UserHandler.ProbeAdmin)

	// Instructor surface
	router.POST("/classes", authed, instructorOnly, c.ClassHandler.CreateClass)
	router.GET("/my-classes", authed, instructorOnly, c.ClassHandler.ListMine)

	// Admin surface
	router.GET("/all-classes", authed, adminOnly, c.ClassHandler.ListAll)
	router.PATCH("/all-classes/:id", authed, adminOnly, c.ClassHandler.UpdateStatus)
	router.PATCH("/feedback/:id", authed, adminOnly, c.ClassHandler.UpdateFeedback)

	// Student surface
	router.POST("/selected-classes", authed, studentOnly, c.ClassHandler.SelectClass)
	router.GET("/selected-classes", authed, studentOnly, c.ClassHandler.ListSelections)
	router.GET("/selected-classes/:id", authed, studentOnly, c.ClassHandler.GetSelection)
	router.DELETE("/selected-classes/:id", authed, studentOnly, c.ClassHandler.RemoveSelection)
	router.GET("/enrolled-classes", authed, studentOnly, c.EnrollmentHandler.ListEnrolled)
	router.POST("/create-payment-intent", authed, studentOnly, c.EnrollmentHandler.CreatePaymentIntent)
	router.GET("/payments", authed, studentOnly, c.EnrollmentHandler.ListPayments)

	// The commit is idempotent in the database; the Redis layer only
	// short-circuits network retries that carry the optional key.
	commitChain := []gin.HandlerFunc{authed, studentOnly}
	if c.Redis != nil {
		commitChain = append(commitChain, middleware.Idempotency(&middleware.IdempotencyConfig{
			Redis: c.Redis.Client(),
		}))
	}
	commitChain = append(commitChain, c.EnrollmentHandler.CommitEnrollment)
	router.POST("/payments", commitChain...)
}
