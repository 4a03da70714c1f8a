package di

import (
	"context"
	"fmt"

	"github.com/melodymaster/enrollment-api/internal/config"
	"github.com/melodymaster/enrollment-api/internal/database"
	"github.com/melodymaster/enrollment-api/internal/gateway"
	"github.com/melodymaster/enrollment-api/internal/handler"
	"github.com/melodymaster/enrollment-api/internal/kafka"
	"github.com/melodymaster/enrollment-api/internal/redis"
	"github.com/melodymaster/enrollment-api/internal/repository"
	"github.com/melodymaster/enrollment-api/internal/service"
	"go.uber.org/zap"
)

// Container wires the application's dependencies together
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	// Infrastructure
	DB    *database.PostgresDB
	Redis *redis.Client

	// Repositories
	UserRepo       repository.UserRepository
	ClassRepo      repository.ClassRepository
	SelectionRepo  repository.SelectionRepository
	PaymentRepo    repository.PaymentRepository
	EnrollmentRepo repository.EnrollmentRepository
	Store          repository.EnrollmentStore

	// Services
	TokenService      service.TokenService
	UserService       service.UserService
	ClassService      service.ClassService
	EnrollmentService service.EnrollmentService
	EventPublisher    service.EventPublisher

	// Gateway
	PaymentGateway gateway.PaymentGateway

	// Handlers
	AuthHandler       *handler.AuthHandler
	UserHandler       *handler.UserHandler
	ClassHandler      *handler.ClassHandler
	EnrollmentHandler *handler.EnrollmentHandler
	HealthHandler     *handler.HealthHandler
}

// NewContainer builds the full dependency graph. Postgres is required;
// Redis and Kafka are optional and degrade to fail-open/no-op behavior
// when unreachable so the enrollment path keeps working.
func NewContainer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	// Database
	db, err := database.NewPostgres(ctx, &database.PostgresConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.ConnMaxLifetime,
		MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
		MaxRetries:      3,
		EnableTracing:   cfg.OTel.Enabled,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db

	// Redis (optional: idempotency middleware fails open without it)
	redisClient, err := redis.NewClient(ctx, &redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		logger.Warn("redis unavailable, request deduplication disabled", zap.Error(err))
	} else {
		c.Redis = redisClient
	}

	// Repositories
	pool := db.Pool()
	c.UserRepo = repository.NewPostgresUserRepository(pool)
	c.ClassRepo = repository.NewPostgresClassRepository(pool)
	c.SelectionRepo = repository.NewPostgresSelectionRepository(pool)
	c.PaymentRepo = repository.NewPostgresPaymentRepository(pool)
	c.EnrollmentRepo = repository.NewPostgresEnrollmentRepository(pool)
	c.Store = repository.NewPostgresEnrollmentStore(pool)

	// Payment gateway
	if cfg.Stripe.SecretKey != "" {
		gw, err := gateway.NewStripeGateway(&gateway.StripeGatewayConfig{
			SecretKey:   cfg.Stripe.SecretKey,
			Currency:    cfg.Stripe.Currency,
			Environment: cfg.App.Environment,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create stripe gateway: %w", err)
		}
		c.PaymentGateway = gw
	} else {
		logger.Warn("stripe secret key not set, using mock payment gateway")
		c.PaymentGateway = gateway.NewMockGateway(nil)
	}
	logger.Info("payment gateway configured", zap.String("gateway", c.PaymentGateway.Name()))

	// Event publisher (optional: commits never depend on the broker)
	c.EventPublisher = service.NewNoopEventPublisher()
	if len(cfg.Kafka.Brokers) > 0 && cfg.Kafka.Brokers[0] != "" {
		producer, err := kafka.NewProducer(ctx, &kafka.ProducerConfig{
			Brokers:  cfg.Kafka.Brokers,
			ClientID: cfg.Kafka.ClientID,
		})
		if err != nil {
			logger.Warn("kafka unavailable, enrollment events disabled", zap.Error(err))
		} else {
			c.EventPublisher = service.NewKafkaEventPublisher(producer, cfg.Kafka.Topic, logger)
		}
	}

	// Services
	c.TokenService = service.NewTokenService(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL, cfg.JWT.Issuer)
	c.UserService = service.NewUserService(c.UserRepo, logger)
	c.ClassService = service.NewClassService(c.ClassRepo, c.SelectionRepo, logger)
	c.EnrollmentService = service.NewEnrollmentService(
		c.Store,
		c.PaymentRepo,
		c.EnrollmentRepo,
		c.PaymentGateway,
		c.EventPublisher,
		cfg.Stripe.Currency,
		logger,
	)

	// Handlers
	c.AuthHandler = handler.NewAuthHandler(c.TokenService)
	c.UserHandler = handler.NewUserHandler(c.UserService)
	c.ClassHandler = handler.NewClassHandler(c.ClassService)
	c.EnrollmentHandler = handler.NewEnrollmentHandler(c.EnrollmentService)

	checks := map[string]handler.HealthChecker{
		"database": db,
	}
	if c.Redis != nil {
		checks["redis"] = c.Redis
	}
	c.HealthHandler = handler.NewHealthHandler(cfg.App.Version, checks)

	return c, nil
}

// Close releases all held resources in reverse dependency order
func (c *Container) Close() {
	if c.EventPublisher != nil {
		c.EventPublisher.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.DB != nil {
		c.DB.Close()
	}
}
