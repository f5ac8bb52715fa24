package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/AyrtonAranibar/Bank-movement-service/internal/adapters/cache"
	"github.com/AyrtonAranibar/Bank-movement-service/internal/adapters/database/mongodb"
	"github.com/AyrtonAranibar/Bank-movement-service/internal/adapters/gateway"
	"github.com/AyrtonAranibar/Bank-movement-service/internal/adapters/messaging"
	portsgw "github.com/AyrtonAranibar/Bank-movement-service/internal/core/ports/gateways"
	"github.com/AyrtonAranibar/Bank-movement-service/internal/core/services"
	"github.com/AyrtonAranibar/Bank-movement-service/internal/handlers"
	"github.com/AyrtonAranibar/Bank-movement-service/internal/middleware"
	"github.com/AyrtonAranibar/Bank-movement-service/internal/platform/config"
	"github.com/AyrtonAranibar/Bank-movement-service/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/ulule/limiter/v3"
	limitermemory "github.com/ulule/limiter/v3/drivers/store/memory"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("Service failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx := context.Background()

	db, err := database.NewMongoDatabase(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	defer database.CloseMongo(context.Background(), db)

	movementRepo := mongodb.NewMovementRepository(db)
	if err := movementRepo.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("failed to ensure movement indexes: %w", err)
	}

	// The client cache is best effort: without Redis the service still runs,
	// every client lookup just hits the gateway.
	var clientCache portsgw.ClientCache
	if rdb, err := database.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); err != nil {
		logger.Warn("Redis unavailable, running without client cache", slog.String("error", err.Error()))
	} else {
		defer rdb.Close()
		clientCache = cache.NewClientCache(rdb, cfg.ClientCacheTTL)
	}

	productGateway := gateway.NewProductGateway(cfg.ProductServiceURL, cfg.GatewayTimeout)
	clientGateway := gateway.NewClientGateway(cfg.ClientServiceURL, cfg.GatewayTimeout)
	walletGateway := gateway.NewWalletGateway(cfg.WalletServiceURL, cfg.GatewayTimeout)

	movementService := services.NewMovementService(movementRepo, productGateway, clientGateway, clientCache)

	if cfg.RabbitURL != "" {
		conn, err := amqp.Dial(cfg.RabbitURL)
		if err != nil {
			return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		defer conn.Close()

		ch, err := conn.Channel()
		if err != nil {
			return fmt.Errorf("failed to open RabbitMQ channel: %w", err)
		}
		defer ch.Close()

		consumer := messaging.NewConsumer(movementService, walletGateway, logger)
		if err := consumer.Run(ctx, ch, cfg.WalletTransferQueue, cfg.ExchangeTransferQueue); err != nil {
			return fmt.Errorf("failed to start event consumers: %w", err)
		}
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery(), cors.Default())

	if err := r.SetTrustedProxies(nil); err != nil {
		return fmt.Errorf("failed to set trusted proxies: %w", err)
	}

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		return fmt.Errorf("invalid rate limit format: %w", err)
	}
	rateLimiter := limiter.New(limitermemory.NewStore(), rate)

	r.GET("/health", handlers.GetHealth)

	v1 := r.Group("/api/v1", middleware.RateLimit(rateLimiter), middleware.AuthMiddleware(cfg.JWTSecret))
	handlers.RegisterMovementRoutes(v1, movementService)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		return fmt.Errorf("server failed to run: %w", err)
	}
	return nil
}
