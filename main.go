package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/viper"
	"github.com/streadway/amqp"

	"dubon/internal/config"
	"dubon/internal/database"
	"dubon/pkg/cache"
	"dubon/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load(viper.New())
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// --- Database ---
	db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("%v", err)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	deps := Deps{DB: db}

	// --- Redis cache (optional) ---
	var redisCache *cache.RedisCache
	if cfg.RedisAddr != "" {
		redisCache, err = cache.NewRedisCache(ctx, cache.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.Printf("Warning: Redis unavailable, running without cache: %v", err)
		} else {
			deps.Cache = redisCache
		}
	}

	// --- RabbitMQ (optional) ---
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{
			URL:      cfg.RabbitMQURL,
			Exchange: cfg.RabbitMQExchange,
			Queue:    cfg.RabbitMQQueue,
		})
		if err != nil {
			log.Printf("Warning: RabbitMQ unavailable, notifications are stored directly: %v", err)
		} else {
			deps.Broker = mqClient
		}
	}

	app := NewApp(cfg, deps)

	if err := app.Auth.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("Failed to seed admin: %v", err)
	}

	// --- Event consumer ---
	if deps.Broker != nil {
		err := mqClient.Consume(ctx, func(msg amqp.Delivery) error {
			log.Printf("Received event %s (tag %d)", msg.RoutingKey, msg.DeliveryTag)
			return app.Notifications.HandleMessage(ctx, msg.Body)
		})
		if err != nil {
			log.Printf("Failed to start RabbitMQ consumer: %v", err)
		}
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Fiber.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Fiber.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	stop()

	if mqClient != nil {
		if err := mqClient.Close(); err != nil {
			log.Printf("Error closing RabbitMQ client: %v", err)
		}
	}
	if redisCache != nil {
		if err := redisCache.Close(); err != nil {
			log.Printf("Error closing Redis client: %v", err)
		}
	}
	log.Println("Server gracefully stopped")
}
