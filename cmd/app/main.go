package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"dispatch/cmd"
	"dispatch/internal/adapters/out/kafka"
	"dispatch/internal/adapters/out/postgres/cancellationrepo"
	"dispatch/internal/adapters/out/postgres/deliveryrepo"
	"dispatch/internal/adapters/out/postgres/orderrepo"
	"dispatch/internal/adapters/out/postgres/partnerrepo"
	"dispatch/internal/core/ports"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	configs := getConfigs()

	gormDB, err := openDatabase(configs)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	var mirrors []ports.EventPublisher
	var producer *kafka.Producer
	if configs.KafkaBrokers != "" {
		producer, err = kafka.NewProducer(configs.KafkaBrokers, configs.KafkaTopic)
		if err != nil {
			log.Fatalf("kafka producer setup failed: %v", err)
		}
		defer producer.Close()
		mirrors = append(mirrors, producer)
	}

	app := cmd.NewCompositionRoot(configs, gormDB, mirrors...)

	jobManager := app.CreateJobManager(logger)
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("job startup failed: %v", err)
	}
	defer jobManager.StopAll()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	app.CreateHTTPServer().RegisterRoutes(e)

	go func() {
		if err := e.Start("0.0.0.0:" + configs.HTTPPort); err != nil && err != http.ErrServerClosed {
			logger.Error("http server stopped", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("http shutdown failed", "error", err)
	}
}

func getConfigs() cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		slog.Info("no .env file, using process environment")
	}

	return cmd.Config{
		HTTPPort:       envOr("HTTP_PORT", "8080"),
		DBHost:         envOr("DB_HOST", "localhost"),
		DBPort:         envOr("DB_PORT", "5432"),
		DBUser:         os.Getenv("DB_USER"),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBName:         os.Getenv("DB_NAME"),
		DBSslMode:      envOr("DB_SSLMODE", "disable"),
		RoutingBaseURL: os.Getenv("ROUTING_BASE_URL"),
		KafkaBrokers:   os.Getenv("KAFKA_BROKERS"),
		KafkaTopic:     envOr("KAFKA_TOPIC", "dispatch.events"),
		AdminToken:     os.Getenv("ADMIN_TOKEN"),
		ScopeSecret:    os.Getenv("SCOPE_SECRET"),
		OfferTimeout:   minutesOr("OFFER_TIMEOUT_MINUTES", 0),
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func minutesOr(key string, fallback int) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return time.Duration(fallback) * time.Minute
	}
	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes < 0 {
		slog.Warn("ignoring invalid duration setting", "key", key, "value", raw)
		return time.Duration(fallback) * time.Minute
	}
	return time.Duration(minutes) * time.Minute
}

func openDatabase(configs cmd.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&deliveryrepo.DeliveryDTO{},
		&partnerrepo.PartnerDTO{},
		&orderrepo.OrderDTO{},
		&cancellationrepo.RequestDTO{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}
