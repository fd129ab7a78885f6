package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/slack-go/slack"

	"github.com/shenikar/green_corridor_dispatch/internal/config"
	"github.com/shenikar/green_corridor_dispatch/internal/corridor"
	"github.com/shenikar/green_corridor_dispatch/internal/events"
	"github.com/shenikar/green_corridor_dispatch/internal/facility"
	v1 "github.com/shenikar/green_corridor_dispatch/internal/handler/http/v1"
	"github.com/shenikar/green_corridor_dispatch/internal/intake"
	"github.com/shenikar/green_corridor_dispatch/internal/models"
	"github.com/shenikar/green_corridor_dispatch/internal/notify"
	"github.com/shenikar/green_corridor_dispatch/internal/oracle"
	"github.com/shenikar/green_corridor_dispatch/internal/repository"
	"github.com/shenikar/green_corridor_dispatch/internal/routing"
	"github.com/shenikar/green_corridor_dispatch/internal/scoring"
	"github.com/shenikar/green_corridor_dispatch/internal/service"
	"github.com/shenikar/green_corridor_dispatch/internal/webhook"
	"github.com/shenikar/green_corridor_dispatch/pkg/logger"
	mqttclient "github.com/shenikar/green_corridor_dispatch/pkg/mqtt"
	natsclient "github.com/shenikar/green_corridor_dispatch/pkg/nats"
	"github.com/shenikar/green_corridor_dispatch/pkg/postgres"
	redisclient "github.com/shenikar/green_corridor_dispatch/pkg/redis"
	"github.com/sirupsen/logrus"

	_ "github.com/shenikar/green_corridor_dispatch/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Green Corridor Dispatch API
// @version 1.0
// @description Emergency incident dispatch: severity scoring, facility matching, priority corridors and notifications.
// @host localhost:8080
// @BasePath /api/v1
func runMigrations(cfg *config.Config, log *logrus.Logger) error {
	log.Info("Running database migrations...")

	migrationURL := cfg.DatabaseURL
	if !strings.HasPrefix(migrationURL, "pgx5://") {
		migrationURL = strings.Replace(migrationURL, "postgres://", "pgx5://", 1)
	}

	m, err := migrate.New(cfg.MigrationsPath, migrationURL)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migrations applied successfully")
	return nil
}

// buildSink собирает канал доставки по классам получателей, по умолчанию - журнал
func buildSink(cfg *config.Config, log *logrus.Logger) notify.Sink {
	router := notify.NewRouterSink(notify.NewLogSink(log))

	webhooks := map[models.RecipientClass]string{
		models.RecipientFacility:  cfg.WebhookFacilityURL,
		models.RecipientAuthority: cfg.WebhookAuthorityURL,
		models.RecipientRequester: cfg.WebhookRequesterURL,
	}
	channels := map[models.RecipientClass]string{
		models.RecipientFacility:  cfg.SlackFacilityChannel,
		models.RecipientAuthority: cfg.SlackAuthorityChannel,
	}

	var slackClient *slack.Client
	if cfg.SlackBotToken != "" {
		slackClient = slack.New(cfg.SlackBotToken)
	}

	for class, url := range webhooks {
		var sinks notify.FanoutSink
		if url != "" {
			sinks = append(sinks, webhook.NewSink(url, cfg.WebhookSecret, cfg.NotifyTimeout, log))
		}
		if channel := channels[class]; slackClient != nil && channel != "" {
			sinks = append(sinks, notify.NewSlackSink(slackClient, channel))
		}
		if len(sinks) == 0 {
			continue
		}
		router.Route(class, sinks)
		log.WithFields(logrus.Fields{"recipient": class, "sinks": len(sinks)}).Info("Notification channel configured")
	}
	return router
}

func main() {
	// Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("Invalid config: %v", err)
	}

	// Инициализация логгера
	log := logger.New(cfg.LogLevel)

	// Контекст для graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// PostgreSQL: справочник учреждений и архив записей
	var dbpool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		if err := runMigrations(cfg, log); err != nil {
			log.Fatalf("Failed to run database migrations: %v", err)
		}
		dbpool, err = postgres.NewPostgresDB(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to connect to PostgreSQL: %v", err)
		}
		defer dbpool.Close()
		log.Info("Successfully connected to PostgreSQL")
	}

	// Redis: реестр внешних ссылок, кэш записей и лента событий
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient, err = redisclient.NewRedisClient(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		log.Info("Successfully connected to Redis")
	}

	var catalog facility.Catalog = facility.NewFileCatalog(cfg.FacilityCatalogPath)
	if dbpool != nil {
		catalog = repository.NewFacilityRepository(dbpool)
	}
	facilities, err := catalog.Facilities(ctx)
	if err != nil {
		log.Fatalf("Failed to load facility catalog: %v", err)
	}
	log.WithField("facilities", len(facilities)).Info("Facility catalog loaded")

	var registry intake.ReferenceRegistry = intake.NewMemoryRegistry()
	publishers := events.Multi{}
	if redisClient != nil {
		registry = repository.NewReferenceRepository(redisClient, cfg.ReferenceTTL)
		publishers = append(publishers, events.NewRedisPublisher(redisClient))
	}

	if cfg.NATSURL != "" {
		nc, err := natsclient.NewNATSConn(cfg.NATSURL, "green-corridor-dispatch")
		if err != nil {
			log.Fatalf("Failed to connect to NATS: %v", err)
		}
		defer func() { _ = nc.Drain() }()
		publishers = append(publishers, events.NewNATSPublisher(nc))
		log.Info("Successfully connected to NATS")
	}

	var signals corridor.SignalPublisher
	if cfg.MQTTBroker != "" {
		mc, err := mqttclient.NewMQTTClient(cfg.MQTTBroker, cfg.MQTTClientID, 10*time.Second)
		if err != nil {
			log.Fatalf("Failed to connect to MQTT broker: %v", err)
		}
		defer mc.Disconnect(250)
		signals = corridor.NewMQTTPublisher(mc, cfg.MQTTTopic, cfg.NotifyTimeout)
		log.Info("Successfully connected to MQTT broker")
	}

	var scoringOracle scoring.Oracle
	if cfg.ScoringOracleURL != "" {
		scoringOracle = oracle.NewScoringClient(cfg.ScoringOracleURL, cfg.OracleTimeout, log)
	}
	var etaOracle routing.ETAOracle
	if cfg.ETAOracleURL != "" {
		etaOracle = oracle.NewETAClient(cfg.ETAOracleURL, cfg.OracleTimeout, log)
	}

	components := service.Components{
		Intake:    intake.New(cfg),
		Registry:  registry,
		Assessor:  scoring.NewAssessor(scoringOracle, cfg.OracleTimeout, log),
		Matcher:   facility.NewMatcher(facility.NewLedger(facilities, cfg.OverrideWindow, log), log),
		Estimator: routing.NewEstimator(routing.ParamsFromConfig(cfg), etaOracle, cfg.OracleTimeout, log),
		Corridor:  corridor.NewActivator(corridor.ParamsFromConfig(cfg), signals, log),
		Notifier:  notify.NewNotifier(buildSink(cfg, log), notify.OptionsFromConfig(cfg), log),
		Events:    publishers,
	}
	if dbpool != nil {
		components.Archive = repository.NewDispatchRepository(dbpool, redisClient)
	}

	// Инициализация сервисов
	dispatchService := service.NewDispatchService(components, cfg, log)

	// Инициализация хэндлеров
	handler := v1.NewHandler(dispatchService, log, cfg)

	// Настройка Gin роутера
	router := gin.Default()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	// Добавление маршрута для Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Запуск HTTP-сервера
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: router,
	}

	// Запуск сервера в горутине
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Error starting HTTP server: %v", err)
		}
	}()
	log.Infof("HTTP server started on port %s", cfg.HTTPPort)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Received shutdown signal, shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}
	if err := dispatchService.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Dispatch pipelines did not drain: %v", err)
	}

	log.Info("Server exited gracefully")
}
