// main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"ticket-storefront/cmd"
	"ticket-storefront/internal/catalog"
	"ticket-storefront/internal/data/repository"
	"ticket-storefront/internal/notify"
	"ticket-storefront/internal/wire"
	"ticket-storefront/pkg/database"
	"ticket-storefront/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, config, logger); err != nil {
		logger.Error("Application stopped with error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	logger.Info("Server exited gracefully")
}

func run(ctx context.Context, config *utils.Config, logger *zap.Logger) error {
	var db database.PgxIface
	if config.NeedsPostgres() {
		conn, err := database.InitDB(ctx, config.Database)
		if err != nil {
			return err
		}
		defer conn.Close()
		db = conn
		logger.Info("Database connected successfully")
	}

	var rdb *redis.Client
	if config.Identity.SessionStore == "redis" {
		cli, err := database.InitRedis(ctx, config.Redis)
		if err != nil {
			return err
		}
		defer cli.Close()
		rdb = cli
		logger.Info("Redis connected successfully", zap.String("addr", config.Redis.Addr))
	}

	repos := newRepository(config, db, rdb, logger)

	notifier, err := newNotifier(config.Notifier, logger)
	if err != nil {
		return err
	}
	defer notifier.Close()

	// Wire all dependencies
	app, err := wire.Wiring(ctx, repos, notifier, config, logger)
	if err != nil {
		return err
	}
	defer app.Service.Close()

	return cmd.APIServer(ctx, app.Router, config.App.Port, config.App.ShutdownTimeout, logger)
}

func newRepository(config *utils.Config, db database.PgxIface, rdb *redis.Client, logger *zap.Logger) *repository.Repository {
	repos := &repository.Repository{
		Event:   repository.NewStaticEventRepository(catalog.DefaultRows()),
		User:    repository.NewMemoryUserRepository(),
		Session: repository.NewMemorySessionRepository(),
	}
	if config.Catalog.Source == "postgres" {
		repos.Event = repository.NewEventRepository(db, logger)
	}
	if config.Identity.UserStore == "postgres" {
		repos.User = repository.NewUserRepository(db, logger)
	}
	if rdb != nil {
		repos.Session = repository.NewRedisSessionRepository(rdb, logger)
	}
	return repos
}

func newNotifier(config utils.NotifierConfig, logger *zap.Logger) (notify.Notifier, error) {
	switch config.Driver {
	case "kafka":
		return notify.NewKafkaNotifier(config.KafkaBrokers, config.KafkaTopic, logger)
	case "rabbitmq":
		return notify.NewRabbitMQNotifier(config.RabbitMQURL, config.RabbitMQQueue, logger)
	default:
		return notify.NewLogNotifier(logger), nil
	}
}
