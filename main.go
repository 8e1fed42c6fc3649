package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"catalog/internal/app"
	"catalog/internal/config"
	"catalog/internal/database"
	"catalog/internal/logger"
	"catalog/internal/repositories"
	"catalog/internal/services"
	"catalog/pkg/rabbitmq"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.LogLevel, cfg.App.Env)
	if err := run(cfg, log); err != nil {
		log.Error().Err(err).Msg("server exited with error")
		os.Exit(1)
	}
}

// run owns every resource it opens, so they are all closed before main exits.
func run(cfg *config.Config, log zerolog.Logger) error {
	// --- Persistence ---
	db, users, products, err := openRepositories(cfg.Database, log)
	if err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}
	if db != nil {
		defer func() {
			if err := database.Close(db); err != nil {
				log.Error().Err(err).Msg("error closing database")
			}
		}()
	}

	// --- Events ---
	mqClient, err := openEvents(cfg.RabbitMQ, log)
	if err != nil {
		return fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
	}
	var publisher services.EventPublisher
	if mqClient != nil {
		publisher = mqClient
		defer mqClient.Close()

		if err := mqClient.Consume(rabbitmq.AuditHandler(log)); err != nil {
			log.Error().Err(err).Msg("failed to start audit consumer")
		}
	}

	// --- HTTP ---
	server := app.New(app.Deps{
		Users:     users,
		Products:  products,
		Publisher: publisher,
		DB:        db,
		JWTSecret: cfg.Auth.JWTSecret,
		AccessLog: true,
		Log:       log,
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	listenErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.App.Port).Str("driver", cfg.Database.Driver).
			Bool("events", publisher != nil).Bool("auth", cfg.Auth.Enabled()).Msg("starting server")
		listenErr <- server.Listen(cfg.App.Port)
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("server stopped: %w", err)
	case <-quit:
	}

	log.Info().Msg("shutting down server")
	if err := server.Shutdown(); err != nil {
		log.Error().Err(err).Msg("error during Fiber shutdown")
	}
	log.Info().Msg("server gracefully stopped")
	return nil
}

// openRepositories picks the persistence strategy named by cfg. db is nil for the memory driver.
func openRepositories(cfg config.DatabaseConfig, log zerolog.Logger) (*gorm.DB, repositories.UserRepository, repositories.ProductRepository, error) {
	if cfg.Driver == config.DriverMemory {
		log.Info().Msg("using in-memory repositories")
		return nil, repositories.NewMemoryUserRepository(), repositories.NewMemoryProductRepository(), nil
	}

	db, err := database.Open(cfg, log)
	if err != nil {
		return nil, nil, nil, err
	}
	return db, repositories.NewGORMUserRepository(db, cfg.UpsertUsers), repositories.NewGORMProductRepository(db), nil
}

// openEvents connects to RabbitMQ. The client is nil when events are disabled.
func openEvents(cfg config.RabbitMQConfig, log zerolog.Logger) (*rabbitmq.Client, error) {
	if !cfg.Enabled() {
		log.Info().Msg("RABBITMQ_URL is empty, domain events are disabled")
		return nil, nil
	}
	return rabbitmq.NewClient(rabbitmq.Config{
		URL:      cfg.URL,
		Exchange: cfg.Exchange,
		Queue:    cfg.Queue,
	}, log)
}
