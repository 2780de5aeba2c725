package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"visaguide/internal/ai"
	appsvc "visaguide/internal/app"
	"visaguide/internal/cache"
	"visaguide/internal/config"
	"visaguide/internal/platform/database"
	rabbitmqClient "visaguide/internal/platform/rabbitmq"
	redisClient "visaguide/internal/platform/redis"
	"visaguide/internal/ratelimit"
	"visaguide/internal/repository"
	"visaguide/internal/worker"
)

type App struct {
	Config       *config.Config
	Logger       *logrus.Logger
	DB           *gorm.DB
	Redis        *redis.Client
	MQConn       *amqp.Connection
	ImportWorker *worker.ImportWorker

	Limiter   ratelimit.Limiter
	Completer appsvc.Completer
	History   appsvc.TurnHistory

	StartedAt time.Time
}

// New wires every dependency the HTTP server needs. Redis and RabbitMQ are
// optional: an empty address leaves them nil.
func New(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*App, error) {
	a, err := NewStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	redisCli, err := redisClient.New(ctx, cfg.Redis)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.Redis = redisCli

	mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL, cfg.RabbitMQ.ImportQueue)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.MQConn = mqConn

	if a.Redis != nil {
		a.Limiter = ratelimit.NewRedisLimiter(a.Redis, cfg.RateLimit.MaxRequests, cfg.RateLimitWindow())
		if cfg.Chat.HistoryTurns > 0 {
			a.History = cache.NewSessionHistory(a.Redis, cfg.Chat.HistoryTurns, cfg.HistoryTTL())
		}
	} else {
		a.Limiter = ratelimit.NewMemoryLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimitWindow())
	}
	a.Completer = ai.NewOpenAICompatibleClient(cfg.LLMTimeout())

	if a.MQConn != nil {
		a.ImportWorker = worker.NewImportWorker(a.MQConn, a.VisaService(), cfg.RabbitMQ.ImportQueue, logger)
		if err := a.ImportWorker.Start(ctx); err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("start import worker failed: %w", err)
		}
	}

	logger.WithFields(logrus.Fields{
		"db_driver": cfg.Database.Driver,
		"redis":     a.Redis != nil,
		"rabbitmq":  a.MQConn != nil,
		"history":   a.History != nil,
	}).Info("dependencies ready")
	return a, nil
}

// NewStorage opens and migrates the SQL store only. Used by the CLI paths that
// do not serve HTTP.
func NewStorage(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*App, error) {
	db, err := database.New(ctx, cfg.Database.Driver, cfg.DatabaseDSN())
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
		return nil, err
	}
	return &App{
		Config:    cfg,
		Logger:    logger,
		DB:        db,
		StartedAt: time.Now(),
	}, nil
}

func (a *App) VisaService() *appsvc.VisaService {
	return appsvc.NewVisaService(repository.NewVisaRepository(a.DB), a.Logger)
}

// ImportPublisher returns nil when no broker is configured.
func (a *App) ImportPublisher() *rabbitmqClient.ImportPublisher {
	if a.MQConn == nil {
		return nil
	}
	return rabbitmqClient.NewImportPublisher(a.MQConn, a.Config.RabbitMQ.ImportQueue)
}

func (a *App) LLMConfig() ai.ChatConfig {
	return ai.ChatConfig{
		BaseURL:     a.Config.LLM.BaseURL,
		APIKey:      a.Config.LLM.APIKey,
		Model:       a.Config.LLM.Model,
		Temperature: a.Config.LLM.Temperature,
		MaxTokens:   a.Config.LLM.MaxTokens,
	}
}

func (a *App) Close() error {
	var errs []error
	if a.ImportWorker != nil {
		a.ImportWorker.Close()
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
