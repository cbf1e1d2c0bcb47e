package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/carson-networks/finance-server/api"
	"github.com/carson-networks/finance-server/internal/auth"
	"github.com/carson-networks/finance-server/internal/cache"
	"github.com/carson-networks/finance-server/internal/config"
	"github.com/carson-networks/finance-server/internal/events"
	"github.com/carson-networks/finance-server/internal/events/amqp"
	"github.com/carson-networks/finance-server/internal/events/kafka"
	"github.com/carson-networks/finance-server/internal/handlers/v1/status"
	"github.com/carson-networks/finance-server/internal/logging"
	"github.com/carson-networks/finance-server/internal/operator"
	"github.com/carson-networks/finance-server/internal/service"
	"github.com/carson-networks/finance-server/internal/storage"
	"github.com/carson-networks/finance-server/internal/storage/memory"
)

const cacheEntries = 10000

func main() {
	envConfig, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("config.ProcessEnvironmentVariables")
		return
	}
	logger := logging.SetupLogging(envConfig.LogLevel)
	logrus.Info("finance-server starting")

	if err := envConfig.Validate(); err != nil {
		logrus.WithError(err).Fatal("config.Validate")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, pinger, err := openStore(envConfig)
	if err != nil {
		logrus.WithError(err).Fatal("openStore")
		return
	}
	defer store.Close()

	delegator := operator.NewOperatorDelegator(store, envConfig.OperatorWorkers,
		operator.WithMaxRetries(envConfig.OperatorMaxRetries),
	)
	delegator.Start()
	defer delegator.Stop()

	publisher, err := openPublisher(envConfig)
	if err != nil {
		logrus.WithError(err).Fatal("openPublisher")
		return
	}
	defer publisher.Close()

	statsCache, err := cache.New[*service.Statistics]("stats", envConfig.StatsCacheTTL, cacheEntries)
	if err != nil {
		logrus.WithError(err).Fatal("cache.New.stats")
		return
	}
	defer statsCache.Close()
	dashboardCache, err := cache.New[*service.Dashboard]("dashboard", envConfig.StatsCacheTTL, cacheEntries)
	if err != nil {
		logrus.WithError(err).Fatal("cache.New.dashboard")
		return
	}
	defer dashboardCache.Close()

	svc := service.NewService(service.Dependencies{
		Store:          store,
		Processor:      delegator,
		Publisher:      publisher,
		StatsCache:     statsCache,
		DashboardCache: dashboardCache,
	})

	httpRest := api.Rest{
		Logger:   logger,
		Port:     envConfig.Port,
		Service:  svc,
		Verifier: auth.NewVerifier(envConfig.JWTSecret),
		Status:   pinger,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return httpRest.Serve(groupCtx)
	})

	if err := group.Wait(); err != nil {
		logrus.WithError(err).Error("finance-server stopped with error")
		return
	}
	logrus.Info("finance-server stopped")
}

func openStore(env *config.Config) (storage.Store, status.Pinger, error) {
	if env.StorageBackend == config.StorageBackendMemory {
		logrus.Warn("finance-server using in-memory storage")
		return memory.NewStore(), nil, nil
	}

	store, err := storage.NewPostgresStore(env)
	if err != nil {
		return nil, nil, err
	}
	return store, store, nil
}

func openPublisher(env *config.Config) (events.Publisher, error) {
	switch env.EventsBackend {
	case config.EventsBackendKafka:
		return events.Logging{Next: kafka.NewPublisher(env.KafkaBrokers, env.KafkaTopic)}, nil
	case config.EventsBackendAMQP:
		publisher, err := amqp.NewPublisher(env.AMQPURL, env.AMQPExchange)
		if err != nil {
			return nil, err
		}
		return events.Logging{Next: publisher}, nil
	default:
		return events.Noop{}, nil
	}
}
