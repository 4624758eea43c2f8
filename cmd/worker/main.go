package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/travelbooking/config"
	"github.com/Domenick1991/travelbooking/internal/email"
	"github.com/Domenick1991/travelbooking/internal/kafka"
	"github.com/Domenick1991/travelbooking/internal/logger"
	"github.com/Domenick1991/travelbooking/internal/repository"
	"github.com/Domenick1991/travelbooking/internal/service/travel"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	log := logger.New(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := repository.NewPool(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	travelRepo := repository.NewTravelOptionRepository(pool, repository.NewTxManager(pool), log)
	travelService := travel.NewTravelService(travelRepo, nil, log)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic, log)
	defer consumer.Close()

	emailSender := email.NewSender(log)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return consumer.Consume(ctx, kafka.BookingEventHandler(log, emailSender.Send))
	})

	g.Go(func() error {
		return reconcileLoop(ctx, log, travelService, cfg.Worker.ReconcileInterval())
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("worker stopped: %v", err)
	}
	log.Info("worker stopped")
}

func reconcileLoop(ctx context.Context, log logrus.FieldLogger, svc *travel.TravelService, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			found, err := svc.Reconcile(ctx)
			if err != nil {
				log.WithError(err).Error("reconcile inventory")
				continue
			}
			if len(found) > 0 {
				log.Warnf("found %d inventory discrepancies", len(found))
			}
		case <-ctx.Done():
			return nil
		}
	}
}
