package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/boatbooking/config"
	"github.com/Domenick1991/boatbooking/internal/bootstrap"
	"github.com/Domenick1991/boatbooking/internal/cache"
	"github.com/Domenick1991/boatbooking/internal/domain"
	"github.com/Domenick1991/boatbooking/internal/email"
	"github.com/Domenick1991/boatbooking/internal/logger"
	"github.com/Domenick1991/boatbooking/internal/repository"
	"github.com/Domenick1991/boatbooking/internal/service/booking"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
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
	logger.SetupLogger(cfg.Log, "worker")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logrus.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	var bookingCache booking.Cache
	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisCache(cfg.Redis)
		defer redisCache.Close()
		bookingCache = redisCache
	}

	publisher, err := bootstrap.NewPublisher(cfg)
	if err != nil {
		logrus.Fatalf("events: %v", err)
	}
	var producer booking.Producer
	if publisher != nil {
		defer publisher.Close()
		producer = publisher
	}

	bookingService := booking.NewBookingService(
		repository.NewBookingRepository(pool),
		bookingCache,
		producer,
		cfg.Events.BookingTopic,
	)

	subscriber, err := bootstrap.NewSubscriber(cfg)
	if err != nil {
		logrus.Fatalf("events: %v", err)
	}
	if subscriber != nil {
		defer subscriber.Close()

		emailSender := email.NewSender(cfg.Mail)
		go func() {
			err := subscriber.Consume(ctx, func(ctx context.Context, event domain.BookingEvent) error {
				return emailSender.Send(ctx, event)
			})
			if err != nil && ctx.Err() == nil {
				logrus.WithError(err).Error("consumer stopped")
			}
		}()
	}

	completeTicker := time.NewTicker(time.Duration(cfg.Worker.CompletionSweepMinutes) * time.Minute)
	defer completeTicker.Stop()

	for {
		select {
		case <-completeTicker.C:
			completed, err := bookingService.CompleteFinishedBookings(ctx)
			if err != nil {
				logrus.WithError(err).Error("complete finished bookings")
				continue
			}
			if len(completed) > 0 {
				logrus.WithField("count", len(completed)).Info("bookings completed")
			}
		case <-ctx.Done():
			logrus.Info("shutting down worker")
			return
		}
	}
}
