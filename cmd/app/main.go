package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/boatbooking/api"
	"github.com/Domenick1991/boatbooking/config"
	"github.com/Domenick1991/boatbooking/internal/auth"
	"github.com/Domenick1991/boatbooking/internal/bootstrap"
	"github.com/Domenick1991/boatbooking/internal/cache"
	"github.com/Domenick1991/boatbooking/internal/domain"
	"github.com/Domenick1991/boatbooking/internal/logger"
	"github.com/Domenick1991/boatbooking/internal/migrate"
	"github.com/Domenick1991/boatbooking/internal/repository"
	"github.com/Domenick1991/boatbooking/internal/service/boats"
	"github.com/Domenick1991/boatbooking/internal/service/booking"
	"github.com/Domenick1991/boatbooking/internal/service/catalog"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
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
	logger.SetupLogger(cfg.Log, "api")
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := cfg.Auth.Validate(); err != nil {
		logrus.Fatalf("config: %v", err)
	}
	verifier, err := auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.Audience)
	if err != nil {
		logrus.Fatalf("auth: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Database.AutoMigrate {
		migrator, err := migrate.New(cfg.Database.MigrationsPath, cfg.Database.MigrateURL())
		if err != nil {
			logrus.Fatalf("open migrations: %v", err)
		}
		if err := migrator.Up(); err != nil {
			logrus.Fatalf("apply migrations: %v", err)
		}
		_ = migrator.Close()
	}

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logrus.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		logrus.Fatalf("open gorm: %v", err)
	}

	var (
		bookingCache booking.Cache
		boatCache    boats.Cache
		redisCache   *cache.RedisCache
	)
	if cfg.Redis.Addr != "" {
		redisCache = cache.NewRedisCache(cfg.Redis)
		defer redisCache.Close()
		bookingCache = redisCache
		boatCache = redisCache
	} else {
		logrus.Warn("redis not configured, caching and boat locks disabled")
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

	seconds := func(n int) time.Duration { return time.Duration(n) * time.Second }

	bookingService := booking.NewBookingService(
		repository.NewBookingRepository(pool),
		bookingCache,
		producer,
		cfg.Events.BookingTopic,
		booking.WithCacheTTLs(
			seconds(cfg.Booking.ListCacheTTL),
			seconds(cfg.Booking.ActiveCacheTTL),
			seconds(cfg.Booking.DetailCacheTTL),
			seconds(cfg.Booking.AvailabilityCacheTTL),
		),
		booking.WithBoatLock(seconds(cfg.Booking.LockTTL), 2*time.Second),
	)
	boatService := boats.NewBoatService(repository.NewBoatRepository(pool), boatCache, seconds(cfg.Booking.BoatsCacheTTL))

	brokerHealth := bootstrap.BrokerHealth(publisher)

	router := api.NewRouter(api.RouterConfig{
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		Health: func(ctx context.Context) error {
			if err := pool.Ping(ctx); err != nil {
				return err
			}
			if redisCache != nil {
				if err := redisCache.Ping(ctx); err != nil {
					return err
				}
			}
			if brokerHealth != nil {
				return brokerHealth(ctx)
			}
			return nil
		},
	}, verifier, api.Services{
		Bookings:  bookingService,
		Boats:     boatService,
		Locations: catalog.NewService(repository.NewCatalogStore[domain.Location](gormDB)),
		BoatTypes: catalog.NewService(repository.NewCatalogStore[domain.BoatType](gormDB)),
		Captains:  catalog.NewService(repository.NewCatalogStore[domain.Captain](gormDB)),
		Owners:    catalog.NewService(repository.NewCatalogStore[domain.Owner](gormDB)),
		Amenities: catalog.NewService(repository.NewCatalogStore[domain.Amenity](gormDB)),
		Addons:    catalog.NewService(repository.NewCatalogStore[domain.Addon](gormDB)),
		FAQs:      catalog.NewService(repository.NewCatalogStore[domain.FAQ](gormDB)),
	})

	if err := bootstrap.Run(ctx, cfg, router); err != nil {
		logrus.Fatalf("server error: %v", err)
	}
}
