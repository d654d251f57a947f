package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eventmate/booking-service/config"
	"github.com/eventmate/booking-service/internal/bootstrap"
	"github.com/eventmate/booking-service/internal/cache"
	"github.com/eventmate/booking-service/internal/kafka"
	"github.com/eventmate/booking-service/internal/repository"
	"github.com/eventmate/booking-service/internal/service/enrollment"
	"github.com/eventmate/booking-service/internal/service/events"
	"github.com/eventmate/booking-service/internal/service/venue"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.EventsCacheTTL)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	bookingRepo := repository.NewBookingRepository(pool)
	eventRepo := repository.NewEventRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	venueRepo := repository.NewVenueRepository(pool)

	eventService := events.NewEventService(eventRepo, redisCache)
	enrollmentService := enrollment.NewEnrollmentService(
		bookingRepo,
		eventRepo,
		userRepo,
		redisCache,
		producer,
		cfg.Kafka.BookingTopic,
		time.Duration(cfg.Booking.SeatLockTTLSeconds)*time.Second,
		enrollment.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)
	venueService := venue.NewVenueService(venueRepo)

	if err := bootstrap.Run(ctx, cfg, eventService, enrollmentService, venueService); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
