package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cargolink/freight-service/internal/app"
	"github.com/cargolink/freight-service/internal/config"
	"github.com/cargolink/freight-service/internal/handler"
	"github.com/cargolink/freight-service/internal/migrations"
	"github.com/cargolink/freight-service/internal/postgres"
	"github.com/cargolink/freight-service/internal/repo"
	"github.com/cargolink/freight-service/internal/service"
	"github.com/cargolink/freight-service/internal/socket"
	"github.com/cargolink/freight-service/pkg/cache"
	"github.com/cargolink/freight-service/pkg/trm"

	_ "github.com/cargolink/freight-service/docs"

	"github.com/joho/godotenv"
	"github.com/segmentio/kafka-go"
)

// @title           Freight Service API
// @version         1.0
// @description     Shipment and offer matching HTTP API
func main() {
	conf := config.New()
	logger := newLogger(conf.Env)
	panicIfErr("invalid config", conf.Validate())

	db, err := postgres.New(conf.Postgres)
	panicIfErr("failed to connect to db", err)
	defer db.Close()
	logger.Info("postgres connected")

	freightRepo := repo.NewPostgresRepo(db)
	txManager := trm.NewManager(db)
	trackingCache := cache.NewLRUCache(conf.Cache.Capacity, conf.Cache.TTL)
	hub := socket.NewHub(logger)

	eventWriter := &kafka.Writer{
		Addr:         kafka.TCP(conf.Kafka.Brokers...),
		Topic:        conf.Kafka.Topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: conf.Kafka.BatchTimeout,
	}

	notifier := service.NewNotifier(logger, freightRepo, hub, eventWriter)
	shipmentService := service.NewShipmentService(logger, txManager, freightRepo, notifier, trackingCache)
	offerService := service.NewOfferService(logger, txManager, freightRepo, notifier, trackingCache)
	allocator := service.NewCodeAllocator(logger, txManager, freightRepo)

	httpHandler := handler.NewHTTPHandler(logger, shipmentService, offerService, allocator, notifier)
	wsHandler := handler.NewWSHandler(logger, hub)

	app := app.New(logger, conf)

	app.SetHTTPHandlers(httpHandler, wsHandler)
	app.SetStarters(migrations.NewRunner(db), trackingCache)
	app.SetClosers(eventWriter)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	panicIfErr("failed to start app", app.Start(ctx))
	<-ctx.Done()
	panicIfErr("failed to stop app", app.Stop())
}

func init() {
	godotenv.Load()
}

func newLogger(env string) *slog.Logger {
	switch env {
	case "production":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

func panicIfErr(prefix string, err error) {
	if err != nil {
		panic(prefix + ": " + err.Error())
	}
}
