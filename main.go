package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jchou1989/XuanteaPOS-sub001/configs"
	"github.com/jchou1989/XuanteaPOS-sub001/events"
	"github.com/jchou1989/XuanteaPOS-sub001/middlewares"
	"github.com/jchou1989/XuanteaPOS-sub001/mq"
	"github.com/jchou1989/XuanteaPOS-sub001/pkg/logger"
	"github.com/jchou1989/XuanteaPOS-sub001/repository"
	"github.com/jchou1989/XuanteaPOS-sub001/routes"
	"github.com/jchou1989/XuanteaPOS-sub001/services"
	"github.com/jchou1989/XuanteaPOS-sub001/ws"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := configs.LoadConfig()
	logger.Setup(cfg.LogLevel, cfg.LogFormat)
	appLog := logger.New("pos-dashboard")

	// DB
	db, err := configs.ConnectDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}
	if err := configs.SetupDatabase(db); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}
	if err := configs.SeedAdmin(db, cfg); err != nil {
		log.Fatal().Err(err).Msg("seed admin")
	}
	if err := configs.SeedDevices(db); err != nil {
		log.Fatal().Err(err).Msg("seed devices")
	}

	pending, err := repository.OpenPendingStore(cfg.PendingQueuePath)
	if err != nil {
		log.Fatal().Err(err).Msg("open pending queue")
	}
	defer pending.Close()

	// Bus and subscribers
	bus := events.NewBus()
	policy := services.RetryPolicy{Attempts: cfg.RetryAttempts, BaseDelay: cfg.RetryBaseDelay}
	gateway := services.NewTransactionGateway(repository.NewTransactionRepository(db), pending, policy, logger.New("transaction-gateway"))

	queue := services.NewOrderQueue()
	queue.Attach(bus)
	kitchen := services.NewKitchenBoard()
	kitchen.Attach(bus)
	services.NewTransactionRecorder(gateway, bus, logger.New("transaction-recorder")).Attach()
	analytics := services.NewSalesAnalytics()
	analytics.Attach(bus)

	coordinator := services.NewStatusCoordinator(queue, gateway, bus, logger.New("status-coordinator"))
	coordinator.Attach(bus)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := ws.NewEventHub(logger.New("ws"))
	hub.Attach(bus)
	go hub.Run(ctx)

	if cfg.RabbitMQURL != "" {
		client, err := mq.Dial(cfg.RabbitMQURL)
		if err != nil {
			appLog.Warn().Err(err).Msg("rabbitmq unavailable, relay disabled")
		} else {
			defer client.Close()
			mq.NewRelay(client.Channel(), logger.New("mq-relay")).Attach(bus)
		}
	}

	devices := services.NewDeviceService(repository.NewDeviceRepository(db))
	worker := services.NewSyncWorker(cfg.SyncInterval, logger.New("sync-worker"),
		services.PendingSyncJob(gateway),
		devices.SweepJob(),
	)
	worker.Start()

	// HTTP
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), middlewares.RequestLogger(logger.New("http")))
	routes.RegisterRoutes(r, routes.Deps{
		JWTSecret:   cfg.JWTSecret,
		Bus:         bus,
		Queue:       queue,
		Coordinator: coordinator,
		Kitchen:     kitchen,
		Gateway:     gateway,
		Analytics:   analytics,
		Generator:   services.NewSampleGenerator(bus, cfg.SampleInterval, logger.New("sample-generator")),
		Devices:     devices,
		Auth:        services.NewAuthService(repository.NewUserRepository(db), cfg.JWTSecret, cfg.JWTTTL),
		Printer:     services.NewPrintTracker(services.LogPrinter{Log: logger.New("printer")}, logger.New("printer")),
		Hub:         hub,
	})

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		appLog.Info().Str("addr", srv.Addr).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Fatal().Err(err).Msg("listen")
		}
	}()

	<-ctx.Done()
	appLog.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Error().Err(err).Msg("http shutdown")
	}
	if err := worker.Stop(); err != nil {
		appLog.Error().Err(err).Msg("sync worker stop")
	}
}
