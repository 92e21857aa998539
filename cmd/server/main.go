package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"mesaYaMenu/internal/config"
	orderinghandler "mesaYaMenu/internal/modules/ordering/application/handler"
	orderingusecase "mesaYaMenu/internal/modules/ordering/application/usecase"
	orderinginfra "mesaYaMenu/internal/modules/ordering/infrastructure"
	orderingtransport "mesaYaMenu/internal/modules/ordering/interface"
	ownerhandler "mesaYaMenu/internal/modules/owner/application/handler"
	ownerusecase "mesaYaMenu/internal/modules/owner/application/usecase"
	ownerinfra "mesaYaMenu/internal/modules/owner/infrastructure"
	ownertransport "mesaYaMenu/internal/modules/owner/interface"
	realtimeusecase "mesaYaMenu/internal/modules/realtime/application/usecase"
	"mesaYaMenu/internal/modules/realtime/infrastructure"
	realtimetransport "mesaYaMenu/internal/modules/realtime/interface"
	"mesaYaMenu/internal/platform/broker"
	"mesaYaMenu/internal/platform/storage"
	"mesaYaMenu/internal/platform/sweeper"
	"mesaYaMenu/internal/shared/auth"
	"mesaYaMenu/internal/shared/logging"
)

func main() {
	// Load .env so local runs pick up configuration tweaks.
	if err := godotenv.Overload(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, ".env load warning: %v\n", err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	logFile, logger, err := logging.OpenDaily(cfg.Logging.Directory, logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: true,
	}, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging setup error: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	slog.SetDefault(logger)
	slog.Info("logging initialized", slog.String("directory", cfg.Logging.Directory), slog.String("level", cfg.Logging.Level), slog.String("format", cfg.Logging.Format))
	slog.Info("upstreams resolved", slog.String("api", cfg.REST.BaseURL), slog.String("auth", cfg.REST.AuthBaseURL), slog.Duration("timeout", cfg.REST.Timeout))
	slog.Info("kafka config resolved", slog.Any("brokers", cfg.Kafka.Brokers), slog.String("group", cfg.Kafka.GroupID))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		slog.Error("storage open failed", slog.String("driver", cfg.Storage.Driver), slog.Any("error", err))
		os.Exit(1)
	}
	defer store.Close()

	hub := infrastructure.NewHub()
	toaster := realtimeusecase.NewToasterUseCase(hub)

	// Customer menu page
	sessions := orderingusecase.NewSessionStore()
	catalog := orderingusecase.NewMenuCatalog(orderinginfra.NewMenuHTTPClient(cfg.REST.BaseURL, cfg.REST.Timeout, nil))
	customerPage := orderingusecase.NewCustomerPageUseCase(sessions, catalog, orderinginfra.NewRestaurantDirectory(cfg.Restaurants), toaster)
	submitOrder := orderingusecase.NewSubmitOrderUseCase(sessions, orderinginfra.NewOrderHTTPClient(cfg.REST.BaseURL, cfg.REST.Timeout, nil), toaster)

	// Owner dashboard
	dashboards := ownerusecase.NewDashboardStore()
	restaurants := ownerinfra.NewRestaurantHTTPClient(cfg.REST.BaseURL, cfg.REST.Timeout, nil)
	dashboard := ownerusecase.NewDashboardUseCase(ownerusecase.DashboardDeps{
		Dashboards:  dashboards,
		Auth:        ownerinfra.NewAuthHTTPClient(cfg.REST.AuthBaseURL, cfg.REST.Timeout, nil),
		Restaurants: restaurants,
		Categories:  restaurants,
		QR:          restaurants,
		Storage:     store,
		Inspector:   auth.NewJWTInspector(cfg.Security.JWTSecret),
		Notifier:    toaster,
	})

	registry := infrastructure.NewHandlerRegistry()
	registry.Register(orderinghandler.NewMenuChangedHandler(cfg.Kafka.MenuTopic, catalog, sessions, hub))
	registry.Register(ownerhandler.NewRestaurantCreatedHandler(cfg.Kafka.RestaurantTopic, dashboards, hub))
	broker.StartKafkaConsumers(ctx, registry, cfg.Kafka.Brokers, cfg.Kafka.GroupID)
	go sweeper.Run(ctx, cfg.Sessions.SweepInterval, cfg.Sessions.IdleTTL, map[string]sweeper.Store{
		"customer_sessions": sessions,
		"dashboards":        dashboards,
	})

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetOutput(log.Writer())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORS())

	orderingtransport.NewCustomerHandler(customerPage, submitOrder, cfg.REST.Timeout).Register(e.Group("/api/customer"))
	ownertransport.NewOwnerHandler(dashboard, cfg.REST.Timeout).Register(e.Group("/api/owner"))
	e.GET("/ws/sessions/:session", realtimetransport.NewWebsocketHandler(hub, toaster, sessions, dashboards))
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{"status": "ok", "sockets": hub.ConnectedSessions()})
	})

	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server stopped", slog.Any("error", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	slog.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Warn("http shutdown error", slog.Any("error", err))
	}
}
