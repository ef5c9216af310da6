package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bot-console/internal/apiclient"
	"bot-console/internal/config"
	"bot-console/internal/console"
	"bot-console/internal/event"
	"bot-console/internal/handler"
	"bot-console/internal/notify"
	"bot-console/internal/router"
	"bot-console/internal/session"
	"bot-console/internal/view"
	"bot-console/internal/websocket"
)

type App struct {
	server       *http.Server
	cleanupFuncs []func()
}

func New(cfg *config.Config) (*App, error) {
	client := apiclient.New(cfg.APIBaseURL, cfg.SessionCookie, cfg.APITimeout)

	registry, err := console.LoadRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to load view registry: %w", err)
	}

	renderer, err := view.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	bus := event.NewBus()
	hub := websocket.NewHub(bus)
	go hub.Run()

	center := notify.NewCenter(cfg.NotifyTTL, bus)
	dispatcher := console.NewDispatcher(client, registry, center)
	poller := console.NewPoller(cfg.PollInterval, cfg.PollMaxAttempts)

	guard := session.NewGuard(client)
	sessions := session.NewMiddleware(guard)

	shared := handler.NewConsole(cfg, client, registry, renderer, center, dispatcher, poller, bus, hub)

	appRouter := router.New(cfg, sessions, router.Handlers{
		Auth:     handler.NewAuthHandler(shared, guard),
		Pages:    handler.NewPageHandler(shared),
		Fragment: handler.NewFragmentHandler(shared),
		Action:   handler.NewActionHandler(shared),
		WS:       handler.NewWSHandler(shared),
	})

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server: server,
		cleanupFuncs: []func(){
			center.Close,
		},
	}, nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("console starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("console stopped")
	return nil
}
