// server/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ViniZap4/lumi-notes/config"
	httphandlers "github.com/ViniZap4/lumi-notes/http"
	"github.com/ViniZap4/lumi-notes/logging"
	"github.com/ViniZap4/lumi-notes/metrics"
	"github.com/ViniZap4/lumi-notes/store"
	"github.com/ViniZap4/lumi-notes/ws"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	if err := logging.Setup(cfg.Log.Level, cfg.Log.Format, os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("logging")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	var hub *ws.Hub
	if cfg.Events {
		hub = ws.NewHub(ws.WithClientGauge(m.SetWSClients))
		go hub.Run(ctx)
	}

	server := httphandlers.NewServer(store.New(), hub, m)
	app := server.App(cfg.HTTP)

	go func() {
		log.Info().
			Str("addr", cfg.HTTP.Addr()).
			Bool("events", cfg.Events).
			Msg("server starting")
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("http server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
