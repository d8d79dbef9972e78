package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/docreview/internal/api"
	"github.com/dgallion1/docreview/internal/config"
	"github.com/dgallion1/docreview/internal/extract"
	"github.com/dgallion1/docreview/internal/render"
	"github.com/dgallion1/docreview/internal/session"
	"github.com/dgallion1/docreview/internal/viewer"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if err := render.Setup(render.Options{DPI: cfg.RenderDPI, MaxWidth: cfg.RenderMaxWidth}); err != nil {
		log.Error("render setup failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize clients.
	pdf := render.NewPDFRenderer(log)
	client := extract.NewClient(cfg.ExtractBaseURL, cfg.ExtractTimeout)

	// Initialize sessions and the extraction pool.
	store := session.NewStore(cfg.SessionTTL, func() *viewer.Shell {
		return viewer.NewShell(pdf, log)
	})
	orch := session.NewOrchestrator(session.Options{
		Workers:   cfg.WorkerCount,
		QueueSize: cfg.MaxQueueSize,
		Retry:     session.DefaultRetryPolicy(),
	}, client, store, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, client.Stats, pdf, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		// Stop accepting uploads before the queue closes.
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		orch.Stop()
		store.CloseAll()
		client.Close()
	}()

	log.Info("starting docreview",
		"port", cfg.Port,
		"extract_url", cfg.ExtractBaseURL,
		"default_model", cfg.ExtractDefaultModel,
		"workers", cfg.WorkerCount,
	)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	<-stopped
}
