package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mzurek/gpwpulse/internal/alert"
	"github.com/mzurek/gpwpulse/internal/config"
	"github.com/mzurek/gpwpulse/internal/indicator"
	"github.com/mzurek/gpwpulse/internal/logging"
	"github.com/mzurek/gpwpulse/internal/pricefeed"
	"github.com/mzurek/gpwpulse/internal/storage"
)

// Version is set at build time
var Version = "dev"

func main() {
	var (
		configPath = flag.String("config", "", "Path to configuration file")
		dbPath     = flag.String("db", "", "Path to database file (overrides config)")
		listenAddr = flag.String("listen", "", "HTTP listen address (overrides config)")
		streamURL  = flag.String("stream", "", "Price stream websocket URL (overrides config)")
		version    = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *version {
		fmt.Printf("alertd %s\n", Version)
		fmt.Println("GPW price alert daemon")
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	if *listenAddr != "" {
		cfg.Alerts.ListenAddr = *listenAddr
	}
	if *streamURL != "" {
		cfg.Alerts.StreamURL = *streamURL
	}

	if err := logging.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logging.Sync()

	store, err := storage.NewStore(cfg.Database.Path)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	hub := pricefeed.NewHub()
	evaluator, err := alert.NewEvaluator(store, hub, alert.NewDesktopNotifier())
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := pricefeed.NewClient(cfg.Alerts.StreamURL)
	go client.Run(ctx)
	go evaluateLoop(ctx, cfg.Alerts.TickInterval, client, evaluator)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.Handle)
	mux.Handle("/metrics", promhttp.Handler())
	alert.RegisterHandlers(mux, evaluator)
	indicator.RegisterHandlers(mux)

	server := &http.Server{
		Addr:    cfg.Alerts.ListenAddr,
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logging.Log.Info("alertd listening",
		zap.String("addr", cfg.Alerts.ListenAddr),
		zap.String("stream", cfg.Alerts.StreamURL),
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

// evaluateLoop samples the latest prices on each tick and feeds them to the
// evaluator. Ticks run to completion before the next one starts.
func evaluateLoop(ctx context.Context, interval time.Duration, client *pricefeed.Client, evaluator *alert.Evaluator) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			prices := client.Prices()
			if len(prices) == 0 {
				continue
			}
			if err := evaluator.Evaluate(prices); err != nil {
				logging.Log.Error("alert evaluation", zap.Error(err))
			}
		}
	}
}
