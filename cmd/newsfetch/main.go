package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/mzurek/gpwpulse/internal/config"
	"github.com/mzurek/gpwpulse/internal/feed"
	"github.com/mzurek/gpwpulse/internal/logging"
	"github.com/mzurek/gpwpulse/internal/news"
	"github.com/mzurek/gpwpulse/internal/search"
	"github.com/mzurek/gpwpulse/internal/storage"
)

// Version is set at build time
var Version = "dev"

func main() {
	var (
		configPath     = flag.String("config", "", "Path to configuration file")
		outPath        = flag.String("out", "", "Snapshot output path (overrides config)")
		dbPath         = flag.String("db", "", "Path to database file (overrides config)")
		searchQuery    = flag.String("search", "", "Query the article index instead of running the pipeline")
		generateConfig = flag.Bool("generate-config", false, "Generate default config file")
		version        = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *version {
		fmt.Printf("newsfetch %s\n", Version)
		fmt.Println("GPW news pipeline")
		return
	}

	if *generateConfig {
		home, _ := os.UserHomeDir()
		configFile := filepath.Join(home, ".config", "gpwpulse", "config.toml")

		if err := config.GenerateDefaultConfig(configFile); err != nil {
			log.Fatalf("Failed to generate config: %v", err)
		}
		fmt.Printf("Generated default configuration at: %s\n", configFile)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *outPath != "" {
		cfg.Snapshot.Path = *outPath
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	if err := logging.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logging.Sync()

	if *searchQuery != "" {
		runSearch(cfg, *searchQuery)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.NewStore(cfg.Database.Path)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	pipeline := feed.NewPipeline(cfg)
	pipeline.Recorder = store
	pipeline.Index = indexerFunc(func(articles []news.Article) error {
		engine, err := search.Rebuild(cfg.Search.IndexPath, articles)
		if err != nil {
			return err
		}
		return engine.Close()
	})

	if err := pipeline.Run(ctx); err != nil {
		logging.Sync()
		log.Fatalf("Pipeline failed: %v", err)
	}
}

type indexerFunc func([]news.Article) error

func (f indexerFunc) IndexArticles(articles []news.Article) error { return f(articles) }

func runSearch(cfg *config.Config, query string) {
	engine, err := search.Open(cfg.Search.IndexPath)
	if err != nil {
		log.Fatalf("Failed to open search index: %v", err)
	}
	defer engine.Close()

	results, err := engine.Search(query, 20)
	if err != nil {
		log.Fatalf("Search failed: %v", err)
	}

	for _, r := range results {
		fmt.Printf("%.2f  [%s] %s\n      %s\n", r.Score, r.Source, r.Title, r.Link)
	}
	if len(results) == 0 {
		fmt.Println("no matches")
	}
}
