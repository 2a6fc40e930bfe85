package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gmar02/tccprot/internal/app/config"
	"github.com/gmar02/tccprot/internal/app/domains/services/svcallback"
	"github.com/gmar02/tccprot/internal/app/domains/services/svclassify"
	"github.com/gmar02/tccprot/internal/app/infra/mq/lmstfy"
	"github.com/gmar02/tccprot/internal/app/infra/persistence/redis"
	"github.com/gmar02/tccprot/internal/worker"
	"github.com/gmar02/tccprot/pkg/logger"
)

var configPath = flag.String("config", "./config/worker.yaml", "config file path")

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Config validation failed: %v", err)
	}

	zapLogger, err := logger.NewZapLogger(cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zapLogger.Sync()

	ctx := context.Background()

	queue, err := lmstfy.NewClient(cfg.Lmstfy.Host, cfg.Lmstfy.Port, cfg.Lmstfy.Namespace, cfg.Lmstfy.Token, cfg.Queue.MaxTries)
	if err != nil {
		log.Fatalf("Failed to create queue client: %v", err)
	}

	classifier, err := svclassify.NewGeminiClassifier(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.Timeout, zapLogger)
	if err != nil {
		log.Fatalf("Failed to create classifier: %v", err)
	}

	dispatcher := svcallback.NewDispatcher(cfg.Callback.Timeout, zapLogger)

	var dedup worker.DedupStore
	if cfg.DedupEnabled() {
		store, err := redis.NewMarkerStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.MarkerTTL)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer store.Close()
		dedup = store
	}

	workerCfg := worker.Config{
		QueueName:       cfg.Queue.Name,
		ConsumeTimeout:  cfg.Queue.ConsumeTimeout,
		TTR:             cfg.Queue.TTR,
		ClassifyTimeout: cfg.Gemini.Timeout,
		CallbackTimeout: cfg.Callback.Timeout,
		ErrorBackoff:    cfg.Worker.ErrorBackoff,
	}

	mgr := worker.NewManager(cfg.Worker.Instances, workerCfg, queue, classifier, dispatcher, dedup, zapLogger)
	mgr.Start(ctx)

	log.Println("Worker started. Press Ctrl+C to shutdown.")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Received shutdown signal, draining...")
	mgr.Shutdown()
	log.Println("Worker stopped")
}
