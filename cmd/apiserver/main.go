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

	"github.com/gmar02/tccprot/internal/app/config"
	"github.com/gmar02/tccprot/internal/app/domains/services/svdemand"
	"github.com/gmar02/tccprot/internal/app/infra/mq/lmstfy"
	"github.com/gmar02/tccprot/internal/app/server/handlers/demand"
	"github.com/gmar02/tccprot/internal/app/server/routers"
	"github.com/gmar02/tccprot/pkg/logger"
)

var configPath = flag.String("config", "./config/config.yaml", "config file path")

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

	queue, err := lmstfy.NewClient(cfg.Lmstfy.Host, cfg.Lmstfy.Port, cfg.Lmstfy.Namespace, cfg.Lmstfy.Token, cfg.Queue.MaxTries)
	if err != nil {
		log.Fatalf("Failed to create queue client: %v", err)
	}

	demandService := svdemand.NewDemandService(queue, cfg.Queue.Name, zapLogger)
	demandHandler := demand.NewDemandHandler(demandService, zapLogger)
	engine := routers.SetupRoutes(demandHandler, zapLogger)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: engine,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		log.Printf("Starting HTTP server on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
		log.Println("Received shutdown signal, gracefully shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
		}
	case err := <-serverErrChan:
		log.Fatalf("HTTP server error: %v", err)
	}

	log.Println("Application stopped")
}
