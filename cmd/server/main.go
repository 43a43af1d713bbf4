package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"ytd/internal/application/fetch"
	"ytd/internal/application/retention"
	"ytd/internal/config"
	"ytd/internal/infrastructure/ffmpeg"
	"ytd/internal/infrastructure/filesystem"
	"ytd/internal/infrastructure/ytdlp"
	httptransport "ytd/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.Load()
	logger := log.Default()

	store := filesystem.NewStore(cfg.DownloadsDir)
	if err := store.EnsureDir(); err != nil {
		log.Fatalf("storage init failed: %v", err)
	}

	fetcher := ytdlp.NewClient(cfg.YtDlpPath, cfg.CancelGrace)
	converter := ffmpeg.NewConverter(cfg.FFmpegPath, cfg.CancelGrace)

	fetchService := fetch.NewService(fetcher, converter, store, logger, fetch.Options{
		BaseURL:      cfg.BaseURL,
		PhaseTimeout: cfg.PhaseTimeout,
		PollInterval: cfg.PollInterval,
		Reencode:     cfg.Reencode,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sweeper := retention.NewSweeper(store, logger, cfg.SweepInterval, cfg.RetentionWindow)
	sweeper.Start(ctx)

	limiter := httptransport.NewRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
	handler := httptransport.NewHandler(fetchService, store, logger)
	router := httptransport.NewRouter(handler, limiter)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowCredentials: true,
	})

	server := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: c.Handler(router),
	}

	go func() {
		logger.Printf("Server started on %s", cfg.ServerAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Println("Shutting down...")
	cancel()
	sweeper.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Printf("shutdown error: %v", err)
	}
}
