package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/fuegoservicios-lab/MealfitRD-sub000/internal/config"
	"github.com/fuegoservicios-lab/MealfitRD-sub000/internal/database"
	"github.com/fuegoservicios-lab/MealfitRD-sub000/internal/likes"
	"github.com/fuegoservicios-lab/MealfitRD-sub000/internal/plan"
	"github.com/fuegoservicios-lab/MealfitRD-sub000/internal/planner"
	"github.com/fuegoservicios-lab/MealfitRD-sub000/internal/storage"
	"github.com/fuegoservicios-lab/MealfitRD-sub000/internal/store"
	"github.com/fuegoservicios-lab/MealfitRD-sub000/internal/telegram"
	"github.com/fuegoservicios-lab/MealfitRD-sub000/internal/usage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.TelegramBotToken == "" || cfg.TelegramWebhookURL == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN and TELEGRAM_WEBHOOK_URL must be set")
	}

	ctx := context.Background()

	var generator planner.Generator
	if cfg.PlannerBackend == "gemini" {
		generator, err = planner.NewGeminiGenerator(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to create Gemini generator: %v", err)
		}
	} else {
		generator = planner.NewRemoteGenerator(cfg)
	}
	if closer, ok := generator.(io.Closer); ok {
		defer closer.Close()
	}

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	blobs, err := storage.NewBlobStore(cfg.DataDir)
	if err != nil {
		log.Fatalf("Failed to initialize blob store: %v", err)
	}

	st := store.New(
		blobs,
		planner.NewClient(generator, nil),
		likes.NewClient(cfg),
		usage.NewClient(cfg),
		plan.NewRepository(db.SQL),
		store.Options{
			PlanLimit:         cfg.FreePlanLimit,
			UsageRefreshDelay: cfg.UsageRefreshDelay,
		},
	)
	if err := st.Load(); err != nil {
		log.Fatalf("Failed to restore local state: %v", err)
	}

	bot, err := telegram.NewBot(cfg, st)
	if err != nil {
		log.Fatalf("Failed to initialize Telegram Bot: %v", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	bot.RegisterHandlers()

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: nil,
	}

	go func() {
		log.Printf("Telegram Bot Server listening on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
