// Package main contains the entrypoint for the Jimbot application.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/jimbotdev/jimbot/internal/bot"
	"github.com/jimbotdev/jimbot/internal/bot/tasks"
	"github.com/jimbotdev/jimbot/internal/config"
	"github.com/jimbotdev/jimbot/internal/database"
	"github.com/jimbotdev/jimbot/internal/gateway/discord"
	"github.com/jimbotdev/jimbot/internal/gateway/telegram"
	"github.com/jimbotdev/jimbot/internal/gemini"
	"github.com/jimbotdev/jimbot/internal/health"
	"github.com/jimbotdev/jimbot/internal/imagen"
	"github.com/jimbotdev/jimbot/internal/langmem"
	"github.com/jimbotdev/jimbot/internal/logger"
	"github.com/jimbotdev/jimbot/internal/router"

	_ "modernc.org/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes and starts all application components (config, logger,
// db, AI clients, router, gateway, scheduler), handles graceful shutdown,
// and returns an exit code (0 for success, 1 for failure).
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	// A local .env is optional; secrets usually come from the environment.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	gemClient, err := gemini.NewClient(ctx, cfg.Gemini, log)
	if err != nil {
		log.Error("Failed to initialize Gemini client", "error", err)
		return 1
	}

	imgClient, err := imagen.NewClient(ctx, cfg.Imagen, log)
	if err != nil {
		log.Error("Failed to initialize Imagen client", "error", err)
		return 1
	}

	languages := langmem.New(gemini.DefaultLanguage)
	rt := router.New(gemClient, imgClient, languages, log, cfg.Imagen.Count, cfg.Imagen.AspectRatio)

	gw, err := newGateway(cfg, rt, store, log)
	if err != nil {
		log.Error("Failed to create chat gateway", "platform", cfg.Gateway.Platform, "error", err)
		return 1
	}

	healthSrv := health.NewServer(cfg.Server.Port, log)

	tDeps := tasks.TaskDeps{
		Logger: log,
		Store:  store,
		Config: cfg,
	}
	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}

	app := bot.NewBot(log, gw, healthSrv, sched)

	log.Info("Starting bot...", "platform", cfg.Gateway.Platform)
	runErr := app.Run(ctx)
	log.Info("Bot run loop finished. Initiating shutdown...")

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	time.Sleep(time.Second)
	return 0
}

// newGateway builds the adapter for the configured platform.
func newGateway(cfg *config.Config, rt *router.Router, store database.Store, log *slog.Logger) (bot.Gateway, error) {
	switch cfg.Gateway.Platform {
	case "discord":
		return discord.New(cfg.Discord.Token, rt, store, log)
	case "telegram":
		return telegram.New(cfg.Telegram.Token, rt, store, log)
	default:
		return nil, fmt.Errorf("unsupported gateway platform: %q", cfg.Gateway.Platform)
	}
}
