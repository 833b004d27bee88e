// Package bot implements lifecycle management and component orchestration
// for Jimbot: the chat gateway, the readiness server, and the scheduler.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/jimbotdev/jimbot/internal/health"
)

// Gateway is a chat platform adapter that runs until its context is
// cancelled.
type Gateway interface {
	Name() string
	Run(ctx context.Context) error
}

// Bot represents the main application and manages its components' lifecycle.
type Bot struct {
	logger    *slog.Logger
	gateway   Gateway
	healthSrv *health.Server
	scheduler *Scheduler
}

// NewBot creates a new instance of the bot with all required components.
func NewBot(logger *slog.Logger, gw Gateway, healthSrv *health.Server, scheduler *Scheduler) *Bot {
	return &Bot{
		logger:    logger.With("component", "bot_orchestrator"),
		gateway:   gw,
		healthSrv: healthSrv,
		scheduler: scheduler,
	}
}

// Run starts all components and blocks until the context is cancelled or a
// component fails.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("Starting bot orchestrator...", "gateway", b.gateway.Name())

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		b.logger.Info("Starting chat gateway...", "gateway", b.gateway.Name())
		if err := b.gateway.Run(gCtx); err != nil {
			return fmt.Errorf("chat gateway failed: %w", err)
		}
		b.logger.Info("Chat gateway stopped.")
		return nil
	})

	g.Go(func() error {
		return b.healthSrv.Run(gCtx)
	})

	g.Go(func() error {
		if err := b.scheduler.Start(); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}

		<-gCtx.Done()
		b.logger.Info("Shutdown signal received, stopping scheduler...")
		if err := b.scheduler.Stop(); err != nil {
			b.logger.Error("Error stopping scheduler", "error", err)
		}
		return nil
	})

	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		b.logger.Error("Bot orchestrator stopped due to error", "error", err)
		return err
	}

	b.logger.Info("Bot orchestrator stopped gracefully.")
	return nil
}
