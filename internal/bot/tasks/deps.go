// Package tasks implements scheduled maintenance tasks for Jimbot.
package tasks

import (
	"log/slog"

	"github.com/jimbotdev/jimbot/internal/config"
	"github.com/jimbotdev/jimbot/internal/database"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Store  database.Store
	Config *config.Config
}
