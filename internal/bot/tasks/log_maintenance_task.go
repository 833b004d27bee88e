package tasks

import (
	"context"
	"fmt"
	"time"
)

// newLogMaintenanceTask creates the scheduled task that prunes old
// exchange-log rows past the retention window and compacts the database.
func newLogMaintenanceTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "log_maintenance")

	return func(ctx context.Context) error {
		retention := time.Duration(deps.Config.Database.RetentionDays) * 24 * time.Hour
		cutoff := time.Now().UTC().Add(-retention)

		removed, err := deps.Store.PruneExchanges(ctx, cutoff)
		if err != nil {
			log.ErrorContext(ctx, "Exchange pruning failed", "error", err)
			return fmt.Errorf("exchange pruning failed: %w", err)
		}
		log.InfoContext(ctx, "Pruned exchange log", "removed", removed, "cutoff", cutoff)

		if err := deps.Store.RunMaintenance(ctx); err != nil {
			log.ErrorContext(ctx, "Database maintenance failed", "error", err)
			return fmt.Errorf("database maintenance failed: %w", err)
		}

		log.InfoContext(ctx, "Log maintenance completed successfully")
		return nil
	}
}
