package history

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"mercator-hq/symbolic/pkg/config"
)

// PrunerConfig contains configuration for the retention pruner.
type PrunerConfig struct {
	// RetentionDays is the number of days to keep records.
	// 0 keeps records forever.
	RetentionDays int

	// PruneSchedule is a cron expression, e.g. "0 3 * * *".
	PruneSchedule string

	// MaxRecords is the maximum number of records to keep.
	// 0 means unlimited.
	MaxRecords int64
}

// PrunerConfigFrom converts the history section of the application config.
func PrunerConfigFrom(cfg *config.HistoryConfig) *PrunerConfig {
	return &PrunerConfig{
		RetentionDays: cfg.RetentionDays,
		PruneSchedule: cfg.PruneSchedule,
		MaxRecords:    cfg.MaxRecords,
	}
}

// Pruner enforces retention on a Store.
type Pruner struct {
	store  Store
	config *PrunerConfig
	logger *slog.Logger
	now    func() time.Time
}

// NewPruner creates a pruner. A nil config disables both phases.
func NewPruner(store Store, cfg *PrunerConfig) *Pruner {
	if cfg == nil {
		cfg = &PrunerConfig{}
	}
	return &Pruner{
		store:  store,
		config: cfg,
		logger: slog.Default().With("component", "history.retention"),
		now:    time.Now,
	}
}

// Prune deletes records older than the retention period and then trims
// the store to MaxRecords. Returns the total number deleted.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	var total int64

	if p.config.RetentionDays > 0 {
		cutoff := p.now().AddDate(0, 0, -p.config.RetentionDays)
		deleted, err := p.store.DeleteBefore(ctx, cutoff)
		if err != nil {
			return total, fmt.Errorf("prune by age failed: %w", err)
		}
		total += deleted
		p.logger.Debug("pruned records by age",
			"deleted_count", deleted,
			"retention_days", p.config.RetentionDays,
		)
	}

	if p.config.MaxRecords > 0 {
		count, err := p.store.Count(ctx)
		if err != nil {
			return total, fmt.Errorf("failed to count records: %w", err)
		}
		if count > p.config.MaxRecords {
			deleted, err := p.store.DeleteOldest(ctx, p.config.MaxRecords)
			if err != nil {
				return total, fmt.Errorf("prune by count failed: %w", err)
			}
			total += deleted
			p.logger.Debug("pruned records by count",
				"deleted_count", deleted,
				"max_records", p.config.MaxRecords,
			)
		}
	}

	if total > 0 {
		p.logger.Info("history pruning completed",
			"total_deleted", total,
			"retention_days", p.config.RetentionDays,
			"max_records", p.config.MaxRecords,
		)
	}
	return total, nil
}
