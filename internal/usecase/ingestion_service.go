package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/willowlytics/cricketstats/internal/domain/analytics"
	"github.com/willowlytics/cricketstats/internal/domain/match"
	"github.com/willowlytics/cricketstats/internal/domain/performance"
	"github.com/willowlytics/cricketstats/internal/ingest/cricsheet"
	"github.com/willowlytics/cricketstats/internal/platform/cache"
	"github.com/willowlytics/cricketstats/internal/platform/logging"
)

const defaultIngestWorkers = 4

// IngestStats is the outcome of one batch ingestion run.
type IngestStats struct {
	MatchesIngested   int `json:"matches_ingested"`
	MatchesSkipped    int `json:"matches_skipped"`
	FilesSkipped      int `json:"files_skipped"`
	Teams             int `json:"teams"`
	Venues            int `json:"venues"`
	Players           int `json:"players"`
	Performances      int `json:"performances"`
	DeliveriesSkipped int `json:"deliveries_skipped"`
}

// IngestionCoordinator runs batch ingestion over source files. Files are
// processed concurrently on a worker pool; matches inside one file run
// sequentially. A failing match (or a missing file) is logged, counted
// and skipped without aborting the batch. Store connectivity failures do
// abort: retrying the remaining batch against a dead store only multiplies
// the same error.
//
// Cancellation is honored between matches, never mid-match: a match's
// document and its performances go in as one logical unit, and a partial
// performance write rolls the match document back out.
type IngestionCoordinator struct {
	normalizer   *MatchNormalizer
	matches      match.Repository
	performances performance.Repository
	analytics    analytics.Repository
	statCache    *cache.Store
	workers      int
	logger       *logging.Logger
}

// NewIngestionCoordinator builds the batch runner. statCache may be nil
// when result caching is disabled; when set, every batch that lands at
// least one match drops the cached player aggregates.
func NewIngestionCoordinator(
	normalizer *MatchNormalizer,
	matches match.Repository,
	performances performance.Repository,
	analyticsRepo analytics.Repository,
	statCache *cache.Store,
	workers int,
	logger *logging.Logger,
) *IngestionCoordinator {
	if workers <= 0 {
		workers = defaultIngestWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &IngestionCoordinator{
		normalizer:   normalizer,
		matches:      matches,
		performances: performances,
		analytics:    analyticsRepo,
		statCache:    statCache,
		workers:      workers,
		logger:       logger,
	}
}

// IngestFiles ingests every match in every listed source file and returns
// aggregate statistics. The returned error is non-nil only for batch-fatal
// conditions (no input, store unavailable, cancellation).
func (c *IngestionCoordinator) IngestFiles(ctx context.Context, paths []string) (IngestStats, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionCoordinator.IngestFiles")
	defer span.End()

	if len(paths) == 0 {
		return IngestStats{}, fmt.Errorf("%w: source paths are required", ErrInvalidInput)
	}

	pool, err := ants.NewPool(c.workers)
	if err != nil {
		return IngestStats{}, fmt.Errorf("create ingest worker pool: %w", err)
	}
	defer pool.Release()

	batchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu       sync.Mutex
		stats    IngestStats
		fatalErr error
	)
	abort := func(err error) {
		mu.Lock()
		if fatalErr == nil {
			fatalErr = err
		}
		mu.Unlock()
		cancel()
	}

	var workers sync.WaitGroup
	for _, path := range paths {
		path := path
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			c.ingestFile(batchCtx, path, &mu, &stats, abort)
		}); err != nil {
			workers.Done()
			return IngestStats{}, fmt.Errorf("submit ingest task: %w", err)
		}
	}
	workers.Wait()

	mu.Lock()
	defer mu.Unlock()

	// Even an aborted batch may have landed matches before the failure;
	// cached aggregates are stale either way.
	if c.statCache != nil && stats.MatchesIngested > 0 {
		c.statCache.DeletePrefix(ctx, battingCachePrefix)
		c.statCache.DeletePrefix(ctx, bowlingCachePrefix)
	}

	if fatalErr != nil {
		return stats, fatalErr
	}
	if err := ctx.Err(); err != nil {
		return stats, err
	}
	return stats, nil
}

func (c *IngestionCoordinator) ingestFile(
	ctx context.Context,
	path string,
	mu *sync.Mutex,
	stats *IngestStats,
	abort func(error),
) {
	if ctx.Err() != nil {
		return
	}

	rawMatches, err := cricsheet.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			err = fmt.Errorf("%w: %s", ErrMissingSourceFile, path)
		}
		c.logger.WarnContext(ctx, "source file skipped", "path", path, "error", err)
		mu.Lock()
		stats.FilesSkipped++
		mu.Unlock()
		return
	}

	for _, raw := range rawMatches {
		// Cancellation takes effect between matches only.
		if ctx.Err() != nil {
			return
		}

		outcome, err := c.ingestMatch(ctx, raw)
		if err != nil {
			if errors.Is(err, ErrStoreUnavailable) {
				c.logger.ErrorContext(ctx, "store unavailable, aborting batch",
					"source", raw.SourceID, "error", err)
				abort(err)
				return
			}
			c.logger.WarnContext(ctx, "match skipped", "source", raw.SourceID, "error", err)
			mu.Lock()
			stats.MatchesSkipped++
			mu.Unlock()
			continue
		}

		mu.Lock()
		stats.MatchesIngested++
		stats.Teams += outcome.Created.Teams
		stats.Venues += outcome.Created.Venues
		stats.Players += outcome.Created.Players
		stats.Performances += len(outcome.Performances)
		stats.DeliveriesSkipped += outcome.DeliveriesSkipped
		mu.Unlock()
	}
}

// ingestMatch normalizes and persists one match as a logical unit. The
// match ID is the idempotency key: an existing match is fully replaced,
// never merged.
func (c *IngestionCoordinator) ingestMatch(ctx context.Context, raw cricsheet.RawMatch) (NormalizeResult, error) {
	result, err := c.normalizer.Normalize(ctx, raw)
	if err != nil {
		return NormalizeResult{}, err
	}

	if err := c.matches.Upsert(ctx, result.Match); err != nil {
		return NormalizeResult{}, fmt.Errorf("upsert match %s: %w", result.Match.ID, err)
	}

	if err := c.performances.ReplaceForMatch(ctx, result.Match.ID, result.Performances); err != nil {
		// Never report a half-written match as success: roll the match
		// document out and let a later run retry it.
		if delErr := c.matches.Delete(ctx, result.Match.ID); delErr != nil {
			c.logger.ErrorContext(ctx, "rollback of half-written match failed",
				"match_id", result.Match.ID, "error", delErr)
		}
		return NormalizeResult{}, fmt.Errorf("write performances for match %s: %w", result.Match.ID, err)
	}

	// A replaced match invalidates its persisted collapse report; the
	// next analytics request regenerates it from the fresh deliveries.
	if err := c.analytics.DeleteMatchAnalytics(ctx, result.Match.ID); err != nil {
		c.logger.WarnContext(ctx, "stale match analytics not cleared",
			"match_id", result.Match.ID, "error", err)
	}

	c.logger.InfoContext(ctx, "match ingested",
		"match_id", result.Match.ID,
		"performances", len(result.Performances),
		"deliveries_skipped", result.DeliveriesSkipped)
	return result, nil
}
