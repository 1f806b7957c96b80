package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/willowlytics/cricketstats/internal/domain/analytics"
	"github.com/willowlytics/cricketstats/internal/domain/match"
	"github.com/willowlytics/cricketstats/internal/infrastructure/repository/memory"
	"github.com/willowlytics/cricketstats/internal/platform/cache"
	"github.com/willowlytics/cricketstats/internal/platform/logging"
)

const ingestJSONTemplate = `{
  "info": {
    "match_type_number": %d,
    "teams": ["India", "Australia"],
    "venue": "Wankhede Stadium",
    "city": "Mumbai",
    "dates": ["2024-03-14"],
    "event": {"name": "Big Cup", "match_number": 7},
    "match_type": "T20",
    "gender": "male",
    "season": "2023/24",
    "toss": {"winner": "India", "decision": "bat"},
    "outcome": {"winner": "India", "by": {"runs": 3}},
    "players": {
      "India": ["V Kohli", "JJ Bumrah"],
      "Australia": ["DA Warner", "MA Starc"]
    },
    "registry": {"people": {"V Kohli": "reg-kohli", "JJ Bumrah": "reg-bumrah", "DA Warner": "reg-warner", "MA Starc": "reg-starc"}}
  },
  "innings": [
    {
      "team": "India",
      "overs": [{
        "over": 0,
        "deliveries": [
          {"batter": "V Kohli", "bowler": "MA Starc", "non_striker": "JJ Bumrah", "runs": {"batter": 4, "extras": 0, "total": 4}},
          {"batter": "V Kohli", "bowler": "MA Starc", "non_striker": "JJ Bumrah", "runs": {"batter": 0, "extras": 0, "total": 0},
           "wickets": [{"player_out": "V Kohli", "kind": "bowled"}]}
        ]
      }]
    },
    {
      "team": "Australia",
      "overs": [{
        "over": 0,
        "deliveries": [
          {"batter": "DA Warner", "bowler": "JJ Bumrah", "non_striker": "MA Starc", "runs": {"batter": 2, "extras": 0, "total": 2}}
        ]
      }]
    }
  ]
}`

func writeSourceFile(t *testing.T, dir, name string, matchNumber int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(fmt.Sprintf(ingestJSONTemplate, matchNumber)), 0o644); err != nil {
		t.Fatalf("write source file %s: %v", name, err)
	}
	return path
}

type ingestFixtures struct {
	matches     *memory.MatchRepository
	perfs       *memory.PerformanceRepository
	reports     *memory.AnalyticsRepository
	statCache   *cache.Store
	coordinator *IngestionCoordinator
}

func newIngestFixtures() ingestFixtures {
	matches := memory.NewMatchRepository()
	perfs := memory.NewPerformanceRepository()
	reports := memory.NewAnalyticsRepository()
	statCache := cache.NewStore(time.Minute)
	ids := &sequenceIDGenerator{prefix: "id"}
	resolver := NewEntityResolver(
		memory.NewTeamRepository(),
		memory.NewVenueRepository(),
		memory.NewPlayerRepository(),
		ids,
		logging.NewNop(),
	)
	normalizer := NewMatchNormalizer(resolver, ids, logging.NewNop())
	return ingestFixtures{
		matches:     matches,
		perfs:       perfs,
		reports:     reports,
		statCache:   statCache,
		coordinator: NewIngestionCoordinator(normalizer, matches, perfs, reports, statCache, 2, logging.NewNop()),
	}
}

func TestIngestionCoordinator_IngestFiles(t *testing.T) {
	t.Run("ingests a batch and reports counts", func(t *testing.T) {
		dir := t.TempDir()
		paths := []string{
			writeSourceFile(t, dir, "1001.json", 1001),
			writeSourceFile(t, dir, "1002.json", 1002),
		}
		f := newIngestFixtures()

		stats, err := f.coordinator.IngestFiles(t.Context(), paths)
		if err != nil {
			t.Fatalf("ingest failed: %v", err)
		}
		if stats.MatchesIngested != 2 || stats.MatchesSkipped != 0 || stats.FilesSkipped != 0 {
			t.Fatalf("unexpected match counts: %+v", stats)
		}
		if stats.Performances != 6 {
			t.Fatalf("unexpected performance count: got=%d want=6", stats.Performances)
		}
		// Both files name the same sides, ground and squads; the entities
		// are created once.
		if stats.Teams != 2 || stats.Venues != 1 || stats.Players != 4 {
			t.Fatalf("unexpected entity counts: %+v", stats)
		}

		stored, ok, err := f.matches.GetByID(t.Context(), "1001")
		if err != nil || !ok {
			t.Fatalf("expected match 1001 persisted: ok=%v err=%v", ok, err)
		}
		if stored.Tournament != "Big Cup" {
			t.Fatalf("unexpected tournament: %s", stored.Tournament)
		}
		items, err := f.perfs.ListByMatch(t.Context(), "1001")
		if err != nil {
			t.Fatalf("list performances: %v", err)
		}
		if len(items) != 3 {
			t.Fatalf("unexpected persisted deliveries: got=%d want=3", len(items))
		}
	})

	t.Run("missing file is counted and skipped", func(t *testing.T) {
		dir := t.TempDir()
		paths := []string{
			writeSourceFile(t, dir, "1001.json", 1001),
			filepath.Join(dir, "missing.json"),
		}
		f := newIngestFixtures()

		stats, err := f.coordinator.IngestFiles(t.Context(), paths)
		if err != nil {
			t.Fatalf("ingest failed: %v", err)
		}
		if stats.FilesSkipped != 1 || stats.MatchesIngested != 1 {
			t.Fatalf("unexpected counts: %+v", stats)
		}
	})

	t.Run("unreadable file is counted and skipped", func(t *testing.T) {
		dir := t.TempDir()
		broken := filepath.Join(dir, "broken.json")
		if err := os.WriteFile(broken, []byte("{not json"), 0o644); err != nil {
			t.Fatalf("write broken file: %v", err)
		}
		f := newIngestFixtures()

		stats, err := f.coordinator.IngestFiles(t.Context(), []string{broken})
		if err != nil {
			t.Fatalf("ingest failed: %v", err)
		}
		if stats.FilesSkipped != 1 || stats.MatchesIngested != 0 {
			t.Fatalf("unexpected counts: %+v", stats)
		}
	})

	t.Run("re-ingesting replaces rather than duplicates", func(t *testing.T) {
		dir := t.TempDir()
		path := writeSourceFile(t, dir, "1001.json", 1001)
		f := newIngestFixtures()

		if _, err := f.coordinator.IngestFiles(t.Context(), []string{path}); err != nil {
			t.Fatalf("first ingest failed: %v", err)
		}
		stats, err := f.coordinator.IngestFiles(t.Context(), []string{path})
		if err != nil {
			t.Fatalf("second ingest failed: %v", err)
		}
		if stats.MatchesIngested != 1 || stats.Teams != 0 || stats.Players != 0 {
			t.Fatalf("unexpected second run counts: %+v", stats)
		}

		items, err := f.perfs.ListByMatch(t.Context(), "1001")
		if err != nil {
			t.Fatalf("list performances: %v", err)
		}
		if len(items) != 3 {
			t.Fatalf("expected replaced deliveries, got %d", len(items))
		}
	})

	t.Run("re-ingesting drops the stale collapse report", func(t *testing.T) {
		dir := t.TempDir()
		path := writeSourceFile(t, dir, "1001.json", 1001)
		f := newIngestFixtures()

		stale := analytics.MatchAnalytics{
			MatchID:   "1001",
			Collapses: []analytics.Collapse{{TeamID: "id-1", Overs: [2]int{0, 1}, WicketsLost: 3}},
		}
		if err := f.reports.SaveMatchAnalytics(t.Context(), stale); err != nil {
			t.Fatalf("seed report: %v", err)
		}

		if _, err := f.coordinator.IngestFiles(t.Context(), []string{path}); err != nil {
			t.Fatalf("ingest failed: %v", err)
		}

		if _, ok, err := f.reports.GetMatchAnalytics(t.Context(), "1001"); err != nil || ok {
			t.Fatalf("expected stale report removed: ok=%v err=%v", ok, err)
		}
	})

	t.Run("a landed batch invalidates cached aggregates", func(t *testing.T) {
		dir := t.TempDir()
		path := writeSourceFile(t, dir, "1001.json", 1001)
		f := newIngestFixtures()

		f.statCache.Set(t.Context(), battingCachePrefix+"reg-kohli:", analytics.BattingStats{Runs: 99})
		f.statCache.Set(t.Context(), bowlingCachePrefix+"reg-starc:", analytics.BowlingStats{Wickets: 9})
		f.statCache.Set(t.Context(), "other:key", "keep")

		if _, err := f.coordinator.IngestFiles(t.Context(), []string{path}); err != nil {
			t.Fatalf("ingest failed: %v", err)
		}

		if _, ok := f.statCache.Get(t.Context(), battingCachePrefix+"reg-kohli:"); ok {
			t.Fatalf("expected batting cache entry dropped")
		}
		if _, ok := f.statCache.Get(t.Context(), bowlingCachePrefix+"reg-starc:"); ok {
			t.Fatalf("expected bowling cache entry dropped")
		}
		if _, ok := f.statCache.Get(t.Context(), "other:key"); !ok {
			t.Fatalf("expected unrelated cache entry kept")
		}
	})

	t.Run("no paths is invalid input", func(t *testing.T) {
		f := newIngestFixtures()

		_, err := f.coordinator.IngestFiles(t.Context(), nil)
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("store failure aborts the batch", func(t *testing.T) {
		dir := t.TempDir()
		paths := []string{
			writeSourceFile(t, dir, "1001.json", 1001),
			writeSourceFile(t, dir, "1002.json", 1002),
		}
		f := newIngestFixtures()
		ids := &sequenceIDGenerator{prefix: "id"}
		resolver := NewEntityResolver(
			memory.NewTeamRepository(),
			memory.NewVenueRepository(),
			memory.NewPlayerRepository(),
			ids,
			logging.NewNop(),
		)
		normalizer := NewMatchNormalizer(resolver, ids, logging.NewNop())
		coordinator := NewIngestionCoordinator(normalizer, &deadMatchRepository{}, f.perfs,
			f.reports, nil, 1, logging.NewNop())

		_, err := coordinator.IngestFiles(t.Context(), paths)
		if !errors.Is(err, ErrStoreUnavailable) {
			t.Fatalf("expected ErrStoreUnavailable, got %v", err)
		}
	})
}

// deadMatchRepository simulates a store that lost its connection.
type deadMatchRepository struct{}

func (r *deadMatchRepository) GetByID(context.Context, string) (match.Match, bool, error) {
	return match.Match{}, false, fmt.Errorf("%w: connection refused", ErrStoreUnavailable)
}

func (r *deadMatchRepository) Upsert(context.Context, match.Match) error {
	return fmt.Errorf("%w: connection refused", ErrStoreUnavailable)
}

func (r *deadMatchRepository) Delete(context.Context, string) error {
	return fmt.Errorf("%w: connection refused", ErrStoreUnavailable)
}

func (r *deadMatchRepository) ListByTeam(context.Context, string, string) ([]match.Match, error) {
	return nil, fmt.Errorf("%w: connection refused", ErrStoreUnavailable)
}

func (r *deadMatchRepository) ListIDsByVenue(context.Context, string) ([]string, error) {
	return nil, fmt.Errorf("%w: connection refused", ErrStoreUnavailable)
}
