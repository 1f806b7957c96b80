package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/willowlytics/cricketstats/internal/domain/analytics"
	"github.com/willowlytics/cricketstats/internal/domain/match"
	"github.com/willowlytics/cricketstats/internal/domain/performance"
	"github.com/willowlytics/cricketstats/internal/platform/logging"
)

// CollapseService flags batting collapses: two adjacent overs in which a
// side lost a combined number of wickets at or above the threshold.
type CollapseService struct {
	matches      match.Repository
	performances performance.Repository
	analytics    analytics.Repository
	threshold    int
	logger       *logging.Logger
}

// NewCollapseService builds the detector. threshold <= 0 falls back to
// the default of three combined wickets.
func NewCollapseService(
	matches match.Repository,
	performances performance.Repository,
	analyticsRepo analytics.Repository,
	threshold int,
	logger *logging.Logger,
) *CollapseService {
	if threshold <= 0 {
		threshold = analytics.DefaultCollapseThreshold
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &CollapseService{
		matches:      matches,
		performances: performances,
		analytics:    analyticsRepo,
		threshold:    threshold,
		logger:       logger,
	}
}

// CollapsesForMatch recomputes the collapse report for a match from its
// performances and persists the result as a regenerable view. The match
// must exist; a match with no recorded deliveries yields an empty report.
func (s *CollapseService) CollapsesForMatch(ctx context.Context, matchID string) (analytics.MatchAnalytics, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CollapseService.CollapsesForMatch")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return analytics.MatchAnalytics{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	if _, found, err := s.matches.GetByID(ctx, matchID); err != nil {
		return analytics.MatchAnalytics{}, fmt.Errorf("get match: %w", err)
	} else if !found {
		return analytics.MatchAnalytics{}, fmt.Errorf("%w: match %q", ErrNotFound, matchID)
	}

	items, err := s.performances.ListByMatch(ctx, matchID)
	if err != nil {
		return analytics.MatchAnalytics{}, fmt.Errorf("list match performances: %w", err)
	}

	report := analytics.MatchAnalytics{
		MatchID:     matchID,
		Collapses:   detectCollapses(items, s.threshold),
		GeneratedAt: time.Now().UTC(),
	}

	if err := s.analytics.SaveMatchAnalytics(ctx, report); err != nil {
		return analytics.MatchAnalytics{}, fmt.Errorf("save match analytics: %w", err)
	}
	return report, nil
}

// detectCollapses scans per-team wicket counts by over. Every adjacent
// pair (o, o+1) meeting the threshold is reported, so overlapping windows
// produce multiple entries; wickets spread within a single pair of overs
// are caught even when neither over alone looks alarming.
func detectCollapses(items []performance.Performance, threshold int) []analytics.Collapse {
	wicketsByTeam := make(map[string]map[int]int)
	for _, p := range items {
		n := p.WicketCount()
		if n == 0 {
			continue
		}
		overs, ok := wicketsByTeam[p.TeamID]
		if !ok {
			overs = make(map[int]int)
			wicketsByTeam[p.TeamID] = overs
		}
		overs[p.Over] += n
	}

	teamIDs := make([]string, 0, len(wicketsByTeam))
	for teamID := range wicketsByTeam {
		teamIDs = append(teamIDs, teamID)
	}
	sort.Strings(teamIDs)

	collapses := make([]analytics.Collapse, 0)
	for _, teamID := range teamIDs {
		overs := wicketsByTeam[teamID]
		starts := make([]int, 0, len(overs)*2)
		seen := make(map[int]bool, len(overs)*2)
		for over := range overs {
			for _, start := range []int{over - 1, over} {
				if start >= 0 && !seen[start] {
					seen[start] = true
					starts = append(starts, start)
				}
			}
		}
		sort.Ints(starts)

		for _, start := range starts {
			combined := overs[start] + overs[start+1]
			if combined >= threshold {
				collapses = append(collapses, analytics.Collapse{
					TeamID:      teamID,
					Overs:       [2]int{start, start + 1},
					WicketsLost: combined,
				})
			}
		}
	}
	return collapses
}
