package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/willowlytics/cricketstats/internal/domain/match"
)

// MatchService serves canonical match documents to read paths.
type MatchService struct {
	matches match.Repository
}

func NewMatchService(matches match.Repository) *MatchService {
	return &MatchService{matches: matches}
}

func (s *MatchService) Get(ctx context.Context, matchID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Get")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.Match{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	m, found, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match: %w", err)
	}
	if !found {
		return match.Match{}, fmt.Errorf("%w: match %q", ErrNotFound, matchID)
	}

	return m, nil
}
