package storage

import (
	"context"

	"goz-scoring/internal/domain"
)

// TeamScoreStore provides access to team_scores storage.
// Rows are append-only: a run's results are written once.
type TeamScoreStore interface {
	// InsertBulk adds a run's rows atomically. Fails entire batch on any
	// duplicate (run_id, team), existing or intra-batch.
	InsertBulk(ctx context.Context, scores []*domain.TeamScore) error

	// GetByRunID retrieves all rows of a run, ordered by team ASC.
	GetByRunID(ctx context.Context, runID string) ([]*domain.TeamScore, error)

	// ListRuns returns the distinct run IDs, ordered ASC.
	ListRuns(ctx context.Context) ([]string, error)
}

// ValidateTeamScore checks the fields every backend requires.
func ValidateTeamScore(s *domain.TeamScore) error {
	if s == nil || s.RunID == "" || s.Team == "" || s.RecordID == "" {
		return ErrInvalidInput
	}
	return nil
}
