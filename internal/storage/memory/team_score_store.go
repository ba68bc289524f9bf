package memory

import (
	"context"
	"sort"
	"sync"

	"goz-scoring/internal/domain"
	"goz-scoring/internal/storage"
)

// TeamScoreStore is an in-memory implementation of storage.TeamScoreStore.
type TeamScoreStore struct {
	mu   sync.RWMutex
	data map[string]map[string]*domain.TeamScore // run_id -> team -> row
}

// NewTeamScoreStore creates a new in-memory team score store.
func NewTeamScoreStore() *TeamScoreStore {
	return &TeamScoreStore{
		data: make(map[string]map[string]*domain.TeamScore),
	}
}

// InsertBulk adds multiple rows atomically. Fails entire batch on any duplicate.
func (s *TeamScoreStore) InsertBulk(_ context.Context, scores []*domain.TeamScore) error {
	if len(scores) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Track keys in this batch to detect intra-batch duplicates
	batchKeys := make(map[string]struct{}, len(scores))

	// First pass: check for duplicates (existing + intra-batch)
	for _, ts := range scores {
		if err := storage.ValidateTeamScore(ts); err != nil {
			return err
		}

		if _, exists := s.data[ts.RunID][ts.Team]; exists {
			return storage.ErrDuplicateKey
		}
		key := ts.RunID + "|" + ts.Team
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	// Second pass: insert all
	for _, ts := range scores {
		run, ok := s.data[ts.RunID]
		if !ok {
			run = make(map[string]*domain.TeamScore)
			s.data[ts.RunID] = run
		}
		copy := *ts
		run[ts.Team] = &copy
	}

	return nil
}

// GetByRunID retrieves all rows of a run, ordered by team ASC.
func (s *TeamScoreStore) GetByRunID(_ context.Context, runID string) ([]*domain.TeamScore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.TeamScore, 0, len(s.data[runID]))
	for _, ts := range s.data[runID] {
		copy := *ts
		result = append(result, &copy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Team < result[j].Team
	})

	return result, nil
}

// ListRuns returns the distinct run IDs, ordered ASC.
func (s *TeamScoreStore) ListRuns(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]string, 0, len(s.data))
	for runID := range s.data {
		runs = append(runs, runID)
	}
	sort.Strings(runs)

	return runs, nil
}

var _ storage.TeamScoreStore = (*TeamScoreStore)(nil)
