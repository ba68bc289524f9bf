package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"goz-scoring/internal/domain"
	"goz-scoring/internal/storage"
)

// TeamScoreStore implements storage.TeamScoreStore using PostgreSQL.
type TeamScoreStore struct {
	pool *Pool
}

// NewTeamScoreStore creates a new TeamScoreStore.
func NewTeamScoreStore(pool *Pool) *TeamScoreStore {
	return &TeamScoreStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TeamScoreStore = (*TeamScoreStore)(nil)

// InsertBulk adds multiple rows atomically. Fails entire batch on any duplicate.
func (s *TeamScoreStore) InsertBulk(ctx context.Context, scores []*domain.TeamScore) error {
	if len(scores) == 0 {
		return nil
	}
	for _, ts := range scores {
		if err := storage.ValidateTeamScore(ts); err != nil {
			return err
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO team_scores (
			record_id, run_id, team,
			hub_opaque_packets, packets_from_hub, opaque_packets_tx, opaque_packets_total,
			total_score, created_at
		) VALUES (
			$1, $2, $3,
			$4, $5, $6, $7,
			$8, $9
		)
	`

	for _, ts := range scores {
		_, err := tx.Exec(ctx, query,
			ts.RecordID, ts.RunID, ts.Team,
			int64(ts.HubOpaquePackets), int64(ts.PacketsFromHub), int64(ts.OpaquePacketsTx), int64(ts.OpaquePacketsTotal),
			ts.TotalScore, ts.CreatedAt,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert team score in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByRunID retrieves all rows of a run, ordered by team ASC.
func (s *TeamScoreStore) GetByRunID(ctx context.Context, runID string) ([]*domain.TeamScore, error) {
	query := `
		SELECT
			record_id, run_id, team,
			hub_opaque_packets, packets_from_hub, opaque_packets_tx, opaque_packets_total,
			total_score, created_at
		FROM team_scores
		WHERE run_id = $1
		ORDER BY team ASC
	`

	rows, err := s.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query team scores by run: %w", err)
	}
	defer rows.Close()

	return scanTeamScores(rows)
}

// ListRuns returns the distinct run IDs, ordered ASC.
func (s *TeamScoreStore) ListRuns(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT DISTINCT run_id FROM team_scores ORDER BY run_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []string{}
	for rows.Next() {
		var runID string
		if err := rows.Scan(&runID); err != nil {
			return nil, fmt.Errorf("scan run id: %w", err)
		}
		runs = append(runs, runID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return runs, nil
}

func scanTeamScores(rows pgx.Rows) ([]*domain.TeamScore, error) {
	result := []*domain.TeamScore{}
	for rows.Next() {
		var ts domain.TeamScore
		var hub, fromHub, external, total int64
		err := rows.Scan(
			&ts.RecordID, &ts.RunID, &ts.Team,
			&hub, &fromHub, &external, &total,
			&ts.TotalScore, &ts.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan team score: %w", err)
		}
		ts.HubOpaquePackets = uint64(hub)
		ts.PacketsFromHub = uint64(fromHub)
		ts.OpaquePacketsTx = uint64(external)
		ts.OpaquePacketsTotal = uint64(total)
		result = append(result, &ts)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate team scores: %w", err)
	}
	return result, nil
}
