package clickhouse

import (
	"context"
	"fmt"

	"goz-scoring/internal/domain"
	"goz-scoring/internal/storage"
)

// TeamScoreStore implements storage.TeamScoreStore using ClickHouse.
type TeamScoreStore struct {
	conn *Conn
}

// NewTeamScoreStore creates a new TeamScoreStore.
func NewTeamScoreStore(conn *Conn) *TeamScoreStore {
	return &TeamScoreStore{conn: conn}
}

// Compile-time interface check.
var _ storage.TeamScoreStore = (*TeamScoreStore)(nil)

// InsertBulk adds multiple rows atomically. Fails entire batch on any duplicate.
// ReplacingMergeTree would silently replace, so duplicates are checked first.
func (s *TeamScoreStore) InsertBulk(ctx context.Context, scores []*domain.TeamScore) error {
	if len(scores) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	seen := make(map[string]struct{}, len(scores))
	for _, ts := range scores {
		if err := storage.ValidateTeamScore(ts); err != nil {
			return err
		}
		key := ts.RunID + "|" + ts.Team
		if _, exists := seen[key]; exists {
			return storage.ErrDuplicateKey
		}
		seen[key] = struct{}{}
	}

	// Check for duplicates against existing DB rows
	for _, ts := range scores {
		exists, err := s.exists(ctx, ts.RunID, ts.Team)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	// Use batch insert
	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO team_scores (
			record_id, run_id, team,
			hub_opaque_packets, packets_from_hub, opaque_packets_tx, opaque_packets_total,
			total_score, created_at
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, ts := range scores {
		err = batch.Append(
			ts.RecordID, ts.RunID, ts.Team,
			ts.HubOpaquePackets, ts.PacketsFromHub, ts.OpaquePacketsTx, ts.OpaquePacketsTotal,
			ts.TotalScore, ts.CreatedAt,
		)
		if err != nil {
			_ = batch.Abort()
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
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
		FROM team_scores FINAL
		WHERE run_id = ?
		ORDER BY team ASC
	`

	rows, err := s.conn.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query by run: %w", err)
	}
	defer rows.Close()

	return scanTeamScores(rows)
}

// ListRuns returns the distinct run IDs, ordered ASC.
func (s *TeamScoreStore) ListRuns(ctx context.Context) ([]string, error) {
	rows, err := s.conn.Query(ctx, `SELECT DISTINCT run_id FROM team_scores ORDER BY run_id ASC`)
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

// exists checks if a row with the given key exists.
func (s *TeamScoreStore) exists(ctx context.Context, runID, team string) (bool, error) {
	query := `
		SELECT count(*) FROM team_scores FINAL
		WHERE run_id = ? AND team = ?
	`

	var count uint64
	err := s.conn.QueryRow(ctx, query, runID, team).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Rows interface for scanning
type chRows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// scanTeamScores scans multiple rows into a slice.
func scanTeamScores(rows chRows) ([]*domain.TeamScore, error) {
	result := []*domain.TeamScore{}

	for rows.Next() {
		var ts domain.TeamScore
		err := rows.Scan(
			&ts.RecordID, &ts.RunID, &ts.Team,
			&ts.HubOpaquePackets, &ts.PacketsFromHub, &ts.OpaquePacketsTx, &ts.OpaquePacketsTotal,
			&ts.TotalScore, &ts.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan team score row: %w", err)
		}
		result = append(result, &ts)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate team score rows: %w", err)
	}

	return result, nil
}
