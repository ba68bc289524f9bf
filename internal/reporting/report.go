package reporting

import (
	"time"

	"goz-scoring/internal/domain"
	"goz-scoring/internal/idhash"
)

// Report is the result of one scoring run.
type Report struct {
	// Metadata
	RunID       string    `json:"run_id" yaml:"run_id"`
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
	Inputs      []string  `json:"inputs" yaml:"inputs"`

	Summary RunSummary `json:"summary" yaml:"summary"`

	// Team scores (sorted by team name)
	Teams []TeamRow `json:"teams" yaml:"teams"`

	// Hub-sourced channels learned during the run (sorted)
	SourceChannels []string `json:"source_channels" yaml:"source_channels"`
}

// RunSummary contains ingestion and engine counters.
type RunSummary struct {
	Files                int            `json:"files" yaml:"files"`
	Lines                int            `json:"lines" yaml:"lines"`
	Envelopes            int            `json:"envelopes" yaml:"envelopes"`
	DecodeErrors         int            `json:"decode_errors" yaml:"decode_errors"`
	OpaquePackets        int            `json:"opaque_packets" yaml:"opaque_packets"`
	PacketTransfers      int            `json:"packet_transfers" yaml:"packet_transfers"`
	IgnoredMessages      int            `json:"ignored_messages" yaml:"ignored_messages"`
	ObservedTransactions int            `json:"observed_transactions" yaml:"observed_transactions"`
	Outcomes             map[string]int `json:"outcomes" yaml:"outcomes"`
}

// TeamRow represents one row in the team score table.
type TeamRow struct {
	Team               string  `json:"team" yaml:"team"`
	HubOpaquePackets   uint64  `json:"hub_opaque_packets" yaml:"hub_opaque_packets"`
	PacketsFromHub     uint64  `json:"packets_from_hub" yaml:"packets_from_hub"`
	OpaquePacketsTx    uint64  `json:"opaque_packets_tx" yaml:"opaque_packets_tx"`
	OpaquePacketsTotal uint64  `json:"opaque_packets_total" yaml:"opaque_packets_total"`
	TotalScore         float64 `json:"total_score" yaml:"total_score"`
}

// TeamScores converts the rows into persistence records.
func (r *Report) TeamScores() []*domain.TeamScore {
	createdAt := r.GeneratedAt.UnixMilli()
	out := make([]*domain.TeamScore, len(r.Teams))
	for i, row := range r.Teams {
		out[i] = &domain.TeamScore{
			RecordID:           idhash.ComputeTeamScoreID(r.RunID, row.Team),
			RunID:              r.RunID,
			Team:               row.Team,
			HubOpaquePackets:   row.HubOpaquePackets,
			PacketsFromHub:     row.PacketsFromHub,
			OpaquePacketsTx:    row.OpaquePacketsTx,
			OpaquePacketsTotal: row.OpaquePacketsTotal,
			TotalScore:         row.TotalScore,
			CreatedAt:          createdAt,
		}
	}
	return out
}
