package domain

// Score weights.
const (
	WeightHubOpaquePacket = 1.0
	WeightPacketFromHub   = 0.5
	WeightOpaquePacketTx  = 0.1
)

// Score holds per-team relay counters for one run.
type Score struct {
	HubOpaquePackets   uint64 `json:"hub_opaque_packets" yaml:"hub_opaque_packets"`     // relayed on a hub chain
	OpaquePacketsTx    uint64 `json:"opaque_packets_tx" yaml:"opaque_packets_tx"`       // relayed from an unknown channel
	PacketsFromHub     uint64 `json:"packets_from_hub" yaml:"packets_from_hub"`         // relayed from a hub-sourced channel
	OpaquePacketsTotal uint64 `json:"opaque_packets_total" yaml:"opaque_packets_total"` // sum of source channel counts
}

// WeightedTotal returns the phase 2 score.
// OpaquePacketsTotal is a volume statistic and does not contribute.
func (s Score) WeightedTotal() float64 {
	return float64(s.HubOpaquePackets)*WeightHubOpaquePacket +
		float64(s.PacketsFromHub)*WeightPacketFromHub +
		float64(s.OpaquePacketsTx)*WeightOpaquePacketTx
}

// TeamScore is the persisted result row for one team in one run.
// Corresponds to team_scores table in PostgreSQL and ClickHouse.
type TeamScore struct {
	RecordID           string  // SHA256(run_id|team)
	RunID              string  // UUID of the scoring run
	Team               string  // team name
	HubOpaquePackets   uint64  // see Score
	PacketsFromHub     uint64  // see Score
	OpaquePacketsTx    uint64  // see Score
	OpaquePacketsTotal uint64  // see Score
	TotalScore         float64 // Score.WeightedTotal()
	CreatedAt          int64   // Unix timestamp in milliseconds
}

// Score returns the counters of the row.
func (t *TeamScore) Score() Score {
	return Score{
		HubOpaquePackets:   t.HubOpaquePackets,
		OpaquePacketsTx:    t.OpaquePacketsTx,
		PacketsFromHub:     t.PacketsFromHub,
		OpaquePacketsTotal: t.OpaquePacketsTotal,
	}
}
