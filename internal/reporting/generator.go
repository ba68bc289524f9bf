package reporting

import (
	"sort"
	"time"

	"goz-scoring/internal/domain"
)

// Input is everything a run produced that goes into a report.
type Input struct {
	RunID          string
	Inputs         []string
	Scores         map[string]domain.Score
	Summary        RunSummary
	SourceChannels []string
}

// Generator assembles reports from engine snapshots.
type Generator struct {
	now func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator() *Generator {
	return &Generator{
		now: func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate builds a report. Rows are sorted by team name so output is stable
// across runs with the same input.
func (g *Generator) Generate(in Input) *Report {
	teams := make([]TeamRow, 0, len(in.Scores))
	for name, s := range in.Scores {
		teams = append(teams, TeamRow{
			Team:               name,
			HubOpaquePackets:   s.HubOpaquePackets,
			PacketsFromHub:     s.PacketsFromHub,
			OpaquePacketsTx:    s.OpaquePacketsTx,
			OpaquePacketsTotal: s.OpaquePacketsTotal,
			TotalScore:         s.WeightedTotal(),
		})
	}
	sort.Slice(teams, func(i, j int) bool {
		return teams[i].Team < teams[j].Team
	})

	summary := in.Summary
	if summary.Outcomes == nil {
		summary.Outcomes = map[string]int{}
	}

	inputs := append([]string{}, in.Inputs...)
	channels := append([]string{}, in.SourceChannels...)
	sort.Strings(channels)

	return &Report{
		RunID:          in.RunID,
		GeneratedAt:    g.now(),
		Inputs:         inputs,
		Summary:        summary,
		Teams:          teams,
		SourceChannels: channels,
	}
}
