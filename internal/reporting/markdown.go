package reporting

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Game of Zones Phase 2 Scores\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Run: %s\n\n", r.RunID))

	// Run Summary
	s := r.Summary
	sb.WriteString("## Run Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Input Files | %d |\n", s.Files))
	sb.WriteString(fmt.Sprintf("| Lines Read | %d |\n", s.Lines))
	sb.WriteString(fmt.Sprintf("| Envelopes | %d |\n", s.Envelopes))
	sb.WriteString(fmt.Sprintf("| Decode Errors | %d |\n", s.DecodeErrors))
	sb.WriteString(fmt.Sprintf("| Opaque Packets | %d |\n", s.OpaquePackets))
	sb.WriteString(fmt.Sprintf("| Packet Transfers | %d |\n", s.PacketTransfers))
	sb.WriteString(fmt.Sprintf("| Ignored Messages | %d |\n", s.IgnoredMessages))
	sb.WriteString(fmt.Sprintf("| Observed Transactions | %d |\n", s.ObservedTransactions))
	sb.WriteString(fmt.Sprintf("| Learned Source Channels | %d |\n", len(r.SourceChannels)))
	sb.WriteString("\n")

	// Outcomes
	sb.WriteString("## Opaque Packet Outcomes\n\n")
	if len(s.Outcomes) > 0 {
		names := make([]string, 0, len(s.Outcomes))
		for name := range s.Outcomes {
			names = append(names, name)
		}
		sort.Strings(names)

		sb.WriteString("| Outcome | Count |\n")
		sb.WriteString("|---------|-------|\n")
		for _, name := range names {
			sb.WriteString(fmt.Sprintf("| %s | %d |\n", name, s.Outcomes[name]))
		}
	} else {
		sb.WriteString("No opaque packets observed.\n")
	}
	sb.WriteString("\n")

	// Team Scores
	sb.WriteString("## Team Scores\n\n")
	if len(r.Teams) > 0 {
		sb.WriteString("| Team | Hub | From Hub | External | Packets Relayed | Score |\n")
		sb.WriteString("|------|-----|----------|----------|-----------------|-------|\n")
		for _, t := range r.Teams {
			sb.WriteString(fmt.Sprintf("| %s | %d | %d | %d | %d | %s |\n",
				escapeCell(t.Team), t.HubOpaquePackets, t.PacketsFromHub, t.OpaquePacketsTx,
				t.OpaquePacketsTotal, FormatScore(t.TotalScore)))
		}
	} else {
		sb.WriteString("No teams scored.\n")
	}
	sb.WriteString("\n")

	// Source Channels
	sb.WriteString("## Learned Source Channels\n\n")
	if len(r.SourceChannels) > 0 {
		for _, ch := range r.SourceChannels {
			sb.WriteString(fmt.Sprintf("- %s\n", ch))
		}
	} else {
		sb.WriteString("No source channels learned.\n")
	}

	return sb.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
