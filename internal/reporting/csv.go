package reporting

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// RenderCSV renders team rows as CSV string.
func RenderCSV(teams []TeamRow) string {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	// Header
	_ = w.Write([]string{
		"team", "hub_opaque_packets", "packets_from_hub", "opaque_packets_tx",
		"opaque_packets_total", "total_score",
	})

	// Rows
	for _, t := range teams {
		_ = w.Write([]string{
			t.Team,
			strconv.FormatUint(t.HubOpaquePackets, 10),
			strconv.FormatUint(t.PacketsFromHub, 10),
			strconv.FormatUint(t.OpaquePacketsTx, 10),
			strconv.FormatUint(t.OpaquePacketsTotal, 10),
			FormatScore(t.TotalScore),
		})
	}

	w.Flush()
	return sb.String()
}
