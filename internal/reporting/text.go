package reporting

import (
	"fmt"
	"strconv"
	"strings"
)

// RenderText renders one line per team in the phase 2 results format.
func RenderText(r *Report) string {
	var sb strings.Builder

	for _, t := range r.Teams {
		sb.WriteString(fmt.Sprintf("Team:%s, Total Phase 2 Score %s, Total Packets Relayed %d\n",
			t.Team, FormatScore(t.TotalScore), t.OpaquePacketsTotal))
	}

	return sb.String()
}

// FormatScore prints the shortest decimal that round-trips, never using an
// exponent (2.8, 1, 0.30000000000000004).
func FormatScore(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
