package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// ComputeTeamScoreID computes a deterministic record_id using SHA256.
// Formula: SHA256(run_id|team)
// Returns hex-encoded hash (64 characters).
func ComputeTeamScoreID(runID, team string) string {
	data := fmt.Sprintf("%s|%s", runID, team)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

// ComputeTxHash derives a synthetic transaction hash for generated event
// streams. Formula: SHA256(seed|index), upper-case hex like Tendermint hashes.
func ComputeTxHash(seed int64, index int) string {
	data := fmt.Sprintf("%d|%d", seed, index)

	hash := sha256.Sum256([]byte(data))
	return strings.ToUpper(hex.EncodeToString(hash[:]))
}
