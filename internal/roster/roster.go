// Package roster maps relayer addresses to competing teams.
package roster

import (
	"sort"
	"strings"

	"goz-scoring/internal/address"
	"goz-scoring/internal/domain"
)

// Roster is an immutable address -> team name lookup built once per run.
type Roster struct {
	byAddress  map[string]string
	normalizer *address.Normalizer
}

// New builds a roster from configured teams.
// Keys are normalized with NormalizeKey; on collision the last team wins.
// A nil normalizer selects the default hub prefix.
func New(teams []domain.Team, normalizer *address.Normalizer) *Roster {
	if normalizer == nil {
		normalizer = address.NewNormalizer("")
	}

	byAddress := make(map[string]string, len(teams))
	for _, t := range teams {
		byAddress[NormalizeKey(t.Address)] = t.Name
	}

	return &Roster{
		byAddress:  byAddress,
		normalizer: normalizer,
	}
}

// NormalizeKey lowercases addr and replaces spaces with underscores.
func NormalizeKey(addr string) string {
	return strings.ReplaceAll(strings.ToLower(addr), " ", "_")
}

// Resolve returns the team registered for a relayer address.
// Foreign-prefix addresses are re-encoded under the hub prefix first.
// The address itself is not normalized, so case must match roster keys.
// Malformed addresses resolve to no team.
func (r *Roster) Resolve(addr string) (string, bool) {
	key, err := r.normalizer.ToHub(addr)
	if err != nil {
		return "", false
	}
	name, ok := r.byAddress[key]
	return name, ok
}

// Len returns the number of distinct roster keys.
func (r *Roster) Len() int {
	return len(r.byAddress)
}

// TeamNames returns the distinct team names, sorted.
func (r *Roster) TeamNames() []string {
	seen := make(map[string]struct{}, len(r.byAddress))
	names := make([]string, 0, len(r.byAddress))
	for _, name := range r.byAddress {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
