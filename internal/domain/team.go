package domain

// Team is one roster entry: the relayer address a team registered and the
// name it competes under.
type Team struct {
	Address string
	Name    string
}
