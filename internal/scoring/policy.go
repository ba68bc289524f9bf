package scoring

// SenderIndexPolicy selects which entry of message.sender is credited for an
// opaque packet.
type SenderIndexPolicy string

// Sender index policies.
const (
	// SenderIndexSrcChannelsPlusOne credits senders[len(src_channels)+1].
	SenderIndexSrcChannelsPlusOne SenderIndexPolicy = "src_channels_plus_one"
	// SenderIndexSendersMinusTwo credits senders[len(senders)-2].
	SenderIndexSendersMinusTwo SenderIndexPolicy = "senders_minus_two"
)

// DefaultSenderIndex is the policy phase 2 scores were computed with.
const DefaultSenderIndex = SenderIndexSrcChannelsPlusOne

// IsValid reports whether p is a known policy.
func (p SenderIndexPolicy) IsValid() bool {
	switch p {
	case SenderIndexSrcChannelsPlusOne, SenderIndexSendersMinusTwo:
		return true
	}
	return false
}

// Index returns the sender index to credit. The result may be out of range
// (including negative); callers must bounds-check.
func (p SenderIndexPolicy) Index(senders, srcChannels []string) int {
	if p == SenderIndexSendersMinusTwo {
		return len(senders) - 2
	}
	return len(srcChannels) + 1
}

// HubMatch selects how an envelope network is compared with hub ids.
type HubMatch string

// Hub matching modes.
const (
	HubMatchAny   HubMatch = "any"   // network is any configured hub id
	HubMatchFirst HubMatch = "first" // network equals the first hub id
)

// IsValid reports whether m is a known mode.
func (m HubMatch) IsValid() bool {
	return m == HubMatchAny || m == HubMatchFirst
}
