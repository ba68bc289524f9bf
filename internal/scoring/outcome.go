package scoring

// Outcome classifies what one OpaquePacket observation did to engine state.
type Outcome string

// Opaque packet outcomes. Only OutcomeHub, OutcomeFromHub and
// OutcomeExternal increment a scoring counter.
const (
	OutcomeHub               Outcome = "hub"
	OutcomeFromHub           Outcome = "from_hub"
	OutcomeExternal          Outcome = "external"
	OutcomeDuplicate         Outcome = "duplicate"
	OutcomeMissingHash       Outcome = "missing_hash"
	OutcomeMissingAttributes Outcome = "missing_attributes"
	OutcomeSenderOutOfRange  Outcome = "sender_out_of_range"
	OutcomeUnattributed      Outcome = "unattributed"
	OutcomeNoChannel         Outcome = "no_channel"
)

// Scored reports whether the outcome credited a team.
func (o Outcome) Scored() bool {
	return o == OutcomeHub || o == OutcomeFromHub || o == OutcomeExternal
}

// Recorder receives engine activity. Implemented by observability.RunMetrics.
type Recorder interface {
	RecordEnvelope(network string)
	RecordOpaqueOutcome(outcome string)
	RecordChannelLearned(channel string, added bool)
	RecordIgnored(kind string)
}

type nopRecorder struct{}

func (nopRecorder) RecordEnvelope(string)             {}
func (nopRecorder) RecordOpaqueOutcome(string)        {}
func (nopRecorder) RecordChannelLearned(string, bool) {}
func (nopRecorder) RecordIgnored(string)              {}
