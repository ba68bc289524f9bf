// Package scoring attributes relayed IBC packets to teams.
//
// The Engine is fed decoded envelopes strictly in input order. It learns
// hub-sourced channels from PacketTransfer events, deduplicates OpaquePacket
// events by transaction hash, resolves the credited relayer to a team and
// keeps per-team counters. Classification depends on what was learned
// before, so Observe calls must not be reordered or run concurrently.
package scoring

import (
	"log"
	"sort"

	"goz-scoring/internal/domain"
	"goz-scoring/internal/roster"
)

// Options contains configuration for creating an Engine.
type Options struct {
	Roster      *roster.Roster
	HubIDs      []string
	HubMatch    HubMatch          // Default: HubMatchAny
	SenderIndex SenderIndexPolicy // Default: DefaultSenderIndex
	Recorder    Recorder          // optional
	Logger      *log.Logger
	Verbose     bool // log every opaque packet outcome
}

// Stats summarizes engine activity.
type Stats struct {
	Envelopes            int
	OpaquePackets        int
	PacketTransfers      int
	IgnoredMessages      int
	SourceChannels       int
	ObservedTransactions int
	Outcomes             map[Outcome]int
}

// Engine owns all scoring state for one run.
type Engine struct {
	roster      *roster.Roster
	hubIDs      map[string]struct{}
	firstHub    string
	hubMatch    HubMatch
	senderIndex SenderIndexPolicy
	recorder    Recorder
	logger      *log.Logger
	verbose     bool

	scores               map[string]*domain.Score
	sourceChannels       map[string]struct{} // grow-only
	observedTransactions map[string]struct{} // grow-only
	stats                Stats
}

// New creates an engine with empty accumulators.
func New(opts Options) *Engine {
	r := opts.Roster
	if r == nil {
		r = roster.New(nil, nil)
	}

	hubMatch := opts.HubMatch
	if hubMatch == "" {
		hubMatch = HubMatchAny
	}

	senderIndex := opts.SenderIndex
	if senderIndex == "" {
		senderIndex = DefaultSenderIndex
	}

	recorder := opts.Recorder
	if recorder == nil {
		recorder = nopRecorder{}
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	hubIDs := make(map[string]struct{}, len(opts.HubIDs))
	for _, id := range opts.HubIDs {
		hubIDs[id] = struct{}{}
	}
	var firstHub string
	if len(opts.HubIDs) > 0 {
		firstHub = opts.HubIDs[0]
	}

	return &Engine{
		roster:               r,
		hubIDs:               hubIDs,
		firstHub:             firstHub,
		hubMatch:             hubMatch,
		senderIndex:          senderIndex,
		recorder:             recorder,
		logger:               logger,
		verbose:              opts.Verbose,
		scores:               make(map[string]*domain.Score),
		sourceChannels:       make(map[string]struct{}),
		observedTransactions: make(map[string]struct{}),
		stats:                Stats{Outcomes: make(map[Outcome]int)},
	}
}

// Observe processes every message of env in order.
// Missing attributes, unknown variants and unresolvable senders are skipped
// silently; Observe never fails.
func (e *Engine) Observe(env *domain.Envelope) {
	if env == nil {
		return
	}
	e.stats.Envelopes++
	e.recorder.RecordEnvelope(env.Network)

	for _, msg := range env.Msg {
		ibc, ok := msg.(domain.EventIBC)
		if !ok {
			e.ignore(kindOf(msg))
			continue
		}

		switch ev := ibc.Event.(type) {
		case domain.OpaquePacket:
			e.stats.OpaquePackets++
			outcome := e.observeOpaque(env.Network, ev)
			e.stats.Outcomes[outcome]++
			e.recorder.RecordOpaqueOutcome(string(outcome))
		case domain.PacketTransfer:
			e.stats.PacketTransfers++
			e.learnChannels(env.Network, ev)
		default:
			e.ignore(kindOf(ibc.Event))
		}
	}
}

// learnChannels records hub-sourced destination channels.
func (e *Engine) learnChannels(network string, ev domain.PacketTransfer) {
	if !e.isHub(network) {
		return
	}

	channels, ok := ev.Values(domain.AttrSendPacketDstChannel)
	if !ok {
		return
	}

	for _, ch := range channels {
		_, exists := e.sourceChannels[ch]
		if !exists {
			e.sourceChannels[ch] = struct{}{}
		}
		e.recorder.RecordChannelLearned(ch, !exists)
	}
}

// observeOpaque scores one opaque packet. The transaction hash is marked
// observed before attribution, so a transaction that fails to resolve a
// team is never scored later in the run.
func (e *Engine) observeOpaque(network string, ev domain.OpaquePacket) Outcome {
	hash, ok := ev.First(domain.AttrTxHash)
	if !ok {
		return OutcomeMissingHash
	}

	if _, seen := e.observedTransactions[hash]; seen {
		return e.trace(hash, OutcomeDuplicate)
	}
	e.observedTransactions[hash] = struct{}{}

	senders, ok := ev.Values(domain.AttrMessageSender)
	if !ok {
		return e.trace(hash, OutcomeMissingAttributes)
	}
	srcChannels, ok := ev.Values(domain.AttrRecvPacketSrcChannel)
	if !ok {
		return e.trace(hash, OutcomeMissingAttributes)
	}

	idx := e.senderIndex.Index(senders, srcChannels)
	if idx < 0 || idx >= len(senders) {
		return e.trace(hash, OutcomeSenderOutOfRange)
	}

	team, ok := e.roster.Resolve(senders[idx])
	if !ok {
		return e.trace(hash, OutcomeUnattributed)
	}

	score := e.scoreFor(team)
	if len(srcChannels) == 0 {
		return e.trace(hash, OutcomeNoChannel)
	}

	var outcome Outcome
	switch {
	case e.isHub(network):
		score.HubOpaquePackets++
		outcome = OutcomeHub
	case e.isSourceChannel(srcChannels[0]):
		score.PacketsFromHub++
		outcome = OutcomeFromHub
	default:
		score.OpaquePacketsTx++
		outcome = OutcomeExternal
	}

	// Source channel count approximates the packets folded into one
	// multi-message relay transaction.
	score.OpaquePacketsTotal += uint64(len(srcChannels))

	return e.trace(hash, outcome)
}

func (e *Engine) scoreFor(team string) *domain.Score {
	s, ok := e.scores[team]
	if !ok {
		s = &domain.Score{}
		e.scores[team] = s
	}
	return s
}

func (e *Engine) isHub(network string) bool {
	if e.hubMatch == HubMatchFirst {
		return e.firstHub != "" && network == e.firstHub
	}
	_, ok := e.hubIDs[network]
	return ok
}

func (e *Engine) isSourceChannel(ch string) bool {
	_, ok := e.sourceChannels[ch]
	return ok
}

func (e *Engine) ignore(kind string) {
	e.stats.IgnoredMessages++
	e.recorder.RecordIgnored(kind)
}

func kindOf(v interface{ Kind() string }) string {
	if v == nil {
		return ""
	}
	return v.Kind()
}

func (e *Engine) trace(hash string, outcome Outcome) Outcome {
	if e.verbose {
		e.logger.Printf("opaque packet tx=%s outcome=%s", hash, outcome)
	}
	return outcome
}

// Snapshot returns a copy of the per-team scores.
func (e *Engine) Snapshot() map[string]domain.Score {
	out := make(map[string]domain.Score, len(e.scores))
	for team, s := range e.scores {
		out[team] = *s
	}
	return out
}

// SourceChannels returns the learned hub-sourced channels, sorted.
func (e *Engine) SourceChannels() []string {
	out := make([]string, 0, len(e.sourceChannels))
	for ch := range e.sourceChannels {
		out = append(out, ch)
	}
	sort.Strings(out)
	return out
}

// HasObserved reports whether a transaction hash has been consumed.
func (e *Engine) HasObserved(hash string) bool {
	_, ok := e.observedTransactions[hash]
	return ok
}

// Stats returns a copy of the engine counters.
func (e *Engine) Stats() Stats {
	s := e.stats
	s.SourceChannels = len(e.sourceChannels)
	s.ObservedTransactions = len(e.observedTransactions)
	s.Outcomes = make(map[Outcome]int, len(e.stats.Outcomes))
	for k, v := range e.stats.Outcomes {
		s.Outcomes[k] = v
	}
	return s
}
