// Package fixtures generates synthetic relay event streams and matching
// rosters for demos, load tests and end-to-end tests.
package fixtures

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/brianvoe/gofakeit/v6"

	"goz-scoring/internal/address"
	"goz-scoring/internal/domain"
	"goz-scoring/internal/idhash"
	"goz-scoring/internal/scoring"
)

// DefaultHubID is the Game of Zones phase 2 hub chain.
const DefaultHubID = "gameofzoneshub-2a"

// DefaultZonePrefixes are the bech32 prefixes of generated counterparty chains.
var DefaultZonePrefixes = []string{"osmo", "terra", "iaa", "kava"}

// Options controls a generated dataset.
type Options struct {
	Seed          int64 // 0 picks a random seed
	Teams         int   // Default: 5
	Envelopes     int   // Default: 500
	HubIDs        []string
	ZonePrefixes  []string
	Channels      int                       // Default: 8
	SenderIndex   scoring.SenderIndexPolicy // Default: scoring.DefaultSenderIndex
	DuplicateRate float64                   // Default: 0.05
	NoiseRate     float64                   // Default: 0.1
	UnknownRate   float64                   // Default: 0.1, relayers outside the roster
}

// Dataset is a generated roster plus the event stream it scores.
type Dataset struct {
	HubIDs    []string
	Teams     []domain.Team
	Envelopes []*domain.Envelope
}

type zone struct {
	network string
	prefix  string
}

type generator struct {
	f        *gofakeit.Faker
	opts     Options
	zones    []zone
	relayers [][]byte // team relayer payloads, index-aligned with Teams
	hashes   []string
	err      error // first encoding error
}

// Generate builds a dataset. The same non-zero seed yields the same dataset.
// It fails only when a configured prefix is not a valid bech32 prefix.
func Generate(opts Options) (*Dataset, error) {
	opts = withDefaults(opts)

	g := &generator{
		f:    gofakeit.New(opts.Seed),
		opts: opts,
	}
	for _, p := range opts.ZonePrefixes {
		g.zones = append(g.zones, zone{network: "gameofzones-" + p, prefix: p})
	}

	ds := &Dataset{HubIDs: append([]string{}, opts.HubIDs...)}
	ds.Teams = g.teams()

	for i := 0; i < opts.Envelopes; i++ {
		ds.Envelopes = append(ds.Envelopes, g.envelope(i))
	}

	if g.err != nil {
		return nil, g.err
	}
	return ds, nil
}

func withDefaults(opts Options) Options {
	if opts.Teams <= 0 {
		opts.Teams = 5
	}
	if opts.Envelopes <= 0 {
		opts.Envelopes = 500
	}
	if len(opts.HubIDs) == 0 {
		opts.HubIDs = []string{DefaultHubID}
	}
	if len(opts.ZonePrefixes) == 0 {
		opts.ZonePrefixes = DefaultZonePrefixes
	}
	if opts.Channels <= 0 {
		opts.Channels = 8
	}
	if opts.SenderIndex == "" {
		opts.SenderIndex = scoring.DefaultSenderIndex
	}
	if opts.DuplicateRate == 0 {
		opts.DuplicateRate = 0.05
	}
	if opts.NoiseRate == 0 {
		opts.NoiseRate = 0.1
	}
	if opts.UnknownRate == 0 {
		opts.UnknownRate = 0.1
	}
	return opts
}

func (g *generator) teams() []domain.Team {
	seen := make(map[string]struct{}, g.opts.Teams)
	teams := make([]domain.Team, 0, g.opts.Teams)

	for len(teams) < g.opts.Teams {
		name := g.f.Company()
		if _, dup := seen[name]; dup {
			name = fmt.Sprintf("%s %d", name, len(teams))
		}
		seen[name] = struct{}{}

		payload := g.payload()
		addr := g.encode(address.DefaultHubPrefix, payload)

		g.relayers = append(g.relayers, payload)
		teams = append(teams, domain.Team{Address: addr, Name: name})
	}
	return teams
}

func (g *generator) payload() []byte {
	b := make([]byte, 20)
	for i := range b {
		b[i] = g.f.Uint8()
	}
	return b
}

func (g *generator) envelope(i int) *domain.Envelope {
	r := g.f.Float64Range(0, 1)
	switch {
	case r < g.opts.NoiseRate:
		return g.noise()
	case r < g.opts.NoiseRate+0.15:
		return g.transfer()
	default:
		return g.opaque(i)
	}
}

func (g *generator) noise() *domain.Envelope {
	network := g.network(g.f.Bool())
	if g.f.Bool() {
		return &domain.Envelope{
			Network: network,
			Msg:     []domain.Message{domain.OtherMessage{Tag: g.f.RandomString([]string{"NewBlock", "Tx", "ValidatorSetUpdates"})}},
		}
	}
	return &domain.Envelope{
		Network: network,
		Msg: []domain.Message{domain.EventIBC{Event: domain.OtherEvent{
			Tag: g.f.RandomString([]string{"CreateClient", "UpdateClient", "OpenInitConnection", "Timeout"}),
		}}},
	}
}

func (g *generator) transfer() *domain.Envelope {
	n := g.f.IntRange(1, 2)
	dst := make([]string, n)
	for i := range dst {
		dst[i] = g.channel()
	}
	return &domain.Envelope{
		Network: g.opts.HubIDs[g.f.IntRange(0, len(g.opts.HubIDs)-1)],
		Msg: []domain.Message{domain.EventIBC{Event: domain.PacketTransfer{InnerEvent: domain.InnerEvent{
			Data: map[string][]string{domain.AttrSendPacketDstChannel: dst},
		}}}},
	}
}

func (g *generator) opaque(i int) *domain.Envelope {
	onHub := g.f.Float64Range(0, 1) < 0.3
	network := g.network(onHub)
	prefix := address.DefaultHubPrefix
	if !onHub {
		prefix = g.zoneFor(network).prefix
	}

	hash := idhash.ComputeTxHash(g.opts.Seed, i)
	if len(g.hashes) > 0 && g.f.Float64Range(0, 1) < g.opts.DuplicateRate {
		hash = g.hashes[g.f.IntRange(0, len(g.hashes)-1)]
	} else {
		g.hashes = append(g.hashes, hash)
	}

	src := make([]string, g.f.IntRange(1, 3))
	for j := range src {
		src[j] = g.channel()
	}

	var relayer []byte
	if g.f.Float64Range(0, 1) < g.opts.UnknownRate {
		relayer = g.payload()
	} else {
		relayer = g.relayers[g.f.IntRange(0, len(g.relayers)-1)]
	}

	return &domain.Envelope{
		Network: network,
		Msg: []domain.Message{domain.EventIBC{Event: domain.OpaquePacket{InnerEvent: domain.InnerEvent{
			Data: map[string][]string{
				domain.AttrTxHash:               {hash},
				domain.AttrMessageSender:        g.senders(prefix, relayer, len(src)),
				domain.AttrRecvPacketSrcChannel: src,
			},
		}}}},
	}
}

// senders lays out len(src)+2 sender entries so that the configured sender
// index policy lands on relayer. Other slots hold unrelated accounts.
func (g *generator) senders(prefix string, relayer []byte, srcCount int) []string {
	senders := make([]string, srcCount+2)
	idx := g.opts.SenderIndex.Index(senders, make([]string, srcCount))

	for i := range senders {
		payload := g.payload()
		if i == idx {
			payload = relayer
		}
		senders[i] = g.encode(prefix, payload)
	}
	return senders
}

func (g *generator) encode(prefix string, payload []byte) string {
	addr, err := address.Encode(prefix, payload)
	if err != nil && g.err == nil {
		g.err = fmt.Errorf("generate address: %w", err)
	}
	return addr
}

func (g *generator) network(hub bool) string {
	if hub {
		return g.opts.HubIDs[g.f.IntRange(0, len(g.opts.HubIDs)-1)]
	}
	return g.zones[g.f.IntRange(0, len(g.zones)-1)].network
}

func (g *generator) zoneFor(network string) zone {
	for _, z := range g.zones {
		if z.network == network {
			return z
		}
	}
	return zone{network: network, prefix: address.DefaultHubPrefix}
}

func (g *generator) channel() string {
	return fmt.Sprintf("channel-%d", g.f.IntRange(0, g.opts.Channels-1))
}

// WriteNDJSON writes one envelope per line in the collector wire format.
func (d *Dataset) WriteNDJSON(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for i, env := range d.Envelopes {
		line, err := json.Marshal(env)
		if err != nil {
			return fmt.Errorf("marshal envelope %d: %w", i, err)
		}
		bw.Write(line)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
