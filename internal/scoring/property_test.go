package scoring

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"goz-scoring/internal/domain"
)

// step is one generated observation.
type step struct {
	Transfer bool
	OnHub    bool
	Hash     int
	Relayer  int
	Channels []int
}

var relayerPool = []string{alphaHub, alphaOsmo, betaHub, betaTerra, unknown, "osmo1broken"}

func genStep() gopter.Gen {
	return gopter.CombineGens(
		gen.Bool(),
		gen.Bool(),
		gen.IntRange(0, 7),
		gen.IntRange(0, len(relayerPool)-1),
		gen.SliceOfN(3, gen.IntRange(0, 4)),
		gen.IntRange(0, 3),
	).Map(func(vals []interface{}) step {
		chans := vals[4].([]int)
		n := vals[5].(int)
		return step{
			Transfer: vals[0].(bool),
			OnHub:    vals[1].(bool),
			Hash:     vals[2].(int),
			Relayer:  vals[3].(int),
			Channels: chans[:n],
		}
	})
}

func (s step) envelope() *domain.Envelope {
	network := zoneID
	if s.OnHub {
		network = hubID
	}

	channels := make([]string, len(s.Channels))
	for i, c := range s.Channels {
		channels[i] = fmt.Sprintf("channel-%d", c)
	}

	if s.Transfer {
		return transferEnvelope(network, channels...)
	}
	return relay(network, fmt.Sprintf("H%d", s.Hash), relayerPool[s.Relayer], channels...)
}

func runSteps(e *Engine, steps []step) {
	for _, s := range steps {
		e.Observe(s.envelope())
	}
}

func TestEngineProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("re-observing any envelope leaves scores unchanged", prop.ForAll(
		func(steps []step, last step) bool {
			e := newTestEngine()
			runSteps(e, steps)
			e.Observe(last.envelope())
			before := e.Snapshot()
			e.Observe(last.envelope())
			return reflect.DeepEqual(before, e.Snapshot())
		},
		gen.SliceOf(genStep()),
		genStep(),
	))

	properties.Property("source channels only grow", prop.ForAll(
		func(steps []step) bool {
			e := newTestEngine()
			known := map[string]bool{}
			for _, s := range steps {
				e.Observe(s.envelope())
				current := map[string]bool{}
				for _, ch := range e.SourceChannels() {
					current[ch] = true
				}
				for ch := range known {
					if !current[ch] {
						return false
					}
				}
				known = current
			}
			return true
		},
		gen.SliceOf(genStep()),
	))

	properties.Property("a scored packet increments exactly one class counter", prop.ForAll(
		func(steps []step, next step) bool {
			e := newTestEngine()
			runSteps(e, steps)
			before := e.Snapshot()
			prevOutcomes := e.Stats().Outcomes

			next.Transfer = false
			e.Observe(next.envelope())
			after := e.Snapshot()
			outcomes := e.Stats().Outcomes

			var scored Outcome
			for o, n := range outcomes {
				if n != prevOutcomes[o] {
					scored = o
				}
			}

			for team, a := range after {
				b := before[team]
				classDelta := (a.HubOpaquePackets - b.HubOpaquePackets) +
					(a.PacketsFromHub - b.PacketsFromHub) +
					(a.OpaquePacketsTx - b.OpaquePacketsTx)
				totalDelta := a.OpaquePacketsTotal - b.OpaquePacketsTotal
				changed := classDelta != 0 || totalDelta != 0
				if !changed {
					continue
				}
				if !scored.Scored() || classDelta != 1 || totalDelta != uint64(len(next.Channels)) {
					return false
				}
			}
			if scored.Scored() {
				var diff int
				for team, a := range after {
					if a != before[team] {
						diff++
					}
				}
				return diff == 1
			}
			return true
		},
		gen.SliceOf(genStep()),
		genStep(),
	))

	properties.Property("foreign prefix resolves like hub prefix", prop.ForAll(
		func(hash int, n int) bool {
			hubEngine := newTestEngine()
			zoneEngine := newTestEngine()
			channels := make([]string, n)
			for i := range channels {
				channels[i] = fmt.Sprintf("channel-%d", i)
			}
			h := fmt.Sprintf("H%d", hash)
			hubEngine.Observe(relay(zoneID, h, alphaHub, channels...))
			zoneEngine.Observe(relay(zoneID, h, alphaOsmo, channels...))
			return reflect.DeepEqual(hubEngine.Snapshot(), zoneEngine.Snapshot())
		},
		gen.IntRange(0, 1000),
		gen.IntRange(0, 4),
	))

	properties.TestingRun(t)
}
