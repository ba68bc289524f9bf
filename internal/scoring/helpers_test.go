package scoring

import (
	"goz-scoring/internal/domain"
	"goz-scoring/internal/roster"
)

const (
	hubID  = "gameofzoneshub-2a"
	zoneID = "irishub-zone"

	alphaHub  = "cosmos1qqqsyqcyq5rqwzqfpg9scrgwpugpzysnrk363e"
	alphaOsmo = "osmo1qqqsyqcyq5rqwzqfpg9scrgwpugpzysntdz28t"
	betaHub   = "cosmos1v3jkvemgd94xkmrddehhqutjwd682anhgerdcs"
	betaTerra = "terra1v3jkvemgd94xkmrddehhqutjwd682anhwaed6s"
	unknown   = "cosmos1qurswpc8qurswpc8qurswpc8qurswpc8nn86qp"
)

func testRoster() *roster.Roster {
	return roster.New([]domain.Team{
		{Address: alphaHub, Name: "alpha"},
		{Address: betaHub, Name: "beta"},
	}, nil)
}

func newTestEngine() *Engine {
	return New(Options{
		Roster: testRoster(),
		HubIDs: []string{hubID},
	})
}

// relaySenders lays out a sender list so that the default policy
// (index = len(src)+1) credits relayer.
func relaySenders(relayer string, srcCount int) []string {
	senders := make([]string, 0, srcCount+2)
	for i := 0; i < srcCount+1; i++ {
		senders = append(senders, unknown)
	}
	return append(senders, relayer)
}

func opaqueEnvelope(network, hash string, senders, src []string) *domain.Envelope {
	data := map[string][]string{}
	if hash != "" {
		data[domain.AttrTxHash] = []string{hash}
	}
	if senders != nil {
		data[domain.AttrMessageSender] = senders
	}
	if src != nil {
		data[domain.AttrRecvPacketSrcChannel] = src
	}
	return &domain.Envelope{
		Network: network,
		Msg: []domain.Message{
			domain.EventIBC{Event: domain.OpaquePacket{InnerEvent: domain.InnerEvent{Data: data}}},
		},
	}
}

func relay(network, hash, relayer string, src ...string) *domain.Envelope {
	return opaqueEnvelope(network, hash, relaySenders(relayer, len(src)), src)
}

func transferEnvelope(network string, dst ...string) *domain.Envelope {
	return &domain.Envelope{
		Network: network,
		Msg: []domain.Message{
			domain.EventIBC{Event: domain.PacketTransfer{InnerEvent: domain.InnerEvent{Data: map[string][]string{
				domain.AttrSendPacketDstChannel: dst,
			}}}},
		},
	}
}
