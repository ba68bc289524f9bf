package domain

// Attribute keys read from relay event data.
const (
	AttrTxHash               = "tx.hash"
	AttrMessageSender        = "message.sender"
	AttrRecvPacketSrcChannel = "recv_packet.packet_src_channel"
	AttrSendPacketDstChannel = "send_packet.packet_dst_channel"
)

// Variant tags as they appear on the wire.
const (
	KindEventIBC       = "EventIBC"
	KindOpaquePacket   = "OpaquePacket"
	KindPacketTransfer = "PacketTransfer"
)

// Envelope is one decoded collector record: the chain it was observed on
// and the messages it carried, in order.
type Envelope struct {
	Network string
	Msg     []Message
}

// Message is a closed sum type over collector messages.
// Implemented by EventIBC and OtherMessage only.
type Message interface {
	Kind() string
	isMessage()
}

// EventIBC carries a relay protocol event.
type EventIBC struct {
	Event Event
}

// OtherMessage is any message variant the scorer does not act on.
type OtherMessage struct {
	Tag     string
	Payload []byte // raw JSON payload, nil for unit variants
}

func (EventIBC) Kind() string       { return KindEventIBC }
func (m OtherMessage) Kind() string { return m.Tag }

func (EventIBC) isMessage()     {}
func (OtherMessage) isMessage() {}

// Event is a closed sum type over relay protocol events.
// Implemented by OpaquePacket, PacketTransfer and OtherEvent only.
type Event interface {
	Kind() string
	isEvent()
}

// OpaquePacket is a packet relay attempt.
type OpaquePacket struct {
	InnerEvent
}

// PacketTransfer is a packet send observed on a channel.
type PacketTransfer struct {
	InnerEvent
}

// OtherEvent is any event variant the scorer ignores.
type OtherEvent struct {
	Tag     string
	Payload []byte
}

func (OpaquePacket) Kind() string   { return KindOpaquePacket }
func (PacketTransfer) Kind() string { return KindPacketTransfer }
func (e OtherEvent) Kind() string   { return e.Tag }

func (OpaquePacket) isEvent()   {}
func (PacketTransfer) isEvent() {}
func (OtherEvent) isEvent()     {}

// InnerEvent maps attribute keys to their ordered values.
// A missing key is a normal condition, never an error.
type InnerEvent struct {
	Data map[string][]string `json:"data"`
}

// Values returns the values stored under key.
func (e InnerEvent) Values(key string) ([]string, bool) {
	v, ok := e.Data[key]
	return v, ok
}

// First returns the first value stored under key.
// ok is false when the key is absent or has no values.
func (e InnerEvent) First(key string) (string, bool) {
	v, ok := e.Data[key]
	if !ok || len(v) == 0 {
		return "", false
	}
	return v[0], true
}
