package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Codec errors.
var (
	ErrMalformedMessage = errors.New("malformed message")
	ErrMalformedEvent   = errors.New("malformed event")
)

// envelopeJSON is the wire shape of an Envelope.
type envelopeJSON struct {
	Network string            `json:"network"`
	Msg     []json.RawMessage `json:"msg"`
}

// DecodeEnvelope decodes one NDJSON line.
func DecodeEnvelope(line []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(line, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// UnmarshalJSON decodes the externally tagged collector format:
//
//	{"network":"hub","msg":[{"EventIBC":{"OpaquePacket":{"data":{...}}}}, "Unit"]}
func (e *Envelope) UnmarshalJSON(b []byte) error {
	var raw envelopeJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	msgs := make([]Message, 0, len(raw.Msg))
	for i, m := range raw.Msg {
		msg, err := decodeMessage(m)
		if err != nil {
			return fmt.Errorf("msg[%d]: %w", i, err)
		}
		msgs = append(msgs, msg)
	}

	e.Network = raw.Network
	e.Msg = msgs
	return nil
}

// MarshalJSON encodes the envelope in the same shape UnmarshalJSON reads.
func (e Envelope) MarshalJSON() ([]byte, error) {
	raw := envelopeJSON{
		Network: e.Network,
		Msg:     make([]json.RawMessage, 0, len(e.Msg)),
	}
	for i, m := range e.Msg {
		b, err := encodeMessage(m)
		if err != nil {
			return nil, fmt.Errorf("msg[%d]: %w", i, err)
		}
		raw.Msg = append(raw.Msg, b)
	}
	return json.Marshal(raw)
}

func decodeMessage(b json.RawMessage) (Message, error) {
	tag, payload, err := splitTagged(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	if tag != KindEventIBC {
		return OtherMessage{Tag: tag, Payload: payload}, nil
	}
	if payload == nil {
		return nil, fmt.Errorf("%w: %s without event", ErrMalformedMessage, KindEventIBC)
	}

	ev, err := decodeEvent(payload)
	if err != nil {
		return nil, err
	}
	return EventIBC{Event: ev}, nil
}

func decodeEvent(b json.RawMessage) (Event, error) {
	tag, payload, err := splitTagged(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	switch tag {
	case KindOpaquePacket, KindPacketTransfer:
		var inner InnerEvent
		if payload != nil {
			if err := json.Unmarshal(payload, &inner); err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrMalformedEvent, tag, err)
			}
		}
		if tag == KindOpaquePacket {
			return OpaquePacket{InnerEvent: inner}, nil
		}
		return PacketTransfer{InnerEvent: inner}, nil
	default:
		return OtherEvent{Tag: tag, Payload: payload}, nil
	}
}

// splitTagged splits an externally tagged value into its tag and payload.
// Unit variants are encoded as a bare string and yield a nil payload.
func splitTagged(b json.RawMessage) (string, json.RawMessage, error) {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 {
		return "", nil, errors.New("empty value")
	}

	switch trimmed[0] {
	case '"':
		var tag string
		if err := json.Unmarshal(trimmed, &tag); err != nil {
			return "", nil, err
		}
		return tag, nil, nil
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return "", nil, err
		}
		if len(obj) != 1 {
			return "", nil, fmt.Errorf("expected exactly one variant tag, got %d", len(obj))
		}
		for tag, payload := range obj {
			return tag, payload, nil
		}
	}
	return "", nil, fmt.Errorf("unexpected JSON value %.20q", trimmed)
}

func encodeMessage(m Message) (json.RawMessage, error) {
	switch msg := m.(type) {
	case EventIBC:
		ev, err := encodeEvent(msg.Event)
		if err != nil {
			return nil, err
		}
		return encodeTagged(KindEventIBC, ev)
	case OtherMessage:
		return encodeTagged(msg.Tag, msg.Payload)
	default:
		return nil, fmt.Errorf("%w: unknown message type %T", ErrMalformedMessage, m)
	}
}

func encodeEvent(e Event) (json.RawMessage, error) {
	switch ev := e.(type) {
	case OpaquePacket:
		b, err := json.Marshal(ev.InnerEvent)
		if err != nil {
			return nil, err
		}
		return encodeTagged(KindOpaquePacket, b)
	case PacketTransfer:
		b, err := json.Marshal(ev.InnerEvent)
		if err != nil {
			return nil, err
		}
		return encodeTagged(KindPacketTransfer, b)
	case OtherEvent:
		return encodeTagged(ev.Tag, ev.Payload)
	default:
		return nil, fmt.Errorf("%w: unknown event type %T", ErrMalformedEvent, e)
	}
}

func encodeTagged(tag string, payload []byte) (json.RawMessage, error) {
	if payload == nil {
		return json.Marshal(tag)
	}
	return json.Marshal(map[string]json.RawMessage{tag: payload})
}
