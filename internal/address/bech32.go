// Package address re-expresses bech32 account addresses under the hub's
// human-readable prefix so relayers on any zone map to one roster key.
package address

import (
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
)

// DefaultHubPrefix is the human-readable part of hub account addresses.
const DefaultHubPrefix = "cosmos"

// ErrInvalidAddress is returned when an address is not valid bech32.
var ErrInvalidAddress = errors.New("invalid bech32 address")

// Normalizer converts addresses to the hub prefix.
type Normalizer struct {
	prefix string
}

// NewNormalizer creates a normalizer for the given hub prefix.
// An empty prefix selects DefaultHubPrefix.
func NewNormalizer(prefix string) *Normalizer {
	if prefix == "" {
		prefix = DefaultHubPrefix
	}
	return &Normalizer{prefix: prefix}
}

// Prefix returns the hub prefix.
func (n *Normalizer) Prefix() string {
	return n.prefix
}

// ToHub returns addr expressed under the hub prefix.
// Addresses that already contain "<prefix>1" are returned unchanged and are
// not validated. Anything else is decoded and re-encoded; the input is not
// lowercased first, so mixed-case input fails bech32 decoding.
func (n *Normalizer) ToHub(addr string) (string, error) {
	if strings.Contains(addr, n.prefix+"1") {
		return addr, nil
	}

	_, payload, err := Decode(addr)
	if err != nil {
		return "", err
	}
	return Encode(n.prefix, payload)
}

// Decode splits a bech32 address into its prefix and 8-bit payload.
func Decode(addr string) (string, []byte, error) {
	hrp, data, err := bech32.DecodeNoLimit(addr)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}

	payload, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	return hrp, payload, nil
}

// Encode encodes an 8-bit payload under prefix.
func Encode(prefix string, payload []byte) (string, error) {
	s, err := bech32.EncodeFromBase256(prefix, payload)
	if err != nil {
		return "", fmt.Errorf("encode %s address: %w", prefix, err)
	}
	return s, nil
}
