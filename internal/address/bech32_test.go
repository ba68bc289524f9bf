package address

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// Same 20-byte payload (0x00..0x13) under different prefixes.
const (
	cosmosAddr = "cosmos1qqqsyqcyq5rqwzqfpg9scrgwpugpzysnrk363e"
	osmoAddr   = "osmo1qqqsyqcyq5rqwzqfpg9scrgwpugpzysntdz28t"
	terraAddr  = "terra1qqqsyqcyq5rqwzqfpg9scrgwpugpzysn9jt6ne"
)

func TestNormalizer_ToHub(t *testing.T) {
	n := NewNormalizer("")

	tests := []struct {
		name    string
		addr    string
		want    string
		wantErr bool
	}{
		{name: "already hub prefix", addr: cosmosAddr, want: cosmosAddr},
		{name: "osmosis prefix", addr: osmoAddr, want: cosmosAddr},
		{name: "terra prefix", addr: terraAddr, want: cosmosAddr},
		{name: "bad checksum", addr: osmoAddr[:len(osmoAddr)-1] + "q", wantErr: true},
		{name: "invalid charset", addr: "osmo1bbbbbbbbbbbbbbbbbbbb", wantErr: true},
		{name: "mixed case", addr: "Osmo1qqqsyqcyq5rqwzqfpg9scrgwpugpzysntdz28t", wantErr: true},
		{name: "empty", addr: "", wantErr: true},
		{name: "no separator", addr: "notanaddress", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := n.ToHub(tt.addr)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAddress) {
					t.Fatalf("ToHub(%q) error = %v, want ErrInvalidAddress", tt.addr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ToHub(%q) failed: %v", tt.addr, err)
			}
			if got != tt.want {
				t.Errorf("ToHub(%q) = %q, want %q", tt.addr, got, tt.want)
			}
		})
	}
}

func TestNormalizer_ContainsPrefixShortCircuit(t *testing.T) {
	// Any string containing "cosmos1" is passed through without validation.
	n := NewNormalizer(DefaultHubPrefix)
	in := "team cosmos1 not bech32"
	got, err := n.ToHub(in)
	if err != nil {
		t.Fatalf("ToHub failed: %v", err)
	}
	if got != in {
		t.Errorf("ToHub = %q, want input unchanged", got)
	}
}

func TestNormalizer_CustomPrefix(t *testing.T) {
	n := NewNormalizer("osmo")
	if n.Prefix() != "osmo" {
		t.Fatalf("Prefix() = %q", n.Prefix())
	}
	got, err := n.ToHub(cosmosAddr)
	if err != nil {
		t.Fatalf("ToHub failed: %v", err)
	}
	if got != osmoAddr {
		t.Errorf("ToHub = %q, want %q", got, osmoAddr)
	}
}

func TestDecodeEncode_RoundTrip(t *testing.T) {
	hrp, payload, err := Decode(osmoAddr)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if hrp != "osmo" {
		t.Errorf("hrp = %q, want osmo", hrp)
	}

	want := make([]byte, 20)
	for i := range want {
		want[i] = byte(i)
	}
	if !bytes.Equal(payload, want) {
		t.Errorf("payload = %x, want %x", payload, want)
	}

	enc, err := Encode("terra", payload)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if enc != terraAddr {
		t.Errorf("Encode = %q, want %q", enc, terraAddr)
	}
}

func TestDecode_UppercaseAccepted(t *testing.T) {
	// bech32 allows all-uppercase strings.
	hrp, _, err := Decode(strings.ToUpper(osmoAddr))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if hrp != "osmo" {
		t.Errorf("hrp = %q, want osmo", hrp)
	}
}
