package blockheader

import (
	"bytes"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
)

func TestNewLayout(t *testing.T) {
	prevHash := [HashSize]byte{0x01, 0x02}
	merkleRoot := [HashSize]byte{31: 0xee}
	header := New(1, &prevHash, &merkleRoot, 0x5300a1b2, 0x1e0ffff0, 0xdeadbeef)

	expectedPrefix := []byte{0x00, 0x00, 0x00, 0x01, 0x01, 0x02}
	if !bytes.HasPrefix(header[:], expectedPrefix) {
		t.Fatalf("unexpected header prefix:\n%s", spew.Sdump(header[:8]))
	}
	if header[67] != 0xee {
		t.Errorf("merkle root not at bytes 36..67:\n%s", spew.Sdump(header[:]))
	}
	if !bytes.Equal(header[NonceOffset:], []byte{0xde, 0xad, 0xbe, 0xef}) {
		t.Errorf("nonce is not big-endian at offset %d:\n%s", NonceOffset, spew.Sdump(header[NonceOffset:]))
	}

	if header.Version() != 1 {
		t.Errorf("Version: got %d want 1", header.Version())
	}
	if header.PrevHash() != prevHash {
		t.Errorf("PrevHash: got %x want %x", header.PrevHash(), prevHash)
	}
	if header.MerkleRoot() != merkleRoot {
		t.Errorf("MerkleRoot: got %x want %x", header.MerkleRoot(), merkleRoot)
	}
	if header.Timestamp() != 0x5300a1b2 {
		t.Errorf("Timestamp: got %x", header.Timestamp())
	}
	if header.Bits() != 0x1e0ffff0 {
		t.Errorf("Bits: got %x", header.Bits())
	}
	if header.Nonce() != 0xdeadbeef {
		t.Errorf("Nonce: got %x", header.Nonce())
	}
}

func TestSetNonceTouchesOnlyNonceField(t *testing.T) {
	header := New(2, nil, nil, 10, 20, 0)
	before := *header
	header.SetNonce(0x01020304)

	if !bytes.Equal(before[:NonceOffset], header[:NonceOffset]) {
		t.Fatalf("SetNonce modified bytes before the nonce field")
	}
	if header.Nonce() != 0x01020304 {
		t.Errorf("Nonce: got %x want 01020304", header.Nonce())
	}
}

func TestFromHex(t *testing.T) {
	header := New(1, nil, nil, 0, 0, 42)
	decoded, err := FromHex(header.String())
	if err != nil {
		t.Fatalf("FromHex: %s", err)
	}
	if *decoded != *header {
		t.Errorf("FromHex returned a different header:\n%s", spew.Sdump(decoded))
	}

	tests := []struct {
		name  string
		input string
	}{
		{"not hex", strings.Repeat("zz", HeaderSize)},
		{"too short", strings.Repeat("00", HeaderSize-1)},
		{"too long", strings.Repeat("00", HeaderSize+1)},
	}
	for _, test := range tests {
		_, err := FromHex(test.input)
		if err == nil {
			t.Errorf("FromHex(%s) unexpectedly succeeded", test.name)
		}
	}
}

func TestClone(t *testing.T) {
	header := New(1, nil, nil, 0, 0, 1)
	clone := header.Clone()
	clone.SetNonce(2)
	if header.Nonce() != 1 {
		t.Errorf("modifying a clone changed the original")
	}
}
