package Ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"testing"
)

func TestNewBlockHash(t *testing.T) {

	bk := NewBlockAt([]byte("payload"), "prev", 42)

	sum := sha256.Sum256(append(append([]byte("payload"), []byte(strconv.FormatInt(42, 10))...), []byte("prev")...))
	expected := hex.EncodeToString(sum[:])

	if bk.Hash != expected {
		t.Errorf("Expected hash %s, got %s", expected, bk.Hash)
	}

	if len(bk.Hash) != 64 {
		t.Errorf("Expected hash length 64, got %d", len(bk.Hash))
	}

	if !bk.IsValid() {
		t.Error("Freshly built block should be valid")
	}
}

func TestBlockIsValidDetectsTampering(t *testing.T) {

	bk := NewBlockAt([]byte("payload"), "prev", 42)

	tamperedData := bk
	tamperedData.Data = []byte("other payload")
	if tamperedData.IsValid() {
		t.Error("Block with mutated data should be invalid")
	}

	tamperedTime := bk
	tamperedTime.TimeStamp = bk.TimeStamp + 1
	if tamperedTime.IsValid() {
		t.Error("Block with mutated timestamp should be invalid")
	}

	tamperedPrev := bk
	tamperedPrev.PrevHash = "forged"
	if tamperedPrev.IsValid() {
		t.Error("Block with mutated prevHash should be invalid")
	}

	tamperedHash := bk
	tamperedHash.Hash = "0000"
	if tamperedHash.IsValid() {
		t.Error("Block with mutated hash should be invalid")
	}
}

func TestIsLinked(t *testing.T) {

	first := NewBlockAt([]byte("first"), "0", 1)
	second := NewBlockAt([]byte("second"), first.Hash, 2)

	if !IsLinked(first, second) {
		t.Error("Second block should link to first")
	}

	if IsLinked(second, first) {
		t.Error("First block should not link to second")
	}
}

func TestDistinctTimestampsDistinctHashes(t *testing.T) {

	one := NewBlockAt([]byte("payload"), "prev", 1)
	two := NewBlockAt([]byte("payload"), "prev", 2)

	if one.Hash == two.Hash {
		t.Error("Blocks differing only in timestamp should have different hashes")
	}
}
