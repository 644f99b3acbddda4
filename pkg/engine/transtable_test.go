package engine

import (
	"testing"

	. "github.com/minnowengine/minnow/pkg/chess"
)

func TestTransTableRoundTrip(t *testing.T) {
	var tt = newTransTable(1)
	var key = uint64(0x9D39247E33776D41)
	var move = NewMove(SquareE1, SquareG1, King, Empty, Empty)

	tt.Update(key, 7, 123, boundExact, move)

	var depth, score, bound, gotMove, ok = tt.Read(key)
	if !ok {
		t.Fatal("expected a hit")
	}
	if depth != 7 || score != 123 || bound != boundExact || gotMove != move {
		t.Error("round trip mismatch", depth, score, bound, gotMove)
	}

	if _, _, _, _, ok := tt.Read(key ^ 1); ok {
		t.Error("expected a miss for a different key")
	}
}

func TestTransTableNegativeScore(t *testing.T) {
	var tt = newTransTable(1)
	tt.Update(42, 3, -31950, boundLower, MoveEmpty)
	var _, score, _, _, ok = tt.Read(42)
	if !ok || score != -31950 {
		t.Error("negative score corrupted:", score, ok)
	}
}

// An overwrite that carries no move keeps the move recorded for the
// same position.
func TestTransTableMovePreserved(t *testing.T) {
	var tt = newTransTable(1)
	var key = uint64(0xABCDEF0123456789)
	var m1 = NewMove(SquareE1, SquareG1, King, Empty, Empty)

	tt.Update(key, 5, 100, boundExact, m1)
	tt.Update(key, 3, 50, boundUpper, MoveEmpty)

	var depth, score, bound, move, ok = tt.Read(key)
	if !ok {
		t.Fatal("expected a hit")
	}
	if depth != 3 || score != 50 || bound != boundUpper {
		t.Error("overwrite not applied", depth, score, bound)
	}
	if move != m1 {
		t.Error("move not preserved across the overwrite")
	}
}

func TestTransTableOverwriteOtherKey(t *testing.T) {
	var tt = newTransTable(1)
	var key = uint64(0x1000)
	var other = key + uint64(len(tt.entries)) // same slot, different key
	var m1 = NewMove(SquareE1, SquareG1, King, Empty, Empty)

	tt.Update(key, 5, 100, boundExact, m1)
	tt.Update(other, 1, -5, boundUpper, MoveEmpty)

	if _, _, _, _, ok := tt.Read(key); ok {
		t.Error("always-replace should have evicted the first entry")
	}
	var _, _, _, move, ok = tt.Read(other)
	if !ok {
		t.Fatal("expected a hit for the replacing key")
	}
	if move != MoveEmpty {
		t.Error("move of an evicted position must not leak into the new entry")
	}
}

func TestValueToTTRoundTrip(t *testing.T) {
	var cases = []struct {
		value  int
		height int
	}{
		{100, 10},
		{-250, 33},
		{mateIn(7), 7},
		{matedIn(9), 9},
		{valueTBWinInMaxPly + 3, 12},
	}
	for _, c := range cases {
		var stored = valueToTT(c.value, c.height)
		if got := valueFromTT(stored, c.height); got != c.value {
			t.Error(c, stored, got)
		}
	}
	// a mate score re-read at a deeper node moves the mate further away
	var stored = valueToTT(mateIn(5), 5)
	if got := valueFromTT(stored, 8); got != mateIn(8) {
		t.Error("mate normalization wrong:", got)
	}
}

func TestHashFull(t *testing.T) {
	var tt = newTransTable(1)
	if tt.HashFull() != 0 {
		t.Error("fresh table should be empty")
	}
	for i := 0; i < 500; i++ {
		tt.Update(uint64(i), 1, 0, boundExact, MoveEmpty)
	}
	var full = tt.HashFull()
	if full == 0 || full > 1000 {
		t.Error("hashfull out of range:", full)
	}
}
