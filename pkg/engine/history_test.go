package engine

import (
	"testing"

	. "github.com/minnowengine/minnow/pkg/chess"
)

func TestGravityUpdateBounded(t *testing.T) {
	var v int16
	for i := 0; i < 10000; i++ {
		updateGravity(&v, 2000)
		if v > historyMax {
			t.Fatal("history exceeded the positive clamp:", v)
		}
	}
	if v < historyMax/2 {
		t.Error("history should saturate towards the clamp, got", v)
	}
	for i := 0; i < 10000; i++ {
		updateGravity(&v, -2000)
		if v < -historyMax {
			t.Fatal("history exceeded the negative clamp:", v)
		}
	}
}

func TestKillerShift(t *testing.T) {
	var h historyTable
	var hc = historyContext{history: &h, side: SideWhite, cont1: -1, cont2: -1}

	var m1 = NewMove(SquareB1, SquareC3, Knight, Empty, Empty)
	var m2 = NewMove(SquareG1, SquareF3, Knight, Empty, Empty)

	hc.updateAll(m1, 4, nil, MoveEmpty, 3)
	hc.updateAll(m2, 4, nil, MoveEmpty, 3)

	if h.killers[3][0] != m2 || h.killers[3][1] != m1 {
		t.Error("killer slots should shift", h.killers[3])
	}

	// repeating the same killer must not duplicate it
	hc.updateAll(m2, 4, nil, MoveEmpty, 3)
	if h.killers[3][0] != m2 || h.killers[3][1] != m1 {
		t.Error("repeated killer should keep both slots", h.killers[3])
	}
}

func TestCounterAndButterfly(t *testing.T) {
	var h historyTable
	var hc = historyContext{history: &h, side: SideBlack, cont1: -1, cont2: -1}

	var prev = NewMove(SquareE1, SquareE2, King, Empty, Empty)
	var best = NewMove(SquareG8, SquareF6, Knight, Empty, Empty)
	var loser = NewMove(SquareB8, SquareC6, Knight, Empty, Empty)

	hc.updateAll(best, 6, []Move{loser}, prev, 5)

	if h.counters[fromToIndex(prev)] != best {
		t.Error("counter move not recorded")
	}
	if h.butterfly[SideBlack][fromToIndex(best)] <= 0 {
		t.Error("cutoff move should gain history")
	}
	if h.butterfly[SideBlack][fromToIndex(loser)] >= 0 {
		t.Error("searched quiet that failed should lose history")
	}
}

func TestCaptureCutoffKeepsQuietStats(t *testing.T) {
	var h historyTable
	var hc = historyContext{history: &h, side: SideWhite, cont1: -1, cont2: -1}

	var capture = NewMove(SquareE1, SquareE8, Rook, Queen, Empty)
	hc.updateAll(capture, 6, nil, MoveEmpty, 2)

	if h.killers[2][0] != MoveEmpty {
		t.Error("a capture cutoff must not become a killer")
	}
	if h.butterfly[SideWhite][fromToIndex(capture)] != 0 {
		t.Error("a capture cutoff must not touch butterfly history")
	}
}
