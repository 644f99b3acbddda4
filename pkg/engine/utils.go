package engine

import (
	. "github.com/minnowengine/minnow/pkg/chess"
)

const (
	maxPly    = 128
	stackSize = maxPly + 4

	valueDraw     = 0
	valueMate     = 32000
	valueInfinity = 32001
	valueNone     = 32002

	// mate band and tablebase band thresholds
	valueMateInMaxPly  = valueMate - maxPly
	valueTBWin         = valueMateInMaxPly
	valueTBWinInMaxPly = valueTBWin - maxPly
	valueTBLoss        = -valueTBWin
)

func mateIn(height int) int {
	return valueMate - height
}

func matedIn(height int) int {
	return -valueMate + height
}

// valueToTT normalizes mate and tablebase scores to plies from the
// stored node.
func valueToTT(v, height int) int {
	if v >= valueTBWinInMaxPly {
		return v + height
	}
	if v <= -valueTBWinInMaxPly {
		return v - height
	}
	return v
}

func valueFromTT(v, height int) int {
	if v >= valueTBWinInMaxPly {
		return v - height
	}
	if v <= -valueTBWinInMaxPly {
		return v + height
	}
	return v
}

func newUciScore(v int) UciScore {
	if v >= valueMateInMaxPly {
		return UciScore{Mate: (valueMate - v + 1) / 2}
	} else if v <= -valueMateInMaxPly {
		return UciScore{Mate: (-valueMate - v) / 2}
	}
	return UciScore{Centipawns: v}
}

func Min(l, r int) int {
	if l < r {
		return l
	}
	return r
}

func Max(l, r int) int {
	if l > r {
		return l
	}
	return r
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

func fromToIndex(m Move) int {
	return m.From()<<6 | m.To()
}

func isDraw(p *Position) bool {
	if p.Rule50 >= 100 {
		return true
	}
	// bare kings or a lone minor
	if p.Pawns|p.Rooks|p.Queens == 0 && !MoreThanOne(p.Knights|p.Bishops) {
		return true
	}
	return false
}
