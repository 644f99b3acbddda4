package eval

import (
	"testing"

	. "github.com/minnowengine/minnow/pkg/chess"
)

var testFENs = []string{
	InitialPositionFen,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"2rqkb1r/p1pnpppp/3p3n/3B4/2BPP3/1QP5/PP3PPP/RN2K1NR w KQk - 0 1",
	"r2qk2r/pppb1ppp/2np4/1Bb5/4n3/5N2/PPP2PPP/RNBQR1K1 b kq - 1 1",
	"6k1/Qp1r1pp1/p1rP3p/P3q3/2Bnb1P1/1P3PNP/4p1K1/R1R5 b - - 0 1",
}

// Mirroring the board and flipping the side to move must not change
// the evaluation.
func TestEvalSymmetry(t *testing.T) {
	var e = NewEvaluationService()
	for _, fen := range testFENs {
		var p, err = NewPositionFromFEN(fen)
		if err != nil {
			t.Fatal(fen, err)
		}
		var m = MirrorPosition(&p)
		if s1, s2 := e.Evaluate(&p), e.Evaluate(&m); s1 != s2 {
			t.Error(fen, "asymmetric evaluation:", s1, s2)
		}
	}
}

func TestEvalStartposBalanced(t *testing.T) {
	var e = NewEvaluationService()
	var p, _ = NewPositionFromFEN(InitialPositionFen)
	if got := e.Evaluate(&p); got != tempo {
		t.Error("the initial position should only carry the tempo bonus, got", got)
	}
}

func TestEvalMaterialSign(t *testing.T) {
	var e = NewEvaluationService()
	// white is a queen up
	var p, _ = NewPositionFromFEN("4k3/8/8/8/8/8/8/Q3K3 w - - 0 1")
	if e.Evaluate(&p) <= 0 {
		t.Error("queen-up side to move must be winning")
	}
	var b = MirrorPosition(&p)
	if e.Evaluate(&b) <= 0 {
		t.Error("evaluation must be side-to-move relative")
	}
}

func TestEvalWithinBounds(t *testing.T) {
	var e = NewEvaluationService()
	for _, fen := range testFENs {
		var p, _ = NewPositionFromFEN(fen)
		var v = e.Evaluate(&p)
		if v < -20000 || v > 20000 {
			t.Error(fen, "evaluation out of sane bounds:", v)
		}
	}
}
