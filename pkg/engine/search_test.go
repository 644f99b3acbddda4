package engine

import (
	"context"
	"testing"
	"time"

	. "github.com/minnowengine/minnow/pkg/chess"
	eval "github.com/minnowengine/minnow/pkg/eval/pesto"
)

func newTestEngine() *Engine {
	var e = NewEngine(func() interface{} {
		return eval.NewEvaluationService()
	})
	e.Hash = 8
	e.Threads = 1
	return e
}

func searchFEN(t *testing.T, e *Engine, fen string, limits LimitsType) SearchInfo {
	t.Helper()
	var p, err = NewPositionFromFEN(fen)
	if err != nil {
		t.Fatal(fen, err)
	}
	return e.Search(context.Background(), SearchParams{
		Positions: []Position{p},
		Limits:    limits,
	})
}

func TestMateInOne(t *testing.T) {
	var e = newTestEngine()
	var si = searchFEN(t, e, "5k2/8/5K2/8/8/8/8/7R w - - 0 1",
		LimitsType{Depth: 4})

	if len(si.MainLine) == 0 || si.MainLine[0].String() != "h1h8" {
		t.Fatal("expected h1h8, got", si.MainLine)
	}
	if si.Score.Mate != 1 {
		t.Error("expected mate in 1, got", si.Score)
	}
}

func TestStalemate(t *testing.T) {
	var e = newTestEngine()
	var si = searchFEN(t, e, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1",
		LimitsType{Depth: 4})

	if len(si.MainLine) != 0 {
		t.Error("stalemated side has no moves, got", si.MainLine)
	}
	if si.Score.Mate != 0 || si.Score.Centipawns != 0 {
		t.Error("stalemate must score zero, got", si.Score)
	}
}

func TestCheckmateAtRoot(t *testing.T) {
	var e = newTestEngine()
	var si = searchFEN(t, e, "6kR/6P1/6K1/8/8/8/8/8 b - - 0 1",
		LimitsType{Depth: 4})

	if len(si.MainLine) != 0 {
		t.Error("checkmated side has no moves, got", si.MainLine)
	}
	// mated on the spot reads as mate 0
	if si.Score.Mate > 0 || si.Score.Centipawns != 0 {
		t.Error("expected a mated score, got", si.Score)
	}
}

func TestRepetitionDraw(t *testing.T) {
	var e = newTestEngine()
	var p, err = NewPositionFromFEN(InitialPositionFen)
	if err != nil {
		t.Fatal(err)
	}
	var positions = []Position{p}
	for _, lan := range []string{"g1f3", "g8f6", "f3g1", "f6g8",
		"g1f3", "g8f6", "f3g1", "f6g8"} {
		var last = positions[len(positions)-1]
		var move = last.ParseMoveLAN(lan)
		var next Position
		if move == MoveEmpty || !last.MakeMove(move, &next) {
			t.Fatal("bad move", lan)
		}
		positions = append(positions, next)
	}

	// the root position occurred three times; shuffling once more must
	// read as a repetition, so the search score stays at the draw value
	var si = e.Search(context.Background(), SearchParams{
		Positions: positions,
		Limits:    LimitsType{Depth: 6},
	})
	if si.Score.Mate != 0 || abs(si.Score.Centipawns) > 100 {
		t.Error("expected a near-draw score in the repetition net, got", si.Score)
	}
}

func TestStartposOpening(t *testing.T) {
	var e = newTestEngine()
	var si = searchFEN(t, e, InitialPositionFen, LimitsType{Depth: 8})

	if len(si.MainLine) == 0 {
		t.Fatal("no best move from the initial position")
	}
	var bm = si.MainLine[0].String()
	var mainstream = map[string]bool{
		"e2e4": true, "d2d4": true, "g1f3": true, "c2c4": true,
		"e2e3": true, "d2d3": true, "b1c3": true,
	}
	if !mainstream[bm] {
		t.Error("surprising opening move", bm)
	}
	if si.Score.Mate != 0 || abs(si.Score.Centipawns) > 120 {
		t.Error("startpos score out of band:", si.Score)
	}
}

func TestMoveTimeStops(t *testing.T) {
	var e = newTestEngine()
	var start = time.Now()
	var si = searchFEN(t, e, InitialPositionFen, LimitsType{MoveTime: 100})
	var elapsed = time.Since(start)

	if elapsed > 500*time.Millisecond {
		t.Error("movetime 100 took", elapsed)
	}
	if len(si.MainLine) == 0 {
		t.Error("expected a best move")
	}
}

func TestNodeLimit(t *testing.T) {
	var e = newTestEngine()
	var si = searchFEN(t, e, InitialPositionFen, LimitsType{Nodes: 20000})

	if si.Nodes > 200000 {
		t.Error("node limit ignored:", si.Nodes)
	}
	if len(si.MainLine) == 0 {
		t.Error("expected a best move")
	}
}

func TestStopCancelsInfinite(t *testing.T) {
	var e = newTestEngine()
	var p, _ = NewPositionFromFEN(InitialPositionFen)
	var ctx, cancel = context.WithCancel(context.Background())

	var done = make(chan SearchInfo, 1)
	go func() {
		done <- e.Search(ctx, SearchParams{
			Positions: []Position{p},
			Limits:    LimitsType{Infinite: true},
		})
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case si := <-done:
		if len(si.MainLine) == 0 {
			t.Error("expected a best move from the interrupted search")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("infinite search did not stop")
	}
}

func TestSearchMovesWhitelist(t *testing.T) {
	var e = newTestEngine()
	var p, _ = NewPositionFromFEN(InitialPositionFen)
	var only = p.ParseMoveLAN("a2a3")

	var si = e.Search(context.Background(), SearchParams{
		Positions: []Position{p},
		Limits:    LimitsType{Depth: 6, SearchMoves: []Move{only}},
	})
	if len(si.MainLine) == 0 || si.MainLine[0] != only {
		t.Error("searchmoves restriction ignored, got", si.MainLine)
	}
}

func TestMultiThreadedSearch(t *testing.T) {
	var e = newTestEngine()
	e.Threads = 4
	var si = searchFEN(t, e, "5k2/8/5K2/8/8/8/8/7R w - - 0 1",
		LimitsType{Depth: 6})

	if len(si.MainLine) == 0 || si.MainLine[0].String() != "h1h8" {
		t.Error("expected h1h8 with four workers, got", si.MainLine)
	}
	if si.Score.Mate != 1 {
		t.Error("expected mate in 1, got", si.Score)
	}
}

func TestScoreWithinBand(t *testing.T) {
	var e = newTestEngine()
	var fens = []string{
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"2rqkb1r/p1pnpppp/3p3n/3B4/2BPP3/1QP5/PP3PPP/RN2K1NR w KQk - 0 1",
	}
	for _, fen := range fens {
		var si = searchFEN(t, e, fen, LimitsType{Depth: 6})
		var v = si.Score.Centipawns
		if si.Score.Mate == 0 && (v <= -valueInfinity || v >= valueInfinity) {
			t.Error(fen, "score out of band", si.Score)
		}
	}
}

// The principal variation must replay as a legal move sequence.
func TestPVIsPlayable(t *testing.T) {
	var e = newTestEngine()
	var p, _ = NewPositionFromFEN(
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	var si = e.Search(context.Background(), SearchParams{
		Positions: []Position{p},
		Limits:    LimitsType{Depth: 7},
	})

	var pos = p
	for _, move := range si.MainLine {
		var next Position
		if !pos.IsPseudoLegal(move) || !pos.MakeMove(move, &next) {
			t.Fatal("PV contains an illegal move:", move, "in", pos.String())
		}
		pos = next
	}
}
