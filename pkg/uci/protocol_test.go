package uci

import (
	"strings"
	"testing"

	"github.com/minnowengine/minnow/pkg/chess"
)

func TestParseLimits(t *testing.T) {
	var p, _ = chess.NewPositionFromFEN(chess.InitialPositionFen)

	var limits = parseLimits(strings.Fields(
		"wtime 300000 btime 300000 winc 2000 binc 2000 movestogo 40"), &p)
	if limits.WhiteTime != 300000 || limits.BlackTime != 300000 ||
		limits.WhiteIncrement != 2000 || limits.BlackIncrement != 2000 ||
		limits.MovesToGo != 40 {
		t.Error("clock fields parsed wrong:", limits)
	}

	limits = parseLimits(strings.Fields("depth 12 nodes 100000"), &p)
	if limits.Depth != 12 || limits.Nodes != 100000 {
		t.Error("depth/nodes parsed wrong:", limits)
	}

	limits = parseLimits(strings.Fields("movetime 1500"), &p)
	if limits.MoveTime != 1500 {
		t.Error("movetime parsed wrong:", limits)
	}

	limits = parseLimits(strings.Fields("infinite"), &p)
	if !limits.Infinite {
		t.Error("infinite flag lost")
	}

	limits = parseLimits(strings.Fields("searchmoves e2e4 d2d4 depth 3"), &p)
	if len(limits.SearchMoves) != 2 || limits.Depth != 3 {
		t.Error("searchmoves parsed wrong:", limits)
	}
}

func TestSearchInfoToUci(t *testing.T) {
	var p, _ = chess.NewPositionFromFEN(chess.InitialPositionFen)
	var move = p.ParseMoveLAN("e2e4")

	var line = searchInfoToUci(chess.SearchInfo{
		Depth:    10,
		SelDepth: 14,
		Score:    chess.UciScore{Centipawns: 23},
		Nodes:    12345,
		Duration: 100,
		HashFull: 42,
		MainLine: []chess.Move{move},
	})

	for _, want := range []string{
		"info depth 10", "seldepth 14", "score cp 23",
		"nodes 12345", "hashfull 42", "pv e2e4",
	} {
		if !strings.Contains(line, want) {
			t.Errorf("info line %q misses %q", line, want)
		}
	}

	line = searchInfoToUci(chess.SearchInfo{
		Score: chess.UciScore{Mate: 3},
	})
	if !strings.Contains(line, "score mate 3") {
		t.Error("mate score missing from", line)
	}
}

func TestSetOptionCommand(t *testing.T) {
	var hash = 16
	var ponder = false
	var cleared = false
	var protocol = New("test", "tester", "dev", nil, []Option{
		SpinOption("Hash", &hash, 4, 1024),
		CheckOption("Ponder", &ponder),
		ButtonOption("Clear Hash", func() { cleared = true }),
	})

	if err := protocol.setOptionCommand(strings.Fields("name Hash value 64")); err != nil {
		t.Fatal(err)
	}
	if hash != 64 {
		t.Error("spin option not applied:", hash)
	}

	if err := protocol.setOptionCommand(strings.Fields("name Ponder value true")); err != nil {
		t.Fatal(err)
	}
	if !ponder {
		t.Error("check option not applied")
	}

	// button options have a multi-word name and no value
	if err := protocol.setOptionCommand(strings.Fields("name Clear Hash")); err != nil {
		t.Fatal(err)
	}
	if !cleared {
		t.Error("button option did not run its action")
	}

	if protocol.setOptionCommand(strings.Fields("name Hash value 999999")) == nil {
		t.Error("out-of-range spin value must be rejected")
	}
	if protocol.setOptionCommand(strings.Fields("name Nonsense value 1")) == nil {
		t.Error("unknown option must be rejected")
	}
}

func TestPositionCommand(t *testing.T) {
	var protocol = New("test", "tester", "dev", nil, nil)

	if err := protocol.positionCommand(strings.Fields(
		"startpos moves e2e4 e7e5 g1f3")); err != nil {
		t.Fatal(err)
	}
	if len(protocol.positions) != 4 {
		t.Error("expected 4 positions, got", len(protocol.positions))
	}

	if err := protocol.positionCommand(strings.Fields(
		"fen r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")); err != nil {
		t.Fatal(err)
	}

	if err := protocol.positionCommand(strings.Fields(
		"startpos moves e2e5")); err == nil {
		t.Error("an illegal game move must be rejected")
	}
}
