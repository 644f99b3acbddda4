package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/minnowengine/minnow/pkg/chess"
	"github.com/minnowengine/minnow/pkg/engine"
	eval "github.com/minnowengine/minnow/pkg/eval/pesto"
)

// epdbench runs an EPD test suite (bm/am records) through the engine
// and reports how many positions it solves within the move time.

type epdItem struct {
	position  chess.Position
	bestMoves []chess.Move
	id        string
}

func main() {
	var filePath = flag.String("file", "", "EPD file with bm records")
	var moveTime = flag.Int("movetime", 3000, "time per position, ms")
	var concurrency = flag.Int("concurrency", runtime.NumCPU(), "positions solved in parallel")
	flag.Parse()

	if *filePath == "" {
		log.Fatal("-file is required")
	}

	var items, err = loadEPD(*filePath)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("loaded %v positions from %v", len(items), *filePath)

	var g, ctx = errgroup.WithContext(context.Background())
	var tasks = make(chan epdItem)

	g.Go(func() error {
		defer close(tasks)
		for _, item := range items {
			select {
			case tasks <- item:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	var solved atomic.Int64
	var start = time.Now()

	for i := 0; i < *concurrency; i++ {
		g.Go(func() error {
			var eng = engine.NewEngine(func() interface{} {
				return eval.NewEvaluationService()
			})
			eng.Hash = 64
			for item := range tasks {
				var si = eng.Search(ctx, chess.SearchParams{
					Positions: []chess.Position{item.position},
					Limits:    chess.LimitsType{MoveTime: *moveTime},
				})
				if len(si.MainLine) != 0 && containsMove(item.bestMoves, si.MainLine[0]) {
					solved.Add(1)
				} else {
					log.Printf("failed %v", item.id)
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("solved %v/%v in %v\n",
		solved.Load(), len(items), time.Since(start).Round(time.Millisecond))
}

func loadEPD(filePath string) ([]epdItem, error) {
	var file, err = os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var result []epdItem
	var scanner = bufio.NewScanner(file)
	for scanner.Scan() {
		var line = strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		var item, ok = parseEPDLine(line)
		if ok {
			result = append(result, item)
		}
	}
	return result, scanner.Err()
}

func parseEPDLine(line string) (epdItem, bool) {
	var fields = strings.Fields(line)
	if len(fields) < 4 {
		return epdItem{}, false
	}
	var fen = strings.Join(fields[:4], " ") + " 0 1"
	var p, err = chess.NewPositionFromFEN(fen)
	if err != nil {
		return epdItem{}, false
	}

	var item = epdItem{position: p, id: fen}
	for _, op := range strings.Split(strings.Join(fields[4:], " "), ";") {
		op = strings.TrimSpace(op)
		if strings.HasPrefix(op, "bm ") {
			for _, san := range strings.Fields(op[3:]) {
				var move = parseSANLike(&p, san)
				if move != chess.MoveEmpty {
					item.bestMoves = append(item.bestMoves, move)
				}
			}
		} else if strings.HasPrefix(op, "id ") {
			item.id = strings.Trim(op[3:], "\"")
		}
	}
	if len(item.bestMoves) == 0 {
		return epdItem{}, false
	}
	return item, true
}

// parseSANLike accepts both coordinate notation and a light form of
// SAN (piece letter + destination, with x/+/# markers stripped).
func parseSANLike(p *chess.Position, san string) chess.Move {
	san = strings.TrimRight(san, "+#!?")
	if move := p.ParseMoveLAN(san); move != chess.MoveEmpty {
		return move
	}
	var stripped = strings.Map(func(r rune) rune {
		if r == 'x' || r == '=' {
			return -1
		}
		return r
	}, san)

	for _, move := range p.GenerateLegalMoves() {
		if sanMatches(p, move, stripped) {
			return move
		}
	}
	return chess.MoveEmpty
}

func sanMatches(p *chess.Position, move chess.Move, san string) bool {
	if san == "O-O" {
		return move.MovingPiece() == chess.King && move.To()-move.From() == 2
	}
	if san == "O-O-O" {
		return move.MovingPiece() == chess.King && move.From()-move.To() == 2
	}
	if len(san) < 2 {
		return false
	}

	var pieceNames = " PNBRQK"
	var piece = chess.Pawn
	var rest = san
	if idx := strings.IndexByte(pieceNames[2:], san[0]); idx >= 0 {
		piece = chess.Knight + idx
		rest = san[1:]
	}
	if move.MovingPiece() != piece {
		return false
	}

	if move.Promotion() != chess.Empty {
		if len(rest) == 0 || rest[len(rest)-1] != pieceNames[move.Promotion()] {
			return false
		}
		rest = rest[:len(rest)-1]
	}

	if len(rest) < 2 {
		return false
	}
	var to = chess.ParseSquare(rest[len(rest)-2:])
	if to != move.To() {
		return false
	}

	// leading disambiguation: file, rank or both
	var dis = rest[:len(rest)-2]
	for _, ch := range dis {
		if ch >= 'a' && ch <= 'h' && chess.File(move.From()) != int(ch-'a') {
			return false
		}
		if ch >= '1' && ch <= '8' && chess.Rank(move.From()) != int(ch-'1') {
			return false
		}
	}
	return true
}

func containsMove(ml []chess.Move, m chess.Move) bool {
	for _, x := range ml {
		if x == m {
			return true
		}
	}
	return false
}
