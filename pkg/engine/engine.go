package engine

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	. "github.com/minnowengine/minnow/pkg/chess"
)

type Engine struct {
	Hash             int
	Threads          int
	ProgressMinNodes int64
	evalBuilder      func() interface{}
	transTable       *transTable
	prober           Prober
	historyKeys      map[uint64]int
	limits           LimitsType
	budget           timeBudget
	workers          []*worker
	stop             atomic.Bool
	progress         func(SearchInfo)
	start            time.Time
	mainLine         mainLine
	mu               sync.Mutex
}

type mainLine struct {
	moves    []Move
	score    int
	depth    int
	seldepth int
}

// worker owns one board line, one set of history tables and one
// evaluator. Workers share only the transposition table and the stop
// flag.
type worker struct {
	engine      *Engine
	id          int
	evaluator   UpdatableEvaluator
	history     historyTable
	nodes       int64
	sharedNodes atomic.Int64
	tbhits      atomic.Int64
	checkTime   int
	seldepth    int
	rootMoves   []Move
	nodeEffort  [64 * 64]int64
	pvTable     [maxPly][maxPly]Move
	pvLength    [maxPly]int
	stack       [stackSize]stackFrame
}

type stackFrame struct {
	position   Position
	staticEval int
}

type Evaluator interface {
	Evaluate(p *Position) int
}

// UpdatableEvaluator is the incremental flavor: the search notifies it
// of every make/unmake so accumulator state can track the board.
type UpdatableEvaluator interface {
	Init(p *Position)
	MakeMove(p *Position, m Move)
	UnmakeMove()
	EvaluateQuick(p *Position) int
}

// WDL is a tablebase probe outcome for the side to move.
type WDL int

const (
	WDLLoss WDL = -1
	WDLDraw WDL = 0
	WDLWin  WDL = 1
)

// Prober is the seam for endgame tablebases.
type Prober interface {
	ProbeWDL(p *Position) (WDL, bool)
}

func NewEngine(evalBuilder func() interface{}) *Engine {
	return &Engine{
		Hash:             16,
		Threads:          1,
		ProgressMinNodes: 0,
		evalBuilder:      evalBuilder,
	}
}

func (e *Engine) SetProber(prober Prober) {
	e.prober = prober
}

func (e *Engine) Prepare() {
	if e.transTable == nil || e.transTable.Size() != e.Hash {
		if e.transTable != nil {
			e.transTable = nil
			runtime.GC()
		}
		e.transTable = newTransTable(e.Hash)
	}
	if len(e.workers) != e.Threads {
		e.workers = make([]*worker, e.Threads)
		for i := range e.workers {
			e.workers[i] = &worker{
				engine:    e,
				id:        i,
				evaluator: e.buildEvaluator(),
			}
		}
	}
}

// Clear resets the transposition table and all history tables, as on
// ucinewgame. A plain new search keeps both.
func (e *Engine) Clear() {
	if e.transTable != nil {
		e.transTable.Clear()
	}
	for _, w := range e.workers {
		w.history.Clear()
	}
}

func (e *Engine) Search(ctx context.Context, params SearchParams) SearchInfo {
	e.start = time.Now()
	e.Prepare()

	var p = &params.Positions[len(params.Positions)-1]
	e.limits = params.Limits
	e.budget = computeTimeBudget(params.Limits, p.WhiteMove)
	e.historyKeys = getHistoryKeys(params.Positions)
	e.progress = params.Progress
	e.stop.Store(false)

	var rootMoves = filterRootMoves(p, params.Limits.SearchMoves)
	if len(rootMoves) == 0 {
		// checkmated or stalemated at the root
		var score = valueDraw
		if p.IsCheck() {
			score = matedIn(0)
		}
		return SearchInfo{Score: newUciScore(score), Duration: 0}
	}

	e.mainLine = mainLine{
		depth: 0,
		score: 0,
		moves: []Move{rootMoves[0]},
	}

	for i, w := range e.workers {
		w.nodes = 0
		w.sharedNodes.Store(0)
		w.tbhits.Store(0)
		w.checkTime = 0
		w.seldepth = 0
		w.stack[0].position = *p
		w.rootMoves = cloneMoves(rootMoves)
		if i == 0 {
			for sq := range w.nodeEffort {
				w.nodeEffort[sq] = 0
			}
		} else {
			// helpers start every search from clean statistics; the
			// main worker keeps its history between searches
			w.history.Clear()
		}
		for h := range w.stack {
			w.stack[h].staticEval = valueNone
		}
	}

	var done = make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			e.stop.Store(true)
		case <-done:
		}
	}()

	var wg sync.WaitGroup
	for _, w := range e.workers {
		wg.Add(1)
		go func(w *worker) {
			defer wg.Done()
			w.iterativeDeepening()
		}(w)
	}
	wg.Wait()
	close(done)

	return e.currentSearchResult()
}

// getHistoryKeys counts the positions of the game before the root that
// are still reachable under the fifty-move counter.
func getHistoryKeys(positions []Position) map[uint64]int {
	var result = make(map[uint64]int)
	for i := len(positions) - 2; i >= 0; i-- {
		var p = &positions[i]
		result[p.Key]++
		if p.Rule50 == 0 {
			break
		}
	}
	return result
}

func filterRootMoves(p *Position, searchMoves []Move) []Move {
	var legal = p.GenerateLegalMoves()
	if len(searchMoves) == 0 {
		return legal
	}
	var result []Move
	for _, m := range legal {
		for _, sm := range searchMoves {
			if m == sm {
				result = append(result, m)
				break
			}
		}
	}
	return result
}

func cloneMoves(ml []Move) []Move {
	var result = make([]Move, len(ml))
	copy(result, ml)
	return result
}

func (e *Engine) onIterationComplete(w *worker, depth, score int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.mainLine = mainLine{
		depth:    depth,
		score:    score,
		seldepth: w.seldepth,
		moves:    cloneMoves(w.pvTable[0][:w.pvLength[0]]),
	}
	if e.progress != nil && e.totalNodes() >= e.ProgressMinNodes {
		e.progress(e.currentSearchResult())
	}
}

func (e *Engine) totalNodes() int64 {
	var total int64
	for _, w := range e.workers {
		total += w.sharedNodes.Load()
	}
	return total
}

func (e *Engine) totalTbHits() int64 {
	var total int64
	for _, w := range e.workers {
		total += w.tbhits.Load()
	}
	return total
}

func (e *Engine) currentSearchResult() SearchInfo {
	var hashfull = 0
	if e.transTable != nil {
		hashfull = e.transTable.HashFull()
	}
	return SearchInfo{
		Depth:    e.mainLine.depth,
		SelDepth: e.mainLine.seldepth,
		Score:    newUciScore(e.mainLine.score),
		Nodes:    e.totalNodes(),
		TbHits:   e.totalTbHits(),
		HashFull: hashfull,
		Duration: time.Since(e.start).Milliseconds(),
		MainLine: e.mainLine.moves,
	}
}

type evaluatorAdapter struct {
	evaluator Evaluator
}

func (e *evaluatorAdapter) Init(p *Position)           {}
func (e *evaluatorAdapter) MakeMove(p *Position, m Move) {}
func (e *evaluatorAdapter) UnmakeMove()                {}
func (e *evaluatorAdapter) EvaluateQuick(p *Position) int {
	return e.evaluator.Evaluate(p)
}

func (e *Engine) buildEvaluator() UpdatableEvaluator {
	var service = e.evalBuilder()
	if ue, ok := service.(UpdatableEvaluator); ok {
		return ue
	}
	if ev, ok := service.(Evaluator); ok {
		return &evaluatorAdapter{evaluator: ev}
	}
	panic(errors.New("bad eval builder"))
}
