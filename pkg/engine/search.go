package engine

import (
	"math"
	"time"

	. "github.com/minnowengine/minnow/pkg/chess"
)

// reductions is the late-move reduction table, indexed by depth and by
// the number of moves already searched at the node.
var reductions [maxPly][MaxMoves]int

func init() {
	for depth := 1; depth < maxPly; depth++ {
		for moves := 1; moves < MaxMoves; moves++ {
			reductions[depth][moves] =
				1 + int(math.Log(float64(depth))*math.Log(float64(moves))/1.75)
		}
	}
}

var egPieceValues = [King + 1]int{
	Pawn:   100,
	Knight: 300,
	Bishop: 330,
	Rook:   530,
	Queen:  950,
}

func (w *worker) iterativeDeepening() {
	var e = w.engine
	w.evaluator.Init(&w.stack[0].position)

	var result = -valueInfinity
	var bestmove = MoveEmpty
	var bestmoveChanges = 0
	var evalAverage = 0

	var depthLimit = maxPly - 1
	if e.limits.Depth > 0 && e.limits.Depth < depthLimit {
		depthLimit = e.limits.Depth
	}

	for depth := 1; depth <= depthLimit; depth++ {
		w.seldepth = 0
		var previous = result
		result = w.aspirationSearch(depth, result)
		evalAverage += result

		if e.stop.Load() || w.limitReached() {
			break
		}
		if w.id != 0 {
			continue
		}

		if bestmove != w.pvTable[0][0] {
			bestmoveChanges++
		}
		bestmove = w.pvTable[0][0]

		e.onIterationComplete(w, depth, result)

		if e.budget.optimum != 0 {
			var elapsed = time.Since(e.start)

			// node-effort time management: commit early when one root
			// move soaked up most of the work
			var effort = 0
			if w.nodes > 0 {
				effort = int(w.nodeEffort[fromToIndex(bestmove)] * 100 / w.nodes)
			}
			if depth > 10 && e.budget.optimum*time.Duration(110-Min(effort, 90))/100 < elapsed {
				break
			}

			// spend more time when the score is sagging below its
			// average or dropped sharply from the last iteration
			if result+30 < evalAverage/depth {
				e.budget.optimum = e.budget.optimum * 110 / 100
			}
			if result > -200 && result-previous < -20 {
				e.budget.optimum = e.budget.optimum * 110 / 100
			}
			if bestmoveChanges > 4 {
				e.budget.optimum = e.budget.maximum * 3 / 4
			}

			if depth > 10 && elapsed*10 > e.budget.maximum*6 {
				break
			}
		}
	}

	if e.limits.Infinite {
		for !e.stop.Load() {
			time.Sleep(time.Millisecond)
		}
	}

	w.sharedNodes.Store(w.nodes)
	if w.id == 0 {
		e.stop.Store(true)
	}
}

func (w *worker) aspirationSearch(depth, prev int) int {
	var e = w.engine
	var alpha = -valueInfinity
	var beta = valueInfinity
	var delta = 30

	if depth >= 9 {
		alpha = prev - delta
		beta = prev + delta
	}

	for {
		if alpha < -3500 {
			alpha = -valueInfinity
		}
		if beta > 3500 {
			beta = valueInfinity
		}

		var result = w.alphaBeta(alpha, beta, depth, 0, MoveEmpty)

		if e.stop.Load() {
			return 0
		}
		if w.id == 0 && e.limits.Nodes != 0 && w.nodes >= e.limits.Nodes {
			return 0
		}

		if result <= alpha {
			beta = (alpha + beta) / 2
			alpha = Max(alpha-delta, -valueInfinity)
			delta += delta / 2
		} else if result >= beta {
			beta = Min(beta+delta, valueInfinity)
			delta += delta / 2
		} else {
			return result
		}
	}
}

func (w *worker) alphaBeta(alpha, beta, depth, height int, skipMove Move) int {
	if w.limitReached() {
		return 0
	}

	var e = w.engine
	var rootNode = height == 0
	var pvNode = beta != alpha+1
	var pos = &w.stack[height].position
	var inCheck = pos.IsCheck()

	if height >= maxPly {
		if inCheck {
			return 0
		}
		return w.evaluator.EvaluateQuick(pos)
	}

	w.pvLength[height] = height

	if !rootNode {
		if w.isRepetition(height, 1+b2i(pvNode)) {
			return -1 + int(w.nodes&2)
		}
		if isDraw(pos) {
			return valueDraw
		}

		// mate distance pruning
		alpha = Max(alpha, matedIn(height))
		beta = Min(beta, mateIn(height+1))
		if alpha >= beta {
			return alpha
		}
	}

	// check extension
	if inCheck {
		depth++
	}

	if depth <= 0 {
		return w.quiescence(alpha, beta, height)
	}

	if pvNode && height > w.seldepth {
		w.seldepth = height
	}

	var (
		ttDepth, ttScore, ttBound int
		ttMove                    Move
		ttHit                     bool
	)
	if skipMove == MoveEmpty {
		ttDepth, ttScore, ttBound, ttMove, ttHit = e.transTable.Read(pos.Key)
	}
	if ttHit {
		ttScore = valueFromTT(ttScore, height)
	}

	if !rootNode && !pvNode && ttHit && ttDepth >= depth && pos.LastMove != MoveEmpty {
		if ttBound == boundExact {
			return ttScore
		} else if ttBound == boundLower {
			alpha = Max(alpha, ttScore)
		} else if ttBound == boundUpper {
			beta = Min(beta, ttScore)
		}
		if alpha >= beta {
			return ttScore
		}
	}

	var best = -valueInfinity
	var maxValue = valueInfinity

	if !rootNode && e.prober != nil {
		if wdl, ok := e.prober.ProbeWDL(pos); ok {
			w.tbhits.Add(1)
			var tbScore, flag int
			switch wdl {
			case WDLWin:
				tbScore = valueMateInMaxPly - height - 1
				flag = boundLower
			case WDLLoss:
				tbScore = -valueMateInMaxPly + height + 1
				flag = boundUpper
			default:
				tbScore = valueDraw
				flag = boundExact
			}

			if flag == boundExact ||
				(flag == boundLower && tbScore >= beta) ||
				(flag == boundUpper && tbScore <= alpha) {
				e.transTable.Update(pos.Key, depth+6, valueToTT(tbScore, height), flag, MoveEmpty)
				return tbScore
			}

			if pvNode {
				if flag == boundLower {
					best = tbScore
					alpha = Max(alpha, best)
				} else {
					maxValue = tbScore
				}
			}
		}
	}

	var staticEval = valueNone
	var improving = false

	if !inCheck {
		// the TT score is a better estimate of the position than the
		// static evaluation when we have one
		if ttHit {
			staticEval = ttScore
		} else {
			staticEval = w.evaluator.EvaluateQuick(pos)
		}
		w.stack[height].staticEval = staticEval
		improving = height >= 2 &&
			w.stack[height-2].staticEval != valueNone &&
			staticEval > w.stack[height-2].staticEval

		if !rootNode {
			// internal iterative reductions
			if depth >= 3 && !ttHit {
				depth--
			}
			if pvNode && !ttHit {
				depth--
			}
			if depth <= 0 {
				return w.quiescence(alpha, beta, height)
			}

			if !pvNode {
				// razoring
				if depth < 3 && staticEval+129 < alpha {
					return w.quiescence(alpha, beta, height)
				}

				// reverse futility pruning
				if abs(beta) < valueTBWinInMaxPly &&
					depth < 7 && staticEval-64*depth+71*b2i(improving) >= beta {
					return beta
				}

				// null move pruning
				if pos.NonPawnMaterial(pos.WhiteMove) &&
					skipMove == MoveEmpty &&
					pos.LastMove != MoveEmpty &&
					depth >= 3 && staticEval >= beta {
					var r = 5 + Min(4, depth/5) + Min(3, (staticEval-beta)/214)

					w.makeMove(MoveEmpty, height)
					var score = -w.alphaBeta(-beta, -beta+1, depth-r, height+1, MoveEmpty)
					w.unmakeMove()

					if score >= beta {
						// do not return unproven mates
						if score >= valueTBWinInMaxPly {
							score = beta
						}
						return score
					}
				}
			}
		}
	} else {
		w.stack[height].staticEval = valueNone
	}

	var rootOnly []Move
	if rootNode {
		rootOnly = w.rootMoves
	}
	var mp = w.newMovePicker(height, ttMove, rootOnly)

	var quietsBuffer [64]Move
	var quiets = quietsBuffer[:0]
	var madeMoves = 0
	var quietCount = 0
	var bestMove = MoveEmpty

	for {
		var move = mp.next()
		if move == MoveEmpty {
			break
		}
		if move == skipMove {
			continue
		}

		var capture = move.CapturedPiece() != Empty

		if !rootNode && best > -valueTBWinInMaxPly {
			if capture {
				// SEE pruning of losing captures at shallow depth
				if depth < 6 && !seeGE(pos, move, -92*depth) {
					continue
				}
			} else {
				// late move pruning
				if !inCheck && !pvNode && move.Promotion() == Empty &&
					depth <= 5 && quietCount > 4+depth*depth {
					continue
				}
				// SEE pruning of quiets losing material
				if depth < 7 && !seeGE(pos, move, -93*depth) {
					continue
				}
			}
		}

		var extension = 0

		// singular extension: verify the TT move is the only good one
		if !rootNode && depth >= 8 && ttHit && ttMove == move &&
			skipMove == MoveEmpty &&
			abs(ttScore) < 10000 &&
			ttBound&boundLower != 0 &&
			ttDepth >= depth-3 {
			var singularBeta = ttScore - 3*depth
			var singularDepth = (depth - 1) / 2

			var value = w.alphaBeta(singularBeta-1, singularBeta, singularDepth, height, move)

			if value < singularBeta {
				extension = 1
			} else if singularBeta >= beta {
				// multicut: two moves beat beta
				return singularBeta
			}
		}

		var newDepth = depth - 1 + extension

		if !w.makeMove(move, height) {
			continue
		}
		madeMoves++
		if !capture {
			quietCount++
		}

		var nodesBefore = w.nodes
		var score = 0
		var doFullSearch = false

		// late move reductions
		if depth >= 3 && !inCheck && madeMoves > 3+2*b2i(pvNode) {
			var r = reductions[Min(depth, maxPly-1)][Min(madeMoves, MaxMoves-1)]

			r -= w.id & 1
			r += b2i(improving)
			r -= b2i(pvNode)
			r -= b2i(capture)

			var rdepth = clamp(newDepth-r, 1, newDepth+1)

			score = -w.alphaBeta(-alpha-1, -alpha, rdepth, height+1, MoveEmpty)
			doFullSearch = score > alpha && rdepth < newDepth
		} else {
			doFullSearch = !pvNode || madeMoves > 1
		}

		if doFullSearch {
			score = -w.alphaBeta(-alpha-1, -alpha, newDepth, height+1, MoveEmpty)
		}

		// principal variation search
		if pvNode && (madeMoves == 1 || (score > alpha && score < beta)) {
			score = -w.alphaBeta(-beta, -alpha, newDepth, height+1, MoveEmpty)
		}

		w.unmakeMove()

		if w.id == 0 {
			w.nodeEffort[fromToIndex(move)] += w.nodes - nodesBefore
		}

		if score > best {
			best = score

			if score > alpha {
				alpha = score
				bestMove = move

				w.pvTable[height][height] = move
				for next := height + 1; next < w.pvLength[height+1]; next++ {
					w.pvTable[height][next] = w.pvTable[height+1][next]
				}
				w.pvLength[height] = w.pvLength[height+1]

				if score >= beta {
					var hc = w.historyContext(height)
					hc.updateAll(bestMove, depth, quiets, pos.LastMove, height)
					break
				}
			}
		}

		if !capture && len(quiets) < cap(quiets) {
			quiets = append(quiets, move)
		}
	}

	// checkmate or stalemate
	if madeMoves == 0 {
		if skipMove != MoveEmpty {
			best = alpha
		} else if inCheck {
			best = matedIn(height)
		} else {
			best = valueDraw
		}
	}

	if pvNode {
		best = Min(best, maxValue)
	}

	var bound = boundUpper
	if best >= beta {
		bound = boundLower
	} else if pvNode && bestMove != MoveEmpty {
		bound = boundExact
	}

	if skipMove == MoveEmpty && !e.stop.Load() {
		e.transTable.Update(pos.Key, depth, valueToTT(best, height), bound, bestMove)
	}

	return best
}

func (w *worker) quiescence(alpha, beta, height int) int {
	if w.limitReached() {
		return 0
	}

	var e = w.engine
	var pvNode = beta != alpha+1
	var pos = &w.stack[height].position
	var inCheck = pos.IsCheck()

	if height >= maxPly {
		if inCheck {
			return 0
		}
		return w.evaluator.EvaluateQuick(pos)
	}

	if w.isRepetition(height, 1+b2i(pvNode)) {
		return -1 + int(w.nodes&2)
	}
	if isDraw(pos) {
		return valueDraw
	}

	var _, ttScore, ttBound, ttMove, ttHit = e.transTable.Read(pos.Key)
	if ttHit {
		ttScore = valueFromTT(ttScore, height)
		if !pvNode {
			if ttBound == boundExact ||
				(ttBound == boundLower && ttScore >= beta) ||
				(ttBound == boundUpper && ttScore <= alpha) {
				return ttScore
			}
		}
	}

	var best = -valueInfinity
	if !inCheck {
		// stand pat
		best = w.evaluator.EvaluateQuick(pos)
		if best >= beta {
			return best
		}
		if best > alpha {
			alpha = best
		}
	}

	var mp = w.newQSMovePicker(height, ttMove)
	var bestMove = MoveEmpty
	var hasLegalMove = false

	for {
		var move = mp.next()
		if move == MoveEmpty {
			break
		}

		var captured = move.CapturedPiece()

		if best > -valueTBWinInMaxPly {
			// delta pruning: even the victim plus a wide margin cannot
			// lift this capture above alpha
			if captured != Empty && !inCheck &&
				move.Promotion() == Empty &&
				pos.NonPawnMaterial(pos.WhiteMove) &&
				best+400+egPieceValues[captured] < alpha {
				continue
			}

			if !inCheck && !seeGEZero(pos, move) {
				continue
			}
		}

		if !w.makeMove(move, height) {
			continue
		}
		hasLegalMove = true

		var score = -w.quiescence(-beta, -alpha, height+1)

		w.unmakeMove()

		if score > best {
			best = score
			if score > alpha {
				alpha = score
				bestMove = move
				if score >= beta {
					break
				}
			}
		}
	}

	if inCheck && !hasLegalMove {
		return matedIn(height)
	}

	var bound = boundUpper
	if best >= beta {
		bound = boundLower
	}

	if !e.stop.Load() {
		e.transTable.Update(pos.Key, 0, valueToTT(best, height), bound, bestMove)
	}

	return best
}

func (w *worker) makeMove(move Move, height int) bool {
	var pos = &w.stack[height].position
	var child = &w.stack[height+1].position
	if move == MoveEmpty {
		pos.MakeNullMove(child)
	} else if !pos.MakeMove(move, child) {
		return false
	}
	w.evaluator.MakeMove(pos, move)
	w.nodes++
	return true
}

func (w *worker) unmakeMove() {
	w.evaluator.UnmakeMove()
}

// isRepetition counts earlier occurrences of the current position in
// the search stack and, when no irreversible move or null move is in
// between, the game history before the root.
func (w *worker) isRepetition(height, threshold int) bool {
	var p = &w.stack[height].position
	if p.Rule50 == 0 || p.LastMove == MoveEmpty {
		return false
	}

	var repeats = 0
	for i := height - 1; i >= 0; i-- {
		var prev = &w.stack[i].position
		if prev.Key == p.Key {
			repeats++
			if repeats >= threshold {
				return true
			}
		}
		if i > 0 && (prev.Rule50 == 0 || prev.LastMove == MoveEmpty) {
			return false
		}
	}

	return repeats+w.engine.historyKeys[p.Key] >= threshold
}

// limitReached is the per-node poll: the stop flag for every worker,
// plus node and wall-clock limits on the main worker.
func (w *worker) limitReached() bool {
	var e = w.engine

	if e.stop.Load() {
		return true
	}

	if w.id != 0 {
		if w.nodes&1023 == 0 {
			w.sharedNodes.Store(w.nodes)
		}
		return false
	}

	if e.limits.Nodes != 0 && w.nodes >= e.limits.Nodes {
		e.stop.Store(true)
		return true
	}

	w.checkTime--
	if w.checkTime > 0 {
		return false
	}
	w.checkTime = 2047
	w.sharedNodes.Store(w.nodes)

	if e.budget.maximum != 0 && time.Since(e.start) >= e.budget.maximum {
		e.stop.Store(true)
		return true
	}
	return false
}
