package engine

import (
	. "github.com/minnowengine/minnow/pkg/chess"
)

const historyMax = 16384

const pieceToSize = (King + 1) * 2 * 64

// historyTable holds the per-worker move ordering statistics: butterfly
// history, continuation history keyed on the previous plies' piece-to
// pairs, killer slots per ply and counter-moves keyed on the previous
// from-to pair.
type historyTable struct {
	butterfly    [2][64 * 64]int16
	continuation [pieceToSize][pieceToSize]int16
	counters     [64 * 64]Move
	killers      [stackSize][2]Move
}

func (h *historyTable) Clear() {
	for side := range h.butterfly {
		for i := range h.butterfly[side] {
			h.butterfly[side][i] = 0
		}
	}
	for i := range h.continuation {
		for j := range h.continuation[i] {
			h.continuation[i][j] = 0
		}
	}
	for i := range h.counters {
		h.counters[i] = MoveEmpty
	}
	h.ClearKillers()
}

func (h *historyTable) ClearKillers() {
	for i := range h.killers {
		h.killers[i][0] = MoveEmpty
		h.killers[i][1] = MoveEmpty
	}
}

func sideIndex(white bool) int {
	if white {
		return SideWhite
	}
	return SideBlack
}

func pieceToIndex(piece int, white bool, to int) int {
	return MakePiece(piece, white)*64 + to
}

// historyContext captures the previous-ply conditioning for one node.
type historyContext struct {
	history    *historyTable
	side       int
	cont1      int // piece-to of the move one ply back, -1 if none
	cont2      int // piece-to of the move two plies back, -1 if none
}

func (hc *historyContext) ReadTotal(m Move) int {
	var score = int(hc.history.butterfly[hc.side][fromToIndex(m)])
	var pt = pieceToIndex(m.MovingPiece(), hc.side == SideWhite, m.To())
	if hc.cont1 >= 0 {
		score += int(hc.history.continuation[hc.cont1][pt])
	}
	if hc.cont2 >= 0 {
		score += int(hc.history.continuation[hc.cont2][pt])
	}
	return score
}

// updateGravity applies the self-clamping history update, keeping the
// value within ±historyMax.
func updateGravity(v *int16, bonus int) {
	*v += int16(bonus - int(*v)*abs(bonus)/historyMax)
}

func (hc *historyContext) updateButterfly(m Move, bonus int) {
	updateGravity(&hc.history.butterfly[hc.side][fromToIndex(m)], bonus)
}

func (hc *historyContext) updateContinuation(m Move, bonus int) {
	var pt = pieceToIndex(m.MovingPiece(), hc.side == SideWhite, m.To())
	if hc.cont1 >= 0 {
		updateGravity(&hc.history.continuation[hc.cont1][pt], bonus)
	}
	if hc.cont2 >= 0 {
		updateGravity(&hc.history.continuation[hc.cont2][pt], bonus)
	}
}

// updateAll records a beta cutoff: counter-move always, and for a quiet
// best move the killers plus positive history for the cutoff move and
// negative history for the quiets searched before it.
func (hc *historyContext) updateAll(bestMove Move, depth int, quiets []Move,
	prevMove Move, height int) {

	if prevMove != MoveEmpty {
		hc.history.counters[fromToIndex(prevMove)] = bestMove
	}

	if bestMove.IsCaptureOrPromotion() {
		return
	}

	var killers = &hc.history.killers[height]
	if killers[0] != bestMove {
		killers[1] = killers[0]
		killers[0] = bestMove
	}

	var bonus = Min(2000, 155*depth)
	var contBonus = Min(4*depth*depth*depth, 1500)

	if depth > 1 {
		hc.updateButterfly(bestMove, bonus)
	}
	hc.updateContinuation(bestMove, contBonus)
	for _, m := range quiets {
		if m == bestMove {
			continue
		}
		hc.updateButterfly(m, -bonus)
		hc.updateContinuation(m, -contBonus)
	}
}

func (w *worker) historyContext(height int) historyContext {
	var pos = &w.stack[height].position
	var hc = historyContext{
		history: &w.history,
		side:    sideIndex(pos.WhiteMove),
		cont1:   -1,
		cont2:   -1,
	}
	var prev1 = pos.LastMove
	if prev1 != MoveEmpty {
		hc.cont1 = pieceToIndex(prev1.MovingPiece(), !pos.WhiteMove, prev1.To())
	}
	if height > 0 {
		var prev2 = w.stack[height-1].position.LastMove
		if prev2 != MoveEmpty {
			hc.cont2 = pieceToIndex(prev2.MovingPiece(), pos.WhiteMove, prev2.To())
		}
	}
	return hc
}
