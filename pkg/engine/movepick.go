package engine

import (
	. "github.com/minnowengine/minnow/pkg/chess"
)

// Move picker stages. Each call to next returns the following move of
// the node's lazy ordering until MoveEmpty.
const (
	stageTTMove = iota
	stageGenCaptures
	stageGoodCaptures
	stageKiller1
	stageKiller2
	stageCounter
	stageGenQuiets
	stageQuiets
	stageBadCaptures
	stageDone
)

const (
	stageQSTTMove = iota + 100
	stageQSGenCaptures
	stageQSCaptures
	stageQSDone
)

// movePicker owns its move storage so that a re-entrant search of the
// same node (singular verification) cannot clobber the list being
// iterated.
type movePicker struct {
	worker   *worker
	height   int
	stage    int
	ttMove   Move
	killer1  Move
	killer2  Move
	counter  Move
	index    int
	moves    []OrderedMove
	bad      []OrderedMove
	badIndex int
	rootOnly []Move // optional searchmoves whitelist at the root
	buffer   [MaxMoves]OrderedMove
	badStore [64]OrderedMove
}

// captureScore orders captures most-valuable-victim first with the
// least valuable attacker breaking ties.
func captureScore(m Move) int32 {
	var victim = m.CapturedPiece()
	if victim == Empty && m.Promotion() != Empty {
		victim = m.Promotion()
	}
	return int32(seePieceValues[victim]*1000 +
		seePieceValues[King] - seePieceValues[m.MovingPiece()])
}

func (w *worker) newMovePicker(height int, ttMove Move, rootOnly []Move) movePicker {
	var pos = &w.stack[height].position
	var killers = &w.history.killers[height]
	var counter = MoveEmpty
	if pos.LastMove != MoveEmpty {
		counter = w.history.counters[fromToIndex(pos.LastMove)]
	}
	return movePicker{
		worker:   w,
		height:   height,
		stage:    stageTTMove,
		ttMove:   ttMove,
		killer1:  killers[0],
		killer2:  killers[1],
		counter:  counter,
		rootOnly: rootOnly,
	}
}

func (w *worker) newQSMovePicker(height int, ttMove Move) movePicker {
	return movePicker{
		worker: w,
		height: height,
		stage:  stageQSTTMove,
		ttMove: ttMove,
	}
}

func (mp *movePicker) allowed(m Move) bool {
	if mp.rootOnly == nil {
		return true
	}
	for _, rm := range mp.rootOnly {
		if rm == m {
			return true
		}
	}
	return false
}

func (mp *movePicker) next() Move {
	var w = mp.worker
	var pos = &w.stack[mp.height].position

	switch mp.stage {
	case stageTTMove:
		mp.stage = stageGenCaptures
		if mp.ttMove != MoveEmpty && mp.allowed(mp.ttMove) && pos.IsPseudoLegal(mp.ttMove) {
			return mp.ttMove
		}
		return mp.next()

	case stageGenCaptures:
		mp.moves = pos.GenerateCaptures(mp.buffer[:])
		for i := range mp.moves {
			mp.moves[i].Key = captureScore(mp.moves[i].Move)
		}
		sortMoves(mp.moves)
		mp.index = 0
		mp.bad = mp.badStore[:0]
		mp.stage = stageGoodCaptures
		return mp.next()

	case stageGoodCaptures:
		for mp.index < len(mp.moves) {
			var m = mp.moves[mp.index].Move
			mp.index++
			if m == mp.ttMove || !mp.allowed(m) {
				continue
			}
			if !seeGEZero(pos, m) {
				mp.bad = append(mp.bad, OrderedMove{Move: m})
				continue
			}
			return m
		}
		mp.stage = stageKiller1
		return mp.next()

	case stageKiller1:
		mp.stage = stageKiller2
		if mp.killer1 != mp.ttMove && !mp.killer1.IsCaptureOrPromotion() &&
			mp.allowed(mp.killer1) && pos.IsPseudoLegal(mp.killer1) {
			return mp.killer1
		}
		return mp.next()

	case stageKiller2:
		mp.stage = stageCounter
		if mp.killer2 != mp.ttMove && !mp.killer2.IsCaptureOrPromotion() &&
			mp.allowed(mp.killer2) && pos.IsPseudoLegal(mp.killer2) {
			return mp.killer2
		}
		return mp.next()

	case stageCounter:
		mp.stage = stageGenQuiets
		if mp.counter != mp.ttMove && mp.counter != mp.killer1 && mp.counter != mp.killer2 &&
			!mp.counter.IsCaptureOrPromotion() &&
			mp.allowed(mp.counter) && pos.IsPseudoLegal(mp.counter) {
			return mp.counter
		}
		return mp.next()

	case stageGenQuiets:
		var quiets = pos.GenerateQuiets(mp.buffer[len(mp.moves):])
		var hc = w.historyContext(mp.height)
		for i := range quiets {
			quiets[i].Key = int32(hc.ReadTotal(quiets[i].Move))
		}
		sortMoves(quiets)
		mp.moves = quiets
		mp.index = 0
		mp.stage = stageQuiets
		return mp.next()

	case stageQuiets:
		for mp.index < len(mp.moves) {
			var m = mp.moves[mp.index].Move
			mp.index++
			if m == mp.ttMove || m == mp.killer1 || m == mp.killer2 || m == mp.counter ||
				!mp.allowed(m) {
				continue
			}
			return m
		}
		mp.stage = stageBadCaptures
		return mp.next()

	case stageBadCaptures:
		for mp.badIndex < len(mp.bad) {
			var m = mp.bad[mp.badIndex].Move
			mp.badIndex++
			return m
		}
		mp.stage = stageDone
		return MoveEmpty

	case stageQSTTMove:
		mp.stage = stageQSGenCaptures
		if mp.ttMove != MoveEmpty && mp.ttMove.IsCaptureOrPromotion() &&
			pos.IsPseudoLegal(mp.ttMove) {
			return mp.ttMove
		}
		return mp.next()

	case stageQSGenCaptures:
		if pos.IsCheck() {
			// evasions: search everything
			mp.moves = pos.GenerateMoves(mp.buffer[:])
			for i := range mp.moves {
				var m = mp.moves[i].Move
				if m.IsCaptureOrPromotion() {
					mp.moves[i].Key = captureScore(m)
				} else {
					mp.moves[i].Key = 0
				}
			}
		} else {
			mp.moves = pos.GenerateCaptures(mp.buffer[:])
			for i := range mp.moves {
				mp.moves[i].Key = captureScore(mp.moves[i].Move)
			}
		}
		sortMoves(mp.moves)
		mp.index = 0
		mp.stage = stageQSCaptures
		return mp.next()

	case stageQSCaptures:
		for mp.index < len(mp.moves) {
			var m = mp.moves[mp.index].Move
			mp.index++
			if m == mp.ttMove && m.IsCaptureOrPromotion() {
				continue
			}
			return m
		}
		mp.stage = stageQSDone
		return MoveEmpty
	}

	return MoveEmpty
}

func sortMoves(moves []OrderedMove) {
	for i := 1; i < len(moves); i++ {
		j, t := i, moves[i]
		for ; j > 0 && moves[j-1].Key < t.Key; j-- {
			moves[j] = moves[j-1]
		}
		moves[j] = t
	}
}
