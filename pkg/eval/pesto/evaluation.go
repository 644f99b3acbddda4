package eval

import (
	. "github.com/minnowengine/minnow/pkg/chess"
)

const (
	minorPhase = 1
	rookPhase  = 2
	queenPhase = 4
	totalPhase = 2 * (4*minorPhase + 2*rookPhase + queenPhase)
)

const tempo = 10

type EvaluationService struct{}

func NewEvaluationService() *EvaluationService {
	return &EvaluationService{}
}

// Evaluate returns a tapered material + piece-square score from the
// side to move's point of view.
func (e *EvaluationService) Evaluate(p *Position) int {
	var s Score
	var phase = 0

	for x := p.White; x != 0; x &= x - 1 {
		var sq = FirstOne(x)
		var piece = p.PieceOn(sq)
		s += pst[SideWhite][piece][sq]
		phase += phaseInc(piece)
	}
	for x := p.Black; x != 0; x &= x - 1 {
		var sq = FirstOne(x)
		var piece = p.PieceOn(sq)
		s -= pst[SideBlack][piece][sq]
		phase += phaseInc(piece)
	}

	if phase > totalPhase {
		phase = totalPhase
	}
	var result = (int(s.Middle())*phase + int(s.End())*(totalPhase-phase)) / totalPhase

	if !p.WhiteMove {
		result = -result
	}
	return result + tempo
}

func phaseInc(piece int) int {
	switch piece {
	case Knight, Bishop:
		return minorPhase
	case Rook:
		return rookPhase
	case Queen:
		return queenPhase
	}
	return 0
}
