package chess

import "strings"

// Move packs from, to, moving piece, captured piece and promotion piece
// into one word so ordering heuristics need no board lookups.
type Move int32

const MoveEmpty Move = 0

func NewMove(from, to, movingPiece, capturedPiece, promotion int) Move {
	return Move(from ^ (to << 6) ^ (movingPiece << 12) ^ (capturedPiece << 15) ^ (promotion << 18))
}

func (m Move) From() int {
	return int(m & 63)
}

func (m Move) To() int {
	return int((m >> 6) & 63)
}

func (m Move) MovingPiece() int {
	return int((m >> 12) & 7)
}

func (m Move) CapturedPiece() int {
	return int((m >> 15) & 7)
}

func (m Move) Promotion() int {
	return int((m >> 18) & 7)
}

func (m Move) IsCaptureOrPromotion() bool {
	return m.CapturedPiece() != Empty || m.Promotion() != Empty
}

func (m Move) String() string {
	if m == MoveEmpty {
		return "0000"
	}
	var sPromotion = ""
	if m.Promotion() != Empty {
		sPromotion = string("nbrq"[m.Promotion()-Knight])
	}
	return SquareName(m.From()) + SquareName(m.To()) + sPromotion
}

// ParseMoveLAN resolves a long-algebraic move string against the legal
// moves of p.
func (p *Position) ParseMoveLAN(lan string) Move {
	var buffer [MaxMoves]OrderedMove
	var child Position
	for _, om := range p.GenerateMoves(buffer[:]) {
		if strings.EqualFold(om.Move.String(), lan) && p.MakeMove(om.Move, &child) {
			return om.Move
		}
	}
	return MoveEmpty
}
