package engine

import (
	. "github.com/minnowengine/minnow/pkg/chess"
)

var seePieceValues = [King + 1]int{
	Pawn:   100,
	Knight: 300,
	Bishop: 300,
	Rook:   500,
	Queen:  900,
	King:   10000,
}

func seeGEZero(p *Position, move Move) bool {
	return seeGE(p, move, 0)
}

// seeGE reports whether the exchange sequence started by move gains at
// least threshold centipawns for the mover. Swap-off with x-ray
// rediscovery, after Ethereal/Weiss.
func seeGE(pos *Position, move Move, threshold int) bool {
	var from = move.From()
	var to = move.To()
	var movingPiece = move.MovingPiece()
	var capturedPiece = move.CapturedPiece()
	var promotionPiece = move.Promotion()

	var nextVictim = movingPiece
	if promotionPiece != Empty {
		nextVictim = promotionPiece
	}

	var balance = seePieceValues[capturedPiece]
	if promotionPiece != Empty {
		balance += seePieceValues[promotionPiece] - seePieceValues[Pawn]
	}
	balance -= threshold

	if balance < 0 {
		return false
	}

	balance -= seePieceValues[nextVictim]
	if balance >= 0 {
		return true
	}

	var occupied = pos.All()&^SquareBB[from] | SquareBB[to]
	if movingPiece == Pawn && to == pos.EpSquare && pos.EpSquare != SquareNone {
		var capSq = to - 8
		if !pos.WhiteMove {
			capSq = to + 8
		}
		occupied &^= SquareBB[capSq]
	}

	var attackers = pos.AttackersTo(to, occupied) & occupied

	var bishops = pos.Bishops | pos.Queens
	var rooks = pos.Rooks | pos.Queens

	var white = !pos.WhiteMove

	for {
		var myAttackers uint64
		if white {
			myAttackers = attackers & pos.White
		} else {
			myAttackers = attackers & pos.Black
		}
		if myAttackers == 0 {
			break
		}

		var attackerType, attackerFrom = leastValuableAttacker(pos, myAttackers)

		occupied &^= SquareBB[attackerFrom]

		// a departing diagonal or orthogonal mover may reveal an x-ray
		// attacker along the same line
		if attackerType == Pawn || attackerType == Bishop || attackerType == Queen {
			attackers |= BishopAttacks(to, occupied) & bishops
		}
		if attackerType == Rook || attackerType == Queen {
			attackers |= RookAttacks(to, occupied) & rooks
		}

		attackers &= occupied
		white = !white

		balance = -balance - 1 - seePieceValues[attackerType]
		if balance >= 0 {
			// the king cannot recapture into remaining attackers
			if attackerType == King {
				var opp uint64
				if white {
					opp = attackers & pos.White
				} else {
					opp = attackers & pos.Black
				}
				if opp != 0 {
					white = !white
				}
			}
			break
		}
	}

	return white != pos.WhiteMove
}

func leastValuableAttacker(p *Position, attackers uint64) (attacker, from int) {
	if p.Pawns&attackers != 0 {
		return Pawn, FirstOne(p.Pawns & attackers)
	}
	if p.Knights&attackers != 0 {
		return Knight, FirstOne(p.Knights & attackers)
	}
	if p.Bishops&attackers != 0 {
		return Bishop, FirstOne(p.Bishops & attackers)
	}
	if p.Rooks&attackers != 0 {
		return Rook, FirstOne(p.Rooks & attackers)
	}
	if p.Queens&attackers != 0 {
		return Queen, FirstOne(p.Queens & attackers)
	}
	return King, FirstOne(p.Kings & attackers)
}
