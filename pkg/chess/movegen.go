package chess

const (
	f1g1Mask = uint64(1)<<SquareF1 | uint64(1)<<SquareG1
	b1d1Mask = uint64(1)<<SquareB1 | uint64(1)<<SquareC1 | uint64(1)<<SquareD1
	f8g8Mask = uint64(1)<<SquareF8 | uint64(1)<<SquareG8
	b8d8Mask = uint64(1)<<SquareB8 | uint64(1)<<SquareC8 | uint64(1)<<SquareD8
)

var (
	whiteKingSideCastle  = NewMove(SquareE1, SquareG1, King, Empty, Empty)
	whiteQueenSideCastle = NewMove(SquareE1, SquareC1, King, Empty, Empty)
	blackKingSideCastle  = NewMove(SquareE8, SquareG8, King, Empty, Empty)
	blackQueenSideCastle = NewMove(SquareE8, SquareC8, King, Empty, Empty)
)

func addPromotions(ml []OrderedMove, move Move) int {
	ml[0].Move = move ^ Move(Queen<<18)
	ml[1].Move = move ^ Move(Rook<<18)
	ml[2].Move = move ^ Move(Bishop<<18)
	ml[3].Move = move ^ Move(Knight<<18)
	return 4
}

// GenerateMoves emits all pseudo-legal moves. In check the non-king
// moves other than en passant captures are restricted to capturing or
// blocking the checker.
func (p *Position) GenerateMoves(ml []OrderedMove) []OrderedMove {
	var count = 0
	var from, to int
	var fromBB, toBB uint64

	var ownPieces = p.Pieces(p.WhiteMove)
	var oppPieces = p.Pieces(!p.WhiteMove)
	var allPieces = p.White | p.Black

	var target = ^ownPieces
	if p.Checkers != 0 {
		if MoreThanOne(p.Checkers) {
			target = 0
		} else {
			target = p.Checkers | betweenMask[FirstOne(p.Checkers)][p.KingSq(p.WhiteMove)]
		}
	}

	if p.EpSquare != SquareNone {
		for fromBB = PawnAttacks(p.EpSquare, !p.WhiteMove) & p.Pawns & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
			ml[count].Move = NewMove(FirstOne(fromBB), p.EpSquare, Pawn, Pawn, Empty)
			count++
		}
	}

	if p.WhiteMove {
		for fromBB = p.Pawns & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
			from = FirstOne(fromBB)
			var promoRank = Rank(from) == Rank7
			if SquareBB[from+8]&allPieces == 0 && SquareBB[from+8]&target != 0 {
				if promoRank {
					count += addPromotions(ml[count:], NewMove(from, from+8, Pawn, Empty, Empty))
				} else {
					ml[count].Move = NewMove(from, from+8, Pawn, Empty, Empty)
					count++
				}
			}
			if Rank(from) == Rank2 &&
				SquareBB[from+8]&allPieces == 0 &&
				SquareBB[from+16]&allPieces == 0 &&
				SquareBB[from+16]&target != 0 {
				ml[count].Move = NewMove(from, from+16, Pawn, Empty, Empty)
				count++
			}
			for toBB = whitePawnAttacks[from] & oppPieces & target; toBB != 0; toBB &= toBB - 1 {
				to = FirstOne(toBB)
				if promoRank {
					count += addPromotions(ml[count:], NewMove(from, to, Pawn, p.PieceOn(to), Empty))
				} else {
					ml[count].Move = NewMove(from, to, Pawn, p.PieceOn(to), Empty)
					count++
				}
			}
		}
	} else {
		for fromBB = p.Pawns & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
			from = FirstOne(fromBB)
			var promoRank = Rank(from) == Rank2
			if SquareBB[from-8]&allPieces == 0 && SquareBB[from-8]&target != 0 {
				if promoRank {
					count += addPromotions(ml[count:], NewMove(from, from-8, Pawn, Empty, Empty))
				} else {
					ml[count].Move = NewMove(from, from-8, Pawn, Empty, Empty)
					count++
				}
			}
			if Rank(from) == Rank7 &&
				SquareBB[from-8]&allPieces == 0 &&
				SquareBB[from-16]&allPieces == 0 &&
				SquareBB[from-16]&target != 0 {
				ml[count].Move = NewMove(from, from-16, Pawn, Empty, Empty)
				count++
			}
			for toBB = blackPawnAttacks[from] & oppPieces & target; toBB != 0; toBB &= toBB - 1 {
				to = FirstOne(toBB)
				if promoRank {
					count += addPromotions(ml[count:], NewMove(from, to, Pawn, p.PieceOn(to), Empty))
				} else {
					ml[count].Move = NewMove(from, to, Pawn, p.PieceOn(to), Empty)
					count++
				}
			}
		}
	}

	for fromBB = p.Knights & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		from = FirstOne(fromBB)
		for toBB = KnightAttacks[from] & target; toBB != 0; toBB &= toBB - 1 {
			to = FirstOne(toBB)
			ml[count].Move = NewMove(from, to, Knight, p.PieceOn(to), Empty)
			count++
		}
	}

	for fromBB = p.Bishops & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		from = FirstOne(fromBB)
		for toBB = BishopAttacks(from, allPieces) & target; toBB != 0; toBB &= toBB - 1 {
			to = FirstOne(toBB)
			ml[count].Move = NewMove(from, to, Bishop, p.PieceOn(to), Empty)
			count++
		}
	}

	for fromBB = p.Rooks & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		from = FirstOne(fromBB)
		for toBB = RookAttacks(from, allPieces) & target; toBB != 0; toBB &= toBB - 1 {
			to = FirstOne(toBB)
			ml[count].Move = NewMove(from, to, Rook, p.PieceOn(to), Empty)
			count++
		}
	}

	for fromBB = p.Queens & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		from = FirstOne(fromBB)
		for toBB = QueenAttacks(from, allPieces) & target; toBB != 0; toBB &= toBB - 1 {
			to = FirstOne(toBB)
			ml[count].Move = NewMove(from, to, Queen, p.PieceOn(to), Empty)
			count++
		}
	}

	from = p.KingSq(p.WhiteMove)
	for toBB = KingAttacks[from] &^ ownPieces; toBB != 0; toBB &= toBB - 1 {
		to = FirstOne(toBB)
		ml[count].Move = NewMove(from, to, King, p.PieceOn(to), Empty)
		count++
	}

	if p.Checkers == 0 {
		if p.WhiteMove {
			if p.CastleRights&WhiteKingSide != 0 &&
				allPieces&f1g1Mask == 0 &&
				!p.isAttackedBySide(SquareF1, false) {
				ml[count].Move = whiteKingSideCastle
				count++
			}
			if p.CastleRights&WhiteQueenSide != 0 &&
				allPieces&b1d1Mask == 0 &&
				!p.isAttackedBySide(SquareD1, false) {
				ml[count].Move = whiteQueenSideCastle
				count++
			}
		} else {
			if p.CastleRights&BlackKingSide != 0 &&
				allPieces&f8g8Mask == 0 &&
				!p.isAttackedBySide(SquareF8, true) {
				ml[count].Move = blackKingSideCastle
				count++
			}
			if p.CastleRights&BlackQueenSide != 0 &&
				allPieces&b8d8Mask == 0 &&
				!p.isAttackedBySide(SquareD8, true) {
				ml[count].Move = blackQueenSideCastle
				count++
			}
		}
	}

	return ml[:count]
}

// GenerateCaptures emits pseudo-legal captures and promotions.
func (p *Position) GenerateCaptures(ml []OrderedMove) []OrderedMove {
	var count = 0
	var from, to int
	var fromBB, toBB uint64

	var ownPieces = p.Pieces(p.WhiteMove)
	var oppPieces = p.Pieces(!p.WhiteMove)
	var allPieces = p.White | p.Black

	if p.EpSquare != SquareNone {
		for fromBB = PawnAttacks(p.EpSquare, !p.WhiteMove) & p.Pawns & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
			ml[count].Move = NewMove(FirstOne(fromBB), p.EpSquare, Pawn, Pawn, Empty)
			count++
		}
	}

	if p.WhiteMove {
		for fromBB = p.Pawns & ownPieces & Rank7Mask; fromBB != 0; fromBB &= fromBB - 1 {
			from = FirstOne(fromBB)
			if SquareBB[from+8]&allPieces == 0 {
				count += addPromotions(ml[count:], NewMove(from, from+8, Pawn, Empty, Empty))
			}
			for toBB = whitePawnAttacks[from] & oppPieces; toBB != 0; toBB &= toBB - 1 {
				to = FirstOne(toBB)
				count += addPromotions(ml[count:], NewMove(from, to, Pawn, p.PieceOn(to), Empty))
			}
		}
		for fromBB = p.Pawns & ownPieces &^ Rank7Mask & AllBlackPawnAttacks(oppPieces); fromBB != 0; fromBB &= fromBB - 1 {
			from = FirstOne(fromBB)
			for toBB = whitePawnAttacks[from] & oppPieces; toBB != 0; toBB &= toBB - 1 {
				to = FirstOne(toBB)
				ml[count].Move = NewMove(from, to, Pawn, p.PieceOn(to), Empty)
				count++
			}
		}
	} else {
		for fromBB = p.Pawns & ownPieces & Rank2Mask; fromBB != 0; fromBB &= fromBB - 1 {
			from = FirstOne(fromBB)
			if SquareBB[from-8]&allPieces == 0 {
				count += addPromotions(ml[count:], NewMove(from, from-8, Pawn, Empty, Empty))
			}
			for toBB = blackPawnAttacks[from] & oppPieces; toBB != 0; toBB &= toBB - 1 {
				to = FirstOne(toBB)
				count += addPromotions(ml[count:], NewMove(from, to, Pawn, p.PieceOn(to), Empty))
			}
		}
		for fromBB = p.Pawns & ownPieces &^ Rank2Mask & AllWhitePawnAttacks(oppPieces); fromBB != 0; fromBB &= fromBB - 1 {
			from = FirstOne(fromBB)
			for toBB = blackPawnAttacks[from] & oppPieces; toBB != 0; toBB &= toBB - 1 {
				to = FirstOne(toBB)
				ml[count].Move = NewMove(from, to, Pawn, p.PieceOn(to), Empty)
				count++
			}
		}
	}

	for fromBB = p.Knights & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		from = FirstOne(fromBB)
		for toBB = KnightAttacks[from] & oppPieces; toBB != 0; toBB &= toBB - 1 {
			to = FirstOne(toBB)
			ml[count].Move = NewMove(from, to, Knight, p.PieceOn(to), Empty)
			count++
		}
	}

	for fromBB = p.Bishops & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		from = FirstOne(fromBB)
		for toBB = BishopAttacks(from, allPieces) & oppPieces; toBB != 0; toBB &= toBB - 1 {
			to = FirstOne(toBB)
			ml[count].Move = NewMove(from, to, Bishop, p.PieceOn(to), Empty)
			count++
		}
	}

	for fromBB = p.Rooks & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		from = FirstOne(fromBB)
		for toBB = RookAttacks(from, allPieces) & oppPieces; toBB != 0; toBB &= toBB - 1 {
			to = FirstOne(toBB)
			ml[count].Move = NewMove(from, to, Rook, p.PieceOn(to), Empty)
			count++
		}
	}

	for fromBB = p.Queens & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		from = FirstOne(fromBB)
		for toBB = QueenAttacks(from, allPieces) & oppPieces; toBB != 0; toBB &= toBB - 1 {
			to = FirstOne(toBB)
			ml[count].Move = NewMove(from, to, Queen, p.PieceOn(to), Empty)
			count++
		}
	}

	from = p.KingSq(p.WhiteMove)
	for toBB = KingAttacks[from] & oppPieces; toBB != 0; toBB &= toBB - 1 {
		to = FirstOne(toBB)
		ml[count].Move = NewMove(from, to, King, p.PieceOn(to), Empty)
		count++
	}

	return ml[:count]
}

// GenerateQuiets emits pseudo-legal non-captures without promotions,
// the complement of GenerateCaptures.
func (p *Position) GenerateQuiets(ml []OrderedMove) []OrderedMove {
	var count = 0
	var from int
	var fromBB, toBB uint64

	var ownPieces = p.Pieces(p.WhiteMove)
	var allPieces = p.White | p.Black
	var free = ^allPieces

	if p.WhiteMove {
		for fromBB = p.Pawns & ownPieces &^ Rank7Mask; fromBB != 0; fromBB &= fromBB - 1 {
			from = FirstOne(fromBB)
			if SquareBB[from+8]&allPieces == 0 {
				ml[count].Move = NewMove(from, from+8, Pawn, Empty, Empty)
				count++
				if Rank(from) == Rank2 && SquareBB[from+16]&allPieces == 0 {
					ml[count].Move = NewMove(from, from+16, Pawn, Empty, Empty)
					count++
				}
			}
		}
	} else {
		for fromBB = p.Pawns & ownPieces &^ Rank2Mask; fromBB != 0; fromBB &= fromBB - 1 {
			from = FirstOne(fromBB)
			if SquareBB[from-8]&allPieces == 0 {
				ml[count].Move = NewMove(from, from-8, Pawn, Empty, Empty)
				count++
				if Rank(from) == Rank7 && SquareBB[from-16]&allPieces == 0 {
					ml[count].Move = NewMove(from, from-16, Pawn, Empty, Empty)
					count++
				}
			}
		}
	}

	for fromBB = p.Knights & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		from = FirstOne(fromBB)
		for toBB = KnightAttacks[from] & free; toBB != 0; toBB &= toBB - 1 {
			ml[count].Move = NewMove(from, FirstOne(toBB), Knight, Empty, Empty)
			count++
		}
	}

	for fromBB = p.Bishops & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		from = FirstOne(fromBB)
		for toBB = BishopAttacks(from, allPieces) & free; toBB != 0; toBB &= toBB - 1 {
			ml[count].Move = NewMove(from, FirstOne(toBB), Bishop, Empty, Empty)
			count++
		}
	}

	for fromBB = p.Rooks & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		from = FirstOne(fromBB)
		for toBB = RookAttacks(from, allPieces) & free; toBB != 0; toBB &= toBB - 1 {
			ml[count].Move = NewMove(from, FirstOne(toBB), Rook, Empty, Empty)
			count++
		}
	}

	for fromBB = p.Queens & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		from = FirstOne(fromBB)
		for toBB = QueenAttacks(from, allPieces) & free; toBB != 0; toBB &= toBB - 1 {
			ml[count].Move = NewMove(from, FirstOne(toBB), Queen, Empty, Empty)
			count++
		}
	}

	from = p.KingSq(p.WhiteMove)
	for toBB = KingAttacks[from] & free; toBB != 0; toBB &= toBB - 1 {
		ml[count].Move = NewMove(from, FirstOne(toBB), King, Empty, Empty)
		count++
	}

	if p.WhiteMove {
		if p.CastleRights&WhiteKingSide != 0 &&
			allPieces&f1g1Mask == 0 &&
			!p.isAttackedBySide(SquareE1, false) &&
			!p.isAttackedBySide(SquareF1, false) {
			ml[count].Move = whiteKingSideCastle
			count++
		}
		if p.CastleRights&WhiteQueenSide != 0 &&
			allPieces&b1d1Mask == 0 &&
			!p.isAttackedBySide(SquareE1, false) &&
			!p.isAttackedBySide(SquareD1, false) {
			ml[count].Move = whiteQueenSideCastle
			count++
		}
	} else {
		if p.CastleRights&BlackKingSide != 0 &&
			allPieces&f8g8Mask == 0 &&
			!p.isAttackedBySide(SquareE8, true) &&
			!p.isAttackedBySide(SquareF8, true) {
			ml[count].Move = blackKingSideCastle
			count++
		}
		if p.CastleRights&BlackQueenSide != 0 &&
			allPieces&b8d8Mask == 0 &&
			!p.isAttackedBySide(SquareE8, true) &&
			!p.isAttackedBySide(SquareD8, true) {
			ml[count].Move = blackQueenSideCastle
			count++
		}
	}

	return ml[:count]
}

func (p *Position) GenerateLegalMoves() []Move {
	var buffer [MaxMoves]OrderedMove
	var child Position
	var result []Move
	for _, om := range p.GenerateMoves(buffer[:]) {
		if p.MakeMove(om.Move, &child) {
			result = append(result, om.Move)
		}
	}
	return result
}

// Perft counts leaf nodes of the legal move tree to the given depth.
func Perft(p *Position, depth int) int {
	var buffer [MaxMoves]OrderedMove
	var child Position
	var result = 0
	for _, om := range p.GenerateMoves(buffer[:]) {
		if p.MakeMove(om.Move, &child) {
			if depth > 1 {
				result += Perft(&child, depth-1)
			} else {
				result++
			}
		}
	}
	return result
}
