package board

import "fmt"

// Apply returns the position after m. The source square must hold a piece;
// the move is otherwise trusted to be pseudo-legal. The input position is left
// untouched.
//
// En passant and castling are recognised from the position itself. A pawn
// reaching its last row promotes: to the piece chosen by choose, or to a queen
// when choose is nil (automated moves).
func (t *Tables) Apply(p Position, m Move, choose PromotionChooser) (Position, error) {
	from, to := m.From, m.To
	if !from.IsValid() || !to.IsValid() {
		return p, fmt.Errorf("%w: %s", ErrInvalidSquare, m)
	}
	piece := p.PieceAt(from)
	if piece == NoPiece {
		return p, fmt.Errorf("%w: %s", ErrEmptySquare, from)
	}

	us, pt := piece.Color(), piece.Type()
	them := us.Other()
	fromBB, toBB := SquareBB(from), SquareBB(to)

	pieces := p.pieces
	next := p
	next.prevFrom, next.prevTo = from, to
	next.quiet = true

	switch {
	case pt == Pawn && p.PieceAt(to) == NoPiece && t.EnPassant(p, from)&toBB != 0:
		pieces[us][Pawn] ^= fromBB | toBB
		pieces[them][Pawn] &^= SquareBB(p.prevTo)
		next.material[them] -= PieceValue[Pawn]
		next.quiet = false

	case pt == King && t.Castling(p, from)&toBB != 0:
		c, _ := castleFor(from, to)
		pieces[us][King] ^= fromBB | toBB
		pieces[us][Rook] ^= SquareBB(c.rook) | SquareBB(c.rookTo)

	default:
		if victim := p.PieceAt(to); victim != NoPiece {
			pieces[victim.Color()][victim.Type()] &^= toBB
			next.material[victim.Color()] -= victim.Type().Value()
			next.quiet = false
		}

		pieces[us][pt] &^= fromBB
		if pt == Pawn && to.Row() == promotionRow[us] {
			promo := Queen
			if choose != nil {
				promo = choose.ChoosePromotion()
				if promo < Knight || promo > Queen {
					return p, fmt.Errorf("%w: %s", ErrInvalidPromotion, promo)
				}
			}
			pieces[us][promo] |= toBB
			next.material[us] += promo.Value() - PieceValue[Pawn]
			next.quiet = false
		} else {
			pieces[us][pt] |= toBB
		}
	}

	next.castling &^= lostCastling(pt, us, from, to)
	return next.withPieces(pieces), nil
}

// lostCastling returns the rights removed by a move: both of the mover's when
// its king moves, and the right tied to any rook corner moved from or onto.
func lostCastling(pt PieceType, us Color, from, to Square) CastlingRights {
	var lost CastlingRights
	if pt == King {
		lost |= castlingRight(us, true) | castlingRight(us, false)
	}
	for _, sq := range [2]Square{from, to} {
		switch sq {
		case H1:
			lost |= WhiteKingSideCastle
		case A1:
			lost |= WhiteQueenSideCastle
		case H8:
			lost |= BlackKingSideCastle
		case A8:
			lost |= BlackQueenSideCastle
		}
	}
	return lost
}
