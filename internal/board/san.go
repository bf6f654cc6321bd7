package board

import (
	"fmt"
	"strings"
)

// SAN converts a legal move of side to Standard Algebraic Notation. promo is
// the piece a promoting pawn becomes and is ignored otherwise; NoPieceType
// means a queen.
func (t *Tables) SAN(p Position, side Color, m Move, promo PieceType) string {
	if m == NoMove {
		return "-"
	}

	from, to := m.From, m.To
	piece := p.PieceAt(from)
	if piece == NoPiece {
		return m.String()
	}
	pt := piece.Type()

	var sb strings.Builder

	if _, ok := castleFor(from, to); ok && pt == King && t.Castling(p, from).IsSet(to) {
		if to > from {
			sb.WriteString("O-O")
		} else {
			sb.WriteString("O-O-O")
		}
	} else {
		if pt != Pawn {
			sb.WriteByte("PNBRQK"[pt])
			sb.WriteString(t.disambiguation(p, side, m, pt))
		}

		capture := p.PieceAt(to) != NoPiece || (pt == Pawn && from.File() != to.File())
		if capture {
			if pt == Pawn {
				sb.WriteByte('a' + byte(from.File()))
			}
			sb.WriteByte('x')
		}

		sb.WriteString(to.String())

		if pt == Pawn && to.Row() == promotionRow[side] {
			if promo == NoPieceType {
				promo = Queen
			}
			sb.WriteByte('=')
			sb.WriteByte("PNBRQK"[promo])
		}
	}

	next, err := t.Apply(p, m, PromotionFunc(func() PieceType { return promo }))
	if err != nil {
		return sb.String()
	}
	opp := side.Other()
	if t.InCheck(next, next.KingSquare(opp)) {
		if t.HasLegalMoves(next, opp) {
			sb.WriteByte('+')
		} else {
			sb.WriteByte('#')
		}
	}

	return sb.String()
}

// disambiguation returns the file, rank or square needed to tell m apart from
// moves of other pieces of the same type to the same square.
func (t *Tables) disambiguation(p Position, side Color, m Move, pt PieceType) string {
	from := m.From
	pieces := p.pieces[side][pt]

	var candidates []Square
	for _, other := range t.LegalMoves(p, side) {
		if other.To != m.To || other.From == from {
			continue
		}
		if pieces.IsSet(other.From) {
			candidates = append(candidates, other.From)
		}
	}

	if len(candidates) == 0 {
		return ""
	}

	sameFile, sameRank := false, false
	for _, sq := range candidates {
		if sq.File() == from.File() {
			sameFile = true
		}
		if sq.Row() == from.Row() {
			sameRank = true
		}
	}

	if !sameFile {
		return string(rune('a' + from.File()))
	}
	if !sameRank {
		return string(rune('0' + from.Rank()))
	}
	return from.String()
}

// ParseSAN parses a SAN string for side and returns the matching legal move
// and, for promotions, the piece named (NoPieceType otherwise).
func (t *Tables) ParseSAN(p Position, side Color, s string) (Move, PieceType, error) {
	orig := s
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, "+#")

	home := E1
	if side == Black {
		home = E8
	}
	switch s {
	case "O-O", "0-0":
		return t.matchCastle(p, side, NewMove(home, home+2), orig)
	case "O-O-O", "0-0-0":
		return t.matchCastle(p, side, NewMove(home, home-2), orig)
	}

	promo := NoPieceType
	if idx := strings.Index(s, "="); idx >= 0 {
		if idx+1 >= len(s) {
			return NoMove, NoPieceType, fmt.Errorf("%w: %q", ErrInvalidMove, orig)
		}
		pt, ok := PromotionTypeFromChar(s[idx+1])
		if !ok || s[idx+1] < 'A' || s[idx+1] > 'Z' {
			return NoMove, NoPieceType, fmt.Errorf("%w: %q: %w", ErrInvalidMove, orig, ErrInvalidPromotion)
		}
		promo = pt
		s = s[:idx]
	}

	isCapture := strings.Contains(s, "x")
	s = strings.ReplaceAll(s, "x", "")

	pt := Pawn
	if len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z' {
		switch s[0] {
		case 'N':
			pt = Knight
		case 'B':
			pt = Bishop
		case 'R':
			pt = Rook
		case 'Q':
			pt = Queen
		case 'K':
			pt = King
		default:
			return NoMove, NoPieceType, fmt.Errorf("%w: %q", ErrInvalidMove, orig)
		}
		s = s[1:]
	}

	if len(s) < 2 {
		return NoMove, NoPieceType, fmt.Errorf("%w: %q", ErrInvalidMove, orig)
	}
	dest, err := ParseSquare(s[len(s)-2:])
	if err != nil {
		return NoMove, NoPieceType, fmt.Errorf("%w: %q: %w", ErrInvalidMove, orig, err)
	}
	s = s[:len(s)-2]

	file, rank := -1, -1
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'h':
			file = int(c - 'a')
		case c >= '1' && c <= '8':
			rank = int(c - '0')
		default:
			return NoMove, NoPieceType, fmt.Errorf("%w: %q", ErrInvalidMove, orig)
		}
	}

	for _, m := range t.LegalMoves(p, side) {
		if m.To != dest || p.PieceAt(m.From).Type() != pt {
			continue
		}
		if file >= 0 && m.From.File() != file {
			continue
		}
		if rank >= 0 && m.From.Rank() != rank {
			continue
		}
		if isCapture && p.PieceAt(m.To) == NoPiece && (pt != Pawn || m.From.File() == m.To.File()) {
			continue
		}
		if pt == Pawn && dest.Row() == promotionRow[side] && promo == NoPieceType {
			promo = Queen
		}
		return m, promo, nil
	}

	return NoMove, NoPieceType, fmt.Errorf("%w: %q: no matching legal move", ErrInvalidMove, orig)
}

func (t *Tables) matchCastle(p Position, side Color, m Move, orig string) (Move, PieceType, error) {
	if !t.IsLegal(p, side, m) || !t.Castling(p, m.From).IsSet(m.To) {
		return NoMove, NoPieceType, fmt.Errorf("%w: %q: castling not available", ErrInvalidMove, orig)
	}
	return m, NoPieceType, nil
}
