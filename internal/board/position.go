package board

import (
	"fmt"
	"strings"
)

// CastlingRights represents the available castling options.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingSideCastle != 0 {
		s += "K"
	}
	if cr&WhiteQueenSideCastle != 0 {
		s += "Q"
	}
	if cr&BlackKingSideCastle != 0 {
		s += "k"
	}
	if cr&BlackQueenSideCastle != 0 {
		s += "q"
	}
	return s
}

// CanCastle returns true if the given side can castle in the given direction.
func (cr CastlingRights) CanCastle(c Color, kingSide bool) bool {
	return cr&castlingRight(c, kingSide) != 0
}

func castlingRight(c Color, kingSide bool) CastlingRights {
	if c == White {
		if kingSide {
			return WhiteKingSideCastle
		}
		return WhiteQueenSideCastle
	}
	if kingSide {
		return BlackKingSideCastle
	}
	return BlackQueenSideCastle
}

// Position is an immutable chess position. Every change produces a new value;
// the colour and occupancy unions are derived from the piece masks whenever
// the masks change and are never set on their own.
//
// A Position does not record whose turn it is; callers track the side to move.
type Position struct {
	pieces [2][6]Bitboard // [Color][PieceType]

	// Derived by withPieces.
	occupied [2]Bitboard
	all      Bitboard
	empty    Bitboard

	prevFrom, prevTo Square
	castling         CastlingRights
	material         [2]int
	quiet            bool
}

// NewPosition returns the starting position.
func NewPosition() Position {
	pos, _ := FromGrid(StartGrid)
	return pos
}

// withPieces returns a copy of p holding the given piece masks with the unions
// recomputed.
func (p Position) withPieces(pieces [2][6]Bitboard) Position {
	p.pieces = pieces
	p.occupied = [2]Bitboard{}
	for pt := Pawn; pt <= King; pt++ {
		p.occupied[White] |= pieces[White][pt]
		p.occupied[Black] |= pieces[Black][pt]
	}
	p.all = p.occupied[White] | p.occupied[Black]
	p.empty = ^p.all
	return p
}

// Pieces returns the mask of the given colour's pieces of one type.
func (p Position) Pieces(c Color, pt PieceType) Bitboard {
	return p.pieces[c][pt]
}

// Occupancy returns every square held by the given colour.
func (p Position) Occupancy(c Color) Bitboard {
	return p.occupied[c]
}

// Occupied returns every occupied square.
func (p Position) Occupied() Bitboard {
	return p.all
}

// Empty returns every unoccupied square.
func (p Position) Empty() Bitboard {
	return p.empty
}

// Material returns the running material total of the given colour.
func (p Position) Material(c Color) int {
	return p.material[c]
}

// Quiet reports whether the move that produced this position was neither a
// capture nor a promotion.
func (p Position) Quiet() bool {
	return p.quiet
}

// PreviousMove returns the move that produced this position, or NoMove.
func (p Position) PreviousMove() Move {
	return Move{From: p.prevFrom, To: p.prevTo}
}

// Castling returns the remaining castling rights.
func (p Position) Castling() CastlingRights {
	return p.castling
}

// PieceAt returns the piece at the given square, or NoPiece if empty.
func (p Position) PieceAt(sq Square) Piece {
	bb := SquareBB(sq)
	if p.all&bb == 0 {
		return NoPiece
	}

	c := White
	if p.occupied[Black]&bb != 0 {
		c = Black
	}

	for pt := Pawn; pt <= King; pt++ {
		if p.pieces[c][pt]&bb != 0 {
			return NewPiece(pt, c)
		}
	}
	return NoPiece
}

// KingSquare returns the square of the given colour's king, or NoSquare.
func (p Position) KingSquare(c Color) Square {
	return p.pieces[c][King].LSB()
}

// computeMaterial sums the piece values present for each colour.
func computeMaterial(pieces [2][6]Bitboard) [2]int {
	var m [2]int
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt < King; pt++ {
			m[c] += pieces[c][pt].PopCount() * PieceValue[pt]
		}
	}
	return m
}

// Validate checks that the position can be played from.
func (p Position) Validate() error {
	seen := Empty
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			if seen&p.pieces[c][pt] != 0 {
				return fmt.Errorf("%w: square holds more than one piece", ErrInvalidPosition)
			}
			seen |= p.pieces[c][pt]
		}
	}

	if p.pieces[White][King].PopCount() != 1 {
		return fmt.Errorf("%w: white must have exactly one king", ErrInvalidPosition)
	}
	if p.pieces[Black][King].PopCount() != 1 {
		return fmt.Errorf("%w: black must have exactly one king", ErrInvalidPosition)
	}

	if (p.pieces[White][Pawn]|p.pieces[Black][Pawn])&(Row8|Row1) != 0 {
		return fmt.Errorf("%w: pawns cannot be on rank 1 or 8", ErrInvalidPosition)
	}

	return nil
}

// String returns a diagram of the position with file letters and rank numbers.
func (p Position) String() string {
	var sb strings.Builder
	sb.WriteString("     a   b   c   d   e   f   g   h\n")
	sb.WriteString("   +---+---+---+---+---+---+---+---+\n")
	for row := 0; row < 8; row++ {
		fmt.Fprintf(&sb, " %d |", 8-row)
		for file := 0; file < 8; file++ {
			fmt.Fprintf(&sb, " %s |", p.PieceAt(NewSquare(file, row)))
		}
		fmt.Fprintf(&sb, " %d\n", 8-row)
		sb.WriteString("   +---+---+---+---+---+---+---+---+\n")
	}
	sb.WriteString("     a   b   c   d   e   f   g   h\n")
	return sb.String()
}
