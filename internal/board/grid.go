package board

import "fmt"

// StartGrid is the initial arrangement, rank 8 first. Uppercase is white,
// lowercase is black and a space is an empty square.
var StartGrid = [8]string{
	"rnbqkbnr",
	"pppppppp",
	"        ",
	"        ",
	"        ",
	"        ",
	"PPPPPPPP",
	"RNBQKBNR",
}

// FromGrid builds a position from eight rows of eight characters, rank 8
// first. Empty squares may be written as a space or a dot. Castling rights are
// granted wherever a king and rook stand on their home squares; there is no
// previous move.
func FromGrid(grid [8]string) (Position, error) {
	var pieces [2][6]Bitboard
	for row, line := range grid {
		if len(line) != 8 {
			return Position{}, fmt.Errorf("%w: row %d has %d squares", ErrInvalidPosition, row, len(line))
		}
		for file := 0; file < 8; file++ {
			c := line[file]
			if c == ' ' || c == '.' {
				continue
			}
			piece := PieceFromChar(c)
			if piece == NoPiece {
				return Position{}, fmt.Errorf("%w: bad character %q in row %d", ErrInvalidPosition, c, row)
			}
			pieces[piece.Color()][piece.Type()] |= SquareBB(NewSquare(file, row))
		}
	}

	p := newPosition(pieces, homeCastling(pieces))
	if err := p.Validate(); err != nil {
		return Position{}, err
	}
	return p, nil
}

// newPosition assembles a position with no previous move.
func newPosition(pieces [2][6]Bitboard, castling CastlingRights) Position {
	p := Position{
		prevFrom: NoSquare,
		prevTo:   NoSquare,
		castling: castling,
		material: computeMaterial(pieces),
		quiet:    true,
	}
	return p.withPieces(pieces)
}

// homeCastling returns the rights supported by kings and rooks on their home
// squares.
func homeCastling(pieces [2][6]Bitboard) CastlingRights {
	var cr CastlingRights
	for _, c := range castles {
		if pieces[c.color][King].IsSet(c.king) && pieces[c.color][Rook].IsSet(c.rook) {
			cr |= castlingRight(c.color, c.kingSide)
		}
	}
	return cr
}

// Grid returns the position as eight rows of characters, rank 8 first.
func (p Position) Grid() [8]string {
	var grid [8]string
	for row := 0; row < 8; row++ {
		line := make([]byte, 8)
		for file := 0; file < 8; file++ {
			line[file] = p.PieceAt(NewSquare(file, row)).String()[0]
		}
		grid[row] = string(line)
	}
	return grid
}
