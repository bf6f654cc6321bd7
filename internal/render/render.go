// Package render draws board diagrams as SVG or PNG.
//
// The SVG is the single source of geometry: the PNG path rasterizes the same
// document and then draws the piece letters and coordinates on top, since the
// SVG rasterizer has no text support.
package render

import (
	"github.com/hailam/bitchess/internal/board"
)

// Options controls the look of a diagram.
type Options struct {
	SquareSize int // pixels per square

	Light, Dark, Border string // CSS colours
	Highlight           string // colour laid over the previous move's squares

	Coordinates bool // draw file letters and rank numbers in the border
	LastMove    bool // highlight the previous move
	Flip        bool // draw with rank 1 at the top
}

// DefaultOptions returns the options used by the console commands.
func DefaultOptions() Options {
	return Options{
		SquareSize:  60,
		Light:       "#f0d9b5",
		Dark:        "#b58863",
		Border:      "#404040",
		Highlight:   "#cdd26a",
		Coordinates: true,
		LastMove:    true,
	}
}

const (
	whiteDisc, whiteInk = "#fafafa", "#202020"
	blackDisc, blackInk = "#202020", "#fafafa"
	discStroke          = "#606060"
	labelInk            = "#e0e0e0"
)

// border is the width of the coordinate margin.
func (o Options) border() int {
	if !o.Coordinates {
		return 0
	}
	return o.SquareSize / 2
}

// Size returns the width and height of the diagram in pixels.
func (o Options) Size() int {
	return 8*o.SquareSize + 2*o.border()
}

// origin returns the top-left pixel of a square.
func (o Options) origin(sq board.Square) (x, y int) {
	file, row := sq.File(), sq.Row()
	if o.Flip {
		file, row = 7-file, 7-row
	}
	return o.border() + file*o.SquareSize, o.border() + row*o.SquareSize
}

// centre returns the middle pixel of a square.
func (o Options) centre(sq board.Square) (x, y int) {
	x, y = o.origin(sq)
	return x + o.SquareSize/2, y + o.SquareSize/2
}

func (o Options) squareColour(sq board.Square) string {
	if (sq.File()+sq.Row())%2 == 0 {
		return o.Light
	}
	return o.Dark
}

// highlighted reports the squares of the previous move, if it is to be shown.
func (o Options) highlighted(p board.Position) []board.Square {
	prev := p.PreviousMove()
	if !o.LastMove || !prev.From.IsValid() || !prev.To.IsValid() {
		return nil
	}
	return []board.Square{prev.From, prev.To}
}

// label is the letter drawn on a piece.
func label(pc board.Piece) string {
	return board.NewPiece(pc.Type(), board.White).String()
}

func pieceColours(pc board.Piece) (disc, ink string) {
	if pc.Color() == board.White {
		return whiteDisc, whiteInk
	}
	return blackDisc, blackInk
}

type coordinate struct {
	x, y int
	text string
}

// coordinates returns the border labels: file letters below and above the
// board, rank numbers to the left and right.
func (o Options) coordinates() []coordinate {
	if !o.Coordinates {
		return nil
	}
	b, s, size := o.border(), o.SquareSize, o.Size()
	var out []coordinate
	for i := 0; i < 8; i++ {
		file, rank := i, 8-i
		if o.Flip {
			file, rank = 7-i, i+1
		}
		mid := b + i*s + s/2
		f := string(rune('a' + file))
		r := string(rune('0' + rank))
		out = append(out,
			coordinate{mid, b / 2, f},
			coordinate{mid, size - b/2, f},
			coordinate{b / 2, mid, r},
			coordinate{size - b/2, mid, r},
		)
	}
	return out
}
