package render

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"

	"github.com/hailam/bitchess/internal/board"
)

// errWriter remembers the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(b []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(b)
	e.err = err
	return n, err
}

// WriteSVG writes a diagram of p to w.
func WriteSVG(w io.Writer, p board.Position, opts Options) error {
	if opts.SquareSize <= 0 {
		return fmt.Errorf("render: square size %d", opts.SquareSize)
	}

	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	size := opts.Size()
	s := opts.SquareSize

	canvas.Startview(size, size, 0, 0, size, size)
	canvas.Rect(0, 0, size, size, "fill:"+opts.Border)

	for sq := board.Square(0); sq < board.NoSquare; sq++ {
		x, y := opts.origin(sq)
		canvas.Rect(x, y, s, s, "fill:"+opts.squareColour(sq))
	}
	for _, sq := range opts.highlighted(p) {
		x, y := opts.origin(sq)
		canvas.Rect(x, y, s, s, "fill:"+opts.Highlight+";fill-opacity:0.6")
	}

	fontSize := s * 11 / 20
	for sq := board.Square(0); sq < board.NoSquare; sq++ {
		pc := p.PieceAt(sq)
		if pc == board.NoPiece {
			continue
		}
		disc, ink := pieceColours(pc)
		cx, cy := opts.centre(sq)
		canvas.Circle(cx, cy, s*2/5, fmt.Sprintf("fill:%s;stroke:%s;stroke-width:%d", disc, discStroke, max(1, s/30)))
		canvas.Text(cx, cy, label(pc), fmt.Sprintf(
			"fill:%s;font-family:sans-serif;font-weight:bold;font-size:%dpx;text-anchor:middle;dominant-baseline:central", ink, fontSize))
	}

	for _, c := range opts.coordinates() {
		canvas.Text(c.x, c.y, c.text, fmt.Sprintf(
			"fill:%s;font-family:sans-serif;font-size:%dpx;text-anchor:middle;dominant-baseline:central", labelInk, s/4))
	}

	canvas.End()
	return ew.err
}
