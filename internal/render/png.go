package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/hailam/bitchess/internal/board"
)

// renderScale is the oversampling factor; the board is drawn at this multiple
// and scaled down for smooth edges.
const renderScale = 2

var loadFonts = sync.OnceValues(func() ([2]*opentype.Font, error) {
	var fonts [2]*opentype.Font
	var err error
	if fonts[0], err = opentype.Parse(goregular.TTF); err != nil {
		return fonts, fmt.Errorf("parse regular font: %w", err)
	}
	if fonts[1], err = opentype.Parse(gobold.TTF); err != nil {
		return fonts, fmt.Errorf("parse bold font: %w", err)
	}
	return fonts, nil
})

// Image renders a diagram of p.
func Image(p board.Position, opts Options) (*image.RGBA, error) {
	if opts.SquareSize <= 0 {
		return nil, fmt.Errorf("render: square size %d", opts.SquareSize)
	}

	big := opts
	big.SquareSize *= renderScale
	size := big.Size()

	var doc bytes.Buffer
	if err := WriteSVG(&doc, p, big); err != nil {
		return nil, err
	}

	icon, err := oksvg.ReadIconStream(&doc, oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("render: parse diagram: %w", err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	rgba := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	if err := drawLabels(rgba, p, big); err != nil {
		return nil, err
	}

	out := image.NewRGBA(image.Rect(0, 0, opts.Size(), opts.Size()))
	draw.CatmullRom.Scale(out, out.Bounds(), rgba, rgba.Bounds(), draw.Src, nil)
	return out, nil
}

// WritePNG writes a PNG diagram of p to w.
func WritePNG(w io.Writer, p board.Position, opts Options) error {
	img, err := Image(p, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// drawLabels draws the text the rasterizer skipped.
func drawLabels(dst *image.RGBA, p board.Position, opts Options) error {
	fonts, err := loadFonts()
	if err != nil {
		return err
	}

	pieceFace, err := opentype.NewFace(fonts[1], &opentype.FaceOptions{
		Size:    float64(opts.SquareSize * 11 / 20),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return fmt.Errorf("render: piece font: %w", err)
	}
	defer pieceFace.Close()

	for sq := board.Square(0); sq < board.NoSquare; sq++ {
		pc := p.PieceAt(sq)
		if pc == board.NoPiece {
			continue
		}
		_, ink := pieceColours(pc)
		cx, cy := opts.centre(sq)
		drawCentred(dst, pieceFace, parseColour(ink), cx, cy, label(pc))
	}

	if !opts.Coordinates {
		return nil
	}

	coordFace, err := opentype.NewFace(fonts[0], &opentype.FaceOptions{
		Size:    float64(opts.SquareSize / 4),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return fmt.Errorf("render: coordinate font: %w", err)
	}
	defer coordFace.Close()

	ink := parseColour(labelInk)
	for _, c := range opts.coordinates() {
		drawCentred(dst, coordFace, ink, c.x, c.y, c.text)
	}
	return nil
}

// drawCentred draws text with its bounding box centred on (x, y).
func drawCentred(dst draw.Image, face font.Face, c color.Color, x, y int, text string) {
	m := face.Metrics()
	width := font.MeasureString(face, text)
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(x) - width/2,
			Y: fixed.I(y) + (m.Ascent-m.Descent)/2,
		},
	}
	d.DrawString(text)
}

// parseColour parses "#rrggbb"; anything else is black.
func parseColour(s string) color.RGBA {
	v, err := strconv.ParseUint(strings.TrimPrefix(s, "#"), 16, 32)
	if err != nil || len(s) != 7 {
		return color.RGBA{A: 0xff}
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}
