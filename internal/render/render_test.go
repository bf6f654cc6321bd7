package render

import (
	"bytes"
	"encoding/xml"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/hailam/bitchess/internal/board"
)

// elements counts the SVG elements by name.
func elements(t *testing.T, doc []byte) map[string]int {
	t.Helper()
	counts := make(map[string]int)
	dec := xml.NewDecoder(bytes.NewReader(doc))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return counts
		}
		if err != nil {
			t.Fatalf("diagram is not well-formed XML: %v", err)
		}
		if se, ok := tok.(xml.StartElement); ok {
			counts[se.Name.Local]++
		}
	}
}

func TestWriteSVG(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSVG(&buf, board.NewPosition(), DefaultOptions()); err != nil {
		t.Fatal(err)
	}

	counts := elements(t, buf.Bytes())
	if counts["svg"] != 1 {
		t.Errorf("svg elements = %d", counts["svg"])
	}
	// Background plus 64 squares; the start position has no previous move.
	if counts["rect"] != 65 {
		t.Errorf("rect elements = %d, want 65", counts["rect"])
	}
	if counts["circle"] != 32 {
		t.Errorf("circle elements = %d, want 32", counts["circle"])
	}
	// 32 piece letters and 32 coordinates.
	if counts["text"] != 64 {
		t.Errorf("text elements = %d, want 64", counts["text"])
	}
	if !strings.Contains(buf.String(), `viewBox="0 0 540 540"`) {
		t.Error("missing viewBox")
	}
}

func TestWriteSVGHighlightsPreviousMove(t *testing.T) {
	tb := board.NewTables()
	p, err := tb.Apply(board.NewPosition(), board.NewMove(board.E2, board.E4), nil)
	if err != nil {
		t.Fatal(err)
	}

	opts := DefaultOptions()
	opts.Coordinates = false

	var buf bytes.Buffer
	if err := WriteSVG(&buf, p, opts); err != nil {
		t.Fatal(err)
	}
	counts := elements(t, buf.Bytes())
	if counts["rect"] != 67 {
		t.Errorf("rect elements = %d, want 67", counts["rect"])
	}
	if counts["text"] != 32 {
		t.Errorf("text elements = %d, want 32", counts["text"])
	}

	opts.LastMove = false
	buf.Reset()
	if err := WriteSVG(&buf, p, opts); err != nil {
		t.Fatal(err)
	}
	if n := elements(t, buf.Bytes())["rect"]; n != 65 {
		t.Errorf("with LastMove off rect elements = %d, want 65", n)
	}
}

func TestWriteSVGBadSize(t *testing.T) {
	opts := DefaultOptions()
	opts.SquareSize = 0
	if err := WriteSVG(io.Discard, board.NewPosition(), opts); err == nil {
		t.Error("expected error for zero square size")
	}
	if _, err := Image(board.NewPosition(), opts); err == nil {
		t.Error("expected error for zero square size")
	}
}

func TestGeometry(t *testing.T) {
	opts := DefaultOptions()
	if got := opts.Size(); got != 540 {
		t.Errorf("Size = %d, want 540", got)
	}

	x, y := opts.origin(board.A8)
	if x != 30 || y != 30 {
		t.Errorf("origin(a8) = %d,%d", x, y)
	}
	x, y = opts.origin(board.H1)
	if x != 450 || y != 450 {
		t.Errorf("origin(h1) = %d,%d", x, y)
	}

	opts.Flip = true
	x, y = opts.origin(board.H1)
	if x != 30 || y != 30 {
		t.Errorf("flipped origin(h1) = %d,%d", x, y)
	}
	if c := opts.coordinates()[0]; c.text != "h" {
		t.Errorf("flipped first file label = %q", c.text)
	}

	opts.Coordinates = false
	if got := opts.Size(); got != 480 {
		t.Errorf("Size without coordinates = %d, want 480", got)
	}
	if len(opts.coordinates()) != 0 {
		t.Error("coordinates drawn with Coordinates off")
	}
}

func TestWritePNG(t *testing.T) {
	opts := DefaultOptions()
	opts.SquareSize = 40

	var buf bytes.Buffer
	if err := WritePNG(&buf, board.NewPosition(), opts); err != nil {
		t.Fatal(err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != opts.Size() || b.Dy() != opts.Size() {
		t.Fatalf("image is %v, want %dx%d", b, opts.Size(), opts.Size())
	}

	near := func(a uint32, b uint8) bool {
		d := int(a>>8) - int(b)
		return d > -12 && d < 12
	}
	check := func(sq board.Square, want string) {
		t.Helper()
		cx, cy := opts.centre(sq)
		r, g, b, _ := img.At(cx, cy).RGBA()
		c := parseColour(want)
		if !near(r, c.R) || !near(g, c.G) || !near(b, c.B) {
			t.Errorf("%v centre is %02x%02x%02x, want %s", sq, r>>8, g>>8, b>>8, want)
		}
	}
	check(board.E4, opts.Light)
	check(board.D4, opts.Dark)

	r, g, b, _ := img.At(2, 2).RGBA()
	if c := parseColour(opts.Border); !near(r, c.R) || !near(g, c.G) || !near(b, c.B) {
		t.Errorf("border pixel is %02x%02x%02x", r>>8, g>>8, b>>8)
	}
}

func TestParseColour(t *testing.T) {
	if c := parseColour("#f0d9b5"); c.R != 0xf0 || c.G != 0xd9 || c.B != 0xb5 || c.A != 0xff {
		t.Errorf("parseColour = %v", c)
	}
	if c := parseColour("bogus"); c.R != 0 || c.A != 0xff {
		t.Errorf("parseColour(bogus) = %v", c)
	}
}
