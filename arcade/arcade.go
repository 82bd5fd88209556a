// Package arcade implements the tile-based cabinet game driven by an
// intvm Machine: it decodes the machine's output stream into a sparse
// tile grid and score, and plays the game with a paddle autopilot.
package arcade

import (
	"fmt"
	"log"

	"github.com/nf/icab/intvm"
)

// Tile is the code a cabinet program assigns to a board coordinate.
// Codes outside the known range are stored verbatim and rendered with
// the unknown glyph.
type Tile int64

const (
	Empty Tile = iota
	Wall
	Block
	Paddle
	Ball
)

// Point is a tile coordinate.
type Point struct {
	X, Y int64
}

// Glyphs configures how tiles are rendered as text.
type Glyphs struct {
	Known   [5]rune // indexed by the known Tile codes
	Unknown rune
}

// DefaultGlyphs is the standard cabinet glyph set.
var DefaultGlyphs = Glyphs{
	Known:   [5]rune{' ', '#', 'x', '-', 'o'},
	Unknown: '?',
}

// For returns the glyph for t.
func (g Glyphs) For(t Tile) rune {
	if t >= 0 && int(t) < len(g.Known) {
		return g.Known[t]
	}
	return g.Unknown
}

// FreePlay is the value poked into memory cell 0 to switch a cabinet
// program into its interactive variant.
const FreePlay = 2

// World owns a single Machine and interprets its output stream as tile
// and score updates. Neither the Machine nor the tile grid is shared;
// a World drives exactly one Machine and is discarded afterward.
type World struct {
	Glyphs Glyphs

	m       *intvm.Machine
	tiles   map[Point]Tile
	pending []int64 // carried partial output triple
	score   int64
	paddleX int64
	ballX   int64
}

// NewWorld returns a World that owns m.
func NewWorld(m *intvm.Machine) *World {
	return &World{
		Glyphs: DefaultGlyphs,
		m:      m,
		tiles:  make(map[Point]Tile),
	}
}

// Score returns the most recently reported score.
func (w *World) Score() int64 { return w.score }

// PaddleX returns the most recently observed paddle column.
func (w *World) PaddleX() int64 { return w.paddleX }

// BallX returns the most recently observed ball column.
func (w *World) BallX() int64 { return w.ballX }

// At returns the tile at (x, y); coordinates never reported by the
// machine are Empty.
func (w *World) At(x, y int64) Tile { return w.tiles[Point{x, y}] }

// Blocks reports the number of breakable blocks remaining.
func (w *World) Blocks() int {
	n := 0
	for _, t := range w.tiles {
		if t == Block {
			n++
		}
	}
	return n
}

// Bounds returns the bounding rectangle of all known tiles and reports
// whether any tiles are known at all.
func (w *World) Bounds() (min, max Point, ok bool) {
	for p := range w.tiles {
		if !ok {
			min, max, ok = p, p, true
			continue
		}
		if p.X < min.X {
			min.X = p.X
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
	}
	return min, max, ok
}

// apply decodes machine output produced since the last cycle. Outputs
// arrive as triples (x, y, value) in emission order; (-1, 0, v) is a
// score update, anything else a tile write. A trailing partial triple
// is carried until more output arrives, and no triple is decoded twice.
func (w *World) apply(out []int64) {
	w.pending = append(w.pending, out...)
	i := 0
	for ; i+3 <= len(w.pending); i += 3 {
		x, y, v := w.pending[i], w.pending[i+1], w.pending[i+2]
		if x == -1 && y == 0 {
			w.score = v
			continue
		}
		t := Tile(v)
		w.tiles[Point{x, y}] = t
		switch t {
		case Paddle:
			w.paddleX = x
		case Ball:
			w.ballX = x
		}
	}
	w.pending = append(w.pending[:0], w.pending[i:]...)
}

// joystick returns the next control input: the sign of the ball's
// horizontal offset from the paddle. A greedy one-step tracker with no
// lookahead; it relies on the game moving the ball at most one column
// per frame.
func (w *World) joystick() int64 {
	switch {
	case w.ballX < w.paddleX:
		return -1
	case w.ballX > w.paddleX:
		return 1
	}
	return 0
}

// Survey runs the machine once, without supplying input, and decodes
// whatever it produced. Used to obtain the initial board layout.
func (w *World) Survey() error {
	if err := w.m.Run(); err != nil {
		return err
	}
	w.apply(w.m.Drain())
	if s := w.m.Status(); s.Kind == intvm.InvalidOpcode {
		return fmt.Errorf("machine: %v", s)
	}
	return nil
}

// Play switches the program into its interactive variant and drives
// the game until no breakable blocks remain or the machine finishes on
// its own (informational, not an error). frame, if non-nil, is invoked
// after each decode cycle so a display can observe the board; it must
// not retain w past the call.
func (w *World) Play(frame func(*World)) error {
	w.m.Mem[0] = FreePlay
	for {
		if err := w.m.Run(); err != nil {
			return err
		}
		w.apply(w.m.Drain())
		if frame != nil {
			frame(w)
		}
		if w.Blocks() == 0 {
			return nil
		}
		switch s := w.m.Status(); s.Kind {
		case intvm.Finished:
			log.Printf("machine finished with %d blocks left", w.Blocks())
			return nil
		case intvm.InvalidOpcode:
			return fmt.Errorf("machine: %v", s)
		}
		w.m.AddInput(w.joystick())
	}
}
