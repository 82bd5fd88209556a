package arcade

import (
	"fmt"
	"io"
	"strings"
)

// Render writes the known tile grid, row-major over its bounding
// rectangle, followed by the score. It is a read-only projection of
// the world. An empty tile map is an error: the bounds are undefined.
func (w *World) Render(out io.Writer) error {
	min, max, ok := w.Bounds()
	if !ok {
		return fmt.Errorf("render: no tiles")
	}
	var b strings.Builder
	for y := min.Y; y <= max.Y; y++ {
		for x := min.X; x <= max.X; x++ {
			b.WriteRune(w.Glyphs.For(w.At(x, y)))
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "Score: %d\n", w.score)
	_, err := io.WriteString(out, b.String())
	return err
}
