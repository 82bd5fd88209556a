package arcade

import (
	"strings"
	"testing"

	"github.com/nf/icab/intvm"
)

func TestApplyGrouping(t *testing.T) {
	w := NewWorld(nil)

	// A partial triple is carried, not decoded.
	w.apply([]int64{5, 3})
	if _, _, ok := w.Bounds(); ok {
		t.Fatal("partial triple produced a tile")
	}

	// Completing it decodes the carried triple first, then the
	// score triple, and carries the new partial group.
	w.apply([]int64{2, -1, 0, 1234, 1, 0})
	if got := w.At(5, 3); got != Block {
		t.Errorf("tile (5,3) = %v, want %v", got, Block)
	}
	if got := w.Score(); got != 1234 {
		t.Errorf("score = %d, want 1234", got)
	}
	if _, ok := w.tiles[Point{-1, 0}]; ok {
		t.Error("score triple was stored as a tile")
	}
	if got := w.Blocks(); got != 1 {
		t.Errorf("blocks = %d, want 1", got)
	}

	// Completing the second carried triple sets the ball, and the
	// already-decoded groups are not reprocessed.
	w.apply([]int64{4})
	if got := w.BallX(); got != 1 {
		t.Errorf("ball x = %d, want 1", got)
	}
	if got := w.At(1, 0); got != Ball {
		t.Errorf("tile (1,0) = %v, want %v", got, Ball)
	}
	if got := w.Score(); got != 1234 {
		t.Errorf("score = %d after reapply, want 1234", got)
	}
}

func TestApplyTracking(t *testing.T) {
	w := NewWorld(nil)
	w.apply([]int64{
		7, 2, int64(Paddle),
		4, 1, int64(Ball),
		9, 2, int64(Paddle), // paddle moved
	})
	if got := w.PaddleX(); got != 9 {
		t.Errorf("paddle x = %d, want 9", got)
	}
	if got := w.BallX(); got != 4 {
		t.Errorf("ball x = %d, want 4", got)
	}
}

func TestJoystick(t *testing.T) {
	for _, c := range []struct {
		ball, paddle, want int64
	}{
		{10, 12, -1},
		{7, 7, 0},
		{15, 9, 1},
	} {
		w := NewWorld(nil)
		w.ballX, w.paddleX = c.ball, c.paddle
		if got := w.joystick(); got != c.want {
			t.Errorf("joystick with ball %d, paddle %d = %d, want %d",
				c.ball, c.paddle, got, c.want)
		}
	}
}

func TestRender(t *testing.T) {
	w := NewWorld(nil)
	w.apply([]int64{
		0, 0, int64(Wall),
		2, 0, int64(Block),
		1, 1, int64(Paddle),
		2, 1, int64(Ball),
		0, 1, 9, // unrecognized code, rendered as unknown
		-1, 0, 42,
	})
	var b strings.Builder
	if err := w.Render(&b); err != nil {
		t.Fatal(err)
	}
	want := "# x\n?-o\nScore: 42\n"
	if got := b.String(); got != want {
		t.Errorf("Render wrote %q, want %q", got, want)
	}
}

func TestRenderEmpty(t *testing.T) {
	w := NewWorld(nil)
	if err := w.Render(&strings.Builder{}); err == nil {
		t.Error("Render of empty world returned nil error")
	}
}

func TestSurvey(t *testing.T) {
	prog := []int64{
		104, 0, 104, 0, 104, 1, // wall at (0,0)
		104, 1, 104, 0, 104, 2, // block at (1,0)
		104, 2, 104, 0, 104, 2, // block at (2,0)
		104, 1, 104, 1, 104, 4, // ball at (1,1)
		99,
	}
	w := NewWorld(intvm.NewMachine(prog))
	if err := w.Survey(); err != nil {
		t.Fatal(err)
	}
	if got := w.Blocks(); got != 2 {
		t.Errorf("blocks = %d, want 2", got)
	}
	if got := w.At(0, 0); got != Wall {
		t.Errorf("tile (0,0) = %v, want %v", got, Wall)
	}
	if got := w.BallX(); got != 1 {
		t.Errorf("ball x = %d, want 1", got)
	}
}

// playProg is a hand-assembled cabinet program: it draws one block,
// the ball, and the paddle, waits for a joystick input (stored at cell
// 101), then reports a score of 42 and clears the block. Cell 0 holds
// opcode 2 so the free-play poke leaves the program intact, and the
// product written to cell 100 records that the poke happened.
var playProg = []int64{
	2, 0, 0, 100,
	104, 0, 104, 0, 104, 2, // block at (0,0)
	104, 1, 104, 1, 104, 4, // ball at (1,1)
	104, 2, 104, 2, 104, 3, // paddle at (2,2)
	3, 101,
	104, -1, 104, 0, 104, 42, // score 42
	104, 0, 104, 0, 104, 0, // clear the block
	99,
}

func TestPlay(t *testing.T) {
	m := intvm.NewMachine(playProg)
	w := NewWorld(m)

	frames := 0
	if err := w.Play(func(w *World) { frames++ }); err != nil {
		t.Fatal(err)
	}
	if got := w.Score(); got != 42 {
		t.Errorf("score = %d, want 42", got)
	}
	if got := w.Blocks(); got != 0 {
		t.Errorf("blocks = %d, want 0", got)
	}
	if frames < 2 {
		t.Errorf("frame callback ran %d times, want at least 2", frames)
	}
	// The free-play poke reached the program: 2 * 2 = 4.
	if got := m.Mem[100]; got != 4 {
		t.Errorf("Mem[100] = %d, want 4", got)
	}
	// Ball at x=1, paddle at x=2: the autopilot steered left.
	if got := m.Mem[101]; got != -1 {
		t.Errorf("Mem[101] = %d, want -1", got)
	}
}

func TestPlayMachineFinished(t *testing.T) {
	// The machine halts while a block remains: informational, not an
	// error.
	prog := []int64{
		2, 0, 0, 50,
		104, 0, 104, 0, 104, 2,
		99,
	}
	w := NewWorld(intvm.NewMachine(prog))
	if err := w.Play(nil); err != nil {
		t.Fatal(err)
	}
	if got := w.Blocks(); got != 1 {
		t.Errorf("blocks = %d, want 1", got)
	}
}

func TestPlayInvalidOpcode(t *testing.T) {
	prog := []int64{2, 0, 0, 50, 77}
	w := NewWorld(intvm.NewMachine(prog))
	if err := w.Play(nil); err == nil {
		t.Error("Play returned nil error for an invalid opcode")
	}
}

func TestGlyphs(t *testing.T) {
	for _, c := range []struct {
		tile Tile
		want rune
	}{
		{Empty, ' '},
		{Wall, '#'},
		{Block, 'x'},
		{Paddle, '-'},
		{Ball, 'o'},
		{Tile(9), '?'},
		{Tile(-1), '?'},
	} {
		if got := DefaultGlyphs.For(c.tile); got != c.want {
			t.Errorf("glyph for tile %d = %q, want %q", int64(c.tile), got, c.want)
		}
	}
}
