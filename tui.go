package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/nf/icab/arcade"
)

var tileStyles = map[arcade.Tile]tcell.Style{
	arcade.Empty:  tcell.StyleDefault,
	arcade.Wall:   tcell.StyleDefault.Foreground(tcell.ColorGray),
	arcade.Block:  tcell.StyleDefault.Foreground(tcell.ColorOrange),
	arcade.Paddle: tcell.StyleDefault.Foreground(tcell.ColorTeal),
	arcade.Ball:   tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true),
}

// playTUI plays the game with a live terminal display. The game loop
// runs in its own goroutine and draws after every frame; Escape, q, or
// Ctrl-C abandons the game. done reports whether the game ran to its
// end (win or machine finish) rather than being abandoned.
func playTUI(w *arcade.World) (done bool, err error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return false, err
	}
	if err := s.Init(); err != nil {
		return false, err
	}
	defer s.Fini()
	s.Clear()

	var (
		over    = make(chan bool)
		playErr error
	)
	go func() {
		playErr = w.Play(func(w *arcade.World) {
			drawWorld(s, w)
		})
		close(over)
		s.PostEvent(tcell.NewEventInterrupt(nil))
	}()

	for {
		switch ev := s.PollEvent().(type) {
		case *tcell.EventResize:
			s.Sync()
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
				return false, nil
			}
		case *tcell.EventInterrupt:
			select {
			case <-over:
				return true, playErr
			default:
			}
		}
	}
}

// drawWorld paints the tile grid and a status line. It is called from
// the game goroutine; tcell screens are safe for concurrent use.
func drawWorld(s tcell.Screen, w *arcade.World) {
	min, max, ok := w.Bounds()
	if !ok {
		return
	}
	for y := min.Y; y <= max.Y; y++ {
		for x := min.X; x <= max.X; x++ {
			t := w.At(x, y)
			style, ok := tileStyles[t]
			if !ok {
				style = tcell.StyleDefault.Foreground(tcell.ColorFuchsia)
			}
			s.SetContent(int(x-min.X), int(y-min.Y), w.Glyphs.For(t), nil, style)
		}
	}
	status := fmt.Sprintf("Score: %d  Blocks: %d  (q to quit) ", w.Score(), w.Blocks())
	for i, r := range status {
		s.SetContent(i, int(max.Y-min.Y)+1, r, nil, tcell.StyleDefault)
	}
	s.Show()
}
