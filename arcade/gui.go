package arcade

import (
	"image"
	"image/color"
	"image/draw"
	"log"
	"sync"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"
)

// guiCell is the square pixel size of one tile in the board image.
const guiCell = 8

var guiPalette = map[Tile]color.RGBA{
	Empty:  {0x00, 0x00, 0x00, 0xff},
	Wall:   {0x70, 0x70, 0x70, 0xff},
	Block:  {0xd0, 0x80, 0x20, 0xff},
	Paddle: {0x20, 0xa0, 0xd0, 0xff},
	Ball:   {0xf0, 0xf0, 0xf0, 0xff},
}

var guiUnknown = color.RGBA{0xd0, 0x20, 0x80, 0xff}

// GUI displays a World in a pixel window. The game loop produces
// frames by passing Frame to World.Play; Run drives the window on the
// main goroutine and redraws at up to 60fps.
type GUI struct {
	mu    sync.Mutex
	board *image.RGBA
	dirty bool
}

func NewGUI() *GUI { return &GUI{} }

// Frame snapshots the world's tile grid into the board image. It is
// the frame callback to pass to World.Play.
func (g *GUI) Frame(w *World) {
	min, max, ok := w.Bounds()
	if !ok {
		return
	}
	r := image.Rect(0, 0, int(max.X-min.X+1)*guiCell, int(max.Y-min.Y+1)*guiCell)

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.board == nil || g.board.Bounds() != r {
		g.board = image.NewRGBA(r)
	}
	for y := min.Y; y <= max.Y; y++ {
		for x := min.X; x <= max.X; x++ {
			c, ok := guiPalette[w.At(x, y)]
			if !ok {
				c = guiUnknown
			}
			cell := image.Rect(
				int(x-min.X)*guiCell, int(y-min.Y)*guiCell,
				int(x-min.X+1)*guiCell, int(y-min.Y+1)*guiCell)
			draw.Draw(g.board, cell, &image.Uniform{c}, image.Point{}, draw.Src)
		}
	}
	g.dirty = true
}

// Run opens the window and drives it until exit is closed, the window
// is closed, or the user presses Escape or Q. It must run on the
// program's main goroutine.
func (g *GUI) Run(exit <-chan bool) error {
	driver.Main(func(s screen.Screen) {
		w, err := s.NewWindow(&screen.NewWindowOptions{Title: "icab"})
		if err != nil {
			log.Fatalf("gui: %v", err)
		}
		defer w.Release()

		type update struct{}
		go func() {
			t := time.NewTicker(time.Second / 60)
			defer t.Stop()
			for {
				select {
				case <-t.C:
					w.Send(update{})
				case <-exit:
					w.Send(update{})
					return
				}
			}
		}()

		var (
			sz  size.Event
			buf screen.Buffer
		)
		defer func() {
			if buf != nil {
				buf.Release()
			}
		}()
		for {
			e := w.NextEvent()

			select {
			case <-exit:
				return
			default:
			}

			switch e := e.(type) {
			case lifecycle.Event:
				if e.To == lifecycle.StageDead {
					return
				}

			case key.Event:
				if e.Direction == key.DirPress &&
					(e.Code == key.CodeEscape || e.Code == key.CodeQ) {
					return
				}

			case size.Event:
				sz = e
				if sz.WidthPx+sz.HeightPx == 0 {
					return
				}

			case paint.Event:

			case update:
				g.mu.Lock()
				if g.board == nil || !g.dirty || sz.WidthPx == 0 || sz.HeightPx == 0 {
					g.mu.Unlock()
					break
				}
				if buf == nil || buf.Size() != sz.Size() {
					if buf != nil {
						buf.Release()
					}
					buf, err = s.NewBuffer(sz.Size())
					if err != nil {
						g.mu.Unlock()
						log.Fatalf("gui: buffer: %v", err)
					}
				}
				xdraw.NearestNeighbor.Scale(
					buf.RGBA(), buf.RGBA().Bounds(),
					g.board, g.board.Bounds(), xdraw.Src, nil)
				g.dirty = false
				g.mu.Unlock()
				w.Upload(image.Point{}, buf, buf.Bounds())
				w.Publish()

			case error:
				log.Print(e)
			}
		}
	})
	return nil
}
