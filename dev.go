package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/howeyc/fsnotify"
	"github.com/rivo/tview"

	"github.com/nf/icab/arcade"
	"github.com/nf/icab/intvm"
)

// devMode watches progFile and (re)plays it whenever it changes,
// showing the board, game state, and log output in a tview UI.
func devMode(progFile string) error {
	progFile = filepath.Clean(progFile)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Watch(filepath.Dir(progFile)); err != nil {
		return err
	}

	view := newDevView()
	log.SetPrefix("")
	log.SetOutput(view.log)
	defer func() {
		log.SetOutput(os.Stderr)
		log.SetPrefix("icab: ")
	}()

	game := &gameLoop{view: view}
	view.restart = game.Restart

	go func() {
		run := time.After(1 * time.Millisecond)
		for {
			select {
			case <-run:
				log.Printf("dev: load %s", filepath.Base(progFile))
				prog, err := intvm.LoadFile(progFile)
				if err != nil {
					log.Printf("dev: %v", err)
					break
				}
				game.Swap(prog)
			case ev := <-watcher.Event:
				if ev.Name == progFile && !ev.IsAttrib() {
					run = time.After(100 * time.Millisecond)
				}
			case err := <-watcher.Error:
				log.Printf("dev: watcher: %v", err)
			}
		}
	}()
	return view.Run()
}

// gameLoop plays one program at a time. There is no way to stop a
// running Machine, so an abandoned game's goroutine runs on until its
// program ends; the generation check discards its frames.
type gameLoop struct {
	view *devView

	mu   sync.Mutex
	gen  int
	prog []int64
}

// Swap abandons any running game and starts playing prog.
func (g *gameLoop) Swap(prog []int64) {
	g.mu.Lock()
	g.gen++
	gen := g.gen
	g.prog = prog
	g.mu.Unlock()

	w := arcade.NewWorld(intvm.NewMachine(prog))
	go func() {
		var last time.Time
		err := w.Play(func(w *arcade.World) {
			if !g.current(gen) {
				return
			}
			// The machine can produce frames far faster than the
			// terminal can draw them.
			if time.Since(last) < time.Second/30 && w.Blocks() > 0 {
				return
			}
			last = time.Now()
			g.view.ShowState(w)
		})
		if !g.current(gen) {
			return
		}
		g.view.ShowState(w)
		if err != nil {
			log.Printf("dev: game: %v", err)
			return
		}
		log.Printf("dev: game over: score %d, %d blocks left", w.Score(), w.Blocks())
	}()
}

// Restart replays the most recently loaded program.
func (g *gameLoop) Restart() {
	g.mu.Lock()
	prog := g.prog
	g.mu.Unlock()
	if prog == nil {
		log.Print("dev: no program loaded yet")
		return
	}
	log.Print("dev: restart")
	g.Swap(prog)
}

func (g *gameLoop) current(gen int) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.gen == gen
}

type devView struct {
	log   *tview.TextView
	board *tview.TextView
	state *tview.TextView
	input *tview.InputField
	cols  *tview.Flex
	rows  *tview.Flex
	app   *tview.Application

	restart func()
}

func newDevView() *devView {
	d := &devView{
		log: tview.NewTextView().
			SetMaxLines(1000),
		board: tview.NewTextView().
			SetWrap(false),
		state: tview.NewTextView().
			SetWrap(false),
		input: tview.NewInputField(),
		cols:  tview.NewFlex(),
		rows: tview.NewFlex().
			SetDirection(tview.FlexRow),
		app: tview.NewApplication(),
	}
	d.log.SetChangedFunc(func() { d.app.Draw() })
	d.board.SetBackgroundColor(tcell.ColorDarkBlue)
	d.state.SetBackgroundColor(tcell.ColorDarkGrey)
	d.cols.
		AddItem(d.board, 0, 1, false).
		AddItem(d.log, 0, 1, false)
	d.rows.
		AddItem(d.cols, 0, 1, false).
		AddItem(d.state, 1, 0, false).
		AddItem(d.input, 1, 0, true)
	d.app.SetRoot(d.rows, true)

	d.input.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		cmd := d.input.GetText()
		d.input.SetText("")
		switch cmd {
		case "":
		case "exit", "q":
			d.app.Stop()
		case "restart", "r":
			if d.restart != nil {
				d.restart()
			}
		default:
			log.Printf("unknown command %q", cmd)
		}
	})
	return d
}

func (d *devView) Run() error { return d.app.Run() }

// ShowState renders the world into the board and state panels.
func (d *devView) ShowState(w *arcade.World) {
	var b strings.Builder
	if err := w.Render(&b); err != nil {
		return
	}
	var (
		board = b.String()
		state = fmt.Sprintf("score %d  blocks %d  paddle %d  ball %d",
			w.Score(), w.Blocks(), w.PaddleX(), w.BallX())
	)
	d.app.QueueUpdateDraw(func() {
		d.board.SetText(board)
		d.state.SetText(state)
	})
}
