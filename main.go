// Command icab executes cabinet programs on a toy arcade Machine.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime/pprof"

	"github.com/nf/icab/arcade"
	"github.com/nf/icab/intvm"
)

func main() {
	log.SetPrefix("icab: ")
	log.SetFlags(0)

	var (
		layoutFlag = flag.Bool("layout", false, "survey the initial board, print it with the block count, and exit")
		cliFlag    = flag.Bool("cli", false, "disable the live display; dump the final board to stdout")
		guiFlag    = flag.Bool("gui", false, "show the board in a pixel window instead of the terminal")
		devFlag    = flag.Bool("dev", false, "enable developer mode (watch, reload, and re-play the program)")

		cpuProfileFlag = flag.String("cpu_profile", "", "write CPU profile to `file`")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-cli|-gui] [-layout] <program.ic>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "       %s -dev <program.ic>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
	}

	if *devFlag {
		if err := devMode(flag.Arg(0)); err != nil {
			log.Fatal(err)
		}
		return
	}

	var cpuProfile io.Closer
	if prof := *cpuProfileFlag; prof != "" {
		f, err := os.Create(prof)
		if err != nil {
			log.Fatalf("creating CPU profile file: %v", err)
		}
		pprof.StartCPUProfile(f)
		cpuProfile = f
	}

	err := run(flag.Arg(0), *layoutFlag, *cliFlag, *guiFlag)

	if f := cpuProfile; f != nil {
		pprof.StopCPUProfile()
		f.Close()
	}

	if err != nil {
		log.Fatal(err)
	}
}

func run(progFile string, layout, cli, gui bool) error {
	prog, err := intvm.LoadFile(progFile)
	if err != nil {
		return err
	}
	w := arcade.NewWorld(intvm.NewMachine(prog))

	if layout {
		if err := w.Survey(); err != nil {
			return err
		}
		fmt.Printf("Blocks: %d\n", w.Blocks())
		return w.Render(os.Stdout)
	}

	switch {
	case gui:
		return playGUI(w)
	case cli:
		if err := w.Play(nil); err != nil {
			return err
		}
		return w.Render(os.Stdout)
	default:
		done, err := playTUI(w)
		if err != nil {
			return err
		}
		if !done {
			// Abandoned mid-game; the play goroutine still owns the
			// world, so there is nothing safe to print.
			return nil
		}
		return w.Render(os.Stdout)
	}
}

func playGUI(w *arcade.World) error {
	var (
		g       = arcade.NewGUI()
		exit    = make(chan bool)
		playErr error
	)
	go func() {
		playErr = w.Play(g.Frame)
		close(exit)
	}()
	if err := g.Run(exit); err != nil {
		return err
	}
	select {
	case <-exit:
		if playErr != nil {
			return playErr
		}
		return w.Render(os.Stdout)
	default:
		// Window closed before the game ended.
		return nil
	}
}
