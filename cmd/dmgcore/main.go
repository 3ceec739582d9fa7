package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli"

	"github.com/halvard/dmgcore"
	"github.com/halvard/dmgcore/debug"
	"github.com/halvard/dmgcore/input"
	"github.com/halvard/dmgcore/render"
	"github.com/halvard/dmgcore/video"
)

// frameTime paces the interactive loop to the DMG's ~59.7 FPS refresh.
const frameTime = time.Second / 60

func main() {
	app := cli.NewApp()
	app.Name = "dmgcore"
	app.Description = "A Game Boy (DMG) emulator core"
	app.Usage = "dmgcore [options] <ROM file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "debug",
			Usage: "Debug mode: NONE|INSTRUCTIONS|REGISTERS|HEADER|TITLE|MEMORY|ALL",
			Value: "NONE",
		},
		cli.Int64Flag{
			Name:  "max-cycles",
			Usage: "Stop after this many cycles (negative means unbounded)",
			Value: -1,
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Run without the terminal display",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		slog.Error("dmgcore: exiting", "error", err)
		os.Exit(1)
	}
}

type debugMode struct {
	header bool
	title  bool
	memory bool
	flags  dmgcore.DebugFlags
}

func parseDebugMode(value string) (debugMode, error) {
	var m debugMode
	switch strings.ToUpper(value) {
	case "NONE", "":
	case "INSTRUCTIONS":
		m.flags.Instructions = true
	case "REGISTERS":
		m.flags.Registers = true
	case "HEADER":
		m.header = true
	case "TITLE":
		m.title = true
	case "MEMORY":
		m.memory = true
	case "ALL":
		m.flags = dmgcore.DebugFlags{Instructions: true, Registers: true}
		m.header, m.title, m.memory = true, true, true
	default:
		return m, fmt.Errorf("unknown --debug value %q", value)
	}
	return m, nil
}

func run(c *cli.Context) error {
	romPath := c.Args().First()
	if romPath == "" {
		cli.ShowAppHelp(c)
		return errors.New("no ROM path provided")
	}

	mode, err := parseDebugMode(c.String("debug"))
	if err != nil {
		return err
	}
	if mode.flags.Instructions || mode.flags.Registers {
		// The orchestrator logs these at Debug, below slog's default level.
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	headless := c.Bool("headless")

	var display video.Display = video.NullDisplay{}
	var term *render.TerminalDisplay
	if !headless {
		term, err = render.NewTerminalDisplay()
		if err != nil {
			return err
		}
		defer term.Close()
		display = term
	}

	emu, err := dmgcore.NewWithFile(romPath, display, mode.flags)
	if err != nil {
		return err
	}

	if mode.header {
		fmt.Println(debug.FormatHeader(emu.Cartridge()))
	}
	if mode.title {
		fmt.Println(debug.FormatTitle(emu.Cartridge()))
	}

	maxCycles := c.Int64("max-cycles")

	runErr := func() error {
		if headless {
			return runHeadless(emu, maxCycles)
		}
		return runInteractive(emu, term, maxCycles)
	}()

	if runErr != nil {
		var fatal *dmgcore.FatalError
		if errors.As(runErr, &fatal) && mode.memory {
			const dumpRadius = 32
			start := fatal.PC
			if start > dumpRadius {
				start -= dumpRadius
			} else {
				start = 0
			}
			fmt.Println(debug.FormatMemory(start, 2*dumpRadius, emu.Bus()))
		}
		return runErr
	}

	return nil
}

func runHeadless(emu *dmgcore.Emulator, maxCycles int64) error {
	for maxCycles < 0 || int64(emu.CycleCount()) < maxCycles {
		if err := emu.RunUntilFrame(); err != nil {
			return err
		}
	}
	slog.Info("headless run completed", "frames", emu.FrameCount(), "cycles", emu.CycleCount())
	return nil
}

func runInteractive(emu *dmgcore.Emulator, term *render.TerminalDisplay, maxCycles int64) error {
	manager := input.NewManager(emu)
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		render.PumpInput(term, manager, stop)
		close(done)
	}()

	ticker := time.NewTicker(frameTime)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return nil
		case <-ticker.C:
			if maxCycles >= 0 && int64(emu.CycleCount()) >= maxCycles {
				close(stop)
				return nil
			}
			if err := emu.RunUntilFrame(); err != nil {
				close(stop)
				return err
			}
		}
	}
}
