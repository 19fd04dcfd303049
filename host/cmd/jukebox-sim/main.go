package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"jukebox/config"
	"jukebox/core"
	"jukebox/host/logging"
	"jukebox/host/sim"
)

var (
	configPath = flag.String("config", "", "JSON or YAML configuration file")
	debug      = flag.Bool("debug", false, "Enable debug logging")
	trace      = flag.Bool("trace", false, "Log every state machine transition")
	logFile    = flag.String("log-file", "", "Also write JSON logs to this file")
	midiOut    = flag.String("midi", "", "Mirror the buzzer to the MIDI output whose name contains this")
	midiChan   = flag.Uint("midi-channel", 0, "MIDI channel for mirrored notes")
)

// logger is the package-wide structured logger.
var logger = slog.Default()

// noteLog prints every tone the buzzer starts.
type noteLog struct{}

func (noteLog) NoteOn(hz float64) { logger.Info("note", "hz", hz) }
func (noteLog) NoteOff()          { logger.Debug("note off") }

func main() {
	flag.Parse()

	var closer io.Closer
	var err error
	logger, closer, err = logging.Init(logging.Options{Debug: *debug, File: *logFile})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	cfg := config.Default()
	if *configPath != "" {
		if cfg, err = config.LoadFile(*configPath); err != nil {
			logger.Error("config load failed", "path", *configPath, "err", err)
			os.Exit(1)
		}
	}
	coreCfg, err := cfg.Core()
	if err != nil {
		logger.Error("invalid config", "err", err)
		os.Exit(1)
	}

	core.SetDebugWriter(func(s string) { logger.Debug(s) })
	core.SetDebugEnabled(*debug || *trace)
	core.SetTraceTransitions(*trace)

	p := sim.New()
	p.Buzzer.Observe(noteLog{})
	if *midiOut != "" {
		send, closeMIDI, err := openMIDI(*midiOut)
		if err != nil {
			logger.Error("midi output unavailable", "err", err)
			os.Exit(1)
		}
		defer closeMIDI()
		mirror := sim.NewMIDIMirror(send, uint8(*midiChan&0x0f))
		p.Buzzer.Observe(mirror)
		defer func() {
			mirror.NoteOff()
			if n := mirror.Errors(); n > 0 {
				logger.Warn("midi send errors", "count", n)
			}
		}()
	}

	s, err := core.NewScheduler(coreCfg, p.Hardware(true))
	if err != nil {
		logger.Error("firmware init failed", "err", err)
		os.Exit(1)
	}

	logger.Info("jukebox simulator started",
		"melodies", len(coreCfg.Melodies),
		"keyboard", coreCfg.ModeSwitchHoldMs > 0)
	fmt.Println("Hold the button with '!hold 1100' to switch the jukebox on, then type commands.")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The main loop sleeps in the low-power wait until the next millisecond.
	p.Power.SetBlocking(true)

	runDone := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		clock(p, runDone)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		printOutput(p, runDone)
	}()

	go readInput(newBoard(p, s.Jukebox.Commands().GetDictionary(), os.Stdout), stop)

	if err := s.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("main loop stopped", "err", err)
	}
	close(runDone)
	wg.Wait()

	core.DumpTransitions()
	logger.Info("jukebox simulator stopped", "ticks", p.Now(), "loops", s.Ticks())
}

// clock plays the tick interrupt: one simulated millisecond per real one.
func clock(p *sim.Platform, done <-chan struct{}) {
	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			p.Advance(1)
		}
	}
}

func printOutput(p *sim.Platform, done <-chan struct{}) {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			for {
				line, ok := p.USART.ReadLine()
				if !ok {
					break
				}
				fmt.Printf("< %s\n", line)
			}
		}
	}
}

func readInput(b *board, stop func()) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "!quit" {
			break
		}
		if err := b.handle(line); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
	stop()
}
