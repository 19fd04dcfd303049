package main

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"jukebox/config"
	"jukebox/core"
	"jukebox/host/sim"
)

func newTestBoard() (*board, *[]time.Duration, *[]func()) {
	var delays []time.Duration
	var pending []func()
	b := newBoard(sim.New(), "play\nstop\n", &bytes.Buffer{})
	b.after = func(d time.Duration, f func()) {
		delays = append(delays, d)
		pending = append(pending, f)
	}
	return b, &delays, &pending
}

func TestBoardCommandLine(t *testing.T) {
	b, _, _ := newTestBoard()

	if err := b.handle("select 2"); err != nil {
		t.Fatal(err)
	}
	if b.p.USART.Pending() != len("select 2\n") {
		t.Errorf("Expected the line queued for the jukebox, got %d bytes", b.p.USART.Pending())
	}
}

func TestBoardHold(t *testing.T) {
	b, delays, pending := newTestBoard()

	if err := b.handle("!hold 1200"); err != nil {
		t.Fatal(err)
	}
	if !b.p.Button.IsPressed() {
		t.Error("Expected the button pressed")
	}
	if len(*delays) != 1 || (*delays)[0] != 1200*time.Millisecond {
		t.Fatalf("Expected a 1200ms release, got %v", *delays)
	}
	(*pending)[0]()
	if b.p.Button.IsPressed() {
		t.Error("Expected the button released")
	}
}

func TestBoardKeys(t *testing.T) {
	b, _, pending := newTestBoard()

	if err := b.handle("!key 4"); err != nil {
		t.Fatal(err)
	}
	if !b.p.Keys[4].IsPressed() {
		t.Error("Expected key 4 pressed")
	}
	(*pending)[0]()
	if b.p.Keys[4].IsPressed() {
		t.Error("Expected key 4 released")
	}

	if err := b.handle("!up"); err != nil || !b.p.OctaveUp.IsPressed() {
		t.Errorf("Expected octave up pressed, err %v", err)
	}
}

func TestBoardErrors(t *testing.T) {
	b, _, _ := newTestBoard()

	tests := []struct {
		line string
		want error
	}{
		{"!", errUsage},
		{"!hold", errUsage},
		{"!hold abc", errUsage},
		{"!key 12", errUnknownKey},
		{"!key -1", errUnknownKey},
		{"!jump", errUsage},
	}
	for _, tt := range tests {
		if err := b.handle(tt.line); !errors.Is(err, tt.want) {
			t.Errorf("%q: expected %v, got %v", tt.line, tt.want, err)
		}
	}
}

func TestBoardHelp(t *testing.T) {
	var out bytes.Buffer
	b := newBoard(sim.New(), "play\ninfo\n", &out)

	if err := b.handle("!help"); err != nil {
		t.Fatal(err)
	}
	if out.String() != "play\ninfo\n" {
		t.Errorf("Expected the command list, got %q", out.String())
	}
	if b.p.USART.Pending() != 0 {
		t.Errorf("Expected nothing sent to the jukebox, got %d bytes", b.p.USART.Pending())
	}
}

func TestBoardDumpWhileRunning(t *testing.T) {
	cfg, err := config.Default().Core()
	if err != nil {
		t.Fatal(err)
	}
	b, _, _ := newTestBoard()
	s, err := core.NewScheduler(cfg, b.p.Hardware(false))
	if err != nil {
		t.Fatal(err)
	}

	var mu sync.Mutex
	var dumps int
	core.SetDebugWriter(func(line string) {
		mu.Lock()
		defer mu.Unlock()
		if strings.Contains(line, "Transition Ring Dump") {
			dumps++
		}
	})
	defer core.SetDebugWriter(func(string) {})

	done := make(chan struct{})
	go func() {
		defer close(done)
		b.p.Button.Press()
		b.p.Run(s, 1200)
		b.p.Button.Release()
		b.p.Run(s, 2000)
	}()

	for i := 0; i < 200; i++ {
		if err := b.handle("!dump"); err != nil {
			t.Fatal(err)
		}
	}
	<-done

	mu.Lock()
	defer mu.Unlock()
	if dumps != 200 {
		t.Errorf("Expected 200 dumps, got %d", dumps)
	}
	if len(core.Transitions()) == 0 {
		t.Error("Expected transitions recorded while running")
	}
}
