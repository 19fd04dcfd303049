package core_test

import (
	"strings"
	"testing"

	"jukebox/core"
	"jukebox/host/sim"
	"jukebox/protocol"
)

func newUSART(t *testing.T) (*sim.Platform, *core.USART) {
	t.Helper()
	p := sim.New()
	u, err := core.NewUSART(0, p.USART)
	if err != nil {
		t.Fatalf("NewUSART failed: %v", err)
	}
	return p, u
}

func TestUSARTReceive(t *testing.T) {
	p, u := newUSART(t)
	u.EnableRxInterrupt()

	p.USART.SendLine("info")
	stepFire(p, 4, u.Fire)
	if u.DataReceived() {
		t.Fatal("Line must not be visible before its terminator")
	}

	stepFire(p, 1, u.Fire)
	if !u.DataReceived() {
		t.Fatal("Expected a received line")
	}
	if u.State() != core.USARTWaitData {
		t.Errorf("Receive is a self-loop, got state %d", u.State())
	}
	if got := string(u.InputData()); got != "info" {
		t.Errorf("Expected 'info', got %q", got)
	}
	if !u.Active() {
		t.Error("Unconsumed input must report activity")
	}
	if p.USART.BytesReceived() {
		t.Error("Port receive state must be cleared after collection")
	}

	u.ResetInputData()
	if u.DataReceived() || u.Active() {
		t.Error("Expected idle channel after consuming input")
	}
	if len(u.InputData()) != 0 {
		t.Errorf("Expected empty input, got %q", u.InputData())
	}
}

func TestUSARTReceiveDisabled(t *testing.T) {
	p, u := newUSART(t)

	p.USART.SendLine("play")
	stepFire(p, 10, u.Fire)
	if u.DataReceived() {
		t.Error("Nothing may be received with the receive interrupt disabled")
	}
}

func TestUSARTTransmit(t *testing.T) {
	p, u := newUSART(t)

	u.SetOutputData([]byte("Playing: tetris\n"))
	if !u.OutputPending() {
		t.Fatal("Expected pending output")
	}

	u.Fire()
	if u.State() != core.USARTSendData {
		t.Fatalf("Expected SendData, got %d", u.State())
	}
	if !u.Active() {
		t.Error("Transmitting channel must report activity")
	}

	stepFire(p, 40, u.Fire)
	if u.State() != core.USARTWaitData {
		t.Fatalf("Expected WaitData after transmission, got %d", u.State())
	}
	if got := p.USART.Output(); got != "Playing: tetris\n" {
		t.Errorf("Expected transmitted line, got %q", got)
	}
	if u.OutputPending() {
		t.Error("Output buffer must be cleared after transmission")
	}
	if u.Active() {
		t.Error("Expected idle channel")
	}
}

func TestUSARTSetOutputDataTruncates(t *testing.T) {
	p, u := newUSART(t)

	long := strings.Repeat("x", 150) + "\n"
	u.SetOutputData([]byte(long))
	u.Fire()
	stepFire(p, 200, u.Fire)

	got := p.USART.Output()
	if len(got) != protocol.OutputBufferLength {
		t.Fatalf("Expected %d bytes, got %d", protocol.OutputBufferLength, len(got))
	}
	if got[len(got)-1] != protocol.EndChar {
		t.Error("Truncated line must end with the terminator")
	}
}
