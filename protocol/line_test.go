package protocol

import (
	"bytes"
	"testing"
)

type wireRecorder struct {
	bytes.Buffer
}

func feed(p *LinePort, s string) {
	for i := 0; i < len(s); i++ {
		p.StoreByte(s[i])
	}
}

func drain(p *LinePort) {
	for p.TxEnabled() && !p.TransmitComplete() {
		p.TxEmpty()
	}
}

func TestLinePortReceive(t *testing.T) {
	p := NewLinePort(&wireRecorder{})

	feed(p, "play\n")
	if p.BytesReceived() {
		t.Fatal("Bytes must be dropped while the receive interrupt is disabled")
	}
	if p.Overruns() != 5 {
		t.Errorf("Expected 5 overruns, got %d", p.Overruns())
	}

	p.EnableRxInterrupt()
	feed(p, "play")
	if p.BytesReceived() {
		t.Fatal("Line must not be published before the terminator")
	}
	feed(p, "\n")
	if !p.BytesReceived() {
		t.Fatal("Expected a received line")
	}

	var dst [InputBufferLength]byte
	p.CopyReceivedLine(dst[:])
	if got := string(bytes.TrimRight(dst[:], "\x00")); got != "play" {
		t.Errorf("Expected 'play', got %q", got)
	}

	// Held until collected.
	feed(p, "x")
	p.CopyReceivedLine(dst[:])
	if dst[0] != 'p' {
		t.Errorf("Pending line was overwritten: %q", dst[:])
	}

	p.ClearReceiveState()
	if p.BytesReceived() {
		t.Error("Expected receive state cleared")
	}
	p.CopyReceivedLine(dst[:])
	if dst[0] != EmptyByte {
		t.Errorf("Expected empty buffer after clear, got %q", dst[:])
	}
}

func TestLinePortReceiveWraps(t *testing.T) {
	p := NewLinePort(&wireRecorder{})
	p.EnableRxInterrupt()

	feed(p, "0123456789AB\n")

	var dst [InputBufferLength]byte
	p.CopyReceivedLine(dst[:])
	if got := string(dst[:]); got != "AB23456789" {
		t.Errorf("Expected wrapped buffer 'AB23456789', got %q", got)
	}
}

func TestLinePortTransmit(t *testing.T) {
	w := &wireRecorder{}
	p := NewLinePort(w)

	p.LoadTransmitBuffer([]byte("Playing: scale\n"))
	if w.String() != "P" {
		t.Fatalf("Expected first byte written on load, got %q", w.String())
	}
	if p.TransmitComplete() {
		t.Fatal("Transmission should still be running")
	}

	// Handler stays idle until the interrupt is enabled.
	p.TxEmpty()
	if w.Len() != 1 {
		t.Errorf("Expected 1 byte before enabling, got %d", w.Len())
	}

	p.EnableTxInterrupt()
	drain(p)
	if w.String() != "Playing: scale\n" {
		t.Errorf("Expected full line, got %q", w.String())
	}
	if !p.TransmitComplete() {
		t.Error("Expected transmission complete")
	}
	if p.TxEnabled() {
		t.Error("Transmit interrupt should be disabled after the terminator")
	}

	p.TxEmpty()
	if w.Len() != len("Playing: scale\n") {
		t.Error("No bytes may be written after completion")
	}

	p.ClearTransmitState()
	if p.TransmitComplete() {
		t.Error("Expected transmit state cleared")
	}
}

func TestLinePortTransmitStops(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want int
	}{
		{"terminator", []byte("ab\ncd\n"), 3},
		{"empty byte", []byte{'a', 'b', 0, 'c'}, 2},
		{"full buffer", bytes.Repeat([]byte{'x'}, OutputBufferLength+5), OutputBufferLength},
		{"immediately empty", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &wireRecorder{}
			p := NewLinePort(w)
			p.LoadTransmitBuffer(tt.data)
			p.EnableTxInterrupt()
			drain(p)

			if w.Len() != tt.want {
				t.Errorf("Expected %d bytes written, got %d", tt.want, w.Len())
			}
			if !p.TransmitComplete() {
				t.Error("Expected transmission complete")
			}
		})
	}
}
