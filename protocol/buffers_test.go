package protocol

import (
	"errors"
	"testing"
)

func TestFifoBuffer(t *testing.T) {
	fifo := NewFifoBuffer(10)

	if !fifo.IsEmpty() {
		t.Error("New FIFO should be empty")
	}
	if fifo.Free() != 10 {
		t.Errorf("Expected 10 bytes free, got %d", fifo.Free())
	}

	if n := fifo.Write([]byte{1, 2, 3, 4, 5}); n != 5 {
		t.Errorf("Expected to write 5 bytes, wrote %d", n)
	}

	readBuf := make([]byte, 3)
	if n := fifo.Read(readBuf); n != 3 {
		t.Errorf("Expected to read 3 bytes, read %d", n)
	}
	if readBuf[0] != 1 || readBuf[1] != 2 || readBuf[2] != 3 {
		t.Errorf("Read data mismatch: got %v", readBuf)
	}

	fifo.Pop(1)
	if fifo.Available() != 1 {
		t.Errorf("After popping 1, expected 1 available, got %d", fifo.Available())
	}

	fifo.Pop(5)
	if !fifo.IsEmpty() {
		t.Errorf("Pop past the end should empty the FIFO, %d left", fifo.Available())
	}
}

func TestFifoBufferFull(t *testing.T) {
	fifo := NewFifoBuffer(4)

	if n := fifo.Write([]byte("abcdef")); n != 4 {
		t.Errorf("Expected to write 4 bytes, wrote %d", n)
	}
	if err := fifo.WriteByte('g'); !errors.Is(err, ErrBufferFull) {
		t.Errorf("Expected ErrBufferFull, got %v", err)
	}

	fifo.Reset()
	if err := fifo.WriteByte('g'); err != nil {
		t.Errorf("Expected room after Reset, got %v", err)
	}
}

func TestFifoBufferWrapAround(t *testing.T) {
	fifo := NewFifoBuffer(5)

	fifo.Write([]byte{1, 2, 3, 4})
	fifo.Read(make([]byte, 2))

	if n := fifo.Write([]byte{5, 6, 7}); n != 3 {
		t.Errorf("Expected to write 3 bytes, wrote %d", n)
	}

	got := fifo.Drain()
	want := []byte{3, 4, 5, 6, 7}
	if string(got) != string(want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
	if !fifo.IsEmpty() {
		t.Error("Drain should empty the FIFO")
	}
}

func TestFifoBufferPopLine(t *testing.T) {
	fifo := NewFifoBuffer(16)

	if _, ok := fifo.PopLine(); ok {
		t.Error("Empty FIFO should not yield a line")
	}

	fifo.Write([]byte("Jukebox ON\nPlay"))
	line, ok := fifo.PopLine()
	if !ok {
		t.Fatal("Expected a complete line")
	}
	if string(line) != "Jukebox ON" {
		t.Errorf("Expected 'Jukebox ON', got %q", line)
	}

	if _, ok := fifo.PopLine(); ok {
		t.Error("Partial line should stay buffered")
	}
	if fifo.Available() != 4 {
		t.Errorf("Expected 4 bytes left, got %d", fifo.Available())
	}

	// The second line wraps past the end of the ring.
	fifo.Write([]byte("ing: scale\n"))
	line, ok = fifo.PopLine()
	if !ok || string(line) != "Playing: scale" {
		t.Errorf("Expected 'Playing: scale', got %q (ok=%v)", line, ok)
	}
}
