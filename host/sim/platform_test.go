package sim

import (
	"testing"
	"time"
)

type recorder struct {
	events []float64 // 0 marks a note off
}

func (r *recorder) NoteOn(hz float64) { r.events = append(r.events, hz) }
func (r *recorder) NoteOff()          { r.events = append(r.events, 0) }

type countTicker struct{ n int }

func (c *countTicker) Tick() { c.n++ }

func TestPlatformRun(t *testing.T) {
	p := New()
	c := &countTicker{}

	p.Run(c, 42)
	if c.n != 42 || p.Now() != 42 {
		t.Errorf("Expected 42 ticks at 42 ms, got %d at %d", c.n, p.Now())
	}
}

func TestPlatformHardware(t *testing.T) {
	p := New()

	hw := p.Hardware(false)
	if hw.Keys != nil || hw.OctaveUp != nil || hw.OctaveDown != nil {
		t.Error("Expected no keyboard without keys")
	}

	hw = p.Hardware(true)
	if len(hw.Keys) != KeyCount || hw.OctaveUp == nil || hw.OctaveDown == nil {
		t.Errorf("Expected %d keys and octave buttons, got %d", KeyCount, len(hw.Keys))
	}

	p.Keys[3].Press()
	if !hw.Keys[3].IsPressed() || hw.Keys[2].IsPressed() {
		t.Error("Key drivers must follow the simulated keys")
	}
}

func TestBuzzerNoteTimer(t *testing.T) {
	p := New()

	p.Buzzer.SetNoteDuration(10)
	p.Buzzer.SetNoteFrequency(440)
	p.Advance(9)
	if p.Buzzer.NoteTimerElapsed() {
		t.Error("Note timer elapsed early")
	}
	p.Advance(1)
	if !p.Buzzer.NoteTimerElapsed() {
		t.Error("Expected note timer elapsed at 10 ms")
	}

	p.Buzzer.SetNoteDuration(5)
	if p.Buzzer.NoteTimerElapsed() {
		t.Error("A new note must clear the elapsed flag")
	}
	p.Buzzer.Stop()
	p.Advance(20)
	if p.Buzzer.NoteTimerElapsed() {
		t.Error("Stop must cancel the note timer")
	}
	if p.Buzzer.Frequency() != 0 {
		t.Errorf("Expected silence after Stop, got %v Hz", p.Buzzer.Frequency())
	}

	notes := p.Buzzer.Notes()
	if len(notes) != 1 || notes[0].Hz != 440 || notes[0].DurationMs != 10 || notes[0].Tick != 0 {
		t.Errorf("Unexpected note log %+v", notes)
	}
}

func TestBuzzerObservers(t *testing.T) {
	p := New()
	r := &recorder{}
	p.Buzzer.Observe(r)

	p.Buzzer.SetNoteFrequency(440)
	p.Buzzer.SetNoteFrequency(0)
	p.Buzzer.SetNoteFrequency(880)
	p.Buzzer.Stop()
	p.Buzzer.Stop()

	want := []float64{440, 0, 880, 0}
	if len(r.events) != len(want) {
		t.Fatalf("Expected %v, got %v", want, r.events)
	}
	for i := range want {
		if r.events[i] != want[i] {
			t.Errorf("Event %d: expected %v, got %v", i, want[i], r.events[i])
		}
	}
}

func TestUSARTLineTime(t *testing.T) {
	p := New()
	p.USART.EnableRxInterrupt()

	p.USART.SendLine("next")
	p.Advance(4)
	if p.USART.BytesReceived() {
		t.Error("Line delivered faster than one byte per millisecond")
	}
	p.Advance(1)
	if !p.USART.BytesReceived() {
		t.Fatal("Expected the line after 5 ms")
	}
	if p.USART.Pending() != 0 {
		t.Errorf("Expected every byte delivered, %d pending", p.USART.Pending())
	}

	var buf [10]byte
	p.USART.CopyReceivedLine(buf[:])
	if string(buf[:4]) != "next" || buf[4] != 0 {
		t.Errorf("Unexpected line %q", buf[:])
	}

	out := make([]byte, 100)
	copy(out, "Playing: scale\n")
	p.USART.LoadTransmitBuffer(out)
	p.USART.EnableTxInterrupt()
	p.Advance(20)
	if !p.USART.TransmitComplete() {
		t.Fatal("Expected transmission complete")
	}
	line, ok := p.USART.ReadLine()
	if !ok || line != "Playing: scale" {
		t.Errorf("Expected 'Playing: scale', got %q", line)
	}
	if _, ok := p.USART.ReadLine(); ok {
		t.Error("Expected no further line")
	}
}

func TestPowerBlocking(t *testing.T) {
	p := New()

	p.Power.EnterLowPowerWait()
	if p.Power.Sleeps() != 1 {
		t.Errorf("Expected 1 sleep, got %d", p.Power.Sleeps())
	}

	p.Power.SetBlocking(true)
	done := make(chan struct{})
	go func() {
		p.Power.EnterLowPowerWait()
		close(done)
	}()
	p.Advance(1)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Low-power wait did not end on the next millisecond")
	}
}
