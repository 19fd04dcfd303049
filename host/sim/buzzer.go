package sim

import (
	"sync"
	"sync/atomic"

	"jukebox/core"
)

// NoteEvent records one started tone.
type NoteEvent struct {
	Tick       uint32
	Hz         float64
	DurationMs uint32
}

// NoteObserver is told about every tone change, for example to mirror the
// buzzer to a MIDI port.
type NoteObserver interface {
	NoteOn(hz float64)
	NoteOff()
}

// Buzzer is a simulated piezo with a one-shot note timer.
type Buzzer struct {
	p       *Platform
	timer   core.Timer
	elapsed uint32 // atomic bool, set by the timer handler

	mu        sync.Mutex
	hz        float64
	duration  uint32
	durations []uint32
	notes     []NoteEvent
	observers []NoteObserver
}

func newBuzzer(p *Platform) *Buzzer {
	b := &Buzzer{p: p}
	b.timer.Handler = b.noteEnd
	return b
}

func (b *Buzzer) noteEnd(*core.Timer) uint8 {
	atomic.StoreUint32(&b.elapsed, 1)
	return core.SF_DONE
}

// Observe adds o to the tone observers.
func (b *Buzzer) Observe(o NoteObserver) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.observers = append(b.observers, o)
}

// SetNoteDuration implements core.BuzzerDriver.
func (b *Buzzer) SetNoteDuration(ms uint32) {
	b.p.timers.Cancel(&b.timer)
	atomic.StoreUint32(&b.elapsed, 0)
	b.timer.WakeTime = b.p.Now() + ms
	b.p.timers.Schedule(&b.timer)

	b.mu.Lock()
	b.duration = ms
	b.durations = append(b.durations, ms)
	b.mu.Unlock()
}

// SetNoteFrequency implements core.BuzzerDriver.
func (b *Buzzer) SetNoteFrequency(hz float64) {
	b.mu.Lock()
	b.hz = hz
	b.notes = append(b.notes, NoteEvent{Tick: b.p.Now(), Hz: hz, DurationMs: b.duration})
	observers := b.observers
	b.mu.Unlock()

	for _, o := range observers {
		if hz > 0 {
			o.NoteOn(hz)
		} else {
			o.NoteOff()
		}
	}
}

// NoteTimerElapsed implements core.BuzzerDriver.
func (b *Buzzer) NoteTimerElapsed() bool {
	return atomic.LoadUint32(&b.elapsed) != 0
}

// Stop implements core.BuzzerDriver.
func (b *Buzzer) Stop() {
	b.p.timers.Cancel(&b.timer)

	b.mu.Lock()
	wasSounding := b.hz > 0
	b.hz = 0
	observers := b.observers
	b.mu.Unlock()

	if wasSounding {
		for _, o := range observers {
			o.NoteOff()
		}
	}
}

// Frequency returns the sounding frequency, 0 when silent.
func (b *Buzzer) Frequency() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hz
}

// Durations returns every note duration requested so far.
func (b *Buzzer) Durations() []uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]uint32(nil), b.durations...)
}

// Notes returns every tone started so far.
func (b *Buzzer) Notes() []NoteEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]NoteEvent(nil), b.notes...)
}

// Reset forgets the recorded notes.
func (b *Buzzer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.durations = nil
	b.notes = nil
}
