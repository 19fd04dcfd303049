package sim

import (
	"math"
	"sync"

	"gitlab.com/gomidi/midi/v2"
)

// MIDIMirror forwards buzzer tones to a MIDI output as note on/off
// messages, so a simulated session can be heard through a synthesizer.
type MIDIMirror struct {
	mu       sync.Mutex
	send     func(msg midi.Message) error
	channel  uint8
	velocity uint8
	key      int // sounding key, -1 when silent
	errs     int
}

// NewMIDIMirror creates a mirror that writes through send.
func NewMIDIMirror(send func(msg midi.Message) error, channel uint8) *MIDIMirror {
	return &MIDIMirror{
		send:     send,
		channel:  channel,
		velocity: 100,
		key:      -1,
	}
}

// KeyForFrequency returns the nearest MIDI key for hz.
func KeyForFrequency(hz float64) (uint8, bool) {
	if hz <= 0 {
		return 0, false
	}
	key := math.Round(69 + 12*math.Log2(hz/440))
	if key < 0 || key > 127 {
		return 0, false
	}
	return uint8(key), true
}

// NoteOn implements NoteObserver.
func (m *MIDIMirror) NoteOn(hz float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.release()
	key, ok := KeyForFrequency(hz)
	if !ok {
		return
	}
	m.write(midi.NoteOn(m.channel, key, m.velocity))
	m.key = int(key)
}

// NoteOff implements NoteObserver.
func (m *MIDIMirror) NoteOff() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.release()
}

// Must be called with lock held.
func (m *MIDIMirror) release() {
	if m.key < 0 {
		return
	}
	m.write(midi.NoteOff(m.channel, uint8(m.key)))
	m.key = -1
}

func (m *MIDIMirror) write(msg midi.Message) {
	if err := m.send(msg); err != nil {
		m.errs++
	}
}

// Errors returns the number of failed sends.
func (m *MIDIMirror) Errors() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errs
}
