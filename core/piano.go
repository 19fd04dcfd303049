package core

import (
	"math"

	"jukebox/fsm"
)

// Piano states.
const (
	PianoSilent fsm.State = iota
	PianoSounding
)

// KeyFrequencies holds the base pitch of each keyboard key, B4 down to C4.
var KeyFrequencies = [12]float64{
	493.88, 466.16, 440.00, 415.30, 392.00, 369.99,
	349.23, 329.63, 311.13, 293.66, 277.18, 261.63,
}

// Octave shift limits of the keyboard.
const (
	MinOctave = -3
	MaxOctave = 3
)

// PianoConfig holds keyboard timing.
type PianoConfig struct {
	KeyDebounceMs uint32
	NoteMs        uint32
}

// Piano turns a set of debounced keys into tones. The lowest-numbered
// pressed key sounds; releasing every key silences the buzzer. Two extra
// buttons shift the keyboard one octave up or down on each completed press.
// Notes only start while the melody player is idle.
type Piano struct {
	m *fsm.Machine

	keys       []*Button
	octaveUp   *Button
	octaveDown *Button

	drv    BuzzerDriver
	player *Buzzer
	led    StatusLED

	noteMs uint32
	octave int
	key    int
}

// NewPiano creates a silent Piano. keys must not be empty and may hold at
// most len(KeyFrequencies) drivers. up, down and led may be nil.
func NewPiano(cfg PianoConfig, clk Clock, keys []ButtonDriver, up, down ButtonDriver,
	drv BuzzerDriver, player *Buzzer, led StatusLED) (*Piano, error) {
	if len(keys) == 0 || len(keys) > len(KeyFrequencies) || drv == nil {
		return nil, ErrMissingDriver
	}

	p := &Piano{
		drv:    drv,
		player: player,
		led:    led,
		noteMs: cfg.NoteMs,
		key:    -1,
	}
	for i, k := range keys {
		b, err := NewButton(ButtonID(i+1), cfg.KeyDebounceMs, k, clk)
		if err != nil {
			return nil, err
		}
		p.keys = append(p.keys, b)
	}
	var err error
	if up != nil {
		if p.octaveUp, err = NewButton(ButtonID(len(keys)+1), cfg.KeyDebounceMs, up, clk); err != nil {
			return nil, err
		}
	}
	if down != nil {
		if p.octaveDown, err = NewButton(ButtonID(len(keys)+2), cfg.KeyDebounceMs, down, clk); err != nil {
			return nil, err
		}
	}

	m, err := fsm.New("piano", PianoSilent, []fsm.Transition{
		{From: PianoSilent, Guard: p.checkOctaveUp, To: PianoSilent, Action: p.shiftUp},
		{From: PianoSilent, Guard: p.checkOctaveDown, To: PianoSilent, Action: p.shiftDown},
		{From: PianoSilent, Guard: p.checkKeyDown, To: PianoSounding, Action: p.startKey},
		{From: PianoSounding, Guard: p.checkOctaveUp, To: PianoSounding, Action: p.shiftUp},
		{From: PianoSounding, Guard: p.checkOctaveDown, To: PianoSounding, Action: p.shiftDown},
		{From: PianoSounding, Guard: p.checkAllUp, To: PianoSilent, Action: p.stopKey},
		{From: PianoSounding, Guard: p.checkKeyChanged, To: PianoSounding, Action: p.startKey},
	})
	if err != nil {
		return nil, err
	}
	p.m = m
	traceMachine(m)
	return p, nil
}

func (p *Piano) pressedKey() int {
	for i, k := range p.keys {
		if k.State() == ButtonPressed {
			return i
		}
	}
	return -1
}

func completedPress(b *Button) bool {
	return b != nil && b.Duration() > 0
}

func (p *Piano) checkOctaveUp() bool   { return completedPress(p.octaveUp) }
func (p *Piano) checkOctaveDown() bool { return completedPress(p.octaveDown) }

func (p *Piano) checkKeyDown() bool {
	if p.player != nil && p.player.Active() {
		return false
	}
	return p.pressedKey() >= 0
}

func (p *Piano) checkAllUp() bool {
	return p.pressedKey() < 0
}

func (p *Piano) checkKeyChanged() bool {
	k := p.pressedKey()
	return k >= 0 && k != p.key
}

func (p *Piano) shiftUp() {
	p.octaveUp.ResetDuration()
	if p.octave < MaxOctave {
		p.octave++
	}
}

func (p *Piano) shiftDown() {
	p.octaveDown.ResetDuration()
	if p.octave > MinOctave {
		p.octave--
	}
}

func (p *Piano) startKey() {
	p.key = p.pressedKey()
	p.drv.SetNoteDuration(p.noteMs)
	p.drv.SetNoteFrequency(p.Frequency(p.key))
	if p.led != nil {
		p.led.Set(true)
	}
}

func (p *Piano) stopKey() {
	p.key = -1
	p.drv.Stop()
	if p.led != nil {
		p.led.Set(false)
	}
}

// Frequency returns the pitch of key i at the current octave.
func (p *Piano) Frequency(i int) float64 {
	return math.Ldexp(KeyFrequencies[i], p.octave)
}

// Fire debounces every key, then runs one step of the keyboard machine.
func (p *Piano) Fire() bool {
	for _, k := range p.keys {
		k.Fire()
	}
	if p.octaveUp != nil {
		p.octaveUp.Fire()
	}
	if p.octaveDown != nil {
		p.octaveDown.Fire()
	}
	return p.m.Fire()
}

// State returns the current keyboard state.
func (p *Piano) State() fsm.State { return p.m.State() }

// Octave returns the current octave shift.
func (p *Piano) Octave() int { return p.octave }

// Key returns the sounding key, or -1.
func (p *Piano) Key() int { return p.key }

// Silence stops any sounding key.
func (p *Piano) Silence() {
	if p.key >= 0 {
		p.stopKey()
	}
}
