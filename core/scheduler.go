package core

import "context"

// Mode selects which machines the scheduler runs.
type Mode uint8

const (
	ModeJukebox Mode = iota
	ModeKeyboard
)

func (m Mode) String() string {
	if m == ModeKeyboard {
		return "keyboard"
	}
	return "jukebox"
}

// Config is the boot configuration of the firmware.
type Config struct {
	DebounceMs          uint32
	OnOffThresholdMs    uint32
	NextSongThresholdMs uint32
	Melodies            []Melody

	// ModeSwitchHoldMs is how long the button must be held to switch
	// between jukebox and keyboard mode. 0 disables keyboard mode.
	ModeSwitchHoldMs uint32
	KeyDebounceMs    uint32
	KeyNoteMs        uint32

	// SwitchMelody is played on every mode switch. nil plays nothing.
	SwitchMelody *Melody
}

// Hardware holds the drivers of one board. Keys, OctaveUp, OctaveDown and
// LED are optional.
type Hardware struct {
	Clock  Clock
	Button ButtonDriver
	USART  USARTDriver
	Buzzer BuzzerDriver
	Power  PowerDriver

	Keys       []ButtonDriver
	OctaveUp   ButtonDriver
	OctaveDown ButtonDriver
	LED        StatusLED
}

// Scheduler is the cooperative main loop. Every Tick fires the button,
// USART, buzzer and jukebox machines once, in that order. In keyboard mode
// the jukebox and USART are parked and the piano runs instead.
type Scheduler struct {
	cfg Config
	hw  Hardware

	Button  *Button
	USART   *USART
	Buzzer  *Buzzer
	Jukebox *Jukebox
	Piano   *Piano

	mode         Mode
	awaitRelease bool
	ticks        uint32
}

// NewScheduler builds every machine for hw. The jukebox starts Off.
func NewScheduler(cfg Config, hw Hardware) (*Scheduler, error) {
	if hw.Clock == nil || hw.Power == nil {
		return nil, ErrMissingDriver
	}

	s := &Scheduler{cfg: cfg, hw: hw}

	var err error
	if s.Button, err = NewButton(0, cfg.DebounceMs, hw.Button, hw.Clock); err != nil {
		return nil, errorf("button", err)
	}
	if s.USART, err = NewUSART(0, hw.USART); err != nil {
		return nil, errorf("usart", err)
	}
	if s.Buzzer, err = NewBuzzer(0, hw.Buzzer); err != nil {
		return nil, errorf("buzzer", err)
	}
	if s.Jukebox, err = s.newJukebox(); err != nil {
		return nil, errorf("jukebox", err)
	}
	if s.keyboardEnabled() {
		if s.Piano, err = s.newPiano(); err != nil {
			return nil, errorf("piano", err)
		}
	}

	SetTraceClock(hw.Clock)
	s.setLED(true)
	return s, nil
}

func errorf(what string, err error) error {
	return &BuildError{Component: what, Err: err}
}

// BuildError reports which machine failed to build.
type BuildError struct {
	Component string
	Err       error
}

func (e *BuildError) Error() string { return e.Component + ": " + e.Err.Error() }
func (e *BuildError) Unwrap() error { return e.Err }

func (s *Scheduler) newJukebox() (*Jukebox, error) {
	return NewJukebox(JukeboxConfig{
		OnOffThresholdMs:    s.cfg.OnOffThresholdMs,
		NextSongThresholdMs: s.cfg.NextSongThresholdMs,
		Melodies:            s.cfg.Melodies,
	}, s.Button, s.USART, s.Buzzer, s.hw.Power)
}

func (s *Scheduler) newPiano() (*Piano, error) {
	return NewPiano(PianoConfig{
		KeyDebounceMs: s.cfg.KeyDebounceMs,
		NoteMs:        s.cfg.KeyNoteMs,
	}, s.hw.Clock, s.hw.Keys, s.hw.OctaveUp, s.hw.OctaveDown, s.hw.Buzzer, s.Buzzer, s.hw.LED)
}

func (s *Scheduler) keyboardEnabled() bool {
	return s.cfg.ModeSwitchHoldMs > 0 && len(s.hw.Keys) > 0
}

func (s *Scheduler) setLED(on bool) {
	if s.hw.LED != nil {
		s.hw.LED.Set(on)
	}
}

// Tick runs one loop iteration.
func (s *Scheduler) Tick() {
	s.ticks++

	if s.awaitRelease {
		// The press that switched modes belongs to neither mode.
		s.Button.Fire()
		s.Buzzer.Fire()
		s.Button.ResetDuration()
		if s.Button.State() == ButtonReleased {
			s.awaitRelease = false
		}
		return
	}

	switch s.mode {
	case ModeJukebox:
		s.Button.Fire()
		s.USART.Fire()
		s.Buzzer.Fire()
		s.Jukebox.Fire()
	case ModeKeyboard:
		s.Button.Fire()
		s.Buzzer.Fire()
		s.Piano.Fire()
	}

	if s.keyboardEnabled() && s.Button.HeldFor() > s.cfg.ModeSwitchHoldMs {
		s.switchMode()
	}
}

func (s *Scheduler) switchMode() {
	// The held press is discarded even when the new mode cannot be built.
	s.awaitRelease = true

	switch s.mode {
	case ModeJukebox:
		p, err := s.newPiano()
		if err != nil {
			DebugPrintln("keyboard mode: " + err.Error())
			return
		}
		s.USART.DisableRxInterrupt()
		s.USART.DisableTxInterrupt()
		s.USART.ResetInputData()
		s.Piano = p
		s.mode = ModeKeyboard
		s.setLED(false)
	case ModeKeyboard:
		j, err := s.newJukebox()
		if err != nil {
			DebugPrintln("jukebox mode: " + err.Error())
			return
		}
		s.Piano.Silence()
		s.Jukebox = j
		s.mode = ModeJukebox
		s.setLED(true)
	}
	DebugPrintln("Mode: " + s.mode.String())

	s.Buzzer.SetAction(BuzzerStop)
	if s.cfg.SwitchMelody != nil && !s.cfg.SwitchMelody.Empty() {
		s.Buzzer.SetSpeed(1.0)
		s.Buzzer.SetMelody(s.cfg.SwitchMelody)
		s.Buzzer.SetAction(BuzzerPlay)
	}
}

// Run calls Tick until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		s.Tick()
	}
}

// Mode returns the active mode.
func (s *Scheduler) Mode() Mode { return s.mode }

// Ticks returns the number of loop iterations run so far.
func (s *Scheduler) Ticks() uint32 { return s.ticks }
