package core

import "jukebox/fsm"

// ButtonID identifies a button in traces.
type ButtonID uint8

// Button states.
const (
	ButtonReleased fsm.State = iota
	ButtonPressedWait
	ButtonPressed
	ButtonReleasedWait
)

// Button debounces one digital input and measures how long it was held.
//
// A press is accepted on the first edge and confirmed once the debounce
// window has elapsed; release works the same way. Duration holds the length
// of the last completed press until ResetDuration is called.
type Button struct {
	id  ButtonID
	drv ButtonDriver
	clk Clock
	m   *fsm.Machine

	debounceTime uint32
	nextTimeout  uint32
	pressStart   uint32
	duration     uint32
}

// NewButton creates a Button in the Released state.
func NewButton(id ButtonID, debounceMs uint32, drv ButtonDriver, clk Clock) (*Button, error) {
	if drv == nil || clk == nil {
		return nil, ErrMissingDriver
	}

	b := &Button{
		id:           id,
		drv:          drv,
		clk:          clk,
		debounceTime: debounceMs,
	}

	m, err := fsm.New("button"+Utoa(uint32(id)), ButtonReleased, []fsm.Transition{
		{From: ButtonReleased, Guard: b.drv.IsPressed, To: ButtonPressedWait, Action: b.storePressStart},
		{From: ButtonPressedWait, Guard: b.checkTimeout, To: ButtonPressed},
		{From: ButtonPressed, Guard: b.checkReleased, To: ButtonReleasedWait, Action: b.storeDuration},
		{From: ButtonReleasedWait, Guard: b.checkTimeout, To: ButtonReleased},
	})
	if err != nil {
		return nil, err
	}
	b.m = m
	traceMachine(m)
	return b, nil
}

func (b *Button) checkTimeout() bool {
	return b.clk.Millis() > b.nextTimeout
}

func (b *Button) checkReleased() bool {
	return !b.drv.IsPressed()
}

func (b *Button) storePressStart() {
	now := b.clk.Millis()
	b.pressStart = now
	b.nextTimeout = now + b.debounceTime
}

func (b *Button) storeDuration() {
	now := b.clk.Millis()
	b.duration = now - b.pressStart
	b.nextTimeout = now + b.debounceTime
}

// Fire runs one step of the debounce machine.
func (b *Button) Fire() bool { return b.m.Fire() }

// State returns the current debounce state.
func (b *Button) State() fsm.State { return b.m.State() }

// ID returns the button identifier.
func (b *Button) ID() ButtonID { return b.id }

// Duration returns the length in ms of the last completed press.
func (b *Button) Duration() uint32 { return b.duration }

// ResetDuration forgets the last completed press.
func (b *Button) ResetDuration() { b.duration = 0 }

// Active reports whether a press or release is in progress.
func (b *Button) Active() bool { return b.m.State() != ButtonReleased }

// HeldFor returns how long the current confirmed press has lasted, or 0 when
// the button is not in the Pressed state.
func (b *Button) HeldFor() uint32 {
	if b.m.State() != ButtonPressed {
		return 0
	}
	return b.clk.Millis() - b.pressStart
}
