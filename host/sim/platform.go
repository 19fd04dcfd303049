// Package sim is a software board for the jukebox firmware. It implements
// every driver interface of package core on top of a virtual millisecond
// clock so the firmware can run in tests and on a desktop.
//
// Advance plays the role of the interrupt handlers: it moves the clock,
// fires due note timers and moves one byte in each serial direction per
// millisecond, roughly the 9600 baud of the real link. It may run on its own
// goroutine while the main loop calls into the drivers.
package sim

import (
	"sync"
	"sync/atomic"

	"jukebox/core"
)

// KeyCount is the number of keyboard keys on the simulated board.
const KeyCount = len(core.KeyFrequencies)

// Platform is one simulated board.
type Platform struct {
	Clock  core.TickCounter
	timers core.TimerQueue

	Button     *Button
	Buzzer     *Buzzer
	USART      *USART
	Power      *Power
	LED        *LED
	Keys       [KeyCount]*Button
	OctaveUp   *Button
	OctaveDown *Button

	mu   sync.Mutex
	wake chan struct{}
}

// New returns a board at tick 0 with every input released.
func New() *Platform {
	p := &Platform{
		Button:     &Button{},
		LED:        &LED{},
		OctaveUp:   &Button{},
		OctaveDown: &Button{},
		wake:       make(chan struct{}, 1),
	}
	for i := range p.Keys {
		p.Keys[i] = &Button{}
	}
	p.Buzzer = newBuzzer(p)
	p.USART = newUSART()
	p.Power = &Power{wake: p.wake}
	return p
}

// Hardware returns the drivers for core.NewScheduler. withKeys wires the
// keyboard keys and octave buttons.
func (p *Platform) Hardware(withKeys bool) core.Hardware {
	hw := core.Hardware{
		Clock:  &p.Clock,
		Button: p.Button,
		USART:  p.USART,
		Buzzer: p.Buzzer,
		Power:  p.Power,
		LED:    p.LED,
	}
	if withKeys {
		hw.Keys = make([]core.ButtonDriver, len(p.Keys))
		for i, k := range p.Keys {
			hw.Keys[i] = k
		}
		hw.OctaveUp = p.OctaveUp
		hw.OctaveDown = p.OctaveDown
	}
	return hw
}

// Advance moves the board ms milliseconds forward, servicing timers and the
// serial line after every millisecond.
func (p *Platform) Advance(ms uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := uint32(0); i < ms; i++ {
		now := p.Clock.Advance(1)
		p.timers.Dispatch(now)
		p.USART.service()

		select {
		case p.wake <- struct{}{}:
		default:
		}
	}
}

// Ticker is the main loop driven by Run.
type Ticker interface {
	Tick()
}

// Run alternates one millisecond of board time with one main loop
// iteration, ms times.
func (p *Platform) Run(t Ticker, ms uint32) {
	for i := uint32(0); i < ms; i++ {
		p.Advance(1)
		t.Tick()
	}
}

// Now returns the current tick.
func (p *Platform) Now() uint32 { return p.Clock.Millis() }

// Button is a simulated push button. The level is written by the test or
// console side and read by the firmware.
type Button struct {
	level uint32 // atomic bool
}

// IsPressed implements core.ButtonDriver.
func (b *Button) IsPressed() bool { return atomic.LoadUint32(&b.level) != 0 }

// Press holds the button down.
func (b *Button) Press() { atomic.StoreUint32(&b.level, 1) }

// Release lets the button go.
func (b *Button) Release() { atomic.StoreUint32(&b.level, 0) }

// Power counts low-power waits. When blocking is enabled each wait lasts
// until the next simulated millisecond.
type Power struct {
	sleeps   uint32 // atomic
	blocking uint32 // atomic bool
	wake     chan struct{}
}

// EnterLowPowerWait implements core.PowerDriver.
func (p *Power) EnterLowPowerWait() {
	atomic.AddUint32(&p.sleeps, 1)
	if atomic.LoadUint32(&p.blocking) != 0 {
		<-p.wake
	}
}

// SetBlocking makes EnterLowPowerWait wait for the next tick. Only enable
// it when Advance runs on another goroutine.
func (p *Power) SetBlocking(on bool) {
	if on {
		atomic.StoreUint32(&p.blocking, 1)
	} else {
		atomic.StoreUint32(&p.blocking, 0)
	}
}

// Sleeps returns the number of low-power waits so far.
func (p *Power) Sleeps() uint32 { return atomic.LoadUint32(&p.sleeps) }

// LED is a simulated status LED.
type LED struct {
	on uint32 // atomic bool
}

// Set implements core.StatusLED.
func (l *LED) Set(on bool) {
	if on {
		atomic.StoreUint32(&l.on, 1)
	} else {
		atomic.StoreUint32(&l.on, 0)
	}
}

// On reports whether the LED is lit.
func (l *LED) On() bool { return atomic.LoadUint32(&l.on) != 0 }
