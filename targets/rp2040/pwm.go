//go:build rp2040

package main

import (
	"machine"
	"sync/atomic"

	"jukebox/core"

	"tinygo.org/x/drivers/tone"
)

// pwmPeripheral is the part of TinyGo's unexported *pwmGroup type the
// speaker needs
type pwmPeripheral interface {
	tone.PWM
}

// piezo drives the buzzer from one PWM slice and times notes with a core
// timer. It implements core.BuzzerDriver.
type piezo struct {
	speaker tone.Speaker
	clk     core.Clock
	timers  *core.TimerQueue

	timer   core.Timer
	elapsed uint32 // atomic bool
}

func newPiezo(pin machine.Pin, clk core.Clock, timers *core.TimerQueue) (*piezo, error) {
	// RP2040: GPIO pin N maps to slice (N >> 1) & 0x7
	pwm := getPWMPeripheral(uint8((uint32(pin) >> 1) & 0x7))

	speaker, err := tone.New(pwm, pin)
	if err != nil {
		return nil, err
	}
	p := &piezo{speaker: speaker, clk: clk, timers: timers}
	p.timer.Handler = p.noteEnd
	return p, nil
}

func (p *piezo) noteEnd(*core.Timer) uint8 {
	atomic.StoreUint32(&p.elapsed, 1)
	return core.SF_DONE
}

// SetNoteFrequency starts a square wave at hz. 0 Hz is a rest.
func (p *piezo) SetNoteFrequency(hz float64) {
	if hz <= 0 {
		p.speaker.Stop()
		return
	}
	p.speaker.SetPeriod(uint64(1e9 / hz))
}

// SetNoteDuration arms the note timer ms milliseconds from now
func (p *piezo) SetNoteDuration(ms uint32) {
	p.timers.Cancel(&p.timer)
	atomic.StoreUint32(&p.elapsed, 0)
	p.timer.WakeTime = p.clk.Millis() + ms
	p.timers.Schedule(&p.timer)
}

func (p *piezo) NoteTimerElapsed() bool {
	return atomic.LoadUint32(&p.elapsed) != 0
}

// Stop silences the speaker and cancels the note timer
func (p *piezo) Stop() {
	p.timers.Cancel(&p.timer)
	p.speaker.Stop()
}

// getPWMPeripheral returns the PWM peripheral for a given slice number
// RP2040 has 8 PWM slices: PWM0-PWM7
func getPWMPeripheral(sliceNum uint8) pwmPeripheral {
	switch sliceNum {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	case 7:
		return machine.PWM7
	default:
		// Should never happen with proper masking
		return machine.PWM0
	}
}
