//go:build rp2040

package main

import (
	"machine"
	"sync/atomic"
	"time"

	"jukebox/protocol"
)

// Pin assignments
const (
	buttonPin     = machine.GPIO13
	buzzerPin     = machine.GPIO6
	uartTxPin     = machine.GPIO0
	uartRxPin     = machine.GPIO1
	octaveUpPin   = machine.GPIO4
	octaveDownPin = machine.GPIO5
)

// keyPins lists the keyboard keys, B4 down to C4
var keyPins = []machine.Pin{
	machine.GPIO16, machine.GPIO17, machine.GPIO18, machine.GPIO19,
	machine.GPIO20, machine.GPIO21, machine.GPIO22, machine.GPIO26,
	machine.GPIO27, machine.GPIO28, machine.GPIO2, machine.GPIO3,
}

// pinButton is an active-low push button with the internal pull-up
// enabled. The pin-change interrupt keeps level current. It implements
// core.ButtonDriver.
type pinButton struct {
	pin   machine.Pin
	level uint32 // atomic bool, 1 while pressed
}

func newPinButton(pin machine.Pin) (*pinButton, error) {
	pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	b := &pinButton{pin: pin}
	b.sample()
	if err := pin.SetInterrupt(machine.PinToggle, func(machine.Pin) { b.sample() }); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *pinButton) sample() {
	if b.pin.Get() {
		atomic.StoreUint32(&b.level, 0)
	} else {
		atomic.StoreUint32(&b.level, 1)
	}
}

func (b *pinButton) IsPressed() bool { return atomic.LoadUint32(&b.level) != 0 }

// pinLED implements core.StatusLED
type pinLED struct {
	pin machine.Pin
}

func newPinLED(pin machine.Pin) *pinLED {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return &pinLED{pin: pin}
}

func (l *pinLED) Set(on bool) { l.pin.Set(on) }

// blinkError flashes the LED rapidly forever
func blinkError(led *pinLED) {
	for {
		led.Set(true)
		time.Sleep(100 * time.Millisecond)
		led.Set(false)
		time.Sleep(100 * time.Millisecond)
	}
}

// idle implements core.PowerDriver. The scheduler goroutine sleeps until
// the next millisecond so the UART reader can run.
type idle struct{}

func (idle) EnterLowPowerWait() {
	time.Sleep(time.Millisecond)
}

// uartPort feeds UART0 into a protocol.LinePort
type uartPort struct {
	*protocol.LinePort
	uart *machine.UART
}

func newUARTPort(uart *machine.UART) (*uartPort, error) {
	err := uart.Configure(machine.UARTConfig{
		BaudRate: protocol.BaudRate,
		TX:       uartTxPin,
		RX:       uartRxPin,
	})
	if err != nil {
		return nil, err
	}
	return &uartPort{
		LinePort: protocol.NewLinePort(uart),
		uart:     uart,
	}, nil
}

// readerLoop runs in a goroutine and plays the receive interrupt
func (u *uartPort) readerLoop() {
	// Recover from panics to prevent a firmware crash
	defer func() {
		if r := recover(); r != nil {
			time.Sleep(100 * time.Millisecond)
			go u.readerLoop()
		}
	}()

	for {
		for u.uart.Buffered() > 0 {
			b, err := u.uart.ReadByte()
			if err != nil {
				break
			}
			u.StoreByte(b)
		}
		// Yield to avoid a busy loop
		time.Sleep(100 * time.Microsecond)
	}
}
