//go:build rp2040

package main

import (
	"machine"
	"time"

	"jukebox/config"
	"jukebox/core"
)

var (
	timers core.TimerQueue

	// Debug counters
	loopErrors uint32
)

func main() {
	// Disable watchdog on boot to clear any previous state
	err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})
	if err != nil {
		return
	}

	led := newPinLED(machine.LED)

	core.SetDebugWriter(func(s string) { println(s) })
	core.SetDebugEnabled(true)
	core.InitAsyncDebug()

	cfg, err := config.Default().Core()
	if err != nil {
		blinkError(led)
	}

	clk := hwClock{}

	hw, port, err := initHardware(clk, led)
	if err != nil {
		blinkError(led)
	}

	s, err := core.NewScheduler(cfg, hw)
	if err != nil {
		core.DebugPrintln("init: " + err.Error())
		blinkError(led)
	}

	// Start UART reader goroutine
	go port.readerLoop()

	// Main loop
	for {
		// Recover from panics in the main loop to prevent a firmware crash
		func() {
			defer func() {
				if r := recover(); r != nil {
					loopErrors++
					core.DebugAsync("main loop recovered, errors=" + core.Utoa(loopErrors))
					core.DumpTransitions()
				}
			}()

			// Fire due note timers
			timers.Dispatch(clk.Millis())

			// Transmit-empty handler
			port.TxEmpty()

			s.Tick()
		}()

		// Yield to the UART reader goroutine
		time.Sleep(10 * time.Microsecond)
	}
}

func initHardware(clk hwClock, led *pinLED) (core.Hardware, *uartPort, error) {
	port, err := newUARTPort(machine.UART0)
	if err != nil {
		return core.Hardware{}, nil, err
	}

	button, err := newPinButton(buttonPin)
	if err != nil {
		return core.Hardware{}, nil, err
	}

	buzzer, err := newPiezo(buzzerPin, clk, &timers)
	if err != nil {
		return core.Hardware{}, nil, err
	}

	hw := core.Hardware{
		Clock:  clk,
		Button: button,
		USART:  port,
		Buzzer: buzzer,
		Power:  idle{},
		LED:    led,
	}

	for _, pin := range keyPins {
		key, err := newPinButton(pin)
		if err != nil {
			return core.Hardware{}, nil, err
		}
		hw.Keys = append(hw.Keys, key)
	}
	if hw.OctaveUp, err = newPinButton(octaveUpPin); err != nil {
		return core.Hardware{}, nil, err
	}
	if hw.OctaveDown, err = newPinButton(octaveDownPin); err != nil {
		return core.Hardware{}, nil, err
	}

	return hw, port, nil
}
