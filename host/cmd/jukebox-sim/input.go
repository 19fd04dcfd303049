package main

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"jukebox/core"
	"jukebox/host/sim"
)

var (
	errUsage      = errors.New("usage: !press | !release | !hold <ms> | !key <0-11> | !up | !down | !dump | !help")
	errUnknownKey = errors.New("key out of range")
)

const tapMs = 300

// board turns console input into simulated button presses and serial
// traffic. Lines starting with '!' act on the buttons, everything else is
// sent to the jukebox as a command.
type board struct {
	p     *sim.Platform
	after func(d time.Duration, f func())

	// help lists the jukebox commands for !help
	help string
	out  io.Writer
}

func newBoard(p *sim.Platform, help string, out io.Writer) *board {
	b := &board{p: p, help: help, out: out}
	b.after = func(d time.Duration, f func()) {
		time.AfterFunc(d, f)
	}
	return b
}

func (b *board) handle(line string) error {
	if !strings.HasPrefix(line, "!") {
		b.p.USART.SendLine(line)
		return nil
	}

	fields := strings.Fields(line[1:])
	if len(fields) == 0 {
		return errUsage
	}

	switch fields[0] {
	case "press":
		b.p.Button.Press()
	case "release":
		b.p.Button.Release()
	case "hold":
		if len(fields) != 2 {
			return errUsage
		}
		ms, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			return errUsage
		}
		b.tap(b.p.Button, time.Duration(ms)*time.Millisecond)
	case "key":
		if len(fields) != 2 {
			return errUsage
		}
		i, err := strconv.Atoi(fields[1])
		if err != nil {
			return errUsage
		}
		if i < 0 || i >= sim.KeyCount {
			return errUnknownKey
		}
		b.tap(b.p.Keys[i], tapMs*time.Millisecond)
	case "up":
		b.tap(b.p.OctaveUp, tapMs*time.Millisecond)
	case "down":
		b.tap(b.p.OctaveDown, tapMs*time.Millisecond)
	case "dump":
		core.DumpTransitions()
	case "help":
		_, err := io.WriteString(b.out, b.help)
		return err
	default:
		return errUsage
	}
	return nil
}

func (b *board) tap(btn *sim.Button, d time.Duration) {
	btn.Press()
	b.after(d, btn.Release)
}
