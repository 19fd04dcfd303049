//go:build !midi

package main

import (
	"errors"

	"gitlab.com/gomidi/midi/v2"
)

func openMIDI(string) (func(midi.Message) error, func(), error) {
	return nil, nil, errors.New("built without MIDI support, rebuild with -tags midi")
}
