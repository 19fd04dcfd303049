// Package melodies holds the static melody tables preloaded into the
// jukebox library.
package melodies

import "jukebox/core"

// Note frequencies in Hz, equal temperament with A4 = 440 Hz.
const (
	Rest = 0.0

	C4  = 261.63
	D4  = 293.66
	E4  = 329.63
	F4  = 349.23
	G4  = 392.00
	A4  = 440.00
	B4  = 493.88
	C5  = 523.25
	D5  = 587.33
	E5  = 659.25
	F5  = 698.46
	G5  = 783.99
	A5  = 880.00
	Gs4 = 415.30
)

// Note lengths in ms at the reference tempo.
const (
	sixteenth     = 100
	eighth        = 200
	dottedEighth  = 300
	quarter       = 400
	dottedQuarter = 600
	half          = 800
)

type note struct {
	hz float64
	ms uint32
}

func melody(name string, notes ...note) core.Melody {
	m := core.Melody{
		Name:      name,
		Notes:     make([]float64, len(notes)),
		Durations: make([]uint32, len(notes)),
	}
	for i, n := range notes {
		m.Notes[i] = n.hz
		m.Durations[i] = n.ms
	}
	return m
}

// Scale is the C major scale up and down. It is the intro melody played at
// power on.
var Scale = melody("scale",
	note{C4, 250}, note{D4, 250}, note{E4, 250}, note{F4, 250},
	note{G4, 250}, note{A4, 250}, note{B4, 250}, note{C5, 500},
	note{B4, 250}, note{A4, 250}, note{G4, 250}, note{F4, 250},
	note{E4, 250}, note{D4, 250}, note{C4, 500},
)

// HappyBirthday is the traditional birthday song.
var HappyBirthday = melody("happy_birthday",
	note{G4, dottedEighth}, note{G4, sixteenth}, note{A4, quarter}, note{G4, quarter}, note{C5, quarter}, note{B4, half},
	note{G4, dottedEighth}, note{G4, sixteenth}, note{A4, quarter}, note{G4, quarter}, note{D5, quarter}, note{C5, half},
	note{G4, dottedEighth}, note{G4, sixteenth}, note{G5, quarter}, note{E5, quarter}, note{C5, quarter}, note{B4, quarter}, note{A4, half},
	note{F5, dottedEighth}, note{F5, sixteenth}, note{E5, quarter}, note{C5, quarter}, note{D5, quarter}, note{C5, half},
)

// Tetris is the first part of Korobeiniki.
var Tetris = melody("tetris",
	note{E5, quarter}, note{B4, eighth}, note{C5, eighth}, note{D5, quarter}, note{C5, eighth}, note{B4, eighth},
	note{A4, quarter}, note{A4, eighth}, note{C5, eighth}, note{E5, quarter}, note{D5, eighth}, note{C5, eighth},
	note{B4, dottedQuarter}, note{C5, eighth}, note{D5, quarter}, note{E5, quarter},
	note{C5, quarter}, note{A4, quarter}, note{A4, quarter}, note{Rest, quarter},
	note{Rest, eighth}, note{D5, quarter}, note{F5, eighth}, note{A5, quarter}, note{G5, eighth}, note{F5, eighth},
	note{E5, dottedQuarter}, note{C5, eighth}, note{E5, quarter}, note{D5, eighth}, note{C5, eighth},
	note{B4, quarter}, note{B4, eighth}, note{C5, eighth}, note{D5, quarter}, note{E5, quarter},
	note{C5, quarter}, note{A4, quarter}, note{A4, quarter}, note{Rest, quarter},
)

// StateChange is the short chime played on a mode switch.
var StateChange = melody("state_change",
	note{C5, 200}, note{200, 200},
)

// Default returns the preloaded library: scale, happy birthday and tetris.
// The slices are shared; callers must not modify them.
func Default() []core.Melody {
	return []core.Melody{Scale, HappyBirthday, Tetris}
}

// ByName returns the preloaded melody called name.
func ByName(name string) (core.Melody, bool) {
	for _, m := range []core.Melody{Scale, HappyBirthday, Tetris, StateChange} {
		if m.Name == name {
			return m, true
		}
	}
	return core.Melody{}, false
}
