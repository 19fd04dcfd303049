package core

import "jukebox/fsm"

// BuzzerID identifies a buzzer in traces.
type BuzzerID uint8

// BuzzerAction is the playback request set by the application.
type BuzzerAction uint8

const (
	BuzzerStop BuzzerAction = iota
	BuzzerPlay
	BuzzerPause
)

func (a BuzzerAction) String() string {
	switch a {
	case BuzzerStop:
		return "stop"
	case BuzzerPlay:
		return "play"
	case BuzzerPause:
		return "pause"
	}
	return "unknown"
}

// Buzzer states.
const (
	BuzzerWaitStart fsm.State = iota
	BuzzerWaitNote
	BuzzerPlayNote
	BuzzerWaitMelody
	BuzzerPauseNote
)

// MinSpeed is the lowest accepted playback speed factor.
const MinSpeed = 0.1

// Buzzer plays a borrowed Melody note by note. Each note is started with
// its duration divided by the speed factor; the machine advances when the
// driver's note timer elapses.
type Buzzer struct {
	id  BuzzerID
	drv BuzzerDriver
	m   *fsm.Machine

	melody    *Melody
	noteIndex int
	action    BuzzerAction
	speed     float64
}

// NewBuzzer creates an idle Buzzer with no melody and speed 1.
func NewBuzzer(id BuzzerID, drv BuzzerDriver) (*Buzzer, error) {
	if drv == nil {
		return nil, ErrMissingDriver
	}

	b := &Buzzer{id: id, drv: drv, action: BuzzerStop, speed: 1.0}
	m, err := fsm.New("buzzer"+Utoa(uint32(id)), BuzzerWaitStart, []fsm.Transition{
		{From: BuzzerWaitStart, Guard: b.checkMelodyStart, To: BuzzerWaitNote, Action: b.startMelody},
		{From: BuzzerWaitNote, Guard: b.drv.NoteTimerElapsed, To: BuzzerPlayNote, Action: b.endNote},
		{From: BuzzerPlayNote, Guard: b.checkPlayNote, To: BuzzerWaitNote, Action: b.playNote},
		{From: BuzzerPlayNote, Guard: b.checkEndMelody, To: BuzzerWaitMelody, Action: b.endMelody},
		{From: BuzzerPlayNote, Guard: b.checkStop, To: BuzzerWaitStart, Action: b.stopPlayer},
		{From: BuzzerPlayNote, Guard: b.checkPause, To: BuzzerPauseNote, Action: b.pausePlayer},
		{From: BuzzerWaitMelody, Guard: b.checkMelodyStart, To: BuzzerWaitNote, Action: b.startMelody},
		{From: BuzzerPauseNote, Guard: b.checkResume, To: BuzzerPlayNote},
	})
	if err != nil {
		return nil, err
	}
	b.m = m
	traceMachine(m)
	return b, nil
}

func (b *Buzzer) checkMelodyStart() bool {
	return b.melody != nil && b.action == BuzzerPlay
}

func (b *Buzzer) checkPlayNote() bool {
	return b.noteIndex < b.melody.Len() && b.action == BuzzerPlay
}

func (b *Buzzer) checkEndMelody() bool {
	return b.noteIndex >= b.melody.Len()
}

func (b *Buzzer) checkStop() bool   { return b.action == BuzzerStop }
func (b *Buzzer) checkPause() bool  { return b.action == BuzzerPause }
func (b *Buzzer) checkResume() bool { return b.action == BuzzerPlay }

func (b *Buzzer) startNote(i int) {
	ms := uint32(float64(b.melody.Durations[i]) / b.speed)
	b.drv.SetNoteDuration(ms)
	b.drv.SetNoteFrequency(b.melody.Notes[i])
}

func (b *Buzzer) startMelody() {
	b.noteIndex = 0
	if b.melody.Len() == 0 {
		// Nothing to play; let the next note-end report the melody end.
		b.drv.SetNoteDuration(0)
		return
	}
	b.startNote(0)
	b.noteIndex = 1
}

func (b *Buzzer) endNote() {
	b.drv.Stop()
}

func (b *Buzzer) playNote() {
	b.startNote(b.noteIndex)
	b.noteIndex++
}

func (b *Buzzer) endMelody() {
	b.drv.Stop()
	b.noteIndex = 0
	b.action = BuzzerStop
}

func (b *Buzzer) stopPlayer() {
	b.drv.Stop()
	b.noteIndex = 0
}

func (b *Buzzer) pausePlayer() {
	b.drv.Stop()
}

// Fire runs one step of the player machine.
func (b *Buzzer) Fire() bool { return b.m.Fire() }

// State returns the current player state.
func (b *Buzzer) State() fsm.State { return b.m.State() }

// ID returns the buzzer identifier.
func (b *Buzzer) ID() BuzzerID { return b.id }

// SetMelody assigns the melody played on the next start. The melody is
// borrowed and must not change while assigned.
func (b *Buzzer) SetMelody(m *Melody) { b.melody = m }

// Melody returns the assigned melody, or nil.
func (b *Buzzer) Melody() *Melody { return b.melody }

// SetAction requests play, pause or stop. Stop rewinds to the first note.
func (b *Buzzer) SetAction(a BuzzerAction) {
	b.action = a
	if a == BuzzerStop {
		b.noteIndex = 0
	}
}

// Action returns the current playback request.
func (b *Buzzer) Action() BuzzerAction { return b.action }

// SetSpeed sets the speed factor applied to notes started afterwards.
// Values below MinSpeed, including NaN, are raised to MinSpeed.
func (b *Buzzer) SetSpeed(s float64) {
	if !(s > MinSpeed) {
		s = MinSpeed
	}
	b.speed = s
}

// Speed returns the speed factor.
func (b *Buzzer) Speed() float64 { return b.speed }

// NoteIndex returns the index of the next note to start.
func (b *Buzzer) NoteIndex() int { return b.noteIndex }

// Active reports whether playback is requested or paused.
func (b *Buzzer) Active() bool { return b.action != BuzzerStop }
