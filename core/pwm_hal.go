package core

// BuzzerDriver drives a piezo buzzer from a PWM output and a one-shot note
// timer.
type BuzzerDriver interface {
	// SetNoteFrequency starts the tone. A frequency of 0 silences the
	// output without stopping the note timer.
	SetNoteFrequency(hz float64)

	// SetNoteDuration clears the elapsed flag and restarts the note timer.
	SetNoteDuration(ms uint32)

	// NoteTimerElapsed reports whether the note timer fired since the last
	// SetNoteDuration.
	NoteTimerElapsed() bool

	// Stop halts both the tone and the note timer.
	Stop()
}
