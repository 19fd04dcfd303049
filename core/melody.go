package core

// MelodyLibrarySize is the number of slots in the jukebox library.
const MelodyLibrarySize = 10

// Melody is an immutable sequence of notes. Notes holds frequencies in Hz
// (0 is a rest) and Durations the matching lengths in ms.
type Melody struct {
	Name      string
	Notes     []float64
	Durations []uint32
}

// Len returns the number of playable notes. A Melody whose slices differ in
// length plays only the common prefix.
func (m *Melody) Len() int {
	if m == nil {
		return 0
	}
	if len(m.Durations) < len(m.Notes) {
		return len(m.Durations)
	}
	return len(m.Notes)
}

// Empty reports whether the melody has no notes. Empty library slots are
// never selected.
func (m *Melody) Empty() bool { return m.Len() == 0 }

// DisplayName returns the name reported by the info command.
func (m *Melody) DisplayName() string {
	if m == nil {
		return ""
	}
	return m.Name
}
