package core

// ButtonDriver reads one debounced-in-software digital input.
// Platform-specific implementations handle pin configuration and edge
// interrupts.
type ButtonDriver interface {
	// IsPressed returns the last level captured by the edge interrupt.
	IsPressed() bool
}

// Clock is the system millisecond tick counter.
type Clock interface {
	// Millis returns milliseconds since boot. The counter wraps after
	// about 49.7 days.
	Millis() uint32
}

// StatusLED is an optional indicator output.
type StatusLED interface {
	Set(on bool)
}
