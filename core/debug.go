package core

import "jukebox/fsm"

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// TransitionEvent captures one state machine transition for post-mortem
// analysis
type TransitionEvent struct {
	Machine string
	From    fsm.State
	To      fsm.State
	Tick    uint32 // Clock at event, 0 when no trace clock is set
}

const (
	TransitionRingSize = 32 // Keep last 32 transitions for post-mortem
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false

	// traceTransitions prints every transition when debug output is enabled
	traceTransitions bool = false

	// Transition ring buffer (non-blocking, for post-mortem)
	transitionRing     [TransitionRingSize]TransitionEvent
	transitionRingHead uint8
	transitionCount    uint32
	traceClock         Clock

	// Async debug output channel
	debugChan chan string
)

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to UART, USB, slog, etc.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// SetTraceTransitions prints every state machine transition through the
// debug writer while debug output is enabled
func SetTraceTransitions(enabled bool) {
	traceTransitions = enabled
}

// SetTraceClock sets the clock used to timestamp recorded transitions
func SetTraceClock(clk Clock) {
	traceClock = clk
}

// InitAsyncDebug starts the async debug output goroutine
// Call this from main() after SetDebugWriter
func InitAsyncDebug() {
	debugChan = make(chan string, 16) // Buffer 16 messages
	go debugOutputWorker()
}

// debugOutputWorker runs in background, drains debug channel
func debugOutputWorker() {
	for msg := range debugChan {
		if debugPrintln != nil {
			debugPrintln(msg)
		}
	}
}

// DebugPrintln writes a debug message using the platform-specific writer
// Blocks if debug is enabled (use DebugAsync for non-blocking)
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// DebugAsync queues a debug message for async output (non-blocking)
// Returns immediately even if channel is full (drops message)
func DebugAsync(msg string) {
	if debugChan != nil {
		select {
		case debugChan <- msg:
		default:
			// Channel full, drop message (non-blocking)
		}
	}
}

// traceMachine hooks a machine into the transition ring
func traceMachine(m *fsm.Machine) {
	m.SetTracer(RecordTransition)
}

// RecordTransition captures a transition in the ring buffer. The ring is
// shared with readers on other goroutines, so it is only touched inside a
// masked section.
func RecordTransition(name string, from, to fsm.State) {
	var tick uint32
	if traceClock != nil {
		tick = traceClock.Millis()
	}

	state := disableInterrupts()
	idx := transitionRingHead
	transitionRing[idx] = TransitionEvent{
		Machine: name,
		From:    from,
		To:      to,
		Tick:    tick,
	}
	transitionRingHead = (idx + 1) % TransitionRingSize
	transitionCount++
	restoreInterrupts(state)

	if traceTransitions {
		DebugPrintln("[FSM] " + name + " " + Utoa(uint32(from)) + "->" + Utoa(uint32(to)))
	}
}

// Transitions returns the recorded transitions, oldest first
func Transitions() []TransitionEvent {
	events, _ := snapshotTransitions()
	return events
}

func snapshotTransitions() ([]TransitionEvent, uint32) {
	state := disableInterrupts()
	ring := transitionRing
	start := transitionRingHead
	count := transitionCount
	restoreInterrupts(state)

	events := make([]TransitionEvent, 0, TransitionRingSize)
	for i := uint8(0); i < TransitionRingSize; i++ {
		evt := ring[(start+i)%TransitionRingSize]
		if evt.Machine == "" {
			continue // Empty slot
		}
		events = append(events, evt)
	}
	return events, count
}

// DumpTransitions outputs the transition ring buffer (call on shutdown/error)
func DumpTransitions() {
	if debugPrintln == nil {
		return
	}

	events, count := snapshotTransitions()
	debugPrintln("[FSM] === Transition Ring Dump ===")
	debugPrintln("[FSM] Total transitions: " + Utoa(count))
	for _, evt := range events {
		debugPrintln("[FSM] " + evt.Machine +
			" " + Utoa(uint32(evt.From)) + "->" + Utoa(uint32(evt.To)) +
			" tick=" + Utoa(evt.Tick))
	}
	debugPrintln("[FSM] === End Dump ===")
}

// ClearTransitions clears the transition buffer
func ClearTransitions() {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	for i := range transitionRing {
		transitionRing[i] = TransitionEvent{}
	}
	transitionRingHead = 0
	transitionCount = 0
}
