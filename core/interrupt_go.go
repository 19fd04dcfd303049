//go:build !tinygo

package core

import "sync"

// State is a placeholder for interrupt state on regular Go
type State uintptr

// interruptMu stands in for the single-core interrupt mask when interrupt
// handlers are emulated by goroutines. Sections must not nest.
var interruptMu sync.Mutex

// disableInterrupts enters the masked section
func disableInterrupts() State {
	interruptMu.Lock()
	return 0
}

// restoreInterrupts leaves the masked section
func restoreInterrupts(state State) {
	interruptMu.Unlock()
}
