package core

import "sync/atomic"

// TickCounter is a millisecond counter advanced by the tick interrupt and
// read by the main loop. It implements Clock.
type TickCounter struct {
	ticks uint32 // atomic
}

// Millis returns the current tick count
func (c *TickCounter) Millis() uint32 {
	return atomic.LoadUint32(&c.ticks)
}

// Advance adds ms to the counter (tick interrupt side)
func (c *TickCounter) Advance(ms uint32) uint32 {
	return atomic.AddUint32(&c.ticks, ms)
}

// Set sets the counter, for tests and boot-time synchronisation
func (c *TickCounter) Set(ms uint32) {
	atomic.StoreUint32(&c.ticks, ms)
}
