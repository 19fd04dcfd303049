package sim

import (
	"sync"

	"jukebox/protocol"
)

const lineFifoSize = 1024

// USART is a simulated serial port. Bytes sent from the host side reach the
// firmware's receive handler one per millisecond, and bytes the firmware
// transmits are collected for the host side.
type USART struct {
	*protocol.LinePort

	mu sync.Mutex
	rx *protocol.FifoBuffer // host to firmware
	tx *protocol.FifoBuffer // firmware to host
}

type usartWire struct {
	u *USART
}

func (w usartWire) WriteByte(c byte) error {
	w.u.mu.Lock()
	defer w.u.mu.Unlock()
	return w.u.tx.WriteByte(c)
}

func newUSART() *USART {
	u := &USART{
		rx: protocol.NewFifoBuffer(lineFifoSize),
		tx: protocol.NewFifoBuffer(lineFifoSize),
	}
	u.LinePort = protocol.NewLinePort(usartWire{u})
	return u
}

// service runs the receive and transmit-empty handlers for one
// millisecond of line time.
func (u *USART) service() {
	var b [1]byte
	u.mu.Lock()
	n := u.rx.Read(b[:])
	u.mu.Unlock()
	if n == 1 {
		u.StoreByte(b[0])
	}

	u.TxEmpty()
}

// Send queues raw bytes from the host side.
func (u *USART) Send(data []byte) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.rx.Write(data)
}

// SendLine queues line followed by the terminator.
func (u *USART) SendLine(line string) int {
	return u.Send(append([]byte(line), protocol.EndChar))
}

// Pending returns the number of host bytes not yet delivered.
func (u *USART) Pending() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.rx.Available()
}

// ReadLine returns the next complete line transmitted by the firmware,
// terminator excluded.
func (u *USART) ReadLine() (string, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	line, ok := u.tx.PopLine()
	return string(line), ok
}

// Output returns everything transmitted and not yet read, terminators
// included, and consumes it.
func (u *USART) Output() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return string(u.tx.Drain())
}
