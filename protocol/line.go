package protocol

import "sync/atomic"

// ByteWriter is the transmit data register of a UART.
type ByteWriter interface {
	WriteByte(c byte) error
}

// LinePort holds the port-side buffers of one serial channel: the receive
// handler assembles bytes into a line, the transmit handler drains a
// terminated line one byte at a time.
//
// StoreByte and TxEmpty run in interrupt context. Every other method runs in
// the main loop. The line buffers are handed over through the received and
// sent flags: the receive handler stops writing the input buffer once it
// has published a line, and the main loop only touches the output buffer
// while the transmit interrupt is disabled.
type LinePort struct {
	wire ByteWriter

	in       [InputBufferLength]byte
	inIdx    int
	received uint32 // atomic bool (0 = false, 1 = true)

	out    [OutputBufferLength]byte
	outIdx int
	sent   uint32 // atomic bool

	rxEnabled uint32 // atomic bool
	txEnabled uint32 // atomic bool

	overruns uint32 // atomic
}

// NewLinePort creates a LinePort that transmits through wire.
func NewLinePort(wire ByteWriter) *LinePort {
	return &LinePort{wire: wire}
}

func loadFlag(p *uint32) bool {
	return atomic.LoadUint32(p) != 0
}

func storeFlag(p *uint32, v bool) {
	if v {
		atomic.StoreUint32(p, 1)
	} else {
		atomic.StoreUint32(p, 0)
	}
}

// StoreByte is the byte-received interrupt handler. Bytes arriving while
// the receive interrupt is disabled or while a line is still waiting to be
// collected are dropped and counted as overruns.
func (p *LinePort) StoreByte(b byte) {
	if !loadFlag(&p.rxEnabled) || loadFlag(&p.received) {
		atomic.AddUint32(&p.overruns, 1)
		return
	}

	if b == EndChar {
		p.inIdx = 0
		storeFlag(&p.received, true)
		return
	}

	if p.inIdx >= InputBufferLength {
		p.inIdx = 0
	}
	p.in[p.inIdx] = b
	p.inIdx++
}

// TxEmpty is the transmit-register-empty interrupt handler.
func (p *LinePort) TxEmpty() {
	if !loadFlag(&p.txEnabled) || loadFlag(&p.sent) {
		return
	}
	p.writeNext()
}

func (p *LinePort) writeNext() {
	b := p.out[p.outIdx]
	if b == EmptyByte {
		p.finishTx()
		return
	}

	_ = p.wire.WriteByte(b)
	if b == EndChar || p.outIdx == OutputBufferLength-1 {
		p.finishTx()
		return
	}
	p.outIdx++
}

func (p *LinePort) finishTx() {
	storeFlag(&p.txEnabled, false)
	p.outIdx = 0
	storeFlag(&p.sent, true)
}

// BytesReceived reports whether a complete line is waiting.
func (p *LinePort) BytesReceived() bool {
	return loadFlag(&p.received)
}

// CopyReceivedLine copies the assembled line into dst.
func (p *LinePort) CopyReceivedLine(dst []byte) {
	copy(dst, p.in[:])
}

// ClearReceiveState empties the input buffer and re-arms reception.
func (p *LinePort) ClearReceiveState() {
	p.in = [InputBufferLength]byte{}
	p.inIdx = 0
	storeFlag(&p.received, false)
}

// LoadTransmitBuffer replaces the output buffer with data and writes the
// first byte. The remaining bytes go out from TxEmpty once the transmit
// interrupt is enabled.
func (p *LinePort) LoadTransmitBuffer(data []byte) {
	p.ClearTransmitState()
	copy(p.out[:], data)
	p.writeNext()
}

// TransmitComplete reports whether the last loaded line has been written.
func (p *LinePort) TransmitComplete() bool {
	return loadFlag(&p.sent)
}

// ClearTransmitState empties the output buffer.
func (p *LinePort) ClearTransmitState() {
	storeFlag(&p.txEnabled, false)
	p.out = [OutputBufferLength]byte{}
	p.outIdx = 0
	storeFlag(&p.sent, false)
}

func (p *LinePort) EnableRxInterrupt()  { storeFlag(&p.rxEnabled, true) }
func (p *LinePort) DisableRxInterrupt() { storeFlag(&p.rxEnabled, false) }
func (p *LinePort) EnableTxInterrupt()  { storeFlag(&p.txEnabled, true) }
func (p *LinePort) DisableTxInterrupt() { storeFlag(&p.txEnabled, false) }

// RxEnabled reports whether the receive interrupt is enabled.
func (p *LinePort) RxEnabled() bool { return loadFlag(&p.rxEnabled) }

// TxEnabled reports whether the transmit interrupt is enabled.
func (p *LinePort) TxEnabled() bool { return loadFlag(&p.txEnabled) }

// Overruns returns the number of received bytes that were dropped.
func (p *LinePort) Overruns() uint32 {
	return atomic.LoadUint32(&p.overruns)
}
