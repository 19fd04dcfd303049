package core

import (
	"jukebox/fsm"
	"jukebox/protocol"
)

// USARTID identifies a serial channel in traces.
type USARTID uint8

// USART states.
const (
	USARTWaitData fsm.State = iota
	USARTSendData
)

// USART moves complete lines between the port and the application. A
// received line stays in the input buffer with DataReceived set until the
// consumer calls ResetInputData. A line placed with SetOutputData is sent on
// the next fire while the channel is idle.
type USART struct {
	id  USARTID
	drv USARTDriver
	m   *fsm.Machine

	dataReceived bool
	in           [protocol.InputBufferLength]byte
	out          [protocol.OutputBufferLength]byte
}

// NewUSART creates a USART in the WaitData state.
func NewUSART(id USARTID, drv USARTDriver) (*USART, error) {
	if drv == nil {
		return nil, ErrMissingDriver
	}

	u := &USART{id: id, drv: drv}
	m, err := fsm.New("usart"+Utoa(uint32(id)), USARTWaitData, []fsm.Transition{
		{From: USARTWaitData, Guard: u.checkDataTx, To: USARTSendData, Action: u.startTx},
		{From: USARTWaitData, Guard: u.drv.BytesReceived, To: USARTWaitData, Action: u.collectRx},
		{From: USARTSendData, Guard: u.drv.TransmitComplete, To: USARTWaitData, Action: u.endTx},
	})
	if err != nil {
		return nil, err
	}
	u.m = m
	traceMachine(m)
	return u, nil
}

func (u *USART) checkDataTx() bool {
	return u.out[0] != protocol.EmptyByte
}

func (u *USART) startTx() {
	u.drv.LoadTransmitBuffer(u.out[:])
	u.drv.EnableTxInterrupt()
}

func (u *USART) collectRx() {
	u.drv.CopyReceivedLine(u.in[:])
	u.drv.ClearReceiveState()
	u.dataReceived = true
}

func (u *USART) endTx() {
	u.drv.ClearTransmitState()
	u.out = [protocol.OutputBufferLength]byte{}
}

// Fire runs one step of the channel machine.
func (u *USART) Fire() bool { return u.m.Fire() }

// State returns the current channel state.
func (u *USART) State() fsm.State { return u.m.State() }

// ID returns the channel identifier.
func (u *USART) ID() USARTID { return u.id }

// DataReceived reports whether an unconsumed line is in the input buffer.
func (u *USART) DataReceived() bool { return u.dataReceived }

// InputData returns the received line up to the first empty byte.
func (u *USART) InputData() []byte {
	for i, b := range u.in {
		if b == protocol.EmptyByte {
			return u.in[:i]
		}
	}
	return u.in[:]
}

// ResetInputData consumes the received line.
func (u *USART) ResetInputData() {
	u.in = [protocol.InputBufferLength]byte{}
	u.dataReceived = false
}

// SetOutputData replaces the pending output line. Lines longer than the
// output buffer are cut and keep their terminator.
func (u *USART) SetOutputData(msg []byte) {
	u.out = [protocol.OutputBufferLength]byte{}
	n := copy(u.out[:], msg)
	if n < len(msg) {
		u.out[n-1] = protocol.EndChar
	}
}

// OutputPending reports whether a line is waiting to be sent.
func (u *USART) OutputPending() bool { return u.checkDataTx() }

// Active reports whether a transmission is running or input is waiting.
func (u *USART) Active() bool {
	return u.m.State() == USARTSendData || u.dataReceived
}

func (u *USART) EnableRxInterrupt()  { u.drv.EnableRxInterrupt() }
func (u *USART) DisableRxInterrupt() { u.drv.DisableRxInterrupt() }
func (u *USART) EnableTxInterrupt()  { u.drv.EnableTxInterrupt() }
func (u *USART) DisableTxInterrupt() { u.drv.DisableTxInterrupt() }
