package core

// USARTDriver is the port side of one serial channel. The receive side
// assembles newline-terminated lines in interrupt context; the transmit side
// drains one line per LoadTransmitBuffer. protocol.LinePort implements it
// for every platform.
type USARTDriver interface {
	BytesReceived() bool
	CopyReceivedLine(dst []byte)
	ClearReceiveState()

	LoadTransmitBuffer(data []byte)
	TransmitComplete() bool
	ClearTransmitState()

	EnableRxInterrupt()
	DisableRxInterrupt()
	EnableTxInterrupt()
	DisableTxInterrupt()
}
