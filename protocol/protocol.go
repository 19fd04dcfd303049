// Package protocol implements the newline-terminated text line protocol
// spoken over the jukebox serial channel.
package protocol

const (
	// Version of the line protocol.
	Version = "jukebox-1"

	// InputBufferLength is the capacity of one received command line,
	// terminator excluded.
	InputBufferLength = 10

	// OutputBufferLength is the capacity of one response line, terminator
	// included.
	OutputBufferLength = 100

	// EmptyByte marks unused buffer positions.
	EmptyByte byte = 0

	// EndChar terminates every line in both directions.
	EndChar byte = '\n'

	// BaudRate is the line speed on every platform.
	BaudRate = 9600
)
