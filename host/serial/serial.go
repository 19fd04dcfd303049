package serial

import (
	"errors"
	"io"

	"jukebox/protocol"
)

// Port represents a serial port interface
// This abstraction allows for different implementations:
// - Native serial (using github.com/tarm/serial)
// - go.bug.st/serial, which also enumerates ports
// - Mock serial (for testing)
type Port interface {
	io.ReadWriteCloser

	// Flush discards any stale received data
	Flush() error
}

// Serial backends selectable through Config.Driver.
const (
	DriverTarm  = "tarm"
	DriverBugst = "bugst"
)

var (
	ErrNilConfig     = errors.New("config cannot be nil")
	ErrNoDevice      = errors.New("no serial device")
	ErrUnknownDriver = errors.New("unknown serial driver")
)

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyUSB0", "COM3")
	Device string

	// Baud rate, 9600 for the jukebox
	Baud int

	// Read timeout in milliseconds (0 = blocking)
	ReadTimeout int

	// Driver selects the backend, DriverTarm when empty
	Driver string
}

// DefaultConfig returns the jukebox line settings for device
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        protocol.BaudRate,
		ReadTimeout: 100,
		Driver:      DriverTarm,
	}
}

// Open opens cfg.Device with the configured backend
func Open(cfg *Config) (Port, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.Device == "" {
		return nil, ErrNoDevice
	}

	switch cfg.Driver {
	case "", DriverTarm:
		return openTarm(cfg)
	case DriverBugst:
		return openBugst(cfg)
	default:
		return nil, ErrUnknownDriver
	}
}
