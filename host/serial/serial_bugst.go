package serial

import (
	"fmt"
	"time"

	bugst "go.bug.st/serial"
)

// BugstPort wraps a go.bug.st/serial port
type BugstPort struct {
	port bugst.Port
}

func openBugst(cfg *Config) (Port, error) {
	mode := &bugst.Mode{
		BaudRate: cfg.Baud,
		DataBits: 8,
		Parity:   bugst.NoParity,
		StopBits: bugst.OneStopBit,
	}
	p, err := bugst.Open(cfg.Device, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", cfg.Device, err)
	}
	if cfg.ReadTimeout > 0 {
		if err := p.SetReadTimeout(time.Duration(cfg.ReadTimeout) * time.Millisecond); err != nil {
			p.Close()
			return nil, fmt.Errorf("failed to set read timeout on %s: %w", cfg.Device, err)
		}
	}
	return &BugstPort{port: p}, nil
}

func (p *BugstPort) Read(b []byte) (int, error)  { return p.port.Read(b) }
func (p *BugstPort) Write(b []byte) (int, error) { return p.port.Write(b) }
func (p *BugstPort) Close() error                { return p.port.Close() }

// Flush discards unread input
func (p *BugstPort) Flush() error {
	return p.port.ResetInputBuffer()
}

// ListPorts returns the serial devices present on this machine
func ListPorts() ([]string, error) {
	ports, err := bugst.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}
	return ports, nil
}
