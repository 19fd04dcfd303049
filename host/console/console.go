// Package console is the host side of the jukebox serial link. It sends
// text commands and collects the lines the jukebox answers with.
package console

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"jukebox/host/serial"
	"jukebox/protocol"
)

var (
	ErrNotConnected    = errors.New("not connected to jukebox")
	ErrCommandTooLong  = errors.New("command longer than the jukebox input buffer")
	ErrInvalidCommand  = errors.New("command contains a line terminator")
	ErrTimeout         = errors.New("timeout waiting for response")
	ErrUnexpectedReply = errors.New("unexpected reply")
)

// Client represents a connection to a jukebox
type Client struct {
	port serial.Port

	mu        sync.Mutex
	connected bool

	lines chan string
	errs  chan error
	done  chan struct{}
	wg    sync.WaitGroup
}

// Connect opens device with the default line settings
func Connect(device string) (*Client, error) {
	return ConnectWithConfig(serial.DefaultConfig(device))
}

// ConnectWithConfig opens a jukebox with a custom serial config
func ConnectWithConfig(cfg *serial.Config) (*Client, error) {
	port, err := serial.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port: %w", err)
	}
	// Drop whatever the board sent before we were listening.
	if err := port.Flush(); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to flush serial port: %w", err)
	}
	return NewClient(port), nil
}

// NewClient starts reading lines from port
func NewClient(port serial.Port) *Client {
	c := &Client{
		port:      port,
		connected: true,
		lines:     make(chan string, 16),
		errs:      make(chan error, 1),
		done:      make(chan struct{}),
	}
	c.wg.Add(1)
	go c.readLoop()
	return c
}

func (c *Client) readLoop() {
	defer c.wg.Done()
	defer close(c.lines)

	fifo := protocol.NewFifoBuffer(4 * protocol.OutputBufferLength)
	buf := make([]byte, 64)

	for {
		n, err := c.port.Read(buf)
		if n > 0 {
			fifo.Write(buf[:n])
			for {
				line, ok := fifo.PopLine()
				if !ok {
					break
				}
				select {
				case c.lines <- strings.TrimRight(string(line), "\r"):
				case <-c.done:
					return
				}
			}
			if fifo.Free() == 0 {
				// A line longer than the jukebox can send; resync.
				fifo.Reset()
			}
		}

		select {
		case <-c.done:
			return
		default:
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				// tarm/serial reports a read timeout as EOF
				continue
			}
			select {
			case c.errs <- err:
			default:
			}
			return
		}
	}
}

// Send writes cmd followed by the line terminator
func (c *Client) Send(cmd string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return ErrNotConnected
	}
	if strings.ContainsRune(cmd, rune(protocol.EndChar)) {
		return ErrInvalidCommand
	}
	if len(cmd) > protocol.InputBufferLength {
		return ErrCommandTooLong
	}

	if _, err := c.port.Write(append([]byte(cmd), protocol.EndChar)); err != nil {
		return fmt.Errorf("failed to send %q: %w", cmd, err)
	}
	return nil
}

// Lines returns the received lines, terminator excluded. The channel is
// closed when the connection ends.
func (c *Client) Lines() <-chan string {
	return c.lines
}

// Err returns the read error that ended the connection, if any
func (c *Client) Err() error {
	select {
	case err := <-c.errs:
		return err
	default:
		return nil
	}
}

// Request sends cmd and waits for one reply line. Commands that do not
// answer time out.
func (c *Client) Request(cmd string, timeout time.Duration) (string, error) {
	c.drain()
	if err := c.Send(cmd); err != nil {
		return "", err
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case line, ok := <-c.lines:
		if !ok {
			if err := c.Err(); err != nil {
				return "", err
			}
			return "", ErrNotConnected
		}
		return line, nil
	case <-timer.C:
		return "", ErrTimeout
	}
}

// Info asks the jukebox which melody is current
func (c *Client) Info(timeout time.Duration) (string, error) {
	line, err := c.Request("info", timeout)
	if err != nil {
		return "", err
	}
	name, ok := strings.CutPrefix(line, "Playing: ")
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnexpectedReply, line)
	}
	return name, nil
}

// drain drops replies nobody waited for
func (c *Client) drain() {
	for {
		select {
		case _, ok := <-c.lines:
			if !ok {
				return
			}
		default:
			return
		}
	}
}

// Close closes the connection to the jukebox
func (c *Client) Close() error {
	c.mu.Lock()
	if !c.connected {
		c.mu.Unlock()
		return nil
	}
	c.connected = false
	close(c.done)
	c.mu.Unlock()

	err := c.port.Close()
	c.wg.Wait()
	return err
}

// IsConnected returns whether the client is connected
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}
