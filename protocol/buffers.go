package protocol

// FifoBuffer is a fixed-capacity byte ring used on both ends of a serial
// line. It is not synchronized; callers that share it across goroutines
// must lock around it.
type FifoBuffer struct {
	buf   []byte
	head  int // next byte to read
	count int
}

// NewFifoBuffer creates a FifoBuffer holding up to capacity bytes
func NewFifoBuffer(capacity int) *FifoBuffer {
	return &FifoBuffer{buf: make([]byte, capacity)}
}

func (f *FifoBuffer) at(i int) int {
	return (f.head + i) % len(f.buf)
}

// WriteByte appends one byte. It returns ErrBufferFull when the ring has
// no room left.
func (f *FifoBuffer) WriteByte(b byte) error {
	if f.count == len(f.buf) {
		return ErrBufferFull
	}
	f.buf[f.at(f.count)] = b
	f.count++
	return nil
}

// Write appends as much of data as fits and returns the number of bytes
// stored.
func (f *FifoBuffer) Write(data []byte) int {
	for i, b := range data {
		if f.WriteByte(b) != nil {
			return i
		}
	}
	return len(data)
}

// Read moves up to len(data) bytes out of the ring
func (f *FifoBuffer) Read(data []byte) int {
	n := 0
	for n < len(data) && f.count > 0 {
		data[n] = f.buf[f.head]
		f.head = f.at(1)
		f.count--
		n++
	}
	return n
}

// Available returns the number of buffered bytes
func (f *FifoBuffer) Available() int {
	return f.count
}

// Free returns the room left
func (f *FifoBuffer) Free() int {
	return len(f.buf) - f.count
}

func (f *FifoBuffer) IsEmpty() bool {
	return f.count == 0
}

// Pop discards up to n bytes from the front
func (f *FifoBuffer) Pop(n int) {
	if n > f.count {
		n = f.count
	}
	f.head = f.at(n)
	f.count -= n
}

// Drain returns every buffered byte in order and empties the ring
func (f *FifoBuffer) Drain() []byte {
	out := make([]byte, f.count)
	f.Read(out)
	return out
}

func (f *FifoBuffer) Reset() {
	f.head = 0
	f.count = 0
}

// PopLine removes and returns the oldest complete line, terminator
// excluded. It returns false when no terminator is buffered.
func (f *FifoBuffer) PopLine() ([]byte, bool) {
	for i := 0; i < f.count; i++ {
		if f.buf[f.at(i)] != EndChar {
			continue
		}
		line := make([]byte, i)
		f.Read(line)
		f.Pop(1)
		return line, true
	}
	return nil, false
}
