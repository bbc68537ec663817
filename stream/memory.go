package stream

// MemoryStream backs a Stream with an owned byte buffer of capacity C and
// logical size S <= C. Writes past S extend S and grow the buffer by
// rounding the required capacity up to the next power of two. Reserve is
// idempotent and monotone: it never shrinks the buffer.
type MemoryStream struct {
	buf    []byte
	size   int
	pos    int
	eof    bool
	bad    bool
	closed bool
}

// NewMemoryStream returns an empty, writable MemoryStream with the given
// initial capacity (rounded up to the next power of two).
func NewMemoryStream(capacity int) *MemoryStream {
	s := &MemoryStream{}
	if capacity > 0 {
		s.reserve(capacity)
	}
	return s
}

// NewMemoryStreamFromBytes returns a MemoryStream whose initial logical
// content is a copy of data[:size]. size must be <= len(data).
func NewMemoryStreamFromBytes(data []byte, size int) *MemoryStream {
	if size > len(data) {
		size = len(data)
	}
	buf := make([]byte, size)
	copy(buf, data[:size])
	return &MemoryStream{buf: buf, size: size}
}

// reserve grows the backing buffer, if needed, to at least capacity,
// rounding up to the next power of two. It never shrinks the buffer and
// is safe to call redundantly (idempotent, monotone).
func (s *MemoryStream) reserve(capacity int) {
	if capacity <= cap(s.buf) {
		return
	}
	newCap := nextPowerOfTwo(capacity)
	nb := make([]byte, newCap)
	copy(nb, s.buf[:s.size])
	s.buf = nb[:s.size]
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// Bytes returns the logical content of the stream (length == Size()).
// The returned slice aliases the stream's internal buffer; callers must
// not retain it across subsequent writes.
func (s *MemoryStream) Bytes() []byte {
	return s.buf[:s.size]
}

// Size returns the logical size S of the stream.
func (s *MemoryStream) Size() int { return s.size }

// Cap returns the current backing capacity C of the stream.
func (s *MemoryStream) Cap() int { return cap(s.buf) }

func (s *MemoryStream) Read(p []byte) (int, error) {
	if s.closed {
		return 0, ErrNotOpen
	}
	if len(p) == 0 {
		return 0, nil
	}
	if s.pos >= s.size {
		s.eof = true
		return 0, nil
	}
	n := copy(p, s.buf[s.pos:s.size])
	s.pos += n
	if n < len(p) {
		s.eof = true
	}
	return n, nil
}

func (s *MemoryStream) Write(p []byte) (int, error) {
	if s.closed {
		return 0, ErrNotOpen
	}
	if len(p) == 0 {
		return 0, nil
	}
	need := s.pos + len(p)
	if need > s.size {
		s.reserve(need)
		s.size = need
		s.buf = s.buf[:cap(s.buf)][:s.size]
	}
	copy(s.buf[s.pos:s.pos+len(p)], p)
	s.pos += len(p)
	return len(p), nil
}

func (s *MemoryStream) Seek(offset int64, whence Whence) bool {
	if s.closed {
		return false
	}
	var target int64
	switch whence {
	case Begin:
		target = offset
	case Current:
		target = int64(s.pos) + offset
	case End:
		target = int64(s.size) + offset
	default:
		return false
	}
	if target < 0 || target > int64(s.size) {
		return false
	}
	s.pos = int(target)
	s.eof = false
	return true
}

func (s *MemoryStream) Tell() int64 { return int64(s.pos) }
func (s *MemoryStream) Eof() bool   { return s.eof }
func (s *MemoryStream) Bad() bool   { return s.bad }
func (s *MemoryStream) Good() bool  { return !s.eof && !s.bad }

func (s *MemoryStream) Clearerr() {
	s.eof = false
	s.bad = false
}

// Flush is a no-op for memory streams.
func (s *MemoryStream) Flush() error { return nil }

// Truncate sets the logical size downward, keeping capacity unchanged.
// It is a no-op if newSize >= Size().
func (s *MemoryStream) Truncate(newSize int) {
	if newSize < 0 || newSize >= s.size {
		return
	}
	s.size = newSize
	s.buf = s.buf[:s.size]
	if s.pos > s.size {
		s.pos = s.size
	}
}

func (s *MemoryStream) Close() error {
	if s.closed {
		return ErrClosed
	}
	s.closed = true
	s.buf = nil
	s.size = 0
	s.pos = 0
	return nil
}
