package packet

// Reader is a cursor over the payload of a single frame.
// Reads never allocate based on a length claim; every read is checked
// against the remaining bytes first.
type Reader struct {
	buf []byte
	off int
}

func NewReader(buf []byte) Reader {
	return Reader{
		buf: buf,
		off: 0,
	}
}

func (r Reader) Remaining() int {
	return len(r.buf) - r.off
}

func (r *Reader) ReadByte() (byte, error) {
	if r.off >= len(r.buf) {
		return 0, ErrUnexpectedEnd
	}
	b := r.buf[r.off]
	r.off++
	return b, nil
}

// Read returns the next n bytes. The returned slice aliases the frame buffer.
func (r *Reader) Read(n int) ([]byte, error) {
	if n < 0 {
		return nil, ErrNegativeLength
	}
	if n > r.Remaining() {
		return nil, ErrUnexpectedEnd
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

// Rest consumes and returns every remaining byte.
func (r *Reader) Rest() []byte {
	b := r.buf[r.off:]
	r.off = len(r.buf)
	return b
}
