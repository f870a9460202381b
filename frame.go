package mcserver

import (
	"bytes"
	"compress/zlib"
	"errors"
	"io"

	"github.com/gstoney/mcserver/packet"
)

var (
	ErrInvalidFrameLength  = errors.New("invalid frame length")
	ErrInvalidDataLength   = errors.New("invalid data length")
	ErrZlibPayloadOverrun  = errors.New("zlib stream exceeds declared payload length")
	ErrZlibPayloadUnderrun = errors.New("zlib stream shorter than declared payload length")
	ErrZlibTrailingData    = errors.New("trailing data in frame after zlib stream ends")
)

// frameReader wraps a source reader to provide bounded access to one frame at a time.
// It ensures packet frame alignment.
type frameReader struct {
	src       byteReader
	remaining int32
}

func (f *frameReader) Read(p []byte) (n int, err error) {
	if f.remaining <= 0 {
		return 0, io.EOF
	}
	if int32(len(p)) > f.remaining {
		p = p[0:f.remaining]
	}
	n, err = f.src.Read(p)
	f.remaining -= int32(n)

	if err == io.EOF && f.remaining > 0 {
		err = io.ErrUnexpectedEOF
	}
	return
}

// next reads the length header of the following frame. The header is read a
// byte at a time, so 1 to 5 byte headers never consume bytes of the frame
// behind them.
func (f *frameReader) next(max int32) (length int32, err error) {
	length, err = packet.ReadVarInt(f.src)
	if err != nil {
		return
	}

	switch {
	case length <= 0:
		err = ErrInvalidFrameLength
	case max > 0 && length > max:
		err = ErrPacketTooBig
	default:
		f.remaining = length
	}
	return
}

// body reads the whole current frame.
func (f *frameReader) body() ([]byte, error) {
	b := make([]byte, f.remaining)
	if _, err := io.ReadFull(f, b); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return b, nil
}

// inflater decompresses frame bodies, reusing one zlib reader.
type inflater struct {
	zr  io.ReadCloser
	src bytes.Reader
}

// inflate decompresses body, which must hold one zlib stream producing
// exactly dataLen bytes and nothing after it.
func (z *inflater) inflate(body []byte, dataLen int32) (out []byte, err error) {
	z.src.Reset(body)

	if z.zr == nil {
		z.zr, err = zlib.NewReader(&z.src)
	} else {
		err = z.zr.(zlib.Resetter).Reset(&z.src, nil)
	}
	if err != nil {
		return nil, err
	}

	out = make([]byte, dataLen)
	if _, err = io.ReadFull(z.zr, out); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			err = ErrZlibPayloadUnderrun
		}
		return nil, err
	}

	var extra [1]byte
	n, err := z.zr.Read(extra[:])
	if n > 0 || err == nil {
		return nil, ErrZlibPayloadOverrun
	} else if err != io.EOF {
		return nil, err
	}

	if z.src.Len() > 0 {
		return nil, ErrZlibTrailingData
	}
	return out, z.zr.Close()
}
