package mcserver

import (
	"bufio"
	"bytes"
	"compress/zlib"
	"errors"
	"io"

	"github.com/gstoney/mcserver/packet"
)

var ErrPacketTooBig = errors.New("packet too big")

// Vanilla limits: the largest length a 3 byte VarInt header can carry, and
// the largest decompressed packet the client accepts.
const (
	DefaultMaxPacketLen       = 1<<21 - 1
	DefaultMaxDecompressedLen = 1 << 23
)

type TransportConfig struct {
	MaxPacketLen       int32
	MaxDecompressedLen int32
}

func DefaultTransportConfig() TransportConfig {
	return TransportConfig{
		MaxPacketLen:       DefaultMaxPacketLen,
		MaxDecompressedLen: DefaultMaxDecompressedLen,
	}
}

type byteReader interface {
	io.Reader
	io.ByteReader
}

type byteWriter interface {
	io.Writer
	io.ByteWriter
}

// Transport provides read and write access to a framed stream,
// with compression handled internally.
// Transport does not deserialize packets.
//
// Recv and Send may run on different goroutines, but neither is safe for
// concurrent use with itself.
type Transport struct {
	reader byteReader
	writer byteWriter

	fReader frameReader
	zReader inflater

	zBuffer bytes.Buffer
	zWriter *zlib.Writer
	out     []byte

	// Negative disables compression.
	CompressionThreshold int

	cfg TransportConfig
}

// NewTransport creates a Transport.
//
// For readers/writers that perform syscalls (e.g. net.Conn), buffering is
// required. Indicate buffered I/O by implementing io.ByteReader/io.ByteWriter.
// If these interfaces are not implemented, the reader/writer will be wrapped
// with bufio.
func NewTransport(r io.Reader, w io.Writer, cfg TransportConfig) *Transport {
	var br byteReader
	var bw byteWriter

	if b, ok := r.(byteReader); ok {
		br = b
	} else if r != nil {
		br = bufio.NewReader(r)
	}

	if b, ok := w.(byteWriter); ok {
		bw = b
	} else if w != nil {
		bw = bufio.NewWriter(w)
	}

	return &Transport{
		reader:               br,
		writer:               bw,
		fReader:              frameReader{src: br},
		CompressionThreshold: -1,
		cfg:                  cfg,
	}
}

// Recv reads one whole frame. io.EOF is returned only when the stream ends
// cleanly between frames.
func (t *Transport) Recv() (f packet.Frame, err error) {
	if _, err = t.fReader.next(t.cfg.MaxPacketLen); err != nil {
		return
	}

	body, err := t.fReader.body()
	if err != nil {
		return
	}

	r := packet.NewReader(body)

	if t.CompressionThreshold >= 0 {
		dataLen, err := packet.ReadVarInt(&r)
		if err != nil {
			return f, err
		}

		switch {
		case dataLen < 0:
			return f, ErrInvalidDataLength
		case dataLen > 0:
			if t.cfg.MaxDecompressedLen > 0 && dataLen > t.cfg.MaxDecompressedLen {
				return f, ErrPacketTooBig
			}

			body, err = t.zReader.inflate(r.Rest(), dataLen)
			if err != nil {
				return f, err
			}
			r = packet.NewReader(body)
		}
	}

	if f.ID, err = packet.ReadVarInt(&r); err != nil {
		return
	}
	f.Payload = r.Rest()
	return
}

// Send frames the packet id and payload and writes the frame in one write.
func (t *Transport) Send(id int32, payload []byte) error {
	length := packet.VarIntSize(id) + len(payload)

	out := t.out[:0]

	if t.CompressionThreshold >= 0 {
		if length >= t.CompressionThreshold {
			t.zBuffer.Reset()
			if t.zWriter == nil {
				t.zWriter = zlib.NewWriter(&t.zBuffer)
			} else {
				t.zWriter.Reset(&t.zBuffer)
			}

			var idBuf [5]byte
			t.zWriter.Write(packet.AppendVarInt(idBuf[:0], id))
			t.zWriter.Write(payload)
			if err := t.zWriter.Close(); err != nil {
				return err
			}

			frameLen := packet.VarIntSize(int32(length)) + t.zBuffer.Len()
			if err := t.checkLen(frameLen); err != nil {
				return err
			}
			out = packet.AppendVarInt(out, int32(frameLen))
			out = packet.AppendVarInt(out, int32(length))
			out = append(out, t.zBuffer.Bytes()...)
		} else {
			if err := t.checkLen(length + 1); err != nil {
				return err
			}
			out = packet.AppendVarInt(out, int32(length+1))
			out = append(out, 0)
			out = packet.AppendVarInt(out, id)
			out = append(out, payload...)
		}
	} else {
		if err := t.checkLen(length); err != nil {
			return err
		}
		out = packet.AppendVarInt(out, int32(length))
		out = packet.AppendVarInt(out, id)
		out = append(out, payload...)
	}
	t.out = out

	if _, err := t.writer.Write(out); err != nil {
		return err
	}

	if bw, ok := t.writer.(*bufio.Writer); ok {
		return bw.Flush()
	}
	return nil
}

func (t *Transport) checkLen(frameLen int) error {
	if t.cfg.MaxPacketLen > 0 && frameLen > int(t.cfg.MaxPacketLen) {
		return ErrPacketTooBig
	}
	return nil
}
