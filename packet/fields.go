package packet

import (
	"encoding/binary"
	"io"
	"math"
	"unicode/utf8"

	"github.com/google/uuid"
)

type WriteFn[T any] func(io.Writer, T) error
type ReadFn[T any] func(*Reader) (T, error)

const (
	MaxStringLen     = 32767
	MaxIdentifierLen = 32767
)

func WriteBoolean(w io.Writer, v bool) (err error) {
	b := byte(0)
	if v {
		b = 1
	}

	_, err = w.Write([]byte{b})
	return
}

func ReadBoolean(r *Reader) (v bool, err error) {
	b, err := r.ReadByte()
	if err != nil {
		return
	}

	switch b {
	case 0:
		v = false
	case 1:
		v = true
	default:
		err = ErrNotBoolean
	}
	return
}

func WriteByte(w io.Writer, v byte) (err error) {
	_, err = w.Write([]byte{v})
	return
}

func ReadByte(r *Reader) (v byte, err error) {
	return r.ReadByte()
}

func WriteSignedByte(w io.Writer, v int8) error {
	return WriteByte(w, byte(v))
}

func ReadSignedByte(r *Reader) (int8, error) {
	b, err := r.ReadByte()
	return int8(b), err
}

func WriteShort(w io.Writer, v int16) error {
	return WriteUnsignedShort(w, uint16(v))
}

func ReadShort(r *Reader) (int16, error) {
	v, err := ReadUnsignedShort(r)
	return int16(v), err
}

func WriteUnsignedShort(w io.Writer, v uint16) (err error) {
	_, err = w.Write(binary.BigEndian.AppendUint16(nil, v))
	return
}

func ReadUnsignedShort(r *Reader) (v uint16, err error) {
	b, err := r.Read(2)
	if err != nil {
		return
	}

	v = binary.BigEndian.Uint16(b)
	return
}

func WriteInt(w io.Writer, v int32) (err error) {
	_, err = w.Write(binary.BigEndian.AppendUint32(nil, uint32(v)))
	return
}

func ReadInt(r *Reader) (v int32, err error) {
	b, err := r.Read(4)
	if err != nil {
		return
	}

	v = int32(binary.BigEndian.Uint32(b))
	return
}

func WriteLong(w io.Writer, v int64) (err error) {
	_, err = w.Write(binary.BigEndian.AppendUint64(nil, uint64(v)))
	return
}

func ReadLong(r *Reader) (v int64, err error) {
	b, err := r.Read(8)
	if err != nil {
		return
	}

	v = int64(binary.BigEndian.Uint64(b))
	return
}

func WriteFloat(w io.Writer, v float32) error {
	return WriteInt(w, int32(math.Float32bits(v)))
}

func ReadFloat(r *Reader) (float32, error) {
	v, err := ReadInt(r)
	return math.Float32frombits(uint32(v)), err
}

func WriteDouble(w io.Writer, v float64) error {
	return WriteLong(w, int64(math.Float64bits(v)))
}

func ReadDouble(r *Reader) (float64, error) {
	v, err := ReadLong(r)
	return math.Float64frombits(uint64(v)), err
}

// AppendVarInt appends the VarInt encoding of v to b.
func AppendVarInt(b []byte, v int32) []byte {
	uv := uint32(v)
	for uv >= 0x80 {
		b = append(b, byte(uv)|0x80)
		uv >>= 7
	}
	return append(b, byte(uv))
}

// AppendVarLong appends the VarLong encoding of v to b.
func AppendVarLong(b []byte, v int64) []byte {
	uv := uint64(v)
	for uv >= 0x80 {
		b = append(b, byte(uv)|0x80)
		uv >>= 7
	}
	return append(b, byte(uv))
}

// VarIntSize returns the number of bytes WriteVarInt emits for v.
func VarIntSize(v int32) int {
	uv := uint32(v)
	n := 1
	for uv >= 0x80 {
		uv >>= 7
		n++
	}
	return n
}

// VarLongSize returns the number of bytes WriteVarLong emits for v.
func VarLongSize(v int64) int {
	uv := uint64(v)
	n := 1
	for uv >= 0x80 {
		uv >>= 7
		n++
	}
	return n
}

func WriteVarInt(w io.Writer, v int32) error {
	var buf [5]byte
	_, err := w.Write(AppendVarInt(buf[:0], v))
	return err
}

// ReadVarInt decodes at most 5 bytes. A continuation bit on the fifth byte
// is ErrVarIntTooLarge. io.EOF is only returned when no byte was read, so a
// stream closed between frames can be told apart from a truncated one.
func ReadVarInt(r io.ByteReader) (int32, error) {
	var v uint32

	for n := 0; n < 5; n++ {
		b, err := r.ReadByte()
		if err != nil {
			if err == io.EOF && n > 0 {
				err = io.ErrUnexpectedEOF
			}
			return 0, err
		}

		v |= uint32(b&0x7F) << (7 * n)

		if (b & 0x80) == 0 {
			return int32(v), nil
		}
	}
	return 0, ErrVarIntTooLarge
}

func WriteVarLong(w io.Writer, v int64) error {
	var buf [10]byte
	_, err := w.Write(AppendVarLong(buf[:0], v))
	return err
}

func ReadVarLong(r io.ByteReader) (int64, error) {
	var v uint64

	for n := 0; n < 10; n++ {
		b, err := r.ReadByte()
		if err != nil {
			if err == io.EOF && n > 0 {
				err = io.ErrUnexpectedEOF
			}
			return 0, err
		}

		v |= uint64(b&0x7F) << (7 * n)

		if (b & 0x80) == 0 {
			return int64(v), nil
		}
	}
	return 0, ErrVarLongTooLarge
}

func WriteString(w io.Writer, v string) (err error) {
	err = WriteVarInt(w, int32(len(v)))
	if err != nil {
		return
	}
	_, err = io.WriteString(w, v)
	return
}

func ReadString(r *Reader) (string, error) {
	return readString(r, -1)
}

// StringMax returns a ReadFn that rejects strings longer than max characters.
func StringMax(max int) ReadFn[string] {
	return func(r *Reader) (string, error) {
		return readString(r, max)
	}
}

func readString(r *Reader, max int) (v string, err error) {
	length, err := ReadVarInt(r)
	if err != nil {
		return
	}

	if length < 0 {
		err = ErrNegativeLength
		return
	}

	// A character is at most 3 bytes in the protocol's UTF-8 budget.
	if max >= 0 && int(length) > max*3 {
		err = ErrStringTooLong
		return
	}

	buf, err := r.Read(int(length))
	if err != nil {
		return
	}

	if !utf8.Valid(buf) {
		err = ErrInvalidUTF8
		return
	}

	v = string(buf)
	if max >= 0 && utf8.RuneCountInString(v) > max {
		err = ErrStringTooLong
	}
	return
}

func WriteIdentifier(w io.Writer, v string) error {
	return WriteString(w, v)
}

func ReadIdentifier(r *Reader) (string, error) {
	return readString(r, MaxIdentifierLen)
}

// Position's serialized form is composed of X, Z which are 26 bits each, and 12 bits of Y.
// Thus, unintended content can be written when the values are out of range
type Position struct {
	X int32
	Y int16
	Z int32
}

func WritePosition(w io.Writer, v Position) (err error) {
	packed := (uint64(v.X&0x3FFFFFF) << 38) |
		(uint64(v.Z&0x3FFFFFF) << 12) |
		(uint64(v.Y & 0xFFF))

	return WriteLong(w, int64(packed))
}

func ReadPosition(r *Reader) (v Position, err error) {
	packed, err := ReadLong(r)
	if err != nil {
		return
	}

	// Arithmetic shifts keep the sign of each component.
	v.X = int32(packed >> 38)
	v.Z = int32(packed << 26 >> 38)
	v.Y = int16(packed << 52 >> 52)
	return
}

func WriteUUID(w io.Writer, v uuid.UUID) (err error) {
	_, err = w.Write(v[:])
	return
}

func ReadUUID(r *Reader) (v uuid.UUID, err error) {
	b, err := r.Read(16)
	if err != nil {
		return
	}

	v = uuid.UUID(b)
	return
}

func WriteByteArray(w io.Writer, v []byte) (err error) {
	if err = WriteVarInt(w, int32(len(v))); err != nil {
		return
	}
	_, err = w.Write(v)
	return
}

func ReadByteArray(r *Reader) (v []byte, err error) {
	length, err := ReadVarInt(r)
	if err != nil {
		return
	}
	if length < 0 {
		err = ErrNegativeLength
		return
	}

	b, err := r.Read(int(length))
	if err != nil {
		return
	}
	v = append([]byte(nil), b...)
	return
}

// WriteInferred writes raw bytes whose length is implied by the frame.
// It is only valid as the last field of a packet.
func WriteInferred(w io.Writer, v []byte) (err error) {
	_, err = w.Write(v)
	return
}

func ReadInferred(r *Reader) ([]byte, error) {
	return append([]byte(nil), r.Rest()...), nil
}

func WritePrefixedArray[T any](w io.Writer, v []T, write WriteFn[T]) (err error) {
	err = WriteVarInt(w, int32(len(v)))
	if err != nil {
		return
	}

	for _, item := range v {
		err = write(w, item)
		if err != nil {
			return
		}
	}
	return
}

func ReadPrefixedArray[T any](r *Reader, read ReadFn[T]) (v []T, err error) {
	length, err := ReadVarInt(r)
	if err != nil {
		return
	}

	if length < 0 {
		err = ErrNegativeLength
		return
	}

	// Every element takes at least one byte, so a count above the remaining
	// bytes is a lie and must not size an allocation.
	if int(length) > r.Remaining() {
		err = ErrUnexpectedEnd
		return
	}

	v = make([]T, length)
	for i := range v {
		if v[i], err = read(r); err != nil {
			return
		}
	}
	return
}

// Optional[T] represents Optional field in a packet
//
// Serialized Optional[T] is prefixed with Boolean of whether the value exists.
// If so, the value T is followed.
type Optional[T any] struct {
	Exists bool
	Item   T
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Exists: true, Item: v}
}

func WriteOptional[T any](w io.Writer, v Optional[T], write WriteFn[T]) (err error) {
	err = WriteBoolean(w, v.Exists)
	if err != nil {
		return
	}

	if v.Exists {
		err = write(w, v.Item)
	}
	return
}

func ReadOptional[T any](r *Reader, read ReadFn[T]) (v Optional[T], err error) {
	if v.Exists, err = ReadBoolean(r); err != nil {
		return
	}

	if v.Exists {
		v.Item, err = read(r)
	}
	return
}

const tagString = 0x08

// WriteTextComponent writes a plain text component as a nameless network NBT
// string tag. Java's modified UTF-8 equals UTF-8 for text without NUL or
// supplementary characters; the rest is rare enough in server messages that
// it is written as-is.
func WriteTextComponent(w io.Writer, text string) (err error) {
	if len(text) > math.MaxUint16 {
		return ErrStringTooLong
	}
	b := make([]byte, 0, 3+len(text))
	b = append(b, tagString)
	b = binary.BigEndian.AppendUint16(b, uint16(len(text)))
	b = append(b, text...)
	_, err = w.Write(b)
	return
}

func ReadTextComponent(r *Reader) (v string, err error) {
	tag, err := r.ReadByte()
	if err != nil {
		return
	}
	if tag != tagString {
		err = ErrNotStringTag
		return
	}

	length, err := ReadUnsignedShort(r)
	if err != nil {
		return
	}
	b, err := r.Read(int(length))
	if err != nil {
		return
	}
	if !utf8.Valid(b) {
		err = ErrInvalidUTF8
		return
	}
	v = string(b)
	return
}
