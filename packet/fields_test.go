package packet

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
)

type TestCase[T any] struct {
	desc      string
	expectErr error
	v         T
	ser       []byte
}

// runWrite encodes every successful case and compares the bytes.
func runWrite[T any](t *testing.T, name string, cases []TestCase[T], write WriteFn[T]) {
	t.Helper()
	for _, tC := range cases {
		if tC.expectErr != nil {
			continue
		}

		t.Run(tC.desc, func(t *testing.T) {
			var buf bytes.Buffer
			if err := write(&buf, tC.v); err != nil {
				t.Fatalf("%s failed: %v", name, err)
			}

			if !bytes.Equal(buf.Bytes(), tC.ser) {
				t.Errorf("%s expected %x, got %x", name, tC.ser, buf.Bytes())
			}
		})
	}
}

// runRead decodes every case, checks the error or value, and checks that
// exactly the serialized bytes were consumed.
func runRead[T any](t *testing.T, name string, cases []TestCase[T], read ReadFn[T], equal func(a, b T) bool) {
	t.Helper()
	for _, tC := range cases {
		t.Run(tC.desc, func(t *testing.T) {
			r := NewReader(tC.ser)

			got, err := read(&r)

			if tC.expectErr != nil {
				if err == nil {
					t.Fatalf("%s expected error %v, but succeeded and returned value %v", name, tC.expectErr, got)
				}
				if !errors.Is(err, tC.expectErr) {
					t.Errorf("%s expected error %v, but got error %v", name, tC.expectErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("%s failed: %v", name, err)
			}

			if !equal(got, tC.v) {
				t.Errorf("%s expected %v, got %v", name, tC.v, got)
			}

			if r.Remaining() != 0 {
				t.Errorf("Reader did not consume all bytes. %d bytes remaining.", r.Remaining())
			}
		})
	}
}

func eq[T comparable](a, b T) bool { return a == b }

var varintTc = []TestCase[int32]{
	{desc: "Zero", v: 0, ser: []byte{0x00}},
	{desc: "One", v: 1, ser: []byte{0x01}},
	{desc: "Max single byte (127)", v: 127, ser: []byte{0x7f}},
	{desc: "Min two bytes (128)", v: 128, ser: []byte{0x80, 0x01}},
	{desc: "255", v: 255, ser: []byte{0xff, 0x01}},
	{desc: "Default port (25565)", v: 25565, ser: []byte{0xdd, 0xc7, 0x01}},
	{desc: "Max three bytes (2097151)", v: 2097151, ser: []byte{0xff, 0xff, 0x7f}},
	{desc: "Max positive int32 (2147483647)", v: 2147483647, ser: []byte{0xff, 0xff, 0xff, 0xff, 0x07}},
	{desc: "Negative one (-1)", v: -1, ser: []byte{0xff, 0xff, 0xff, 0xff, 0x0f}},
	{desc: "Min negative int32 (-2147483648)", v: -2147483648, ser: []byte{0x80, 0x80, 0x80, 0x80, 0x08}},
	{
		desc:      "Five continuation bytes",
		expectErr: ErrVarIntTooLarge,
		ser:       []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0x07},
	},
	{
		desc:      "Truncated after four continuation bytes",
		expectErr: ErrUnexpectedEnd,
		ser:       []byte{0xff, 0xff, 0xff, 0xff},
	},
	{
		desc:      "Empty input",
		expectErr: ErrUnexpectedEnd,
		ser:       []byte{},
	},
}

func TestWriteVarInt(t *testing.T) {
	runWrite(t, "WriteVarInt", varintTc, WriteVarInt)
}

func TestReadVarInt(t *testing.T) {
	runRead(t, "ReadVarInt", varintTc, func(r *Reader) (int32, error) { return ReadVarInt(r) }, eq[int32])
}

func TestVarIntSize(t *testing.T) {
	for _, tC := range varintTc {
		if tC.expectErr != nil {
			continue
		}
		if got := VarIntSize(tC.v); got != len(tC.ser) {
			t.Errorf("VarIntSize(%d) = %d, want %d", tC.v, got, len(tC.ser))
		}
	}
}

func TestVarIntRoundTrip(t *testing.T) {
	values := []int32{0, 1, -1, 63, 64, 16383, 16384, 1 << 20, 1<<31 - 1, -1 << 31, -300, 123456789}
	for v := int32(-70000); v < 70000; v += 7 {
		values = append(values, v)
	}

	for _, v := range values {
		var buf bytes.Buffer
		if err := WriteVarInt(&buf, v); err != nil {
			t.Fatalf("WriteVarInt(%d): %v", v, err)
		}
		r := NewReader(buf.Bytes())
		got, err := ReadVarInt(&r)
		if err != nil {
			t.Fatalf("ReadVarInt(%d): %v", v, err)
		}
		if got != v {
			t.Fatalf("round trip %d, got %d", v, got)
		}
	}
}

func TestReadVarIntLeavesTrailingBytes(t *testing.T) {
	var buf bytes.Buffer
	WriteVarInt(&buf, 25565)
	WriteVarInt(&buf, -1)
	buf.WriteByte(0xAB)

	r := NewReader(buf.Bytes())
	first, err := ReadVarInt(&r)
	if err != nil || first != 25565 {
		t.Fatalf("first: got %d, %v", first, err)
	}
	if r.Remaining() != 6 {
		t.Fatalf("after first value %d bytes remain, want 6", r.Remaining())
	}

	second, err := ReadVarInt(&r)
	if err != nil || second != -1 {
		t.Fatalf("second: got %d, %v", second, err)
	}

	tail, _ := r.ReadByte()
	if tail != 0xAB {
		t.Errorf("trailing byte = %x, want ab", tail)
	}
}

var varlongTc = []TestCase[int64]{
	{desc: "Zero", v: 0, ser: []byte{0x00}},
	{desc: "One", v: 1, ser: []byte{0x01}},
	{desc: "Max single byte (127)", v: 127, ser: []byte{0x7f}},
	{desc: "Min two bytes (128)", v: 128, ser: []byte{0x80, 0x01}},
	{desc: "Max positive int32", v: 2147483647, ser: []byte{0xff, 0xff, 0xff, 0xff, 0x07}},
	{
		desc: "Max positive int64",
		v:    9223372036854775807,
		ser:  []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x7f},
	},
	{
		desc: "Negative one",
		v:    -1,
		ser:  []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x01},
	},
	{
		desc: "Min negative int64",
		v:    -9223372036854775808,
		ser:  []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x01},
	},
	{
		desc:      "Ten continuation bytes",
		expectErr: ErrVarLongTooLarge,
		ser:       []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x01},
	},
	{
		desc:      "Truncated",
		expectErr: ErrUnexpectedEnd,
		ser:       []byte{0xff, 0xff},
	},
}

func TestWriteVarLong(t *testing.T) {
	runWrite(t, "WriteVarLong", varlongTc, WriteVarLong)
}

func TestReadVarLong(t *testing.T) {
	runRead(t, "ReadVarLong", varlongTc, func(r *Reader) (int64, error) { return ReadVarLong(r) }, eq[int64])
}

func TestVarLongRoundTrip(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 1 << 35, -(1 << 40), 1<<63 - 1, -1 << 63, 1700000000000} {
		var buf bytes.Buffer
		WriteVarLong(&buf, v)
		if buf.Len() != VarLongSize(v) {
			t.Errorf("VarLongSize(%d) = %d, wrote %d", v, VarLongSize(v), buf.Len())
		}
		r := NewReader(buf.Bytes())
		got, err := ReadVarLong(&r)
		if err != nil || got != v {
			t.Fatalf("round trip %d: got %d, %v", v, got, err)
		}
	}
}

var stringTc = []TestCase[string]{
	{
		desc: "Empty string",
		v:    "",
		ser:  []byte{0x00},
	},
	{
		desc: "ASCII string",
		v:    "Hello",
		ser:  []byte{0x05, 0x48, 0x65, 0x6c, 0x6c, 0x6f},
	},
	{
		desc: "Hello, World!",
		v:    "Hello, World!",
		ser:  append([]byte{0x0d}, "Hello, World!"...),
	},
	{
		desc: "Unicode string",
		v:    "Go \U0001F389",
		ser:  []byte{0x07, 0x47, 0x6f, 0x20, 0xf0, 0x9f, 0x8e, 0x89},
	},
	{
		desc: "Multi byte length (128 bytes)",
		v:    string(bytes.Repeat([]byte{'a'}, 128)),
		ser:  append([]byte{0x80, 0x01}, bytes.Repeat([]byte{'a'}, 128)...),
	},
	{
		desc:      "Read fail: EOF on length VarInt",
		expectErr: ErrUnexpectedEnd,
		ser:       []byte{0x80},
	},
	{
		desc:      "Read fail: length 6 with 5 bytes",
		expectErr: ErrUnexpectedEnd,
		ser:       []byte{0x06, 'H', 'e', 'l', 'l', 'o'},
	},
	{
		desc:      "Read fail: Negative length prefix",
		expectErr: ErrNegativeLength,
		ser:       []byte{0xff, 0xff, 0xff, 0xff, 0x0f},
	},
	{
		desc:      "Read fail: invalid UTF-8",
		expectErr: ErrInvalidUTF8,
		ser:       []byte{0x02, 0xc3, 0x28},
	},
}

func TestWriteString(t *testing.T) {
	runWrite(t, "WriteString", stringTc, WriteString)
}

func TestReadString(t *testing.T) {
	runRead(t, "ReadString", stringTc, ReadString, eq[string])
}

func TestReadStringConcatenated(t *testing.T) {
	var buf bytes.Buffer
	WriteString(&buf, "first")
	WriteString(&buf, "second value")

	r := NewReader(buf.Bytes())
	for _, want := range []string{"first", "second value"} {
		got, err := ReadString(&r)
		if err != nil {
			t.Fatalf("ReadString: %v", err)
		}
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	}
	if r.Remaining() != 0 {
		t.Errorf("%d bytes remaining", r.Remaining())
	}
}

func TestStringMax(t *testing.T) {
	var buf bytes.Buffer
	WriteString(&buf, "ThisNameIsWayTooLong")

	r := NewReader(buf.Bytes())
	if _, err := StringMax(16)(&r); !errors.Is(err, ErrStringTooLong) {
		t.Errorf("got %v, want ErrStringTooLong", err)
	}

	buf.Reset()
	WriteString(&buf, "Notch")
	r = NewReader(buf.Bytes())
	if got, err := StringMax(16)(&r); err != nil || got != "Notch" {
		t.Errorf("got %q, %v", got, err)
	}
}

var booleanTc = []TestCase[bool]{
	{desc: "False", v: false, ser: []byte{0x00}},
	{desc: "True", v: true, ser: []byte{0x01}},
	{desc: "Not a boolean", expectErr: ErrNotBoolean, ser: []byte{0x02}},
	{desc: "Empty", expectErr: ErrUnexpectedEnd, ser: []byte{}},
}

func TestWriteBoolean(t *testing.T) {
	runWrite(t, "WriteBoolean", booleanTc, WriteBoolean)
}

func TestReadBoolean(t *testing.T) {
	runRead(t, "ReadBoolean", booleanTc, ReadBoolean, eq[bool])
}

var uuidTc = []TestCase[uuid.UUID]{
	{
		desc: "RFC 4122 example",
		v:    uuid.MustParse("550e8400-e29b-41d4-a716-446655440000"),
		ser:  []byte{0x55, 0x0e, 0x84, 0x00, 0xe2, 0x9b, 0x41, 0xd4, 0xa7, 0x16, 0x44, 0x66, 0x55, 0x44, 0x00, 0x00},
	},
	{
		desc:      "Short",
		expectErr: ErrUnexpectedEnd,
		ser:       []byte{0x55, 0x0e, 0x84},
	},
}

func TestWriteUUID(t *testing.T) {
	runWrite(t, "WriteUUID", uuidTc, WriteUUID)
}

func TestReadUUID(t *testing.T) {
	runRead(t, "ReadUUID", uuidTc, ReadUUID, eq[uuid.UUID])
}

var longTc = []TestCase[int64]{
	{desc: "Zero", v: 0, ser: make([]byte, 8)},
	{desc: "Timestamp", v: 0x0102030405060708, ser: []byte{1, 2, 3, 4, 5, 6, 7, 8}},
	{desc: "Negative", v: -2, ser: []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xfe}},
	{desc: "Short read", expectErr: ErrUnexpectedEnd, ser: []byte{1, 2, 3}},
}

func TestWriteLong(t *testing.T) {
	runWrite(t, "WriteLong", longTc, WriteLong)
}

func TestReadLong(t *testing.T) {
	runRead(t, "ReadLong", longTc, ReadLong, eq[int64])
}

var doubleTc = []TestCase[float64]{
	{desc: "One", v: 1.0, ser: []byte{0x3f, 0xf0, 0, 0, 0, 0, 0, 0}},
	{desc: "Negative half", v: -0.5, ser: []byte{0xbf, 0xe0, 0, 0, 0, 0, 0, 0}},
	{desc: "Short read", expectErr: ErrUnexpectedEnd, ser: []byte{0x3f}},
}

func TestWriteDouble(t *testing.T) {
	runWrite(t, "WriteDouble", doubleTc, WriteDouble)
}

func TestReadDouble(t *testing.T) {
	runRead(t, "ReadDouble", doubleTc, ReadDouble, eq[float64])
}

var floatTc = []TestCase[float32]{
	{desc: "One", v: 1.0, ser: []byte{0x3f, 0x80, 0x00, 0x00}},
	{desc: "Short read", expectErr: ErrUnexpectedEnd, ser: []byte{0x3f, 0x80}},
}

func TestWriteFloat(t *testing.T) {
	runWrite(t, "WriteFloat", floatTc, WriteFloat)
}

func TestReadFloat(t *testing.T) {
	runRead(t, "ReadFloat", floatTc, ReadFloat, eq[float32])
}

var unsignedShortTc = []TestCase[uint16]{
	{desc: "Default port", v: 25565, ser: []byte{0x63, 0xdd}},
	{desc: "Max", v: 65535, ser: []byte{0xff, 0xff}},
	{desc: "Short read", expectErr: ErrUnexpectedEnd, ser: []byte{0x63}},
}

func TestWriteUnsignedShort(t *testing.T) {
	runWrite(t, "WriteUnsignedShort", unsignedShortTc, WriteUnsignedShort)
}

func TestReadUnsignedShort(t *testing.T) {
	runRead(t, "ReadUnsignedShort", unsignedShortTc, ReadUnsignedShort, eq[uint16])
}

var pArrayTc = []TestCase[[]byte]{
	{
		desc: "Empty array",
		v:    []byte{},
		ser:  []byte{0x00},
	},
	{
		desc: "Small array (Length 3)",
		v:    []byte{10, 20, 30},
		ser:  []byte{0x03, 10, 20, 30},
	},
	{
		desc: "Large array (Length 128)",
		v:    bytes.Repeat([]byte{0xAA}, 128),
		ser:  append([]byte{0x80, 0x01}, bytes.Repeat([]byte{0xAA}, 128)...),
	},
	{
		desc:      "Read fail: EOF on length VarInt",
		expectErr: ErrUnexpectedEnd,
		ser:       []byte{0x80},
	},
	{
		desc:      "Read fail: EOF reading array elements",
		expectErr: ErrUnexpectedEnd,
		ser:       []byte{0x03, 10, 20},
	},
	{
		desc:      "Read fail: huge count is not allocated",
		expectErr: ErrUnexpectedEnd,
		ser:       []byte{0xff, 0xff, 0xff, 0xff, 0x07, 1},
	},
	{
		desc:      "Read fail: negative count",
		expectErr: ErrNegativeLength,
		ser:       []byte{0xff, 0xff, 0xff, 0xff, 0x0f},
	},
}

func TestWritePrefixedArray(t *testing.T) {
	runWrite(t, "WritePrefixedArray", pArrayTc, func(w io.Writer, v []byte) error {
		return WritePrefixedArray(w, v, WriteByte)
	})
}

func TestReadPrefixedArray(t *testing.T) {
	runRead(t, "ReadPrefixedArray", pArrayTc, func(r *Reader) ([]byte, error) {
		return ReadPrefixedArray(r, ReadByte)
	}, bytes.Equal)
}

func TestReadByteArray(t *testing.T) {
	runRead(t, "ReadByteArray", pArrayTc[:5], ReadByteArray, bytes.Equal)
}

var optionalTc = []TestCase[Optional[byte]]{
	{
		desc: "Value is Present",
		v:    Optional[byte]{Exists: true, Item: 0x42},
		ser:  []byte{0x01, 0x42},
	},
	{
		desc: "Value is Absent",
		v:    Optional[byte]{Exists: false, Item: 0x00},
		ser:  []byte{0x00},
	},
	{
		desc:      "Read fail: EOF on Boolean prefix",
		expectErr: ErrUnexpectedEnd,
		ser:       []byte{},
	},
	{
		desc:      "Read fail: EOF reading Item when Exists is true",
		expectErr: ErrUnexpectedEnd,
		ser:       []byte{0x01},
	},
	{
		desc:      "Read fail: prefix is not a Boolean",
		expectErr: ErrNotBoolean,
		ser:       []byte{0x07, 0x42},
	},
}

func TestWriteOptional(t *testing.T) {
	runWrite(t, "WriteOptional", optionalTc, func(w io.Writer, v Optional[byte]) error {
		return WriteOptional(w, v, WriteByte)
	})
}

func TestReadOptional(t *testing.T) {
	runRead(t, "ReadOptional", optionalTc, func(r *Reader) (Optional[byte], error) {
		return ReadOptional(r, ReadByte)
	}, eq[Optional[byte]])
}

var positionTc = []TestCase[Position]{
	{desc: "Origin", v: Position{}, ser: make([]byte, 8)},
	{
		desc: "Wiki example",
		v:    Position{X: 18357644, Y: 831, Z: -20882616},
		ser:  []byte{0x46, 0x07, 0x63, 0x2c, 0x15, 0xb4, 0x83, 0x3f},
	},
	{desc: "Negative", v: Position{X: -1, Y: -1, Z: -1}, ser: bytes.Repeat([]byte{0xff}, 8)},
}

func TestWritePosition(t *testing.T) {
	runWrite(t, "WritePosition", positionTc, WritePosition)
}

func TestReadPosition(t *testing.T) {
	runRead(t, "ReadPosition", positionTc, ReadPosition, eq[Position])
}

var textComponentTc = []TestCase[string]{
	{desc: "Timed out", v: "Timed out.", ser: append([]byte{0x08, 0x00, 0x0a}, "Timed out."...)},
	{desc: "Empty", v: "", ser: []byte{0x08, 0x00, 0x00}},
	{desc: "Compound tag", expectErr: ErrNotStringTag, ser: []byte{0x0a, 0x00}},
	{desc: "Truncated", expectErr: ErrUnexpectedEnd, ser: []byte{0x08, 0x00, 0x05, 'a'}},
}

func TestWriteTextComponent(t *testing.T) {
	runWrite(t, "WriteTextComponent", textComponentTc, WriteTextComponent)
}

func TestReadTextComponent(t *testing.T) {
	runRead(t, "ReadTextComponent", textComponentTc, ReadTextComponent, eq[string])
}
