package packet

import (
	"fmt"
	"io"

	"github.com/google/uuid"
)

// Codec pairs the write and read functions of one wire type.
type Codec[V any] struct {
	Write WriteFn[V]
	Read  ReadFn[V]
}

var (
	Boolean       = Codec[bool]{WriteBoolean, ReadBoolean}
	UnsignedByte  = Codec[byte]{WriteByte, ReadByte}
	SignedByte    = Codec[int8]{WriteSignedByte, ReadSignedByte}
	Short         = Codec[int16]{WriteShort, ReadShort}
	UnsignedShort = Codec[uint16]{WriteUnsignedShort, ReadUnsignedShort}
	Int           = Codec[int32]{WriteInt, ReadInt}
	Long          = Codec[int64]{WriteLong, ReadLong}
	Float         = Codec[float32]{WriteFloat, ReadFloat}
	Double        = Codec[float64]{WriteDouble, ReadDouble}
	VarInt        = Codec[int32]{WriteVarInt, func(r *Reader) (int32, error) { return ReadVarInt(r) }}
	VarLong       = Codec[int64]{WriteVarLong, func(r *Reader) (int64, error) { return ReadVarLong(r) }}
	String        = Codec[string]{WriteString, ReadString}
	Identifier    = Codec[string]{WriteIdentifier, ReadIdentifier}
	UUID          = Codec[uuid.UUID]{WriteUUID, ReadUUID}
	ByteArray     = Codec[[]byte]{WriteByteArray, ReadByteArray}
	Inferred      = Codec[[]byte]{WriteInferred, ReadInferred}
	PositionCodec = Codec[Position]{WritePosition, ReadPosition}
	TextComponent = Codec[string]{WriteTextComponent, ReadTextComponent}
)

// BoundedString is a String codec that rejects values longer than max characters.
func BoundedString(max int) Codec[string] {
	return Codec[string]{WriteString, StringMax(max)}
}

func ArrayOf[V any](c Codec[V]) Codec[[]V] {
	return Codec[[]V]{
		Write: func(w io.Writer, v []V) error { return WritePrefixedArray(w, v, c.Write) },
		Read:  func(r *Reader) ([]V, error) { return ReadPrefixedArray(r, c.Read) },
	}
}

func OptionalOf[V any](c Codec[V]) Codec[Optional[V]] {
	return Codec[Optional[V]]{
		Write: func(w io.Writer, v Optional[V]) error { return WriteOptional(w, v, c.Write) },
		Read:  func(r *Reader) (Optional[V], error) { return ReadOptional(r, c.Read) },
	}
}

// FieldSpec is one row of a packet's field table.
type FieldSpec[T any] struct {
	Name   string
	encode func(io.Writer, *T) error
	decode func(*Reader, *T) error
}

// Field binds a struct field, reached through ref, to its wire codec.
func Field[T, V any](name string, ref func(*T) *V, c Codec[V]) FieldSpec[T] {
	return FieldSpec[T]{
		Name: name,
		encode: func(w io.Writer, p *T) error {
			return c.Write(w, *ref(p))
		},
		decode: func(r *Reader, p *T) (err error) {
			*ref(p), err = c.Read(r)
			return
		},
	}
}

// Schema is the ordered field table of a packet type. Encode and Decode walk
// the table in wire order.
type Schema[T any] struct {
	name   string
	fields []FieldSpec[T]
}

func NewSchema[T any](name string, fields ...FieldSpec[T]) Schema[T] {
	return Schema[T]{name: name, fields: fields}
}

func (s Schema[T]) Fields() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}

func (s Schema[T]) Encode(w io.Writer, p *T) error {
	for _, f := range s.fields {
		if err := f.encode(w, p); err != nil {
			return fmt.Errorf("encode %s.%s: %w", s.name, f.Name, err)
		}
	}
	return nil
}

func (s Schema[T]) Decode(r *Reader, p *T) error {
	for _, f := range s.fields {
		if err := f.decode(r, p); err != nil {
			return fmt.Errorf("decode %s.%s: %w", s.name, f.Name, err)
		}
	}
	return nil
}
