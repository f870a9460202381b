package packet

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

func encode(t *testing.T, p Clientbound) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := p.Encode(&buf); err != nil {
		t.Fatalf("encode %T: %v", p, err)
	}
	return buf.Bytes()
}

func TestSchemaFieldOrder(t *testing.T) {
	want := []string{"protocol_version", "server_address", "server_port", "next_state"}
	if diff := cmp.Diff(want, intentionSchema.Fields()); diff != "" {
		t.Errorf("Intention fields mismatch (-want +got):\n%s", diff)
	}

	if n := len(joinGameSchema.Fields()); n != 19 {
		t.Errorf("JoinGame has %d fields, want 19", n)
	}
}

func TestSchemaDecodeErrorNamesField(t *testing.T) {
	var buf bytes.Buffer
	WriteString(&buf, "ThisNameIsWayTooLong")
	WriteUUID(&buf, uuid.Nil)

	var p LoginStart
	r := NewReader(buf.Bytes())
	err := p.Decode(&r)
	if !errors.Is(err, ErrStringTooLong) {
		t.Fatalf("got %v, want ErrStringTooLong", err)
	}
	if !strings.Contains(err.Error(), "LoginStart.name") {
		t.Errorf("error %q does not name the field", err)
	}
}

func TestClientboundEncoding(t *testing.T) {
	testCases := []struct {
		desc string
		p    Clientbound
		want []byte
	}{
		{
			desc: "SetCompression",
			p:    &SetCompression{Threshold: 256},
			want: []byte{0x80, 0x02},
		},
		{
			desc: "PingResponse",
			p:    &PingResponse{Payload: 0x0102030405060708},
			want: []byte{1, 2, 3, 4, 5, 6, 7, 8},
		},
		{
			desc: "StatusResponse",
			p:    &StatusResponse{JSON: `{}`},
			want: []byte{0x02, '{', '}'},
		},
		{
			desc: "LoginDisconnect",
			p:    &LoginDisconnect{Reason: `"bye"`},
			want: append([]byte{0x05}, `"bye"`...),
		},
		{
			desc: "ConfigDisconnect",
			p:    &ConfigDisconnect{Reason: "bye"},
			want: []byte{0x08, 0x00, 0x03, 'b', 'y', 'e'},
		},
		{
			desc: "PlayDisconnect",
			p:    &PlayDisconnect{Reason: "Timed out."},
			want: append([]byte{0x08, 0x00, 0x0a}, "Timed out."...),
		},
		{
			desc: "FinishConfiguration",
			p:    &FinishConfiguration{},
			want: nil,
		},
		{
			desc: "ClientboundPlayKeepAlive",
			p:    &ClientboundPlayKeepAlive{KeepAliveBody{KeepAliveID: 42}},
			want: []byte{0, 0, 0, 0, 0, 0, 0, 42},
		},
		{
			desc: "GameEvent",
			p:    &GameEvent{Event: GameEventStartWaitingOnChunks},
			want: []byte{13, 0, 0, 0, 0},
		},
		{
			desc: "LoginSuccess",
			p: &LoginSuccess{
				UUID:     uuid.MustParse("550e8400-e29b-41d4-a716-446655440000"),
				Username: "Notch",
				Properties: []Property{
					{Name: "textures", Value: "v", Signature: Some("s")},
				},
				StrictErrHandling: true,
			},
			want: bytes.Join([][]byte{
				{0x55, 0x0e, 0x84, 0x00, 0xe2, 0x9b, 0x41, 0xd4, 0xa7, 0x16, 0x44, 0x66, 0x55, 0x44, 0x00, 0x00},
				append([]byte{0x05}, "Notch"...),
				{0x01},
				append([]byte{0x08}, "textures"...),
				{0x01, 'v'},
				{0x01, 0x01, 's'},
				{0x01},
			}, nil),
		},
		{
			desc: "RegistryData",
			p: &RegistryData{
				RegistryID: "minecraft:dimension_type",
				Entries: []RegistryEntry{
					{EntryID: "minecraft:overworld"},
					{EntryID: "x", Data: Some([]byte{0x0a, 0x00})},
				},
			},
			want: bytes.Join([][]byte{
				append([]byte{24}, "minecraft:dimension_type"...),
				{0x02},
				append([]byte{19}, "minecraft:overworld"...),
				{0x00},
				{0x01, 'x'},
				{0x01, 0x0a, 0x00},
			}, nil),
		},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			got := encode(t, tC.p)
			if !bytes.Equal(got, tC.want) {
				t.Errorf("expected %x, got %x", tC.want, got)
			}
		})
	}
}

func TestJoinGameDeathLocation(t *testing.T) {
	p := &JoinGame{DimensionNames: []string{"minecraft:overworld"}, DimensionName: "minecraft:overworld"}
	without := encode(t, p)

	p.DeathLocation = Some(DeathLocation{Dimension: "minecraft:overworld", Location: Position{X: 1, Y: 2, Z: 3}})
	with := encode(t, p)

	// identifier (20 bytes) plus position (8 bytes)
	if len(with)-len(without) != 28 {
		t.Errorf("death location added %d bytes, want 28", len(with)-len(without))
	}
}
