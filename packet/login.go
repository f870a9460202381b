package packet

import (
	"io"

	"github.com/google/uuid"
)

type LoginInbound interface {
	Serverbound
	loginInbound()
}

type LoginStart struct {
	Name       string
	PlayerUUID uuid.UUID
}

var loginStartSchema = NewSchema("LoginStart",
	Field("name", func(p *LoginStart) *string { return &p.Name }, BoundedString(16)),
	Field("uuid", func(p *LoginStart) *uuid.UUID { return &p.PlayerUUID }, UUID),
)

func (p *LoginStart) ID() int32              { return 0x00 }
func (p *LoginStart) State() State           { return Login }
func (p *LoginStart) Decode(r *Reader) error { return loginStartSchema.Decode(r, p) }
func (p *LoginStart) loginInbound()          {}

type LoginPluginResponse struct {
	MessageID int32
	Data      Optional[[]byte]
}

var loginPluginResponseSchema = NewSchema("LoginPluginResponse",
	Field("message_id", func(p *LoginPluginResponse) *int32 { return &p.MessageID }, VarInt),
	Field("data", func(p *LoginPluginResponse) *Optional[[]byte] { return &p.Data }, OptionalOf(Inferred)),
)

func (p *LoginPluginResponse) ID() int32              { return 0x02 }
func (p *LoginPluginResponse) State() State           { return Login }
func (p *LoginPluginResponse) Decode(r *Reader) error { return loginPluginResponseSchema.Decode(r, p) }
func (p *LoginPluginResponse) loginInbound()          {}

type LoginAcknowledged struct{}

func (p *LoginAcknowledged) ID() int32              { return 0x03 }
func (p *LoginAcknowledged) State() State           { return Login }
func (p *LoginAcknowledged) Decode(r *Reader) error { return nil }
func (p *LoginAcknowledged) loginInbound()          {}

type CookieResponse struct {
	Key     string
	Payload Optional[[]byte]
}

var cookieResponseSchema = NewSchema("CookieResponse",
	Field("key", func(p *CookieResponse) *string { return &p.Key }, Identifier),
	Field("payload", func(p *CookieResponse) *Optional[[]byte] { return &p.Payload }, OptionalOf(ByteArray)),
)

func (p *CookieResponse) ID() int32              { return 0x04 }
func (p *CookieResponse) State() State           { return Login }
func (p *CookieResponse) Decode(r *Reader) error { return cookieResponseSchema.Decode(r, p) }
func (p *CookieResponse) loginInbound()          {}

// LoginDisconnect carries a JSON text component.
type LoginDisconnect struct {
	Reason string
}

var loginDisconnectSchema = NewSchema("LoginDisconnect",
	Field("reason", func(p *LoginDisconnect) *string { return &p.Reason }, String),
)

func (p *LoginDisconnect) ID() int32                { return 0x00 }
func (p *LoginDisconnect) State() State             { return Login }
func (p *LoginDisconnect) Encode(w io.Writer) error { return loginDisconnectSchema.Encode(w, p) }

type LoginSuccess struct {
	UUID              uuid.UUID
	Username          string
	Properties        []Property
	StrictErrHandling bool
}

var loginSuccessSchema = NewSchema("LoginSuccess",
	Field("uuid", func(p *LoginSuccess) *uuid.UUID { return &p.UUID }, UUID),
	Field("username", func(p *LoginSuccess) *string { return &p.Username }, String),
	Field("properties", func(p *LoginSuccess) *[]Property { return &p.Properties }, ArrayOf(PropertyCodec)),
	Field("strict_error_handling", func(p *LoginSuccess) *bool { return &p.StrictErrHandling }, Boolean),
)

func (p *LoginSuccess) ID() int32                { return 0x02 }
func (p *LoginSuccess) State() State             { return Login }
func (p *LoginSuccess) Encode(w io.Writer) error { return loginSuccessSchema.Encode(w, p) }

type SetCompression struct {
	Threshold int32
}

var setCompressionSchema = NewSchema("SetCompression",
	Field("threshold", func(p *SetCompression) *int32 { return &p.Threshold }, VarInt),
)

func (p *SetCompression) ID() int32                { return 0x03 }
func (p *SetCompression) State() State             { return Login }
func (p *SetCompression) Encode(w io.Writer) error { return setCompressionSchema.Encode(w, p) }
