package packet

import "io"

type StatusInbound interface {
	Serverbound
	statusInbound()
}

type StatusRequest struct{}

func (p *StatusRequest) ID() int32              { return 0x00 }
func (p *StatusRequest) State() State           { return Status }
func (p *StatusRequest) Decode(r *Reader) error { return nil }
func (p *StatusRequest) statusInbound()         {}

type PingRequest struct {
	Payload int64
}

var pingRequestSchema = NewSchema("PingRequest",
	Field("payload", func(p *PingRequest) *int64 { return &p.Payload }, Long),
)

func (p *PingRequest) ID() int32              { return 0x01 }
func (p *PingRequest) State() State           { return Status }
func (p *PingRequest) Decode(r *Reader) error { return pingRequestSchema.Decode(r, p) }
func (p *PingRequest) statusInbound()         {}

type StatusResponse struct {
	JSON string
}

var statusResponseSchema = NewSchema("StatusResponse",
	Field("json_response", func(p *StatusResponse) *string { return &p.JSON }, String),
)

func (p *StatusResponse) ID() int32                { return 0x00 }
func (p *StatusResponse) State() State             { return Status }
func (p *StatusResponse) Encode(w io.Writer) error { return statusResponseSchema.Encode(w, p) }

type PingResponse struct {
	Payload int64
}

var pingResponseSchema = NewSchema("PingResponse",
	Field("payload", func(p *PingResponse) *int64 { return &p.Payload }, Long),
)

func (p *PingResponse) ID() int32                { return 0x01 }
func (p *PingResponse) State() State             { return Status }
func (p *PingResponse) Encode(w io.Writer) error { return pingResponseSchema.Encode(w, p) }
