package packet

import (
	"io"

	"github.com/google/uuid"
)

type ConfigInbound interface {
	Serverbound
	configInbound()
}

// ClientSettings is the body shared by the Configuration and Play client information packets.
type ClientSettings struct {
	Locale              string
	ViewDistance        int8
	ChatMode            int32
	ChatColors          bool
	DisplayedSkinParts  byte
	MainHand            int32
	EnableTextFiltering bool
	AllowServerListings bool
}

var clientSettingsSchema = NewSchema("ClientInformation",
	Field("locale", func(p *ClientSettings) *string { return &p.Locale }, BoundedString(16)),
	Field("view_distance", func(p *ClientSettings) *int8 { return &p.ViewDistance }, SignedByte),
	Field("chat_mode", func(p *ClientSettings) *int32 { return &p.ChatMode }, VarInt),
	Field("chat_colors", func(p *ClientSettings) *bool { return &p.ChatColors }, Boolean),
	Field("displayed_skin_parts", func(p *ClientSettings) *byte { return &p.DisplayedSkinParts }, UnsignedByte),
	Field("main_hand", func(p *ClientSettings) *int32 { return &p.MainHand }, VarInt),
	Field("enable_text_filtering", func(p *ClientSettings) *bool { return &p.EnableTextFiltering }, Boolean),
	Field("allow_server_listings", func(p *ClientSettings) *bool { return &p.AllowServerListings }, Boolean),
)

type ConfigClientInformation struct {
	ClientSettings
}

func (p *ConfigClientInformation) ID() int32    { return 0x00 }
func (p *ConfigClientInformation) State() State { return Configuration }
func (p *ConfigClientInformation) Decode(r *Reader) error {
	return clientSettingsSchema.Decode(r, &p.ClientSettings)
}
func (p *ConfigClientInformation) configInbound() {}

// PluginPayload is a custom channel message body.
type PluginPayload struct {
	Channel string
	Data    []byte
}

var pluginPayloadSchema = NewSchema("PluginMessage",
	Field("channel", func(p *PluginPayload) *string { return &p.Channel }, Identifier),
	Field("data", func(p *PluginPayload) *[]byte { return &p.Data }, Inferred),
)

type ConfigPluginMessage struct {
	PluginPayload
}

func (p *ConfigPluginMessage) ID() int32    { return 0x02 }
func (p *ConfigPluginMessage) State() State { return Configuration }
func (p *ConfigPluginMessage) Decode(r *Reader) error {
	return pluginPayloadSchema.Decode(r, &p.PluginPayload)
}
func (p *ConfigPluginMessage) configInbound() {}

type AcknowledgeFinishConfiguration struct{}

func (p *AcknowledgeFinishConfiguration) ID() int32              { return 0x03 }
func (p *AcknowledgeFinishConfiguration) State() State           { return Configuration }
func (p *AcknowledgeFinishConfiguration) Decode(r *Reader) error { return nil }
func (p *AcknowledgeFinishConfiguration) configInbound()         {}

// KeepAliveBody carries the challenge id echoed by the client.
type KeepAliveBody struct {
	KeepAliveID int64
}

var keepAliveSchema = NewSchema("KeepAlive",
	Field("keep_alive_id", func(p *KeepAliveBody) *int64 { return &p.KeepAliveID }, Long),
)

type ConfigKeepAlive struct {
	KeepAliveBody
}

func (p *ConfigKeepAlive) ID() int32              { return 0x04 }
func (p *ConfigKeepAlive) State() State           { return Configuration }
func (p *ConfigKeepAlive) Decode(r *Reader) error { return keepAliveSchema.Decode(r, &p.KeepAliveBody) }
func (p *ConfigKeepAlive) configInbound()         {}

type ConfigPong struct {
	PingID int32
}

var configPongSchema = NewSchema("Pong",
	Field("id", func(p *ConfigPong) *int32 { return &p.PingID }, Int),
)

func (p *ConfigPong) ID() int32              { return 0x05 }
func (p *ConfigPong) State() State           { return Configuration }
func (p *ConfigPong) Decode(r *Reader) error { return configPongSchema.Decode(r, p) }
func (p *ConfigPong) configInbound()         {}

type ResourcePackResponse struct {
	PackUUID uuid.UUID
	Result   int32
}

var resourcePackResponseSchema = NewSchema("ResourcePackResponse",
	Field("uuid", func(p *ResourcePackResponse) *uuid.UUID { return &p.PackUUID }, UUID),
	Field("result", func(p *ResourcePackResponse) *int32 { return &p.Result }, VarInt),
)

func (p *ResourcePackResponse) ID() int32              { return 0x06 }
func (p *ResourcePackResponse) State() State           { return Configuration }
func (p *ResourcePackResponse) Decode(r *Reader) error { return resourcePackResponseSchema.Decode(r, p) }
func (p *ResourcePackResponse) configInbound()         {}

type KnownPack struct {
	Namespace string
	ID        string
	Version   string
}

var KnownPackCodec = Codec[KnownPack]{
	Write: func(w io.Writer, v KnownPack) (err error) {
		if err = WriteString(w, v.Namespace); err != nil {
			return
		}
		if err = WriteString(w, v.ID); err != nil {
			return
		}
		return WriteString(w, v.Version)
	},
	Read: func(r *Reader) (v KnownPack, err error) {
		if v.Namespace, err = ReadString(r); err != nil {
			return
		}
		if v.ID, err = ReadString(r); err != nil {
			return
		}
		v.Version, err = ReadString(r)
		return
	},
}

// KnownPacks is the client's answer listing the data packs it already has.
type KnownPacks struct {
	Packs []KnownPack
}

var knownPacksSchema = NewSchema("KnownPacks",
	Field("known_packs", func(p *KnownPacks) *[]KnownPack { return &p.Packs }, ArrayOf(KnownPackCodec)),
)

func (p *KnownPacks) ID() int32              { return 0x07 }
func (p *KnownPacks) State() State           { return Configuration }
func (p *KnownPacks) Decode(r *Reader) error { return knownPacksSchema.Decode(r, p) }
func (p *KnownPacks) configInbound()         {}

type ClientboundConfigPluginMessage struct {
	PluginPayload
}

func (p *ClientboundConfigPluginMessage) ID() int32    { return 0x01 }
func (p *ClientboundConfigPluginMessage) State() State { return Configuration }
func (p *ClientboundConfigPluginMessage) Encode(w io.Writer) error {
	return pluginPayloadSchema.Encode(w, &p.PluginPayload)
}

type ConfigDisconnect struct {
	Reason string
}

var configDisconnectSchema = NewSchema("ConfigDisconnect",
	Field("reason", func(p *ConfigDisconnect) *string { return &p.Reason }, TextComponent),
)

func (p *ConfigDisconnect) ID() int32                { return 0x02 }
func (p *ConfigDisconnect) State() State             { return Configuration }
func (p *ConfigDisconnect) Encode(w io.Writer) error { return configDisconnectSchema.Encode(w, p) }

type FinishConfiguration struct{}

func (p *FinishConfiguration) ID() int32                { return 0x03 }
func (p *FinishConfiguration) State() State             { return Configuration }
func (p *FinishConfiguration) Encode(w io.Writer) error { return nil }

type ClientboundConfigKeepAlive struct {
	KeepAliveBody
}

func (p *ClientboundConfigKeepAlive) ID() int32    { return 0x04 }
func (p *ClientboundConfigKeepAlive) State() State { return Configuration }
func (p *ClientboundConfigKeepAlive) Encode(w io.Writer) error {
	return keepAliveSchema.Encode(w, &p.KeepAliveBody)
}

// RegistryEntry is one registry element. Data holds a network NBT compound;
// when it is absent the client takes the entry from a known pack.
type RegistryEntry struct {
	EntryID string
	Data    Optional[[]byte]
}

var registryEntryCodec = Codec[RegistryEntry]{
	Write: func(w io.Writer, v RegistryEntry) (err error) {
		if err = WriteIdentifier(w, v.EntryID); err != nil {
			return
		}
		return WriteOptional(w, v.Data, WriteInferred)
	},
}

type RegistryData struct {
	RegistryID string
	Entries    []RegistryEntry
}

var registryDataSchema = NewSchema("RegistryData",
	Field("registry_id", func(p *RegistryData) *string { return &p.RegistryID }, Identifier),
	Field("entries", func(p *RegistryData) *[]RegistryEntry { return &p.Entries }, Codec[[]RegistryEntry]{
		Write: func(w io.Writer, v []RegistryEntry) error { return WritePrefixedArray(w, v, registryEntryCodec.Write) },
	}),
)

func (p *RegistryData) ID() int32                { return 0x07 }
func (p *RegistryData) State() State             { return Configuration }
func (p *RegistryData) Encode(w io.Writer) error { return registryDataSchema.Encode(w, p) }

type FeatureFlags struct {
	Flags []string
}

var featureFlagsSchema = NewSchema("FeatureFlags",
	Field("feature_flags", func(p *FeatureFlags) *[]string { return &p.Flags }, ArrayOf(Identifier)),
)

func (p *FeatureFlags) ID() int32                { return 0x0C }
func (p *FeatureFlags) State() State             { return Configuration }
func (p *FeatureFlags) Encode(w io.Writer) error { return featureFlagsSchema.Encode(w, p) }

type ClientboundKnownPacks struct {
	Packs []KnownPack
}

var clientboundKnownPacksSchema = NewSchema("ClientboundKnownPacks",
	Field("known_packs", func(p *ClientboundKnownPacks) *[]KnownPack { return &p.Packs }, ArrayOf(KnownPackCodec)),
)

func (p *ClientboundKnownPacks) ID() int32                { return 0x0E }
func (p *ClientboundKnownPacks) State() State             { return Configuration }
func (p *ClientboundKnownPacks) Encode(w io.Writer) error { return clientboundKnownPacksSchema.Encode(w, p) }
