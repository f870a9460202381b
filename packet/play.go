package packet

import "io"

type PlayInbound interface {
	Serverbound
	playInbound()
}

type ConfirmTeleportation struct {
	TeleportID int32
}

var confirmTeleportationSchema = NewSchema("ConfirmTeleportation",
	Field("teleport_id", func(p *ConfirmTeleportation) *int32 { return &p.TeleportID }, VarInt),
)

func (p *ConfirmTeleportation) ID() int32              { return 0x00 }
func (p *ConfirmTeleportation) State() State           { return Play }
func (p *ConfirmTeleportation) Decode(r *Reader) error { return confirmTeleportationSchema.Decode(r, p) }
func (p *ConfirmTeleportation) playInbound()           {}

type ChatCommand struct {
	Command string
}

var chatCommandSchema = NewSchema("ChatCommand",
	Field("command", func(p *ChatCommand) *string { return &p.Command }, BoundedString(MaxStringLen)),
)

func (p *ChatCommand) ID() int32              { return 0x04 }
func (p *ChatCommand) State() State           { return Play }
func (p *ChatCommand) Decode(r *Reader) error { return chatCommandSchema.Decode(r, p) }
func (p *ChatCommand) playInbound()           {}

type PlayClientInformation struct {
	ClientSettings
}

func (p *PlayClientInformation) ID() int32    { return 0x0A }
func (p *PlayClientInformation) State() State { return Play }
func (p *PlayClientInformation) Decode(r *Reader) error {
	return clientSettingsSchema.Decode(r, &p.ClientSettings)
}
func (p *PlayClientInformation) playInbound() {}

type PlayPluginMessage struct {
	PluginPayload
}

func (p *PlayPluginMessage) ID() int32    { return 0x12 }
func (p *PlayPluginMessage) State() State { return Play }
func (p *PlayPluginMessage) Decode(r *Reader) error {
	return pluginPayloadSchema.Decode(r, &p.PluginPayload)
}
func (p *PlayPluginMessage) playInbound() {}

type PlayKeepAlive struct {
	KeepAliveBody
}

func (p *PlayKeepAlive) ID() int32              { return 0x18 }
func (p *PlayKeepAlive) State() State           { return Play }
func (p *PlayKeepAlive) Decode(r *Reader) error { return keepAliveSchema.Decode(r, &p.KeepAliveBody) }
func (p *PlayKeepAlive) playInbound()           {}

type SetPlayerPosition struct {
	X, FeetY, Z float64
	OnGround    bool
}

var setPlayerPositionSchema = NewSchema("SetPlayerPosition",
	Field("x", func(p *SetPlayerPosition) *float64 { return &p.X }, Double),
	Field("feet_y", func(p *SetPlayerPosition) *float64 { return &p.FeetY }, Double),
	Field("z", func(p *SetPlayerPosition) *float64 { return &p.Z }, Double),
	Field("on_ground", func(p *SetPlayerPosition) *bool { return &p.OnGround }, Boolean),
)

func (p *SetPlayerPosition) ID() int32              { return 0x1A }
func (p *SetPlayerPosition) State() State           { return Play }
func (p *SetPlayerPosition) Decode(r *Reader) error { return setPlayerPositionSchema.Decode(r, p) }
func (p *SetPlayerPosition) playInbound()           {}

type SetPlayerPositionAndRotation struct {
	X, FeetY, Z float64
	Yaw, Pitch  float32
	OnGround    bool
}

var setPlayerPositionAndRotationSchema = NewSchema("SetPlayerPositionAndRotation",
	Field("x", func(p *SetPlayerPositionAndRotation) *float64 { return &p.X }, Double),
	Field("feet_y", func(p *SetPlayerPositionAndRotation) *float64 { return &p.FeetY }, Double),
	Field("z", func(p *SetPlayerPositionAndRotation) *float64 { return &p.Z }, Double),
	Field("yaw", func(p *SetPlayerPositionAndRotation) *float32 { return &p.Yaw }, Float),
	Field("pitch", func(p *SetPlayerPositionAndRotation) *float32 { return &p.Pitch }, Float),
	Field("on_ground", func(p *SetPlayerPositionAndRotation) *bool { return &p.OnGround }, Boolean),
)

func (p *SetPlayerPositionAndRotation) ID() int32    { return 0x1B }
func (p *SetPlayerPositionAndRotation) State() State { return Play }
func (p *SetPlayerPositionAndRotation) Decode(r *Reader) error {
	return setPlayerPositionAndRotationSchema.Decode(r, p)
}
func (p *SetPlayerPositionAndRotation) playInbound() {}

type SetPlayerRotation struct {
	Yaw, Pitch float32
	OnGround   bool
}

var setPlayerRotationSchema = NewSchema("SetPlayerRotation",
	Field("yaw", func(p *SetPlayerRotation) *float32 { return &p.Yaw }, Float),
	Field("pitch", func(p *SetPlayerRotation) *float32 { return &p.Pitch }, Float),
	Field("on_ground", func(p *SetPlayerRotation) *bool { return &p.OnGround }, Boolean),
)

func (p *SetPlayerRotation) ID() int32              { return 0x1C }
func (p *SetPlayerRotation) State() State           { return Play }
func (p *SetPlayerRotation) Decode(r *Reader) error { return setPlayerRotationSchema.Decode(r, p) }
func (p *SetPlayerRotation) playInbound()           {}

type SetPlayerOnGround struct {
	OnGround bool
}

var setPlayerOnGroundSchema = NewSchema("SetPlayerOnGround",
	Field("on_ground", func(p *SetPlayerOnGround) *bool { return &p.OnGround }, Boolean),
)

func (p *SetPlayerOnGround) ID() int32              { return 0x1D }
func (p *SetPlayerOnGround) State() State           { return Play }
func (p *SetPlayerOnGround) Decode(r *Reader) error { return setPlayerOnGroundSchema.Decode(r, p) }
func (p *SetPlayerOnGround) playInbound()           {}

// Opaque is a valid Play packet whose fields are left to external handlers.
type Opaque struct {
	PacketID int32
	Payload  []byte
}

func (p *Opaque) ID() int32    { return p.PacketID }
func (p *Opaque) State() State { return Play }
func (p *Opaque) Decode(r *Reader) (err error) {
	p.Payload, err = ReadInferred(r)
	return
}
func (p *Opaque) playInbound() {}

type PlayDisconnect struct {
	Reason string
}

var playDisconnectSchema = NewSchema("PlayDisconnect",
	Field("reason", func(p *PlayDisconnect) *string { return &p.Reason }, TextComponent),
)

func (p *PlayDisconnect) ID() int32                { return 0x1D }
func (p *PlayDisconnect) State() State             { return Play }
func (p *PlayDisconnect) Encode(w io.Writer) error { return playDisconnectSchema.Encode(w, p) }

// Game events used by the join sequence.
const (
	GameEventChangeGameMode       = 3
	GameEventStartWaitingOnChunks = 13
)

type GameEvent struct {
	Event byte
	Value float32
}

var gameEventSchema = NewSchema("GameEvent",
	Field("event", func(p *GameEvent) *byte { return &p.Event }, UnsignedByte),
	Field("value", func(p *GameEvent) *float32 { return &p.Value }, Float),
)

func (p *GameEvent) ID() int32                { return 0x22 }
func (p *GameEvent) State() State             { return Play }
func (p *GameEvent) Encode(w io.Writer) error { return gameEventSchema.Encode(w, p) }

type ClientboundPlayKeepAlive struct {
	KeepAliveBody
}

func (p *ClientboundPlayKeepAlive) ID() int32    { return 0x26 }
func (p *ClientboundPlayKeepAlive) State() State { return Play }
func (p *ClientboundPlayKeepAlive) Encode(w io.Writer) error {
	return keepAliveSchema.Encode(w, &p.KeepAliveBody)
}

type DeathLocation struct {
	Dimension string
	Location  Position
}

var deathLocationCodec = Codec[DeathLocation]{
	Write: func(w io.Writer, v DeathLocation) (err error) {
		if err = WriteIdentifier(w, v.Dimension); err != nil {
			return
		}
		return WritePosition(w, v.Location)
	},
	Read: func(r *Reader) (v DeathLocation, err error) {
		if v.Dimension, err = ReadIdentifier(r); err != nil {
			return
		}
		v.Location, err = ReadPosition(r)
		return
	},
}

// JoinGame is the Play "Login" packet that places the player in a world.
type JoinGame struct {
	EntityID            int32
	IsHardcore          bool
	DimensionNames      []string
	MaxPlayers          int32
	ViewDistance        int32
	SimulationDistance  int32
	ReducedDebugInfo    bool
	EnableRespawnScreen bool
	DoLimitedCrafting   bool
	DimensionType       int32
	DimensionName       string
	HashedSeed          int64
	GameMode            byte
	PreviousGameMode    int8
	IsDebug             bool
	IsFlat              bool
	DeathLocation       Optional[DeathLocation]
	PortalCooldown      int32
	EnforcesSecureChat  bool
}

var joinGameSchema = NewSchema("JoinGame",
	Field("entity_id", func(p *JoinGame) *int32 { return &p.EntityID }, Int),
	Field("is_hardcore", func(p *JoinGame) *bool { return &p.IsHardcore }, Boolean),
	Field("dimension_names", func(p *JoinGame) *[]string { return &p.DimensionNames }, ArrayOf(Identifier)),
	Field("max_players", func(p *JoinGame) *int32 { return &p.MaxPlayers }, VarInt),
	Field("view_distance", func(p *JoinGame) *int32 { return &p.ViewDistance }, VarInt),
	Field("simulation_distance", func(p *JoinGame) *int32 { return &p.SimulationDistance }, VarInt),
	Field("reduced_debug_info", func(p *JoinGame) *bool { return &p.ReducedDebugInfo }, Boolean),
	Field("enable_respawn_screen", func(p *JoinGame) *bool { return &p.EnableRespawnScreen }, Boolean),
	Field("do_limited_crafting", func(p *JoinGame) *bool { return &p.DoLimitedCrafting }, Boolean),
	Field("dimension_type", func(p *JoinGame) *int32 { return &p.DimensionType }, VarInt),
	Field("dimension_name", func(p *JoinGame) *string { return &p.DimensionName }, Identifier),
	Field("hashed_seed", func(p *JoinGame) *int64 { return &p.HashedSeed }, Long),
	Field("game_mode", func(p *JoinGame) *byte { return &p.GameMode }, UnsignedByte),
	Field("previous_game_mode", func(p *JoinGame) *int8 { return &p.PreviousGameMode }, SignedByte),
	Field("is_debug", func(p *JoinGame) *bool { return &p.IsDebug }, Boolean),
	Field("is_flat", func(p *JoinGame) *bool { return &p.IsFlat }, Boolean),
	Field("death_location", func(p *JoinGame) *Optional[DeathLocation] { return &p.DeathLocation }, OptionalOf(deathLocationCodec)),
	Field("portal_cooldown", func(p *JoinGame) *int32 { return &p.PortalCooldown }, VarInt),
	Field("enforces_secure_chat", func(p *JoinGame) *bool { return &p.EnforcesSecureChat }, Boolean),
)

func (p *JoinGame) ID() int32                { return 0x2B }
func (p *JoinGame) State() State             { return Play }
func (p *JoinGame) Encode(w io.Writer) error { return joinGameSchema.Encode(w, p) }

type SynchronizePlayerPosition struct {
	X, Y, Z    float64
	Yaw, Pitch float32
	Flags      byte
	TeleportID int32
}

var synchronizePlayerPositionSchema = NewSchema("SynchronizePlayerPosition",
	Field("x", func(p *SynchronizePlayerPosition) *float64 { return &p.X }, Double),
	Field("y", func(p *SynchronizePlayerPosition) *float64 { return &p.Y }, Double),
	Field("z", func(p *SynchronizePlayerPosition) *float64 { return &p.Z }, Double),
	Field("yaw", func(p *SynchronizePlayerPosition) *float32 { return &p.Yaw }, Float),
	Field("pitch", func(p *SynchronizePlayerPosition) *float32 { return &p.Pitch }, Float),
	Field("flags", func(p *SynchronizePlayerPosition) *byte { return &p.Flags }, UnsignedByte),
	Field("teleport_id", func(p *SynchronizePlayerPosition) *int32 { return &p.TeleportID }, VarInt),
)

func (p *SynchronizePlayerPosition) ID() int32    { return 0x40 }
func (p *SynchronizePlayerPosition) State() State { return Play }
func (p *SynchronizePlayerPosition) Encode(w io.Writer) error {
	return synchronizePlayerPositionSchema.Encode(w, p)
}

type SystemChatMessage struct {
	Content string
	Overlay bool
}

var systemChatMessageSchema = NewSchema("SystemChatMessage",
	Field("content", func(p *SystemChatMessage) *string { return &p.Content }, TextComponent),
	Field("overlay", func(p *SystemChatMessage) *bool { return &p.Overlay }, Boolean),
)

func (p *SystemChatMessage) ID() int32                { return 0x6C }
func (p *SystemChatMessage) State() State             { return Play }
func (p *SystemChatMessage) Encode(w io.Writer) error { return systemChatMessageSchema.Encode(w, p) }
