package server

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/gstoney/mcserver"
	"github.com/gstoney/mcserver/packet"
)

// MaxPlayerSample is the number of online players listed in a status response.
const MaxPlayerSample = 12

type ResponseJSON struct {
	Version            VersionJSON     `json:"version"`
	Players            PlayersJSON     `json:"players"`
	Description        DescriptionJSON `json:"description"`
	Favicon            string          `json:"favicon,omitempty"`
	EnforcesSecureChat bool            `json:"enforcesSecureChat"`
}

type VersionJSON struct {
	Name     string `json:"name"`
	Protocol int    `json:"protocol"`
}

type PlayersJSON struct {
	Max    int                `json:"max"`
	Online int                `json:"online"`
	Sample []PlayerSampleJSON `json:"sample,omitempty"`
}

type PlayerSampleJSON struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

type DescriptionJSON struct {
	Text string `json:"text"`
}

// LoadFavicon reads a PNG and returns it as the data URI used by status responses.
func LoadFavicon(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if ct := http.DetectContentType(b); ct != "image/png" {
		return "", fmt.Errorf("favicon %s: want image/png, got %s", path, ct)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(b), nil
}

// StatusResponse builds the server list response from the current sessions.
func (s *Server) StatusResponse() ResponseJSON {
	resp := ResponseJSON{
		Version: VersionJSON{
			Name:     packet.VersionName,
			Protocol: packet.ProtocolVersion,
		},
		Players: PlayersJSON{
			Max:    s.Config.MaxPlayers,
			Online: s.Sessions.Len(),
		},
		Description: DescriptionJSON{Text: s.Config.MOTD},
		Favicon:     s.Config.Favicon,
	}

	for _, sess := range s.Sessions.All() {
		if len(resp.Players.Sample) == MaxPlayerSample {
			break
		}
		resp.Players.Sample = append(resp.Players.Sample, PlayerSampleJSON{
			Name: sess.Name,
			ID:   sess.UUID.String(),
		})
	}
	return resp
}

// status answers one StatusRequest and one PingRequest, in that order.
// The caller closes the connection afterwards.
func (s *Server) status(c *mcserver.Conn) error {
	p, err := c.ReadPacket()
	if err != nil {
		return err
	}
	if _, ok := p.(*packet.StatusRequest); !ok {
		return unexpected(packet.Status, p)
	}

	b, err := json.Marshal(s.StatusResponse())
	if err != nil {
		return err
	}
	if err := c.WritePacket(&packet.StatusResponse{JSON: string(b)}); err != nil {
		return err
	}

	p, err = c.ReadPacket()
	if err != nil {
		return err
	}
	ping, ok := p.(*packet.PingRequest)
	if !ok {
		return unexpected(packet.Status, p)
	}

	return c.WritePacket(&packet.PingResponse{Payload: ping.Payload})
}
