package admin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/gstoney/mcserver/auth"
	"github.com/gstoney/mcserver/packet"
	"github.com/gstoney/mcserver/server"
	"github.com/gstoney/mcserver/session"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

func newTestAdmin() (*Server, *server.Server) {
	game := server.New(server.DefaultConfig())
	return New(game), game
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func register(game *server.Server, name string) *session.Session {
	return game.Sessions.Register(session.New(auth.OfflineUUID(name), name, nil, "127.0.0.1:5000"))
}

func TestStatus(t *testing.T) {
	a, game := newTestAdmin()
	register(game, "Notch")

	w := do(t, a.Handler(), http.MethodGet, "/api/status", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status code = %d", w.Code)
	}

	var got server.ResponseJSON
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Players.Online != 1 || got.Version.Protocol != packet.ProtocolVersion {
		t.Errorf("status = %+v", got)
	}
}

func TestPlayers(t *testing.T) {
	a, game := newTestAdmin()
	notch := register(game, "Notch")
	notch.SetClientSettings(packet.ClientSettings{Locale: "en_us", ViewDistance: 12})
	register(game, "jeb_")

	w := do(t, a.Handler(), http.MethodGet, "/api/players", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status code = %d", w.Code)
	}

	var got struct {
		Online  int          `json:"online"`
		Players []playerJSON `json:"players"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}

	var names []string
	for _, p := range got.Players {
		names = append(names, p.Name)
	}
	if diff := cmp.Diff([]string{"Notch", "jeb_"}, names); got.Online != 2 || diff != "" {
		t.Errorf("online = %d, names mismatch (-want +got):\n%s", got.Online, diff)
	}
	if p := got.Players[0]; p.Locale != "en_us" || p.View != 12 || p.UUID != notch.UUID.String() {
		t.Errorf("player = %+v", p)
	}
}

func TestPlayer(t *testing.T) {
	testCases := []struct {
		desc string
		path string
		code int
	}{
		{desc: "exact name", path: "/api/players/Notch", code: http.StatusOK},
		{desc: "other case", path: "/api/players/notch", code: http.StatusOK},
		{desc: "unknown", path: "/api/players/Herobrine", code: http.StatusNotFound},
	}

	a, game := newTestAdmin()
	register(game, "Notch")

	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			if w := do(t, a.Handler(), http.MethodGet, tC.path, ""); w.Code != tC.code {
				t.Errorf("status code = %d, want %d", w.Code, tC.code)
			}
		})
	}
}

func TestKick(t *testing.T) {
	testCases := []struct {
		desc       string
		name       string
		body       string
		code       int
		wantReason string
	}{
		{desc: "with reason", name: "Notch", body: `{"reason":"bye"}`, code: http.StatusOK, wantReason: "bye"},
		{desc: "default reason", name: "Notch", code: http.StatusOK, wantReason: DefaultKickReason},
		{desc: "bad body", name: "Notch", body: `{"reason":`, code: http.StatusBadRequest},
		{desc: "unknown player", name: "Herobrine", code: http.StatusNotFound},
	}

	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			a, game := newTestAdmin()
			sess := register(game, "Notch")

			var reasons []string
			sess.BindKicker(func(reason string) { reasons = append(reasons, reason) })

			w := do(t, a.Handler(), http.MethodPost, "/api/players/"+tC.name+"/kick", tC.body)
			if w.Code != tC.code {
				t.Fatalf("status code = %d, want %d: %s", w.Code, tC.code, w.Body)
			}

			if tC.wantReason == "" {
				if len(reasons) != 0 || !sess.Connected() {
					t.Errorf("player kicked with %v", reasons)
				}
				return
			}
			if diff := cmp.Diff([]string{tC.wantReason}, reasons); diff != "" {
				t.Errorf("kick reasons mismatch (-want +got):\n%s", diff)
			}
			if sess.Connected() {
				t.Error("kicked session still connected")
			}
		})
	}
}
