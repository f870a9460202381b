package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"

	"github.com/gstoney/mcserver/internal/logging"
	"github.com/gstoney/mcserver/packet"
)

const (
	DefaultAPIURL     = "https://api.mojang.com"
	DefaultSessionURL = "https://sessionserver.mojang.com"
)

type MojangConfig struct {
	APIURL     string
	SessionURL string
	Timeout    time.Duration
	CacheSize  int
	CacheTTL   time.Duration
}

func DefaultMojangConfig() MojangConfig {
	return MojangConfig{
		APIURL:     DefaultAPIURL,
		SessionURL: DefaultSessionURL,
		Timeout:    5 * time.Second,
		CacheSize:  1024,
		CacheTTL:   10 * time.Minute,
	}
}

// Mojang resolves identities through the Mojang web API. Answers are cached
// for CacheTTL; failures are not cached.
type Mojang struct {
	client     *http.Client
	apiURL     string
	sessionURL string
	logger     zerolog.Logger

	uuids *expirable.LRU[string, uuid.UUID]
	props *expirable.LRU[uuid.UUID, []packet.Property]
}

func NewMojang(cfg MojangConfig) *Mojang {
	return &Mojang{
		client:     &http.Client{Timeout: cfg.Timeout},
		apiURL:     strings.TrimSuffix(cfg.APIURL, "/"),
		sessionURL: strings.TrimSuffix(cfg.SessionURL, "/"),
		logger:     logging.Component("auth"),
		uuids:      expirable.NewLRU[string, uuid.UUID](cfg.CacheSize, nil, cfg.CacheTTL),
		props:      expirable.NewLRU[uuid.UUID, []packet.Property](cfg.CacheSize, nil, cfg.CacheTTL),
	}
}

type profileJSON struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Properties []propertyJSON `json:"properties"`
}

type propertyJSON struct {
	Name      string `json:"name"`
	Value     string `json:"value"`
	Signature string `json:"signature,omitempty"`
}

func (m *Mojang) ResolveUUID(ctx context.Context, name string) (uuid.UUID, error) {
	key := strings.ToLower(name)
	if id, ok := m.uuids.Get(key); ok {
		return id, nil
	}

	var profile profileJSON
	if err := m.get(ctx, m.apiURL+"/users/profiles/minecraft/"+url.PathEscape(name), &profile); err != nil {
		return uuid.Nil, fmt.Errorf("resolve %s: %w", name, err)
	}

	id, err := uuid.Parse(profile.ID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("resolve %s: bad profile id %q: %w", name, profile.ID, err)
	}

	m.uuids.Add(key, id)
	m.logger.Debug().Str("name", name).Stringer("uuid", id).Msg("resolved profile")
	return id, nil
}

func (m *Mojang) FetchProfileProperties(ctx context.Context, id uuid.UUID) ([]packet.Property, error) {
	if props, ok := m.props.Get(id); ok {
		return props, nil
	}

	var profile profileJSON
	endpoint := m.sessionURL + "/session/minecraft/profile/" + strings.ReplaceAll(id.String(), "-", "") + "?unsigned=false"
	if err := m.get(ctx, endpoint, &profile); err != nil {
		return nil, fmt.Errorf("fetch profile %s: %w", id, err)
	}

	props := make([]packet.Property, len(profile.Properties))
	for i, p := range profile.Properties {
		props[i] = packet.Property{Name: p.Name, Value: p.Value}
		if p.Signature != "" {
			props[i].Signature = packet.Some(p.Signature)
		}
	}

	m.props.Add(id, props)
	return props, nil
}

func (m *Mojang) get(ctx context.Context, endpoint string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNoContent, http.StatusNotFound:
		return ErrProfileNotFound
	default:
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
