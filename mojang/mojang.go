// Package mojang resolves player names and UUIDs through the Mojang web API.
//
// The API is rate limited, so results are cached per Client.
package mojang

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

const (
	DefaultAPIURL     = "https://api.mojang.com"
	DefaultSessionURL = "https://sessionserver.mojang.com"

	DefaultExpiration = 10 * time.Minute
)

var (
	ErrNotFound    = errors.New("mojang: profile not found")
	ErrRateLimited = errors.New("mojang: rate limited")
	ErrInvalidName = errors.New("mojang: invalid player name")
)

// Profile is the public part of a player's game profile.
type Profile struct {
	ID   uuid.UUID
	Name string
}

type Client struct {
	APIURL     string
	SessionURL string
	HTTP       *http.Client

	cache *cache.Cache
}

// NewClient returns a client for the public endpoints. Lookups are cached
// for expiration; zero means DefaultExpiration.
func NewClient(expiration time.Duration) *Client {
	if expiration <= 0 {
		expiration = DefaultExpiration
	}
	return &Client{
		APIURL:     DefaultAPIURL,
		SessionURL: DefaultSessionURL,
		HTTP: &http.Client{
			Timeout: 10 * time.Second,
		},
		cache: cache.New(expiration, 2*expiration),
	}
}

// ProfileByName looks up the current owner of a player name. Names are
// matched case-insensitively.
func (c *Client) ProfileByName(ctx context.Context, name string) (Profile, error) {
	if name == "" || len(name) > 16 || strings.ContainsAny(name, "/?#% ") {
		return Profile{}, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	key := "name:" + strings.ToLower(name)
	if p, ok := c.cached(key); ok {
		return p, nil
	}

	p, err := c.fetch(ctx, c.APIURL+"/users/profiles/minecraft/"+url.PathEscape(name))
	if err != nil {
		return Profile{}, err
	}
	c.store(p)
	return p, nil
}

// ProfileByUUID looks up the current name of a player.
func (c *Client) ProfileByUUID(ctx context.Context, id uuid.UUID) (Profile, error) {
	key := "uuid:" + id.String()
	if p, ok := c.cached(key); ok {
		return p, nil
	}

	p, err := c.fetch(ctx, c.SessionURL+"/session/minecraft/profile/"+strings.ReplaceAll(id.String(), "-", ""))
	if err != nil {
		return Profile{}, err
	}
	c.store(p)
	return p, nil
}

func (c *Client) UUIDForName(ctx context.Context, name string) (uuid.UUID, error) {
	p, err := c.ProfileByName(ctx, name)
	return p.ID, err
}

func (c *Client) NameForUUID(ctx context.Context, id uuid.UUID) (string, error) {
	p, err := c.ProfileByUUID(ctx, id)
	return p.Name, err
}

func (c *Client) cached(key string) (Profile, bool) {
	if c.cache == nil {
		return Profile{}, false
	}
	v, ok := c.cache.Get(key)
	if !ok {
		return Profile{}, false
	}
	return v.(Profile), true
}

func (c *Client) store(p Profile) {
	if c.cache == nil {
		return
	}
	c.cache.Set("name:"+strings.ToLower(p.Name), p, cache.DefaultExpiration)
	c.cache.Set("uuid:"+p.ID.String(), p, cache.DefaultExpiration)
}

func (c *Client) fetch(ctx context.Context, u string) (p Profile, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return
	}
	req.Header.Set("Accept", "application/json")

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNoContent, http.StatusNotFound:
		return p, ErrNotFound
	case http.StatusTooManyRequests:
		return p, ErrRateLimited
	default:
		return p, fmt.Errorf("mojang: unexpected status %d from %s", resp.StatusCode, req.URL.Host)
	}

	var body struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return p, fmt.Errorf("mojang: decode profile: %w", err)
	}

	if p.ID, err = uuid.Parse(body.ID); err != nil {
		return p, fmt.Errorf("mojang: profile id %q: %w", body.ID, err)
	}
	p.Name = body.Name
	return
}
