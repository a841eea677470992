package pitchclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/mauv0809/pitchboard/internal/auth"
	"github.com/mauv0809/pitchboard/internal/pitch"
	"github.com/mauv0809/pitchboard/internal/roster"
	"github.com/mauv0809/pitchboard/internal/stats"
)

var _ API = (*Client)(nil)

// NewClient creates a client for the server at baseURL. The session cookie
// set by Login is kept for later calls.
func NewClient(baseURL string) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 10 * time.Second,
			Jar:     jar,
		},
	}
}

func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("health check: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// Login starts a session for playerID.
func (c *Client) Login(ctx context.Context, playerID, password string) (*auth.Viewer, error) {
	var out struct {
		Player *auth.Viewer `json:"player"`
	}
	body := map[string]string{"playerId": playerID, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &out); err != nil {
		return nil, err
	}
	return out.Player, nil
}

func (c *Client) Stats(ctx context.Context) (*stats.Report, error) {
	var report stats.Report
	if err := c.do(ctx, http.MethodGet, "/api/stats", nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *Client) ListPlayers(ctx context.Context) ([]roster.Player, error) {
	var players []roster.Player
	if err := c.do(ctx, http.MethodGet, "/api/players", nil, &players); err != nil {
		return nil, err
	}
	return players, nil
}

func (c *Client) GetPitchState(ctx context.Context) (*pitch.State, error) {
	var state pitch.State
	if err := c.do(ctx, http.MethodGet, "/api/pitch-state", nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (c *Client) UpdatePitchState(ctx context.Context, upd pitch.Update) (*pitch.State, error) {
	var state pitch.State
	if err := c.do(ctx, http.MethodPut, "/api/pitch-state", upd, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (c *Client) ClearPitchState(ctx context.Context) (*pitch.State, error) {
	var state pitch.State
	body := map[string]string{"action": "clear"}
	if err := c.do(ctx, http.MethodPost, "/api/pitch-state", body, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// do sends body as JSON and decodes the response into out. Non-2xx responses
// become errors carrying the server's message.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr apiError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil || apiErr.Error == "" {
			apiErr.Error = http.StatusText(resp.StatusCode)
		}
		return fmt.Errorf("%s %s: %d %s", method, path, resp.StatusCode, apiErr.Error)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
