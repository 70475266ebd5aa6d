package jamclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/python-discord/sir-robin-go/pkg/jamapi/middleware"
	"github.com/python-discord/sir-robin-go/pkg/jamapi/model"
)

// DefaultBaseURL is the in-cluster address of the code jam management
// API.
const DefaultBaseURL = "http://code-jam-management.default.svc.cluster.local:8000"

// tokenTTL is how long minted bearer tokens stay valid before the
// client mints a fresh one.
const tokenTTL = time.Hour

// ResponseCodeError is returned when the API responds with an
// unexpected status code.
type ResponseCodeError struct {
	StatusCode int
	Body       string
}

func (e *ResponseCodeError) Error() string {
	return fmt.Sprintf("unexpected response code %d: %s", e.StatusCode, e.Body)
}

// IsStatus reports whether err is a ResponseCodeError with the given
// status code.
func IsStatus(err error, code int) bool {
	respErr, ok := err.(*ResponseCodeError)
	return ok && respErr.StatusCode == code
}

// CurrentTeamResponse is a participant's team in the ongoing jam.
type CurrentTeamResponse struct {
	UserID int64      `json:"user_id"`
	Team   model.Team `json:"team"`
}

// TeamRequest describes a team in a jam creation payload.
type TeamRequest struct {
	Name             string              `json:"name"`
	DiscordRoleID    int64               `json:"discord_role_id"`
	DiscordChannelID int64               `json:"discord_channel_id"`
	Users            []TeamMemberRequest `json:"users"`
}

// TeamMemberRequest describes a team member in a jam creation payload.
type TeamMemberRequest struct {
	UserID   int64 `json:"user_id"`
	IsLeader bool  `json:"is_leader"`
}

// JamRequest is the payload for creating a jam.
type JamRequest struct {
	Name    string        `json:"name"`
	Ongoing bool          `json:"ongoing"`
	Teams   []TeamRequest `json:"teams"`
}

// Client is a typed client for the code jam management API. It is safe
// for concurrent use; command handlers each run on their own goroutine.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client

	tokenMu     sync.Mutex
	token       string
	tokenExpiry time.Time
}

// NewClient creates a client against the given base URL, minting
// bearer tokens from the shared API key. An empty baseURL falls back
// to the in-cluster default.
func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    httpClient,
	}
}

// CurrentJam returns the ongoing jam.
func (c *Client) CurrentJam(ctx context.Context) (*model.Jam, error) {
	var jam model.Jam
	if err := c.do(ctx, http.MethodGet, "/codejams/current", nil, &jam); err != nil {
		return nil, err
	}
	return &jam, nil
}

// CreateJam creates a new jam with its teams.
func (c *Client) CreateJam(ctx context.Context, req JamRequest) (*model.Jam, error) {
	var jam model.Jam
	if err := c.do(ctx, http.MethodPost, "/codejams", req, &jam); err != nil {
		return nil, err
	}
	return &jam, nil
}

// EndJam marks a jam as no longer ongoing.
func (c *Client) EndJam(ctx context.Context, jamID uint) (*model.Jam, error) {
	ongoing := false
	body := struct {
		Ongoing *bool `json:"ongoing"`
	}{Ongoing: &ongoing}

	var jam model.Jam
	path := fmt.Sprintf("/codejams/%d", jamID)
	if err := c.do(ctx, http.MethodPatch, path, body, &jam); err != nil {
		return nil, err
	}
	return &jam, nil
}

// Teams lists teams, optionally limited to the ongoing jam.
func (c *Client) Teams(ctx context.Context, currentJamOnly bool) ([]model.Team, error) {
	path := "/teams"
	if currentJamOnly {
		path += "?current_jam=true"
	}

	var teams []model.Team
	if err := c.do(ctx, http.MethodGet, path, nil, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// FindTeam looks a team up by name within a jam. A 404 from the API is
// returned as a ResponseCodeError; use IsStatus to detect it.
func (c *Client) FindTeam(ctx context.Context, name string, jamID uint) (*model.Team, error) {
	query := url.Values{}
	query.Set("name", name)
	query.Set("jam_id", strconv.FormatUint(uint64(jamID), 10))

	var team model.Team
	if err := c.do(ctx, http.MethodGet, "/teams/find?"+query.Encode(), nil, &team); err != nil {
		return nil, err
	}
	return &team, nil
}

// CurrentTeam returns the user's team in the ongoing jam.
func (c *Client) CurrentTeam(ctx context.Context, userID int64) (*CurrentTeamResponse, error) {
	var resp CurrentTeamResponse
	path := fmt.Sprintf("/users/%d/current_team", userID)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AddTeamMember adds a user to a team.
func (c *Client) AddTeamMember(ctx context.Context, teamID uint, userID int64, isLeader bool) error {
	path := fmt.Sprintf("/teams/%d/users/%d?is_leader=%t", teamID, userID, isLeader)
	return c.do(ctx, http.MethodPost, path, nil, nil)
}

// RemoveTeamMember removes a user from a team.
func (c *Client) RemoveTeamMember(ctx context.Context, teamID uint, userID int64) error {
	path := fmt.Sprintf("/teams/%d/users/%d", teamID, userID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// InfractionRequest is the payload for recording an infraction.
type InfractionRequest struct {
	UserID         int64  `json:"user_id"`
	JamID          uint   `json:"jam_id"`
	Reason         string `json:"reason"`
	InfractionType string `json:"infraction_type"`
}

// CreateInfraction records an infraction against a participant.
func (c *Client) CreateInfraction(ctx context.Context, req InfractionRequest) (*model.Infraction, error) {
	var infraction model.Infraction
	if err := c.do(ctx, http.MethodPost, "/infractions", req, &infraction); err != nil {
		return nil, err
	}
	return &infraction, nil
}

// Infractions lists all recorded infractions.
func (c *Client) Infractions(ctx context.Context) ([]model.Infraction, error) {
	var infractions []model.Infraction
	if err := c.do(ctx, http.MethodGet, "/infractions", nil, &infractions); err != nil {
		return nil, err
	}
	return infractions, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	token, err := c.bearerToken()
	if err != nil {
		return fmt.Errorf("failed to mint API token: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &ResponseCodeError{
			StatusCode: resp.StatusCode,
			Body:       string(bytes.TrimSpace(raw)),
		}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) bearerToken() (string, error) {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	token, err := middleware.GenerateToken(c.apiKey, "sir-robin", tokenTTL)
	if err != nil {
		return "", err
	}
	c.token = token
	// Refresh a minute before the token actually expires.
	c.tokenExpiry = time.Now().Add(tokenTTL - time.Minute)
	return token, nil
}
