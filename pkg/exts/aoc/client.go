package aoc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/python-discord/sir-robin-go/pkg/config"
)

const (
	defaultBaseURL = "https://adventofcode.com"
	userAgent      = "PythonDiscord AoC Event Bot"
)

// ErrFetchFailed is returned when one or more leaderboards could not be
// fetched at all.
var ErrFetchFailed = errors.New("failed to fetch one or more leaderboards")

// errUnexpectedRedirect means the AoC website bounced us, which is how
// it reports an expired or invalid session cookie.
var errUnexpectedRedirect = errors.New("unexpected redirect")

// client fetches private leaderboards from the Advent of Code website.
type client struct {
	baseURL         string
	http            *http.Client
	fallbackSession string
}

func newClient(fallbackSession string) *client {
	return &client{
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
			// Redirects signal an invalid session and must surface as
			// such rather than be followed.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		fallbackSession: fallbackSession,
	}
}

func (c *client) fetchBoard(ctx context.Context, url, session string) (map[string]RawMember, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.AddCookie(&http.Cookie{Name: "session", Value: session})

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 && resp.StatusCode < 400 {
		return nil, fmt.Errorf("%w to %s", errUnexpectedRedirect, resp.Header.Get("Location"))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var board rawLeaderboard
	if err := json.NewDecoder(resp.Body).Decode(&board); err != nil {
		return nil, fmt.Errorf("malformed leaderboard response: %w", err)
	}
	return board.Members, nil
}

// fetchAll pools the members of all configured leaderboards. Boards are
// fetched one at a time to avoid stressing the AoC website. A board
// whose session cookie has expired is retried once with the fallback
// session. It also returns the participant count per board.
func (c *client) fetchAll(
	ctx context.Context, year int, boards map[string]config.Leaderboard,
) (map[string]RawMember, map[string]int, error) {
	ids := make([]string, 0, len(boards))
	for id := range boards {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	participants := make(map[string]RawMember)
	counts := make(map[string]int, len(boards))
	for _, id := range ids {
		board := boards[id]
		url := fmt.Sprintf("%s/%d/leaderboard/private/view/%s.json", c.baseURL, year, board.ID)

		members, err := c.fetchBoard(ctx, url, board.Session)
		if errors.Is(err, errUnexpectedRedirect) {
			slog.Error("leaderboard session seems expired, using the fallback session", "board", board.ID)
			members, err = c.fetchBoard(ctx, url, c.fallbackSession)
			if errors.Is(err, errUnexpectedRedirect) {
				slog.Error("the fallback session seems to have expired as well")
			}
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%w: board %s: %w", ErrFetchFailed, board.ID, err)
		}

		counts[board.ID] = len(members)
		for memberID, member := range members {
			participants[memberID] = member
		}
	}

	slog.Info("fetched leaderboard information", "participants", len(participants))
	return participants, counts, nil
}
