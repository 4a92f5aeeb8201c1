package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"time"

	"nbastats/refresher/internal/metrics"
	"nbastats/refresher/internal/models"

	"github.com/rs/zerolog/log"
)

// ErrUpstreamUnavailable indicates the stats provider returned an
// unusable response for a whole-run request (leaderboard). Callers
// treat it as fatal for the run, not per-player.
var ErrUpstreamUnavailable = errors.New("upstream stats provider unavailable")

// Client is the stats.nba.com API client.
//
// Calls are single-shot: the refresh pipeline paces itself between
// player calls instead of retrying, so a retry/backoff layer here
// would only multiply load on a rate-limited upstream.
type Client struct {
	baseURL    string
	season     string
	seasonType string
	httpClient *http.Client
}

// Leader is one row of the scoring leaderboard, used only as a seed
// set of players to refresh.
type Leader struct {
	PlayerID int64
	Name     string
	Team     string
}

// NewClient creates a new stats.nba.com API client
func NewClient(baseURL, season, seasonType string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		season:     season,
		seasonType: seasonType,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// get performs a single GET request to the NBA stats API
func (c *Client) get(ctx context.Context, endpoint string, params map[string]string) ([]byte, error) {
	url := fmt.Sprintf("%s/%s", c.baseURL, endpoint)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// stats.nba.com rejects requests without browser-like headers
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Origin", "https://www.nba.com")
	req.Header.Set("Referer", "https://www.nba.com/")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("x-nba-stats-origin", "stats")
	req.Header.Set("x-nba-stats-token", "true")

	q := req.URL.Query()
	for key, value := range params {
		q.Add(key, value)
	}
	req.URL.RawQuery = q.Encode()

	log.Debug().
		Str("endpoint", endpoint).
		Msg("Making API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.UpstreamCallsTotal.WithLabelValues(endpoint, "error").Inc()
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.UpstreamCallsTotal.WithLabelValues(endpoint, "error").Inc()
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	metrics.UpstreamCallsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()
	metrics.UpstreamCallDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	log.Debug().
		Str("endpoint", endpoint).
		Int("size", len(body)).
		Dur("duration", time.Since(start)).
		Msg("API request successful")

	return body, nil
}

// FetchLeagueLeaders fetches the per-game scoring leaders for the
// configured season. A transport error or a body missing the expected
// result set aborts the whole refresh, so both are reported as
// ErrUpstreamUnavailable.
func (c *Client) FetchLeagueLeaders(ctx context.Context) ([]Leader, error) {
	body, err := c.get(ctx, "leagueLeaders", map[string]string{
		"LeagueID":     "00",
		"PerMode":      "PerGame",
		"Scope":        "S",
		"Season":       c.season,
		"SeasonType":   c.seasonType,
		"StatCategory": "PTS",
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	var payload struct {
		ResultSet *ResultSet `json:"resultSet"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal leaders: %v", ErrUpstreamUnavailable, err)
	}

	if payload.ResultSet == nil || payload.ResultSet.RowSet == nil {
		return nil, fmt.Errorf("%w: response missing resultSet", ErrUpstreamUnavailable)
	}

	rows := payload.ResultSet.Rows()
	leaders := make([]Leader, 0, len(rows))
	for _, row := range rows {
		leaders = append(leaders, Leader{
			PlayerID: int64(asFloat(row["PLAYER_ID"])),
			Name:     asString(row["PLAYER"]),
			Team:     asString(row["TEAM_ABBREVIATION"]),
		})
	}

	return leaders, nil
}

// FetchPlayerGameLogs fetches the full season game log for one player,
// sorted descending by game date (most recent first). An empty log is
// returned as an empty slice, not an error.
func (c *Client) FetchPlayerGameLogs(ctx context.Context, playerID int64) ([]models.GameRecord, error) {
	body, err := c.get(ctx, "playergamelogs", map[string]string{
		"LeagueID":   "00",
		"PerMode":    "Totals",
		"PlayerID":   strconv.FormatInt(playerID, 10),
		"Season":     c.season,
		"SeasonType": c.seasonType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch game logs: %w", err)
	}

	var payload struct {
		ResultSets []ResultSet `json:"resultSets"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game logs: %w", err)
	}

	if len(payload.ResultSets) == 0 {
		return nil, nil
	}

	rows := payload.ResultSets[0].Rows()
	games := make([]models.GameRecord, 0, len(rows))
	for _, row := range rows {
		date, err := parseGameDate(asString(row["GAME_DATE"]))
		if err != nil {
			log.Warn().
				Int64("player_id", playerID).
				Str("game_date", asString(row["GAME_DATE"])).
				Msg("Skipping game row with unparseable date")
			continue
		}

		games = append(games, models.GameRecord{
			GameDate:   date,
			Points:     asFloat(row["PTS"]),
			Rebounds:   asFloat(row["REB"]),
			Assists:    asFloat(row["AST"]),
			ThreesMade: asFloat(row["FG3M"]),
			Matchup:    asString(row["MATCHUP"]),
		})
	}

	sort.Slice(games, func(i, j int) bool {
		return games[i].GameDate.After(games[j].GameDate)
	})

	return games, nil
}

// gameDateLayouts covers the formats the stats API has been observed
// to use for GAME_DATE.
var gameDateLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02",
	time.RFC3339,
}

func parseGameDate(s string) (time.Time, error) {
	for _, layout := range gameDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized game date %q", s)
}
