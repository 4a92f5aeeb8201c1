package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const leadersBody = `{
	"resultSet": {
		"name": "LeagueLeaders",
		"headers": ["PLAYER_ID", "RANK", "PLAYER", "TEAM_ABBREVIATION", "PTS"],
		"rowSet": [
			[203507, 1, "Giannis Antetokounmpo", "MIL", 30.4],
			[2544, 2, "LeBron James", "LAL", 25.2]
		]
	}
}`

const gameLogsBody = `{
	"resultSets": [{
		"name": "PlayerGameLogs",
		"headers": ["GAME_DATE", "MATCHUP", "PTS", "REB", "AST", "FG3M"],
		"rowSet": [
			["2025-01-14T00:00:00", "LAL @ GSW", 28, 8, 9, 2],
			["2025-01-15T00:00:00", "LAL vs. BOS", 31, 7, 11, 3]
		]
	}]
}`

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	c := NewClient(srv.URL, "2024-25", "Regular Season", 5*time.Second)
	return c, srv
}

func TestFetchLeagueLeaders(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/leagueLeaders", r.URL.Path)
		assert.Equal(t, "PTS", r.URL.Query().Get("StatCategory"))
		assert.Equal(t, "2024-25", r.URL.Query().Get("Season"))
		assert.Equal(t, "stats", r.Header.Get("x-nba-stats-origin"))
		w.Write([]byte(leadersBody))
	})
	defer srv.Close()

	leaders, err := c.FetchLeagueLeaders(context.Background())
	require.NoError(t, err)

	require.Len(t, leaders, 2)
	assert.Equal(t, int64(203507), leaders[0].PlayerID)
	assert.Equal(t, "Giannis Antetokounmpo", leaders[0].Name)
	assert.Equal(t, "MIL", leaders[0].Team)
	assert.Equal(t, "LeBron James", leaders[1].Name)
}

func TestFetchLeagueLeaders_MissingResultSet(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"resource": "leagueleaders"}`))
	})
	defer srv.Close()

	_, err := c.FetchLeagueLeaders(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestFetchLeagueLeaders_HTTPError(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	defer srv.Close()

	_, err := c.FetchLeagueLeaders(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestFetchPlayerGameLogs_SortedDescending(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/playergamelogs", r.URL.Path)
		assert.Equal(t, "2544", r.URL.Query().Get("PlayerID"))
		w.Write([]byte(gameLogsBody))
	})
	defer srv.Close()

	games, err := c.FetchPlayerGameLogs(context.Background(), 2544)
	require.NoError(t, err)

	require.Len(t, games, 2)
	// Most recent game first regardless of upstream order
	assert.Equal(t, "LAL vs. BOS", games[0].Matchup)
	assert.Equal(t, 31.0, games[0].Points)
	assert.Equal(t, 7.0, games[0].Rebounds)
	assert.Equal(t, 11.0, games[0].Assists)
	assert.Equal(t, 3.0, games[0].ThreesMade)
	assert.True(t, games[0].GameDate.After(games[1].GameDate))
}

func TestFetchPlayerGameLogs_NoResultSets(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"resultSets": []}`))
	})
	defer srv.Close()

	games, err := c.FetchPlayerGameLogs(context.Background(), 2544)
	require.NoError(t, err)
	assert.Empty(t, games)
}

func TestFetchPlayerGameLogs_HTTPError(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer srv.Close()

	_, err := c.FetchPlayerGameLogs(context.Background(), 2544)
	require.Error(t, err)
}

func TestParseGameDate(t *testing.T) {
	for _, s := range []string{"2025-01-15T00:00:00", "2025-01-15"} {
		d, err := parseGameDate(s)
		require.NoError(t, err, s)
		assert.Equal(t, 15, d.Day())
	}

	_, err := parseGameDate("JAN-15")
	assert.Error(t, err)
}
