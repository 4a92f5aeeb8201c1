package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"nbastats/refresher/internal/models"
	"nbastats/refresher/internal/pipeline"
	"nbastats/refresher/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	result pipeline.Result
	err    error
	called bool
}

func (f *fakeRunner) Run(context.Context) (pipeline.Result, error) {
	f.called = true
	return f.result, f.err
}

type fakeReader struct {
	doc *models.StatsDocument
	err error
}

func (f *fakeReader) LoadDocument(context.Context) (*models.StatsDocument, error) {
	return f.doc, f.err
}

type fixedRanker struct{}

func (fixedRanker) Rank(string) int { return 12 }

func newTestServer(runner *fakeRunner, reader *fakeReader) *Server {
	return New("test-secret", runner, reader, fixedRanker{})
}

func TestRefresh_RejectsBadSecret(t *testing.T) {
	runner := &fakeRunner{}
	srv := newTestServer(runner, &fakeReader{})

	for _, auth := range []string{"", "Bearer wrong", "test-secret"} {
		req := httptest.NewRequest(http.MethodPost, "/api/cron/update-stats", nil)
		if auth != "" {
			req.Header.Set("Authorization", auth)
		}
		rec := httptest.NewRecorder()

		srv.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "auth=%q", auth)
	}

	// Rejection must happen before any side effects
	assert.False(t, runner.called)
}

func TestRefresh_Success(t *testing.T) {
	ts := time.Date(2025, 1, 20, 6, 0, 0, 0, time.UTC)
	runner := &fakeRunner{result: pipeline.Result{PlayersUpdated: 42, Timestamp: ts}}
	srv := newTestServer(runner, &fakeReader{})

	req := httptest.NewRequest(http.MethodPost, "/api/cron/update-stats", nil)
	req.Header.Set("Authorization", "Bearer test-secret")
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success        bool   `json:"success"`
		PlayersUpdated int    `json:"playersUpdated"`
		Timestamp      string `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, 42, body.PlayersUpdated)
	assert.Equal(t, ts.Format(time.RFC3339), body.Timestamp)
}

func TestRefresh_PipelineFailure(t *testing.T) {
	runner := &fakeRunner{err: errors.New("store unreachable")}
	srv := newTestServer(runner, &fakeReader{})

	req := httptest.NewRequest(http.MethodPost, "/api/cron/update-stats", nil)
	req.Header.Set("Authorization", "Bearer test-secret")
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "store unreachable")
}

func TestGetStats_ServesStoredDocument(t *testing.T) {
	doc := &models.StatsDocument{
		Players: []models.PlayerSnapshot{
			{Name: "Anthony Davis", Team: "LAL"},
		},
		LastUpdated: time.Date(2025, 1, 20, 6, 0, 0, 0, time.UTC),
		Source:      models.SourceLive,
	}
	srv := newTestServer(&fakeRunner{}, &fakeReader{doc: doc})

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Players []models.PlayerSnapshot `json:"players"`
		Source  models.Source           `json:"source"`
		IsDemo  bool                    `json:"isDemoData"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Players, 1)
	assert.Equal(t, "Anthony Davis", body.Players[0].Name)
	assert.Equal(t, models.SourceLive, body.Source)
	assert.False(t, body.IsDemo)
}

func TestGetStats_FallsBackToDemo(t *testing.T) {
	for _, readErr := range []error{store.ErrNoSnapshot, errors.New("connection refused")} {
		srv := newTestServer(&fakeRunner{}, &fakeReader{err: readErr})

		req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
		rec := httptest.NewRecorder()

		srv.Handler().ServeHTTP(rec, req)

		// Read side never errors for missing data
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Players []models.PlayerSnapshot `json:"players"`
			IsDemo  bool                    `json:"isDemoData"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Len(t, body.Players, 5)
		assert.True(t, body.IsDemo)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(&fakeRunner{}, &fakeReader{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
