package session

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListSessions(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	s := newTestSession(t, hub)
	hub.Register(s)
	require.Eventually(t, func() bool { return hub.Count() == 1 },
		time.Second, 5*time.Millisecond)

	h := NewHandler(hub)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions", nil)
	h.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body listResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	require.Len(t, body.Sessions, 1)
	assert.Equal(t, "sess_test", body.Sessions[0].ID)
	assert.Equal(t, 4, body.Sessions[0].ShapeCount)
}

func TestListSessionsEmpty(t *testing.T) {
	h := NewHandler(NewHub())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions", nil)
	h.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body listResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Zero(t, body.Count)
	assert.Empty(t, body.Sessions)
}
