package audit

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })
	return &buf
}

func TestLogFromRequest(t *testing.T) {
	buf := captureLog(t)

	req := httptest.NewRequest("PATCH", "/api/sessions/abc/status", nil)
	req.RemoteAddr = "10.1.2.3"
	req.Header.Set("User-Agent", "growthyari-web")

	LogFromRequest(req, Event{
		Type:     EventSessionStatusChange,
		UserID:   "user-1",
		TargetID: "session-1",
		Details:  map[string]interface{}{"status": "confirmed", "attempt": 1},
	})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "session_status_change", entry["event_type"])
	assert.Equal(t, "user-1", entry["user_id"])
	assert.Equal(t, "session-1", entry["target_id"])
	assert.Equal(t, "10.1.2.3", entry["ip"])
	assert.Equal(t, "growthyari-web", entry["user_agent"])
	assert.Equal(t, "confirmed", entry["status"])
	assert.Equal(t, float64(1), entry["attempt"])
}

func TestLog_OmitsEmptyFields(t *testing.T) {
	buf := captureLog(t)

	LogFromRequest(httptest.NewRequest("GET", "/", nil), Event{Type: EventAuthFailure})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.NotContains(t, entry, "user_id")
	assert.NotContains(t, entry, "target_id")
}
