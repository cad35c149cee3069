package utils

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, zerolog.TraceLevel, ParseLogLevel("trace"))
	assert.Equal(t, zerolog.DebugLevel, ParseLogLevel(" Debug "))
	assert.Equal(t, zerolog.WarnLevel, ParseLogLevel("warning"))
	assert.Equal(t, zerolog.ErrorLevel, ParseLogLevel("ERROR"))
	assert.Equal(t, zerolog.InfoLevel, ParseLogLevel("loud"))
}

func TestWebhookHook_PostsWarningsOnly(t *testing.T) {
	bodies := make(chan DiscordWebhookPayload, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var payload DiscordWebhookPayload
		if err := json.Unmarshal(raw, &payload); err == nil {
			bodies <- payload
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	hook := NewWebhookHook(srv.URL)
	hook.sent = make(chan error, 4)
	logger := zerolog.New(io.Discard).Hook(hook)

	logger.Info().Msg("not forwarded")
	logger.Error().Msg("database unreachable")

	select {
	case err := <-hook.sent:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("webhook was not called")
	}

	payload := <-bodies
	require.Len(t, payload.Embeds, 1)
	assert.Equal(t, "ERROR Log", payload.Embeds[0].Title)
	assert.Equal(t, 15158332, payload.Embeds[0].Color)
	assert.Equal(t, "database unreachable", payload.Embeds[0].Fields[0].Value)
	assert.Empty(t, bodies)
}

func TestWebhookHook_ReportsHTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	hook := NewWebhookHook(srv.URL)
	hook.sent = make(chan error, 1)
	logger := zerolog.New(io.Discard).Hook(hook)
	logger.Warn().Msg("slow tick")

	select {
	case err := <-hook.sent:
		assert.ErrorContains(t, err, "429")
	case <-time.After(5 * time.Second):
		t.Fatal("webhook was not called")
	}
}
