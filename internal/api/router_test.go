package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yt-subtitles/backend/internal/api"
	"github.com/yt-subtitles/backend/internal/cache"
	"github.com/yt-subtitles/backend/internal/pipeline"
	"github.com/yt-subtitles/backend/internal/provider"
)

const stubVTT = "WEBVTT\n\n00:00:01.000 --> 00:00:05.000\nHello there\n"

type stubProvider struct{}

func (p *stubProvider) Name() string { return "openai" }

func (p *stubProvider) Transcribe(ctx context.Context, audioPath, model string, creds provider.Credentials) (string, error) {
	return stubVTT, nil
}

func (p *stubProvider) Translate(ctx context.Context, vttContent, targetLang, model string, creds provider.Credentials, updateProgress func(float64)) (string, error) {
	return vttContent, nil
}

func (p *stubProvider) Summarize(ctx context.Context, transcript, targetLang, model string, creds provider.Credentials) (*provider.Summary, error) {
	return &provider.Summary{Synopsis: "a greeting"}, nil
}

type stubFetcher struct{}

func (f *stubFetcher) Fetch(ctx context.Context, videoURL, dir string) (string, error) {
	path := filepath.Join(dir, "audio.mp3")
	return path, os.WriteFile(path, []byte("audio"), 0644)
}

func newTestServer(t *testing.T) (*httptest.Server, *cache.Cache) {
	t.Helper()

	c, err := cache.Open(filepath.Join(t.TempDir(), "cache.db"), cache.DefaultTTL)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	registry := provider.NewRegistry()
	registry.Register(&stubProvider{})

	runner := pipeline.NewRunner(registry, c, &stubFetcher{}, time.Minute)
	runner.TempDir = t.TempDir()

	server := httptest.NewServer(api.NewRouter(registry, c, runner, []string{"*"}, "test"))
	t.Cleanup(server.Close)
	return server, c
}

func getJSON(t *testing.T, url string, out interface{}) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp.StatusCode
}

func TestRootAndHealth(t *testing.T) {
	server, _ := newTestServer(t)

	var root map[string]string
	assert.Equal(t, http.StatusOK, getJSON(t, server.URL+"/", &root))
	assert.Equal(t, "test", root["version"])
	assert.NotEmpty(t, root["message"])

	var health struct {
		Status    string   `json:"status"`
		Providers []string `json:"providers"`
		Version   string   `json:"version"`
	}
	assert.Equal(t, http.StatusOK, getJSON(t, server.URL+"/api/health", &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Contains(t, health.Providers, "openai")
}

func TestListModels(t *testing.T) {
	server, _ := newTestServer(t)

	var body struct {
		Providers []struct {
			ID                  string `json:"id"`
			TranscriptionModels []struct {
				ID string `json:"id"`
			} `json:"transcription_models"`
			TranslationModels []struct {
				ID string `json:"id"`
			} `json:"translation_models"`
		} `json:"providers"`
	}
	assert.Equal(t, http.StatusOK, getJSON(t, server.URL+"/api/models", &body))
	require.NotEmpty(t, body.Providers)

	names := make([]string, 0, len(body.Providers))
	for _, p := range body.Providers {
		names = append(names, p.ID)
		assert.NotEmpty(t, p.TranscriptionModels)
		assert.NotEmpty(t, p.TranslationModels)
	}
	assert.Contains(t, names, "openai")
	assert.Contains(t, names, "groq")
}

func TestClearCache(t *testing.T) {
	server, c := newTestServer(t)

	require.NoError(t, c.Put(cache.Key{VideoID: "abc123def45", Language: "en", Operation: "transcribe"}, stubVTT))
	require.NoError(t, c.Put(cache.Key{VideoID: "abc123def45", Language: "es", Operation: "transcribe"}, stubVTT))

	req, err := http.NewRequest(http.MethodDelete, server.URL+"/api/cache", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]int64
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, int64(2), body["removed_count"])
}

// wireEvent mirrors the JSON shape pushed over the channel
type wireEvent struct {
	Action   string `json:"action"`
	Stage    string `json:"stage"`
	Progress int    `json:"progress"`
	Success  *bool  `json:"success"`
	Data     *struct {
		VTT     string `json:"vtt"`
		Summary string `json:"summary"`
	} `json:"data"`
	Error string `json:"error"`
}

func dialChannel(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := strings.Replace(server.URL, "http://", "ws://", 1) + "/api/transcribe/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	return conn
}

func readEvents(t *testing.T, conn *websocket.Conn) []wireEvent {
	t.Helper()
	var events []wireEvent
	for {
		var ev wireEvent
		if err := conn.ReadJSON(&ev); err != nil {
			assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "unexpected read error: %v", err)
			return events
		}
		events = append(events, ev)
		if ev.Success != nil {
			return events
		}
	}
}

func TestChannelDeliversTranscript(t *testing.T) {
	server, _ := newTestServer(t)
	conn := dialChannel(t, server)

	// Keep-alives before the job request are ignored
	require.NoError(t, conn.WriteJSON(map[string]string{"action": "ping"}))
	require.NoError(t, conn.WriteJSON(map[string]string{
		"video_url":       "https://www.youtube.com/watch?v=abc123def45",
		"api_key":         "sk-test-key-long-enough",
		"provider":        "openai",
		"target_language": "original",
	}))

	events := readEvents(t, conn)
	require.NotEmpty(t, events)

	final := events[len(events)-1]
	assert.Equal(t, "transcription_result", final.Action)
	require.NotNil(t, final.Success)
	assert.True(t, *final.Success)
	require.NotNil(t, final.Data)
	assert.Equal(t, stubVTT, final.Data.VTT)

	// Everything before the terminal event is stage progress
	for _, ev := range events[:len(events)-1] {
		assert.Equal(t, "progress", ev.Action)
		assert.NotEmpty(t, ev.Stage)
	}

	// The server closes cleanly after the terminal event
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure))
}

func TestChannelValidationFailure(t *testing.T) {
	server, _ := newTestServer(t)
	conn := dialChannel(t, server)

	require.NoError(t, conn.WriteJSON(map[string]string{
		"video_url": "https://vimeo.com/12345",
		"api_key":   "sk-test-key-long-enough",
	}))

	events := readEvents(t, conn)
	require.NotEmpty(t, events)
	final := events[len(events)-1]
	require.NotNil(t, final.Success)
	assert.False(t, *final.Success)
	assert.NotEmpty(t, final.Error)
}

func TestChannelMalformedRequest(t *testing.T) {
	server, _ := newTestServer(t)
	conn := dialChannel(t, server)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json at all")))

	var ev wireEvent
	require.NoError(t, conn.ReadJSON(&ev))
	require.NotNil(t, ev.Success)
	assert.False(t, *ev.Success)
	assert.Equal(t, "malformed job request", ev.Error)
}
