package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/stormteams/AIChat-sub000/internal/chat"
	"github.com/stormteams/AIChat-sub000/internal/knowledge"
	"github.com/stormteams/AIChat-sub000/internal/llm"
	"github.com/stormteams/AIChat-sub000/internal/profile"
)

type cannedChatter struct {
	reply string
	err   error
}

func (c *cannedChatter) Chat(ctx context.Context, messages []llm.Message) (string, error) {
	return c.reply, c.err
}

func newTestServer(t *testing.T, chatter llm.Chatter) *Server {
	t.Helper()

	kb := knowledge.NewMemoryStore()
	require.NoError(t, kb.Replace(context.Background(), "school-bot", []knowledge.Entry{
		{ID: "fees", Title: "學費資訊", Content: "本學期學費說明"},
	}))

	svc, err := chat.NewService(chat.Options{
		Knowledge: kb,
		Profiles:  profile.NewMemoryStore(),
		Chatter:   chatter,
	})
	require.NoError(t, err)

	srv, err := NewServer(svc, zap.NewNop(), nil)
	require.NoError(t, err)
	return srv
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &cannedChatter{reply: "ok"})

	rec := doJSON(t, srv.Handler(), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestChatHappyPath(t *testing.T) {
	srv := newTestServer(t, &cannedChatter{reply: "學費是一萬元"})

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/v1/agents/school-bot/chat",
		`{"user_id":"u1","message":"學費多少"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Reply    string `json:"reply"`
		Selected []struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"selected"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "學費是一萬元", resp.Reply)
	require.Len(t, resp.Selected, 1)
	assert.Equal(t, "fees", resp.Selected[0].ID)
	assert.Equal(t, "學費資訊", resp.Selected[0].Title)
}

func TestChatValidation(t *testing.T) {
	srv := newTestServer(t, &cannedChatter{reply: "ok"})

	tests := []struct {
		name string
		body string
	}{
		{name: "missing user_id", body: `{"message":"hi"}`},
		{name: "missing message", body: `{"user_id":"u1"}`},
		{name: "blank message", body: `{"user_id":"u1","message":"   "}`},
		{name: "malformed json", body: `{"user_id":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/v1/agents/school-bot/chat", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestChatUpstreamFailure(t *testing.T) {
	srv := newTestServer(t, &cannedChatter{err: assert.AnError})

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/v1/agents/school-bot/chat",
		`{"user_id":"u1","message":"學費多少"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestProfileEndpoint(t *testing.T) {
	srv := newTestServer(t, &cannedChatter{reply: "你好"})

	// Seed a profile through the chat pipeline.
	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/v1/agents/school-bot/chat",
		`{"user_id":"u1","message":"我叫陳大大"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv.Handler(), http.MethodGet, "/api/v1/users/u1/profile", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	basic, ok := doc["basic"].(map[string]any)
	require.True(t, ok, "profile document: %s", rec.Body.String())
	assert.Equal(t, "陳大大", basic["name"])
	require.Contains(t, doc, "metadata")
}

func TestProfileUnknownUserIsEmpty(t *testing.T) {
	srv := newTestServer(t, &cannedChatter{reply: "ok"})

	rec := doJSON(t, srv.Handler(), http.MethodGet, "/api/v1/users/nobody/profile", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Contains(t, doc, "metadata")
}
