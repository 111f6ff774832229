package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/realm-engine/pkg/chat"
)

type geminiStub struct {
	mu       sync.Mutex
	keys     []string
	paths    []string
	requests []GeminiRequest
	status   map[string]int
	reply    string
}

func (s *geminiStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	var req GeminiRequest
	_ = json.Unmarshal(body, &req)

	key := r.Header.Get("x-goog-api-key")
	s.mu.Lock()
	s.keys = append(s.keys, key)
	s.paths = append(s.paths, r.URL.Path)
	s.requests = append(s.requests, req)
	status := s.status[key]
	s.mu.Unlock()

	if status != 0 {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"error":{"message":"nope"}}`))
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"role": "model", "parts": []map[string]string{{"text": s.reply}, {"text": "\n1. Đi tiếp"}}}},
		},
	})
}

func newTestGemini(t *testing.T, stub *geminiStub, keys ...string) *GeminiService {
	t.Helper()
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewGeminiService(keys, "gemini-test", "", srv.URL, 0, logger)
}

func TestGemini_Generate(t *testing.T) {
	stub := &geminiStub{reply: "  Gió thổi."}
	g := newTestGemini(t, stub, "k1")

	out, err := g.Generate(context.Background(), []chat.ChatMessage{
		{Role: chat.ChatRoleSystem, Content: "luật"},
		{Role: chat.ChatRoleSystem, Content: "bối cảnh"},
		{Role: chat.ChatRoleUser, Content: "Ngồi thiền"},
		{Role: chat.ChatRoleAgent, Content: "Trước đó"},
	})
	require.NoError(t, err)
	assert.Equal(t, "  Gió thổi.\n1. Đi tiếp", out)

	require.Len(t, stub.requests, 1)
	req := stub.requests[0]
	assert.Equal(t, "/models/gemini-test:generateContent", stub.paths[0])
	require.NotNil(t, req.SystemInstruction)
	assert.Len(t, req.SystemInstruction.Parts, 2)
	require.Len(t, req.Contents, 2)
	assert.Equal(t, "user", req.Contents[0].Role)
	assert.Equal(t, "model", req.Contents[1].Role)
}

func TestGemini_RotatesKeys(t *testing.T) {
	stub := &geminiStub{reply: "ok", status: map[string]int{"k1": http.StatusTooManyRequests}}
	g := newTestGemini(t, stub, "k1", "k2", "k3")

	_, err := g.Generate(context.Background(), []chat.ChatMessage{{Role: chat.ChatRoleUser, Content: "a"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"k1", "k2"}, stub.keys, "a rate limited key falls through to the next")

	_, err = g.Generate(context.Background(), []chat.ChatMessage{{Role: chat.ChatRoleUser, Content: "b"}})
	require.NoError(t, err)
	assert.Equal(t, "k2", stub.keys[2], "the next request starts from the next key")
}

func TestGemini_AllKeysFail(t *testing.T) {
	stub := &geminiStub{status: map[string]int{"k1": http.StatusServiceUnavailable, "k2": http.StatusForbidden}}
	g := newTestGemini(t, stub, "k1", "k2")

	_, err := g.Generate(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all 2 api keys failed")
	assert.Len(t, stub.keys, 2)
}

func TestGemini_BadRequestDoesNotRotate(t *testing.T) {
	stub := &geminiStub{status: map[string]int{"k1": http.StatusBadRequest}}
	g := newTestGemini(t, stub, "k1", "k2")

	_, err := g.Generate(context.Background(), nil)
	var se *statusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadRequest, se.code)
	assert.Len(t, stub.keys, 1)
}

func TestGemini_NoKeys(t *testing.T) {
	g := NewGeminiService(nil, "m", "", "", 0, nil)
	_, err := g.Summarize(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNoAPIKeys)
}

func TestGemini_Summarize(t *testing.T) {
	stub := &geminiStub{reply: " Lâm Phong đột phá. "}
	g := newTestGemini(t, stub, "k1")

	out, err := g.Summarize(context.Background(), "đoạn văn")
	require.NoError(t, err)
	assert.Equal(t, "Lâm Phong đột phá. \n1. Đi tiếp", out)

	req := stub.requests[0]
	assert.Nil(t, req.SystemInstruction)
	assert.True(t, strings.HasPrefix(req.Contents[0].Parts[0].Text, "Tóm tắt lại đoạn văn sau"))
	assert.Equal(t, SummaryGeminiTopK, req.GenerationConfig.TopK)
}
