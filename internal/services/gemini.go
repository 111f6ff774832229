package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jwebster45206/realm-engine/pkg/chat"
	"github.com/jwebster45206/realm-engine/pkg/prompts"
)

const (
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	DefaultGeminiTemperature = 0.9
	SummaryGeminiTemperature = 0.5
	SummaryGeminiTopK        = 40
)

// ErrNoAPIKeys is returned when the service has no key to call with.
var ErrNoAPIKeys = errors.New("no gemini api keys configured")

// GeminiService implements LLMService for the Gemini generateContent API.
// Requests rotate across the configured keys; a key that is rate limited or rejected
// is skipped in favor of the next one for the same request.
type GeminiService struct {
	apiKeys          []string
	next             atomic.Uint64
	modelName        string
	summaryModelName string
	baseURL          string
	httpClient       *http.Client
	logger           *slog.Logger
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature float64 `json:"temperature,omitempty"`
	TopK        int     `json:"topK,omitempty"`
}

// GeminiRequest is the generateContent request body
type GeminiRequest struct {
	SystemInstruction *geminiContent          `json:"systemInstruction,omitempty"`
	Contents          []geminiContent         `json:"contents"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

// GeminiResponse is the generateContent response body
type GeminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// statusError is a non-200 reply from the API.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.code, e.body)
}

// retryable reports whether another key might succeed.
func (e *statusError) retryable() bool {
	switch e.code {
	case http.StatusTooManyRequests, http.StatusUnauthorized, http.StatusForbidden:
		return true
	}
	return e.code >= 500
}

// NewGeminiService creates a new Gemini service. An empty summaryModelName uses modelName.
func NewGeminiService(apiKeys []string, modelName, summaryModelName, baseURL string, timeout time.Duration, logger *slog.Logger) *GeminiService {
	if summaryModelName == "" {
		summaryModelName = modelName
	}
	if baseURL == "" {
		baseURL = DefaultGeminiBaseURL
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &GeminiService{
		apiKeys:          apiKeys,
		modelName:        modelName,
		summaryModelName: summaryModelName,
		baseURL:          strings.TrimRight(baseURL, "/"),
		httpClient:       &http.Client{Timeout: timeout},
		logger:           logger,
	}
}

// Generate sends the turn prompt. System messages become the system instruction.
func (g *GeminiService) Generate(ctx context.Context, messages []chat.ChatMessage) (string, error) {
	req := GeminiRequest{
		GenerationConfig: &geminiGenerationConfig{Temperature: DefaultGeminiTemperature},
	}
	var system []geminiPart
	for _, m := range messages {
		switch m.Role {
		case chat.ChatRoleSystem:
			system = append(system, geminiPart{Text: m.Content})
		case chat.ChatRoleAgent:
			req.Contents = append(req.Contents, geminiContent{Role: "model", Parts: []geminiPart{{Text: m.Content}}})
		default:
			req.Contents = append(req.Contents, geminiContent{Role: "user", Parts: []geminiPart{{Text: m.Content}}})
		}
	}
	if len(system) > 0 {
		req.SystemInstruction = &geminiContent{Parts: system}
	}
	if len(req.Contents) == 0 {
		// at least one content turn is required
		req.Contents = []geminiContent{{Role: "user", Parts: []geminiPart{{Text: "Bắt đầu."}}}}
	}
	return g.generateContent(ctx, g.modelName, req)
}

// Summarize asks the summary model for a short recap of text.
func (g *GeminiService) Summarize(ctx context.Context, text string) (string, error) {
	req := GeminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompts.BuildSummaryPrompt(text)}}}},
		GenerationConfig: &geminiGenerationConfig{
			Temperature: SummaryGeminiTemperature,
			TopK:        SummaryGeminiTopK,
		},
	}
	out, err := g.generateContent(ctx, g.summaryModelName, req)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// generateContent tries each key once, starting from the next key in rotation.
func (g *GeminiService) generateContent(ctx context.Context, model string, req GeminiRequest) (string, error) {
	if len(g.apiKeys) == 0 {
		return "", ErrNoAPIKeys
	}
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	n := uint64(len(g.apiKeys))
	start := g.next.Add(1) - 1
	var lastErr error
	for i := uint64(0); i < n; i++ {
		keyIndex := (start + i) % n
		text, err := g.call(ctx, model, g.apiKeys[keyIndex], body)
		if err == nil {
			return text, nil
		}
		lastErr = err

		var se *statusError
		if !errors.As(err, &se) || !se.retryable() {
			return "", err
		}
		if g.logger != nil {
			g.logger.Warn("Gemini key failed, rotating", "key_index", keyIndex, "status", se.code)
		}
	}
	return "", fmt.Errorf("all %d api keys failed: %w", n, lastErr)
}

func (g *GeminiService) call(ctx context.Context, model, apiKey string, body []byte) (string, error) {
	url := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &statusError{code: resp.StatusCode, body: string(respBody)}
	}

	var gr GeminiResponse
	if err := json.Unmarshal(respBody, &gr); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if gr.Error != nil {
		return "", fmt.Errorf("API error: %s", gr.Error.Message)
	}
	if gr.PromptFeedback != nil && gr.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("prompt blocked: %s", gr.PromptFeedback.BlockReason)
	}
	if len(gr.Candidates) == 0 {
		return "", errors.New("no candidates in response")
	}

	var sb strings.Builder
	for _, p := range gr.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}
