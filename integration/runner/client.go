package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/jwebster45206/realm-engine/internal/handlers"
	"github.com/jwebster45206/realm-engine/pkg/chat"
	"github.com/jwebster45206/realm-engine/pkg/state"
)

// APIError is a non-success response from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API returned %d: %s", e.Status, e.Message)
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

func doJSON(ctx context.Context, client *http.Client, method, url string, body any, wantStatus int, out any) error {
	var reader io.Reader
	if body != nil {
		reqBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(reqBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send %s %s: %w", method, url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != wantStatus {
		data, _ := io.ReadAll(resp.Body)
		var errResp handlers.ErrorResponse
		if json.Unmarshal(data, &errResp) == nil && errResp.Error != "" {
			return &APIError{Status: resp.StatusCode, Message: errResp.Error}
		}
		return &APIError{Status: resp.StatusCode, Message: string(data)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// CreateGameState posts a new game and returns it.
func CreateGameState(ctx context.Context, client *http.Client, baseURL string, seed handlers.CreateGameStateRequest) (*state.GameState, error) {
	var gs state.GameState
	if err := doJSON(ctx, client, http.MethodPost, baseURL+"/v1/gamestate", seed, http.StatusCreated, &gs); err != nil {
		return nil, err
	}
	return &gs, nil
}

// GetGameState retrieves the current gamestate
func GetGameState(ctx context.Context, client *http.Client, baseURL string, gameStateID uuid.UUID) (*state.GameState, error) {
	var gs state.GameState
	if err := doJSON(ctx, client, http.MethodGet, fmt.Sprintf("%s/v1/gamestate/%s", baseURL, gameStateID), nil, http.StatusOK, &gs); err != nil {
		return nil, err
	}
	return &gs, nil
}

// PostTurn plays one narrated turn.
func PostTurn(ctx context.Context, client *http.Client, baseURL string, gameStateID uuid.UUID, action string) (*chat.TurnResponse, error) {
	var resp chat.TurnResponse
	req := chat.TurnRequest{GameStateID: gameStateID, Action: action}
	if err := doJSON(ctx, client, http.MethodPost, baseURL+"/v1/turn", req, http.StatusOK, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// OpenScene asks for the opening narration of a game.
func OpenScene(ctx context.Context, client *http.Client, baseURL string, gameStateID uuid.UUID) (*chat.TurnResponse, error) {
	var resp chat.TurnResponse
	if err := doJSON(ctx, client, http.MethodPost, fmt.Sprintf("%s/v1/gamestate/%s/open", baseURL, gameStateID), nil, http.StatusOK, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PostAction applies a player action outside of narration.
func PostAction(ctx context.Context, client *http.Client, baseURL string, gameStateID uuid.UUID, action handlers.ActionRequest) (*handlers.ActionResponse, error) {
	var resp handlers.ActionResponse
	if err := doJSON(ctx, client, http.MethodPost, fmt.Sprintf("%s/v1/gamestate/%s/actions", baseURL, gameStateID), action, http.StatusOK, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
