package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/jwebster45206/realm-engine/internal/handlers"
	"github.com/jwebster45206/realm-engine/pkg/chat"
	"github.com/jwebster45206/realm-engine/pkg/state"
)

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

// doJSON sends body (if not nil) as JSON and decodes a response with the wanted status
// into out (if not nil).
func doJSON(client *http.Client, method, url string, body any, wantStatus int, out any) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != wantStatus {
		var errorResp handlers.ErrorResponse
		if err := json.Unmarshal(data, &errorResp); err != nil || errorResp.Error == "" {
			return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(data))
		}
		return fmt.Errorf("%s", errorResp.Error)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

func getGameState(client *http.Client, baseURL string, gameStateID uuid.UUID) (*state.GameState, error) {
	var gs state.GameState
	if err := doJSON(client, http.MethodGet, fmt.Sprintf("%s/v1/gamestate/%s", baseURL, gameStateID), nil, http.StatusOK, &gs); err != nil {
		return nil, fmt.Errorf("failed to get game state: %w", err)
	}
	return &gs, nil
}

func createGameState(client *http.Client, baseURL string, req handlers.CreateGameStateRequest) (*state.GameState, error) {
	var gs state.GameState
	if err := doJSON(client, http.MethodPost, baseURL+"/v1/gamestate", req, http.StatusCreated, &gs); err != nil {
		return nil, fmt.Errorf("failed to create game state: %w", err)
	}
	return &gs, nil
}

func openGame(client *http.Client, baseURL string, gameStateID uuid.UUID) (*chat.TurnResponse, error) {
	var resp chat.TurnResponse
	if err := doJSON(client, http.MethodPost, fmt.Sprintf("%s/v1/gamestate/%s/open", baseURL, gameStateID), nil, http.StatusOK, &resp); err != nil {
		return nil, fmt.Errorf("opening scene failed: %w", err)
	}
	return &resp, nil
}

func sendTurn(client *http.Client, baseURL string, gameStateID uuid.UUID, action string) (*chat.TurnResponse, error) {
	req := chat.TurnRequest{GameStateID: gameStateID, Action: action}
	var resp chat.TurnResponse
	if err := doJSON(client, http.MethodPost, baseURL+"/v1/turn", req, http.StatusOK, &resp); err != nil {
		return nil, fmt.Errorf("turn request failed: %w", err)
	}
	return &resp, nil
}

func sendAction(client *http.Client, baseURL string, gameStateID uuid.UUID, action handlers.ActionRequest) (*handlers.ActionResponse, error) {
	var resp handlers.ActionResponse
	if err := doJSON(client, http.MethodPost, fmt.Sprintf("%s/v1/gamestate/%s/actions", baseURL, gameStateID), action, http.StatusOK, &resp); err != nil {
		return nil, fmt.Errorf("action failed: %w", err)
	}
	return &resp, nil
}
