package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/jwebster45206/realm-engine/internal/logger"
	"github.com/jwebster45206/realm-engine/internal/worker"
	"github.com/jwebster45206/realm-engine/pkg/chat"
	"github.com/jwebster45206/realm-engine/pkg/storage"
)

// TurnRunner narrates turns. *worker.TurnProcessor implements it.
type TurnRunner interface {
	ProcessTurn(ctx context.Context, req chat.TurnRequest) (*chat.TurnResponse, error)
	Open(ctx context.Context, id uuid.UUID) (*chat.TurnResponse, error)
	IsBusy(id uuid.UUID) bool
}

// TurnHandler handles POST /v1/turn.
type TurnHandler struct {
	runner TurnRunner
	logger *slog.Logger
}

func NewTurnHandler(runner TurnRunner, logger *slog.Logger) *TurnHandler {
	return &TurnHandler{
		runner: runner,
		logger: logger,
	}
}

func (h *TurnHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.logger.Warn("Method not allowed for turn endpoint", "method", r.Method)
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only POST is supported.")
		return
	}

	var req chat.TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body. Expected JSON with 'gamestate_id' and 'action' fields.")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.runner.ProcessTurn(r.Context(), req)
	if err != nil {
		writeTurnError(w, logger.WithGame(h.logger, req.GameStateID.String()), err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, resp)
}

func writeTurnError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, log, http.StatusNotFound, "Game state not found")
	case errors.Is(err, worker.ErrTurnInProgress):
		writeError(w, log, http.StatusConflict, err.Error())
	default:
		logger.WithError(log, err).Error("Turn failed")
		writeError(w, log, http.StatusInternalServerError, "Failed to process turn")
	}
}
