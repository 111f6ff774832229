package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/jwebster45206/realm-engine/internal/logger"
	"github.com/jwebster45206/realm-engine/pkg/state"
)

// Player action types accepted by POST /v1/gamestate/{id}/actions.
const (
	ActionUse              = "use"
	ActionDrop             = "drop"
	ActionRename           = "rename"
	ActionEquip            = "equip"
	ActionUnequip          = "unequip"
	ActionAcceptQuest      = "accept_quest"
	ActionDeclineQuest     = "decline_quest"
	ActionUpdateSummary    = "update_summary"
	ActionDeleteSummary    = "delete_summary"
	ActionUpdateLocation   = "update_location"
	ActionDeleteLocation   = "delete_location"
	ActionSetHeavenlyRules = "set_heavenly_rules"
	ActionSetCoreMemory    = "set_core_memory"
)

// ActionRequest is a player action taken outside of narration. Which fields are read
// depends on Type.
type ActionRequest struct {
	Type     string          `json:"type"`
	ID       int64           `json:"id,omitempty"`       // item, quest, summary or location id
	Quantity int             `json:"quantity,omitempty"` // use, drop
	Name     string          `json:"name,omitempty"`     // rename
	Slot     string          `json:"slot,omitempty"`     // unequip
	Summary  string          `json:"summary,omitempty"`  // update_summary
	Location *state.Location `json:"location,omitempty"` // update_location
	Lines    []string        `json:"lines,omitempty"`    // set_heavenly_rules, set_core_memory
}

// ActionResponse carries the updated game. Action is the system action queued for the
// next narrated turn, if any.
type ActionResponse struct {
	GameState *state.GameState `json:"gamestate"`
	Action    string           `json:"action,omitempty"`
}

var errInvalidAction = errors.New("invalid action")

func (h *GameStateHandler) handleAction(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var req ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid action request body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body. Expected JSON with a 'type' field.")
		return
	}
	if h.runner != nil && h.runner.IsBusy(id) {
		writeError(w, h.logger, http.StatusConflict, "A turn is in progress for this game")
		return
	}

	gs, ok := h.load(w, r, id)
	if !ok {
		return
	}

	next, action, err := applyAction(gs, req)
	if err != nil {
		writeError(w, h.logger, actionStatus(err), err.Error())
		return
	}

	if err := h.storage.SaveGameState(r.Context(), id, next); err != nil {
		logger.WithError(logger.WithGame(h.logger, id.String()), err).Error("Failed to save game state after action")
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to save game state")
		return
	}
	if action != "" {
		if err := h.storage.Enqueue(r.Context(), id, action); err != nil {
			logger.WithError(logger.WithGame(h.logger, id.String()), err).Error("Failed to queue system action")
			writeError(w, h.logger, http.StatusInternalServerError, "Failed to queue action")
			return
		}
	}

	h.logger.Debug("Player action applied", "game_id", id.String(), "type", req.Type)
	writeJSON(w, h.logger, http.StatusOK, ActionResponse{GameState: next, Action: action})
}

func applyAction(gs *state.GameState, req ActionRequest) (*state.GameState, string, error) {
	if req.Type == ActionUse {
		return state.UseItem(gs, req.ID, req.Quantity)
	}

	var next *state.GameState
	var err error
	switch req.Type {
	case ActionDrop:
		next, err = state.DropItem(gs, req.ID, req.Quantity)
	case ActionRename:
		next, err = state.RenameItem(gs, req.ID, req.Name)
	case ActionEquip:
		next, err = state.EquipItem(gs, req.ID)
	case ActionUnequip:
		next, err = state.UnequipItem(gs, state.Slot(req.Slot))
	case ActionAcceptQuest:
		next, err = state.AcceptQuest(gs, req.ID)
	case ActionDeclineQuest:
		next, err = state.DeclineQuest(gs, req.ID)
	case ActionUpdateSummary:
		next, err = state.UpdateStorySummary(gs, req.ID, req.Summary)
	case ActionDeleteSummary:
		next, err = state.DeleteStorySummary(gs, req.ID)
	case ActionUpdateLocation:
		if req.Location == nil {
			return gs, "", fmt.Errorf("%w: location is required", errInvalidAction)
		}
		next, err = state.UpdateLocation(gs, *req.Location)
	case ActionDeleteLocation:
		next, err = state.DeleteLocation(gs, req.ID)
	case ActionSetHeavenlyRules:
		next, err = state.SetHeavenlyRules(gs, req.Lines)
	case ActionSetCoreMemory:
		next, err = state.SetCoreMemory(gs, req.Lines)
	default:
		return gs, "", fmt.Errorf("%w: unknown type %q", errInvalidAction, req.Type)
	}
	return next, "", err
}

func actionStatus(err error) int {
	switch {
	case errors.Is(err, state.ErrItemNotFound),
		errors.Is(err, state.ErrQuestNotFound),
		errors.Is(err, state.ErrSlotNotFound),
		errors.Is(err, state.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errInvalidAction):
		return http.StatusBadRequest
	default:
		return http.StatusUnprocessableEntity
	}
}
