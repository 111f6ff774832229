package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jwebster45206/realm-engine/internal/logger"
	"github.com/jwebster45206/realm-engine/pkg/actor"
	"github.com/jwebster45206/realm-engine/pkg/state"
	"github.com/jwebster45206/realm-engine/pkg/storage"
)

// DefaultCurrency is given to worlds created without any currency.
const DefaultCurrency = "Linh Thạch"

type GameStateHandler struct {
	storage     storage.Storage
	runner      TurnRunner
	realmSystem []string
	logger      *slog.Logger
}

// NewGameStateHandler creates the game state handler. realmSystem is used for worlds
// created without their own.
func NewGameStateHandler(storage storage.Storage, runner TurnRunner, realmSystem []string, logger *slog.Logger) *GameStateHandler {
	return &GameStateHandler{
		storage:     storage,
		runner:      runner,
		realmSystem: realmSystem,
		logger:      logger,
	}
}

// ServeHTTP handles HTTP requests for game state operations
// Routes:
// POST /v1/gamestate              - Create new game state
// GET /v1/gamestate/{id}          - Read game state by ID
// DELETE /v1/gamestate/{id}       - Delete game state by ID
// POST /v1/gamestate/{id}/open    - Narrate the opening scene
// POST /v1/gamestate/{id}/actions - Apply a player action
// GET /v1/gamestate/{id}/sheet    - Combat sheet of the character
func (h *GameStateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, sub, ok := splitGamePath(r.URL.Path)
	if !ok {
		h.logger.Warn("Invalid game state ID", "path", r.URL.Path)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid game state ID format")
		return
	}

	switch {
	case id == uuid.Nil && r.Method == http.MethodPost:
		h.handleCreate(w, r)
	case id == uuid.Nil:
		writeError(w, h.logger, http.StatusBadRequest, "Game state ID is required")
	case sub == "" && r.Method == http.MethodGet:
		h.handleRead(w, r, id)
	case sub == "" && r.Method == http.MethodDelete:
		h.handleDelete(w, r, id)
	case sub == "open" && r.Method == http.MethodPost:
		h.handleOpen(w, r, id)
	case sub == "actions" && r.Method == http.MethodPost:
		h.handleAction(w, r, id)
	case sub == "sheet" && r.Method == http.MethodGet:
		h.handleSheet(w, r, id)
	case sub != "" && sub != "open" && sub != "actions" && sub != "sheet":
		writeError(w, h.logger, http.StatusNotFound, "Unknown game state resource")
	default:
		h.logger.Warn("Method not allowed for game state endpoint", "method", r.Method, "path", r.URL.Path)
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// StartingItem is an item the character begins with.
type StartingItem struct {
	state.Item
	Equipped bool `json:"equipped"`
}

// CreateGameStateRequest defines the request body for creating a new game state
type CreateGameStateRequest struct {
	Character     state.Character  `json:"character"`
	World         state.World      `json:"world"`
	StartingItems []StartingItem   `json:"startingItems,omitempty"`
	HeavenlyRules []string         `json:"heavenlyRules,omitempty"`
	CoreMemory    []string         `json:"coreMemory,omitempty"`
	NPCs          []state.NPC      `json:"npcs,omitempty"`
	Locations     []state.Location `json:"locations,omitempty"`
	Factions      []state.Faction  `json:"factions,omitempty"`
}

func (h *GameStateHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateGameStateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid create request body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body. Expected JSON with 'character' and 'world' fields.")
		return
	}
	if strings.TrimSpace(req.Character.Name) == "" {
		writeError(w, h.logger, http.StatusBadRequest, "character.name is required")
		return
	}
	if len(req.World.RealmSystem) == 0 {
		req.World.RealmSystem = h.realmSystem
	}
	if len(req.World.Currencies) == 0 {
		req.World.Currencies = []string{DefaultCurrency}
	}

	gs := state.NewGameState(req.Character, req.World)
	for _, it := range req.StartingItems {
		gs.AddStartingItem(it.Item, it.Equipped)
	}
	gs.HeavenlyRules = compact(req.HeavenlyRules)
	gs.CoreMemory = compact(req.CoreMemory)
	for _, n := range req.NPCs {
		n.ID = gs.NewID()
		gs.NPCs = append(gs.NPCs, n)
	}
	for _, l := range req.Locations {
		l.ID = gs.NewID()
		gs.Locations = append(gs.Locations, l)
	}
	for _, f := range req.Factions {
		f.ID = gs.NewID()
		gs.Factions = append(gs.Factions, f)
	}
	state.Settle(gs)

	if err := h.storage.SaveGameState(r.Context(), gs.ID, gs); err != nil {
		logger.WithError(h.logger, err).Error("Failed to save new game state")
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to create game state")
		return
	}

	logger.WithGame(h.logger, gs.ID.String()).Info("Game state created", "character", gs.Character.Name, "realm", gs.Character.Realm)
	writeJSON(w, h.logger, http.StatusCreated, gs)
}

func compact(lines []string) []string {
	out := []string{}
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// load fetches a game, writing the error response itself when it fails.
func (h *GameStateHandler) load(w http.ResponseWriter, r *http.Request, id uuid.UUID) (*state.GameState, bool) {
	gs, err := h.storage.LoadGameState(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, h.logger, http.StatusNotFound, "Game state not found")
		return nil, false
	}
	if err != nil {
		logger.WithError(logger.WithGame(h.logger, id.String()), err).Error("Failed to load game state")
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load game state")
		return nil, false
	}
	return gs, true
}

func (h *GameStateHandler) handleRead(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	gs, ok := h.load(w, r, id)
	if !ok {
		return
	}
	writeJSON(w, h.logger, http.StatusOK, gs)
}

func (h *GameStateHandler) handleDelete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if _, ok := h.load(w, r, id); !ok {
		return
	}
	if err := h.storage.DeleteGameState(r.Context(), id); err != nil {
		logger.WithError(h.logger, err).Error("Failed to delete game state", "game_id", id.String())
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to delete game state")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *GameStateHandler) handleOpen(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	resp, err := h.runner.Open(r.Context(), id)
	if err != nil {
		writeTurnError(w, logger.WithGame(h.logger, id.String()), err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, resp)
}

func (h *GameStateHandler) handleSheet(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	gs, ok := h.load(w, r, id)
	if !ok {
		return
	}
	sheet, err := actor.NewSheet(gs)
	if err != nil {
		logger.WithError(h.logger, err).Error("Failed to build combat sheet", "game_id", id.String())
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to build combat sheet")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, sheet)
}
