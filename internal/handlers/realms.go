package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/jwebster45206/realm-engine/pkg/realm"
)

// RealmsResponse is the realm ladder of a realm system.
type RealmsResponse struct {
	RealmSystem []string       `json:"realmSystem"`
	MaxLevel    int            `json:"maxLevel"`
	Options     []realm.Option `json:"options"`
}

// RealmsHandler lists realm ladders.
// GET /v1/realms?tiers=a,b,c&max=N
type RealmsHandler struct {
	defaultTiers []string
	logger       *slog.Logger
}

func NewRealmsHandler(defaultTiers []string, logger *slog.Logger) *RealmsHandler {
	return &RealmsHandler{
		defaultTiers: defaultTiers,
		logger:       logger,
	}
}

func (h *RealmsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only GET is supported.")
		return
	}

	tiers := h.defaultTiers
	if raw := r.URL.Query().Get("tiers"); raw != "" {
		tiers = nil
		for t := range strings.SplitSeq(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tiers = append(tiers, t)
			}
		}
	}

	maxLevel := 0
	if raw := r.URL.Query().Get("max"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, h.logger, http.StatusBadRequest, "max must be a non-negative integer")
			return
		}
		maxLevel = n
	}

	writeJSON(w, h.logger, http.StatusOK, RealmsResponse{
		RealmSystem: tiers,
		MaxLevel:    realm.MaxLevel(tiers),
		Options:     realm.Options(tiers, maxLevel),
	})
}
