package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/goran-ethernal/ReorgTracker/internal/logger"
	"github.com/goran-ethernal/ReorgTracker/internal/tracker"
	"github.com/goran-ethernal/ReorgTracker/internal/types"
)

// StatusProvider exposes the tracker state served by the API.
type StatusProvider interface {
	Status() tracker.Status
	Blocks(height uint64) []*types.Block
}

var _ StatusProvider = (*tracker.Tracker)(nil)

// Handler handles HTTP requests for the API.
type Handler struct {
	provider StatusProvider
	log      *logger.Logger
}

// NewHandler creates a new API handler.
func NewHandler(provider StatusProvider, log *logger.Logger) *Handler {
	return &Handler{
		provider: provider,
		log:      log,
	}
}

// Health reports whether the tracker is alive.
// @Summary Health check
// @Description Liveness probe including the tracker state and last seen chain height
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse "Tracker is running"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	status := h.provider.Status()

	respondJSON(w, http.StatusOK, HealthResponse{
		Status:      "ok",
		Timestamp:   time.Now().UTC(),
		State:       string(status.State),
		ChainHeight: status.Chain.Height,
	})
}

// Status returns the full tracker status.
// @Summary Tracker status
// @Description State machine phase, chain tip, index size, cycle and reorg counters and the last reorg
// @Tags Tracker
// @Produce json
// @Success 200 {object} tracker.Status "Tracker status"
// @Router /status [get]
func (h *Handler) Status(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, h.provider.Status())
}

// Height returns the blocks observed at a height.
// @Summary Blocks at height
// @Description Every hash observed at the given height inside the tracking window, in first-seen order
// @Tags Tracker
// @Produce json
// @Param height path integer true "Block height"
// @Success 200 {object} HeightResponse "Blocks at height"
// @Failure 400 {object} ErrorResponse "Invalid height"
// @Failure 404 {object} ErrorResponse "Height not tracked"
// @Router /heights/{height} [get]
func (h *Handler) Height(w http.ResponseWriter, r *http.Request) {
	heightStr := r.PathValue("height")

	height, err := strconv.ParseUint(heightStr, 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "height must be a non-negative integer")
		return
	}

	blocks := h.provider.Blocks(height)
	if len(blocks) == 0 {
		respondError(w, http.StatusNotFound, "height "+heightStr+" is not tracked")
		return
	}

	hashes := make([]string, 0, len(blocks))
	for _, b := range blocks {
		hashes = append(hashes, b.Hash)
	}

	respondJSON(w, http.StatusOK, HeightResponse{
		Height:    height,
		Hashes:    hashes,
		Blocks:    blocks,
		Competing: len(hashes) > 1,
	})
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")

	// encode first so a failure can still produce a proper status
	encoded, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	_, _ = w.Write(encoded)
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	response := ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	}
	respondJSON(w, status, response)
}
