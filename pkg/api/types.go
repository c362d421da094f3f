package api

import (
	"time"

	"github.com/goran-ethernal/ReorgTracker/internal/types"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	State       string    `json:"state"`
	ChainHeight uint64    `json:"chain_height"`
}

// HeightResponse lists the blocks observed at a single height.
type HeightResponse struct {
	Height uint64         `json:"height"`
	Hashes []string       `json:"hashes"`
	Blocks []*types.Block `json:"blocks"`
	// Competing is true when more than one hash was observed.
	Competing bool `json:"competing"`
}
