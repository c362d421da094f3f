package rpc

import (
	"context"

	"github.com/goran-ethernal/ReorgTracker/internal/types"
)

// BlockSource defines the node operations the tracker depends on.
// This abstraction allows for easier testing and alternative implementations.
type BlockSource interface {
	// GetBlock retrieves the block the node reports at the given height.
	GetBlock(ctx context.Context, height uint64) (*types.Block, error)

	// GetChainInfo retrieves the node's current tip height and hash.
	GetChainInfo(ctx context.Context) (*types.ChainInfo, error)
}
