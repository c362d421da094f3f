package types

import (
	"encoding/json"
	"fmt"
	"maps"
)

// Block is a single block as returned by GET /extended/v2/blocks/{height}.
// Only the identity and lineage fields are interpreted; everything else the
// node sends is kept verbatim in Extra so diagnostic dumps carry the full payload.
type Block struct {
	Hash         string
	Height       uint64
	ParentHash   string
	Canonical    bool
	TimestampISO string

	// Extra holds the remaining payload fields (execution costs, burn block data, ...).
	Extra map[string]json.RawMessage
}

// known block fields, in the node's own naming
const (
	fieldHash         = "hash"
	fieldHeight       = "height"
	fieldParentHash   = "parent_block_hash"
	fieldCanonical    = "canonical"
	fieldTimestampISO = "burn_block_time_iso"
)

// UnmarshalJSON decodes the known fields and keeps the rest in Extra.
func (b *Block) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var decoded Block
	if err := decodeField(raw, fieldHash, &decoded.Hash); err != nil {
		return err
	}
	if err := decodeField(raw, fieldHeight, &decoded.Height); err != nil {
		return err
	}
	if err := decodeField(raw, fieldParentHash, &decoded.ParentHash); err != nil {
		return err
	}
	if err := decodeField(raw, fieldCanonical, &decoded.Canonical); err != nil {
		return err
	}
	if err := decodeField(raw, fieldTimestampISO, &decoded.TimestampISO); err != nil {
		return err
	}

	if decoded.Hash == "" {
		return fmt.Errorf("block payload has no %q field", fieldHash)
	}

	if len(raw) > 0 {
		decoded.Extra = raw
	}

	*b = decoded
	return nil
}

// MarshalJSON renders the block back in the node's payload shape.
func (b Block) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(b.Extra)+5) //nolint:mnd
	for k, v := range b.Extra {
		out[k] = v
	}
	out[fieldHash] = b.Hash
	out[fieldHeight] = b.Height
	out[fieldParentHash] = b.ParentHash
	out[fieldCanonical] = b.Canonical
	out[fieldTimestampISO] = b.TimestampISO
	return json.Marshal(out)
}

// Clone returns a copy that shares no mutable state with b.
func (b *Block) Clone() *Block {
	if b == nil {
		return nil
	}
	c := *b
	c.Extra = maps.Clone(b.Extra)
	return &c
}

// ChainInfo is the subset of GET /v2/info the tracker relies on.
type ChainInfo struct {
	TipHeight uint64 `json:"stacks_tip_height"`
	TipHash   string `json:"stacks_tip"`
	// BurnBlockHeight is informational only.
	BurnBlockHeight uint64 `json:"burn_block_height"`
	ServerVersion   string `json:"server_version"`
}

// decodeField unmarshals raw[key] into dst and removes the key from raw.
// A missing key or JSON null leaves dst at its zero value.
func decodeField(raw map[string]json.RawMessage, key string, dst any) error {
	v, ok := raw[key]
	if !ok {
		return nil
	}
	delete(raw, key)
	if string(v) == "null" {
		return nil
	}
	if err := json.Unmarshal(v, dst); err != nil {
		return fmt.Errorf("block field %q: %w", key, err)
	}
	return nil
}
