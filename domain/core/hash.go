package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// ConfigHash identifies one exact strategy configuration
type ConfigHash Hash

func (h ConfigHash) String() string { return Hash(h).String() }

// NewConfigHash creates a config hash from raw data
func NewConfigHash(data []byte) ConfigHash { return ConfigHash(NewHash(data)) }

// ComputeConfigHash produces a deterministic hash over a strategy name and its
// parameter mapping. Keys are sorted so the same configuration always hashes
// identically regardless of map iteration order.
func ComputeConfigHash(strategy string, params map[string]interface{}) ConfigHash {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var data strings.Builder
	data.WriteString(strategy)
	for _, key := range keys {
		data.WriteString("|")
		data.WriteString(key)
		data.WriteString("=")
		data.WriteString(fmt.Sprintf("%v", params[key]))
	}

	return NewConfigHash([]byte(data.String()))
}
