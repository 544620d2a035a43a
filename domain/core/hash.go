package core

import (
	"crypto/sha256"
	"encoding/hex"
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

// DatasetHash fingerprints table content independent of row order.
type DatasetHash Hash

func (h DatasetHash) String() string { return Hash(h).String() }

// ComputeDatasetHash hashes the header and the multiset of encoded rows. Rows are
// sorted first so that any permutation of the same rows yields the same hash.
func ComputeDatasetHash(header []string, rows []string) DatasetHash {
	sorted := make([]string, len(rows))
	copy(sorted, rows)
	sort.Strings(sorted)

	var b strings.Builder
	b.WriteString(strings.Join(header, "\x1f"))
	b.WriteByte('\n')
	for _, row := range sorted {
		b.WriteString(row)
		b.WriteByte('\n')
	}
	return DatasetHash(NewHash([]byte(b.String())))
}
