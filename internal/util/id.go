package util

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"sync/atomic"
)

func NewID(prefix string) string {
	bytes := make([]byte, 16)
	_, _ = rand.Read(bytes)
	if prefix == "" {
		return hex.EncodeToString(bytes)
	}
	return prefix + "_" + hex.EncodeToString(bytes)
}

// Sequence hands out ids that are unique within one owner, such as element
// ids inside a single rendered document. Each owner keeps its own Sequence.
type Sequence struct {
	prefix string
	n      atomic.Uint64
}

func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix}
}

func (s *Sequence) Next() string {
	return s.prefix + "-" + strconv.FormatUint(s.n.Add(1), 10)
}
