package testfixtures

import (
	"fmt"
	"slices"
	"sync"
)

// TokenIDs hands out predictable token identifiers and remembers them.
type TokenIDs struct {
	mu     sync.Mutex
	prefix string
	issued []string
}

// NewTokenIDs returns a sequence producing "<prefix>-1", "<prefix>-2", ...
// An empty prefix becomes "token".
func NewTokenIDs(prefix string) *TokenIDs {
	if prefix == "" {
		prefix = "token"
	}
	return &TokenIDs{prefix: prefix}
}

func (g *TokenIDs) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := fmt.Sprintf("%s-%d", g.prefix, len(g.issued)+1)
	g.issued = append(g.issued, id)
	return id
}

// Issued lists the identifiers handed out so far.
func (g *TokenIDs) Issued() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.issued)
}
