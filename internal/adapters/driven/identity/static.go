// Package identity provides identity providers for history
// partitioning. The search core treats the identity as opaque.
package identity

import (
	"strings"

	"github.com/orbistack/kbsearch/internal/core/domain"
	"github.com/orbistack/kbsearch/internal/core/ports/driven"
)

// Ensure Static implements the interface.
var _ driven.IdentityProvider = (*Static)(nil)

// Static returns a fixed identity string, falling back to the
// anonymous bucket when none is configured.
type Static struct {
	id string
}

// NewStatic creates a provider for id. A blank id means anonymous.
func NewStatic(id string) *Static {
	id = strings.TrimSpace(id)
	if id == "" {
		id = domain.AnonymousIdentity
	}
	return &Static{id: id}
}

// Identity returns the configured identity string.
func (s *Static) Identity() string {
	return s.id
}
