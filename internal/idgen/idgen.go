// Package idgen provides identifier sources for records built as
// "existing" outside a real commit.
package idgen

import (
	"fmt"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/seedkit/internal/schema"
)

// UUIDSource generates random UUIDv4 identifiers. The entity kind does
// not influence the value.
type UUIDSource struct{}

func (UUIDSource) Generate(schema.EntityKind) string {
	return uuid.NewString()
}

// SequenceSource generates deterministic "<prefix><kind>-<n>"
// identifiers for tests and reproducible fixtures. Not safe for
// concurrent use.
type SequenceSource struct {
	prefix string
	n      int
}

// NewSequence creates a sequence source with the given prefix.
func NewSequence(prefix string) *SequenceSource {
	return &SequenceSource{prefix: prefix}
}

func (s *SequenceSource) Generate(kind schema.EntityKind) string {
	s.n++
	return fmt.Sprintf("%s%s-%d", s.prefix, kind, s.n)
}
