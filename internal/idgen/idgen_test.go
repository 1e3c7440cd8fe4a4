package idgen

import (
	"testing"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/seedkit/internal/schema"
)

func TestUUIDSourceGeneratesValidUnique(t *testing.T) {
	src := UUIDSource{}
	a := src.Generate(schema.EntityKind("user"))
	b := src.Generate(schema.EntityKind("user"))
	if _, err := uuid.Parse(a); err != nil {
		t.Fatalf("not a valid uuid: %q: %v", a, err)
	}
	if a == b {
		t.Error("expected unique identifiers")
	}
}

func TestSequenceSourceIsDeterministic(t *testing.T) {
	src := NewSequence("seed-")
	if got := src.Generate("user"); got != "seed-user-1" {
		t.Errorf("got %q", got)
	}
	if got := src.Generate("invoice"); got != "seed-invoice-2" {
		t.Errorf("got %q", got)
	}
}
