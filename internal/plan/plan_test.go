package plan

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	seederrors "git.home.luguber.info/inful/seedkit/internal/errors"
	"git.home.luguber.info/inful/seedkit/internal/factory"
	"git.home.luguber.info/inful/seedkit/internal/idgen"
)

const validPlan = `
version: 1
entries:
  - name: acme
    kind: org
    fields:
      name: Acme Inc
  - name: alice
    kind: user
    fields:
      name: Alice
    parents:
      org_id: acme
  - name: legacy-org
    kind: org
    existing: true
  - name: legacy-user
    kind: user
    existing: true
    parents:
      org_id: legacy-org
`

func TestLoadValidPlan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validPlan), 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, p.Entries, 4)
	assert.Equal(t, "acme", p.Entries[0].Name)
	assert.Equal(t, "Acme Inc", p.Entries[0].Fields["name"])
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("entries:\n  - name: a\n    kind: org\n    bogus: 1\n"))
	require.Error(t, err)
	assert.True(t, seederrors.IsCategory(err, seederrors.CategoryPlan))
}

func TestValidateRules(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"no entries", "version: 1\n"},
		{"bad version", "version: 7\nentries:\n  - name: a\n    kind: org\n"},
		{"missing name", "entries:\n  - kind: org\n"},
		{"missing kind", "entries:\n  - name: a\n"},
		{"duplicate name", "entries:\n  - name: a\n    kind: org\n  - name: a\n    kind: user\n"},
		{"unknown parent", "entries:\n  - name: a\n    kind: user\n    parents:\n      org_id: nope\n"},
		{"batched references existing", "entries:\n  - name: old\n    kind: org\n    existing: true\n  - name: a\n    kind: user\n    parents:\n      org_id: old\n"},
		{"existing references batched", "entries:\n  - name: fresh\n    kind: org\n  - name: a\n    kind: user\n    existing: true\n    parents:\n      org_id: fresh\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			require.Error(t, err)
			assert.True(t, seederrors.IsCategory(err, seederrors.CategoryPlan), "got %v", err)
		})
	}
}

func TestMaterializeWiresAndRegisters(t *testing.T) {
	p, err := Parse([]byte(validPlan))
	require.NoError(t, err)

	f := factory.New(idgen.NewSequence("seed-"), nil)
	res, err := Materialize(p, f)
	require.NoError(t, err)

	// Batched entries are registered, existing entries already built.
	assert.Equal(t, 2, res.Registry.Len())
	assert.Equal(t, factory.StateRegistered, res.Builders["alice"].State())
	assert.Equal(t, factory.StateBuilt, res.Builders["legacy-user"].State())
	assert.Equal(t, factory.StateBuilt, res.Builders["legacy-org"].State())
	require.True(t, res.Builders["legacy-user"].Record().ID().IsSome())

	// The existing chain resolved its relationship immediately.
	v, ok := res.Builders["legacy-user"].Record().Field("org_id")
	require.True(t, ok)
	assert.Equal(t, res.Builders["legacy-org"].Record().ID().Unwrap(), v)

	// Committing the registry finishes the batched half.
	work := factory.NewMockUnitOfWork()
	coord := factory.NewCoordinator()
	require.NoError(t, coord.PersistRegistered(context.Background(), work, res.Registry))
	assert.Equal(t, factory.StateBuilt, res.Builders["alice"].State())
	assert.Equal(t, 0, res.Registry.Len())

	orgID := res.Builders["acme"].Record().ID().Unwrap()
	rv, _ := res.Builders["alice"].Record().Field("org_id")
	assert.Equal(t, orgID, rv)
}
