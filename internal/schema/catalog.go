package schema

import "fmt"

// Catalog supplies human-readable descriptions for relation keys. It is
// consulted only when formatting error messages; the core never makes
// behavioral decisions based on catalog output.
type Catalog interface {
	// DescribeRelation returns a display name for the relation as used
	// on the given entity kind.
	DescribeRelation(kind EntityKind, rel RelationKey) string
}

// PlainCatalog is the default Catalog: it renders "kind.relation"
// directly from the keys.
type PlainCatalog struct{}

func (PlainCatalog) DescribeRelation(kind EntityKind, rel RelationKey) string {
	return fmt.Sprintf("%s.%s", kind, rel)
}

// DescCatalog maps relation keys to display names, falling back to
// PlainCatalog for unknown keys. Entries apply to all entity kinds;
// relation keys are expected to be unambiguous across kinds in practice.
type DescCatalog map[RelationKey]string

func (c DescCatalog) DescribeRelation(kind EntityKind, rel RelationKey) string {
	if name, ok := c[rel]; ok {
		return name
	}
	return PlainCatalog{}.DescribeRelation(kind, rel)
}
