// Package plan loads YAML seed plans and materializes them into wired
// builders ready for a coordinated commit.
//
// A plan is a list of named entries. Each entry either joins the batch
// commit (the default) or is built directly as an already-existing
// record (existing: true), simulating rows that are assumed present.
// Parent references are by entry name and must stay within the same
// mode: a batched entry cannot reference an existing one, and vice
// versa — mixing the two is exactly the illegal graph shape the
// builder core rejects at build/commit time, so the loader reports it
// up front with the entry names attached.
package plan

import (
	"bytes"
	"os"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/seedkit/internal/errors"
	"git.home.luguber.info/inful/seedkit/internal/factory"
	"git.home.luguber.info/inful/seedkit/internal/schema"
)

// Entry is one record description in a seed plan.
type Entry struct {
	// Name identifies the entry within the plan; parent references use it.
	Name string `yaml:"name"`
	// Kind is the entity kind of the produced record.
	Kind string `yaml:"kind"`
	// Existing builds the record directly as already-existing instead
	// of joining the batch commit.
	Existing bool `yaml:"existing,omitempty"`
	// Fields are plain field values.
	Fields map[string]any `yaml:"fields,omitempty"`
	// Parents maps relation keys to entry names.
	Parents map[string]string `yaml:"parents,omitempty"`
}

// Plan is a parsed seed plan.
type Plan struct {
	Version int     `yaml:"version,omitempty"`
	Entries []Entry `yaml:"entries"`
}

// Load reads, strictly decodes, and validates a plan file.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryPlan, errors.SeverityError, "read plan file")
	}
	return Parse(data)
}

// Parse strictly decodes and validates plan data.
func Parse(data []byte) (*Plan, error) {
	var p Plan
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return nil, errors.Wrap(err, errors.CategoryPlan, errors.SeverityError, "parse plan")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks structural plan consistency: version, unique
// non-empty names, known parent references, and mode-consistent
// relationships.
func (p *Plan) Validate() error {
	if p.Version != 0 && p.Version != 1 {
		return errors.PlanError("unsupported plan version %d", p.Version)
	}
	if len(p.Entries) == 0 {
		return errors.PlanError("plan has no entries")
	}

	byName := make(map[string]*Entry, len(p.Entries))
	for i := range p.Entries {
		e := &p.Entries[i]
		if e.Name == "" {
			return errors.PlanError("entry %d has no name", i)
		}
		if e.Kind == "" {
			return errors.PlanError("entry %q has no kind", e.Name)
		}
		if _, dup := byName[e.Name]; dup {
			return errors.PlanError("duplicate entry name %q", e.Name)
		}
		byName[e.Name] = e
	}

	for i := range p.Entries {
		e := &p.Entries[i]
		for rel, parentName := range e.Parents {
			parent, ok := byName[parentName]
			if !ok {
				return errors.PlanError("entry %q parent %q references unknown entry %q", e.Name, rel, parentName)
			}
			if parent.Existing != e.Existing {
				if e.Existing {
					return errors.PlanError("existing entry %q cannot reference batched entry %q via %q", e.Name, parentName, rel)
				}
				return errors.PlanError("batched entry %q cannot reference existing entry %q via %q", e.Name, parentName, rel)
			}
		}
	}
	return nil
}

// Result is a materialized plan: all builders by entry name, and the
// registry holding the batched entries awaiting commit. Existing
// entries have already been built.
type Result struct {
	Builders map[string]*factory.Builder
	Registry *factory.Registry
}

// Materialize wires the plan into builders: fields and parents applied,
// batched entries registered into a fresh registry, existing entries
// built immediately (recursively, as existing).
func Materialize(p *Plan, f *factory.Factory) (*Result, error) {
	builders := make(map[string]*factory.Builder, len(p.Entries))
	for _, e := range p.Entries {
		b := f.Builder(schema.EntityKind(e.Kind))
		for k, v := range e.Fields {
			if err := b.SetField(schema.FieldKey(k), v); err != nil {
				return nil, err
			}
		}
		builders[e.Name] = b
	}

	for _, e := range p.Entries {
		b := builders[e.Name]
		for rel, parentName := range e.Parents {
			if err := b.SetParent(schema.RelationKey(rel), builders[parentName]); err != nil {
				return nil, err
			}
		}
	}

	reg := factory.NewRegistry()
	for _, e := range p.Entries {
		b := builders[e.Name]
		if e.Existing {
			// A parent chain may already have built this entry.
			if b.State() == factory.StateFresh {
				if _, err := b.Build(false); err != nil {
					return nil, err
				}
			}
			continue
		}
		if err := b.Register(reg); err != nil {
			return nil, err
		}
	}

	return &Result{Builders: builders, Registry: reg}, nil
}
