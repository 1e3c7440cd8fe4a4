package factory

// Registry collects builders awaiting a coordinated batch commit. It is
// an explicit object with its own lifetime: create one per scope (test,
// seeding run) and pass it where batch registration is needed.
//
// Membership is added by Builder.Register and removed when a successful
// commit finalizes a member. A failed commit leaves membership intact so
// the batch can be retried. No built-in synchronization; a single
// logical execution context manipulates a registry at a time.
type Registry struct {
	members []*Builder
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Members returns a snapshot of the registered builders in registration
// order.
func (r *Registry) Members() []*Builder {
	out := make([]*Builder, len(r.members))
	copy(out, r.members)
	return out
}

// Len returns the number of registered builders.
func (r *Registry) Len() int { return len(r.members) }

func (r *Registry) add(b *Builder) {
	r.members = append(r.members, b)
}

func (r *Registry) remove(b *Builder) {
	for i, m := range r.members {
		if m == b {
			r.members = append(r.members[:i], r.members[i+1:]...)
			return
		}
	}
}
