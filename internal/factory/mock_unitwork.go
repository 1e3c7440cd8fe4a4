package factory

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/seedkit/internal/schema"
)

// MockUnitOfWork is an in-memory UnitOfWork for testing. It records the
// order of registrations, assigns sequential identifiers on commit, and
// can be forced to fail.
type MockUnitOfWork struct {
	// NewRecords holds records in RegisterNew order.
	NewRecords []*Record
	// Relationships holds relationship registrations in call order.
	Relationships []MockRelationship
	// Commits counts CommitWork invocations.
	Commits int
	// FailCommit forces CommitWork to fail without applying anything.
	FailCommit error

	nextID int
}

// MockRelationship is one recorded RegisterRelationship call.
type MockRelationship struct {
	Child  *Record
	Rel    schema.RelationKey
	Parent *Record
}

// NewMockUnitOfWork creates an empty mock unit of work.
func NewMockUnitOfWork() *MockUnitOfWork {
	return &MockUnitOfWork{}
}

func (m *MockUnitOfWork) RegisterNew(rec *Record) error {
	m.NewRecords = append(m.NewRecords, rec)
	return nil
}

func (m *MockUnitOfWork) RegisterRelationship(child *Record, rel schema.RelationKey, parent *Record) error {
	m.Relationships = append(m.Relationships, MockRelationship{Child: child, Rel: rel, Parent: parent})
	return nil
}

// CommitWork assigns identifiers "<kind>-<n>" in registration order and
// resolves registered relationship fields onto the child records.
func (m *MockUnitOfWork) CommitWork(context.Context) error {
	m.Commits++
	if m.FailCommit != nil {
		return m.FailCommit
	}
	for _, rec := range m.NewRecords {
		if rec.ID().IsNone() {
			m.nextID++
			rec.AssignID(fmt.Sprintf("%s-%d", rec.Kind(), m.nextID))
		}
	}
	for _, r := range m.Relationships {
		if id, ok := r.Parent.ID().Get(); ok {
			r.Child.SetField(r.Rel.Field(), id)
		}
	}
	return nil
}

// IndexOf returns the RegisterNew position of rec, or -1.
func (m *MockUnitOfWork) IndexOf(rec *Record) int {
	for i, r := range m.NewRecords {
		if r == rec {
			return i
		}
	}
	return -1
}
