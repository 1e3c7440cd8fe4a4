package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	e := New(CategoryState, SeverityError, "builder already built")
	want := "state (error): builder already built"
	if e.Error() != want {
		t.Errorf("expected %q, got %q", want, e.Error())
	}

	cause := fmt.Errorf("disk full")
	wrapped := Wrap(cause, CategoryPersist, SeverityFatal, "commit failed")
	want = "persist (fatal): commit failed: disk full"
	if wrapped.Error() != want {
		t.Errorf("expected %q, got %q", want, wrapped.Error())
	}
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("root cause")
	wrapped := Wrap(cause, CategoryPersist, SeverityError, "outer")
	if !errors.Is(wrapped, cause) {
		t.Error("expected errors.Is to find the wrapped cause")
	}
}

func TestCategoryHelpers(t *testing.T) {
	se := StateError("builder %q already built", "user-1")
	if !IsCategory(se, CategoryState) {
		t.Error("StateError should carry CategoryState")
	}
	ge := GraphError("parent not materialized")
	if !IsCategory(ge, CategoryGraph) {
		t.Error("GraphError should carry CategoryGraph")
	}
	if IsCategory(se, CategoryGraph) {
		t.Error("state error must not match graph category")
	}
	if GetCategory(fmt.Errorf("plain")) != CategoryInternal {
		t.Error("non-SeedKitError should map to CategoryInternal")
	}
}

func TestWithContext(t *testing.T) {
	e := StateError("bad state").WithContext("kind", "user").WithContext("state", "built")
	if e.Context["kind"] != "user" || e.Context["state"] != "built" {
		t.Errorf("context not recorded: %v", e.Context)
	}
}
