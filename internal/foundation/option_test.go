package foundation

import "testing"

func TestOption(t *testing.T) {
	t.Run("Some", func(t *testing.T) {
		o := Some("id-1")
		if !o.IsSome() || o.IsNone() {
			t.Error("expected Some to be present")
		}
		if o.Unwrap() != "id-1" {
			t.Errorf("expected id-1, got %s", o.Unwrap())
		}
		if v, ok := o.Get(); !ok || v != "id-1" {
			t.Errorf("Get returned %q, %v", v, ok)
		}
	})

	t.Run("None", func(t *testing.T) {
		o := None[string]()
		if o.IsSome() || !o.IsNone() {
			t.Error("expected None to be absent")
		}
		if o.UnwrapOr("fallback") != "fallback" {
			t.Error("expected fallback value")
		}
		defer func() {
			if recover() == nil {
				t.Error("expected Unwrap on None to panic")
			}
		}()
		o.Unwrap()
	})

	t.Run("Pointer round trip", func(t *testing.T) {
		if FromPointer[string](nil).IsSome() {
			t.Error("nil pointer should be None")
		}
		v := "x"
		o := FromPointer(&v)
		if o.ToPointer() == nil || *o.ToPointer() != "x" {
			t.Error("pointer round trip lost the value")
		}
	})

	t.Run("String", func(t *testing.T) {
		if Some(3).String() != "Some(3)" {
			t.Errorf("got %s", Some(3).String())
		}
		if None[int]().String() != "None" {
			t.Errorf("got %s", None[int]().String())
		}
	})
}
