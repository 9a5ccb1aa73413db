// Package assert provides the handful of test helpers used across
// this repository. It is deliberately tiny so that framework packages
// can test themselves without further dependencies.
package assert

import (
	"reflect"
	"testing"
)

// Tester is the subset of testing.TB that the helpers need. Tests can
// pass a recording fake to test test helpers.
type Tester interface {
	Helper()
	Fatal(...interface{})
	Fatalf(string, ...interface{})
}

// Equal fails the test unless want and got are deeply equal.
func Equal(t Tester, want, got interface{}) {
	t.Helper()
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("values not equal \nwant %T %v\n got %T %v", want, want, got, got)
	}
}

// Nil fails the test unless the value is nil. A typed nil pointer,
// slice, or map counts as nil as well.
func Nil(t Tester, value interface{}) {
	t.Helper()
	if !isNil(value) {
		// %+v prints the stack trace when the value is a wrapped error.
		t.Fatalf("want a nil value, got %+v", value)
	}
}

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface,
		reflect.Map, reflect.Ptr, reflect.Slice:
		return v.IsNil()
	}
	return false
}

// Panics fails the test unless running fn panics.
func Panics(t Tester, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatal("panic expected")
		}
	}()
	fn()
}

// IsErr fails the test unless got matches the wanted error kind. The
// match follows the Is method of the coded errors if present, exact
// equality otherwise.
func IsErr(t testing.TB, want, got error) {
	t.Helper()

	if want == got {
		return
	}

	type kinder interface {
		Is(error) bool
	}
	if want, ok := want.(kinder); ok && want.Is(got) {
		return
	}

	t.Fatalf("want %q, got %+v", want, got)
}
