package errors

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
)

func TestRegisterDuplicateCodePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic when registering an already used code")
		}
	}()
	Register(2, "duplicate of unauthorized")
}

func TestErrorIs(t *testing.T) {
	cases := map[string]struct {
		kind      *Error
		err       error
		wantMatch bool
	}{
		"instance of the same root": {
			kind:      ErrNotFound,
			err:       ErrNotFound,
			wantMatch: true,
		},
		"wrapped root error": {
			kind:      ErrNotFound,
			err:       Wrap(ErrNotFound, "gone"),
			wantMatch: true,
		},
		"deeply wrapped root error": {
			kind:      ErrNotFound,
			err:       Wrap(Wrap(ErrNotFound, "gone"), "outer"),
			wantMatch: true,
		},
		"different root error": {
			kind:      ErrNotFound,
			err:       ErrUnauthorized,
			wantMatch: false,
		},
		"stdlib error": {
			kind:      ErrNotFound,
			err:       fmt.Errorf("not found"),
			wantMatch: false,
		},
		"nil error": {
			kind:      ErrNotFound,
			err:       nil,
			wantMatch: false,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := tc.kind.Is(tc.err); got != tc.wantMatch {
				t.Fatalf("want match=%v, got %v", tc.wantMatch, got)
			}
		})
	}
}

func TestWrapNil(t *testing.T) {
	if err := Wrap(nil, "ignored"); err != nil {
		t.Fatalf("wrapping nil must return nil, got %+v", err)
	}
}

func TestWrapAttachesStackTraceOnce(t *testing.T) {
	err := Wrap(ErrState, "inner")
	st := stackTrace(err)
	if st == nil {
		t.Fatal("expected a stack trace to be attached")
	}

	// A second wrap must not overwrite the original trace.
	outer := Wrap(err, "outer")
	if got := stackTrace(outer); fmt.Sprintf("%v", got[0]) != fmt.Sprintf("%v", st[0]) {
		t.Fatal("stack trace must be attached at the lowest frame only")
	}
}

func TestABCICode(t *testing.T) {
	cases := map[string]struct {
		err      error
		wantCode uint32
	}{
		"root error":    {err: ErrUnauthorized, wantCode: 2},
		"wrapped error": {err: Wrap(ErrUnauthorized, "no signature"), wantCode: 2},
		"stdlib error":  {err: errors.New("whatever"), wantCode: internalABCICode},
		"custom code":   {err: Wrap(ErrPanic, "boom"), wantCode: 111222},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if code := abciCode(tc.err); code != tc.wantCode {
				t.Fatalf("want code %d, got %d", tc.wantCode, code)
			}
		})
	}
}

func TestRecover(t *testing.T) {
	var err error
	func() {
		defer Recover(&err)
		panic("totally unexpected")
	}()
	if !ErrPanic.Is(err) {
		t.Fatalf("want ErrPanic, got %+v", err)
	}
}
