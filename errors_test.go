package veganify

import (
	"errors"
	"fmt"
	"testing"
)

func TestStatusErrorMapping(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{400, ErrValidation},
		{404, ErrNotFound},
		{401, ErrService},
		{500, ErrService},
		{503, ErrService},
	}
	for _, tc := range cases {
		err := statusError("product lookup", tc.status)
		if !errors.Is(err, tc.want) {
			t.Fatalf("status %d: %v is not %v", tc.status, err, tc.want)
		}
		if StatusCode(err) != tc.status {
			t.Fatalf("status %d not preserved: %d", tc.status, StatusCode(err))
		}
	}
}

func TestKindsDoNotCrossMatch(t *testing.T) {
	err := statusError("op", 404)
	if errors.Is(err, ErrValidation) || errors.Is(err, ErrService) {
		t.Fatalf("404 must only match ErrNotFound")
	}
	if errors.Is(fmt.Errorf("plain"), ErrService) {
		t.Fatalf("plain errors must not match")
	}
	other := &Error{Kind: KindNotFound, Msg: "x"}
	if errors.Is(err, other) {
		t.Fatalf("non-sentinel *Error targets must not match by kind")
	}
}

func TestErrorUnwrapAndMessage(t *testing.T) {
	cause := errors.New("schema: status: expected integer, got null")
	err := fmt.Errorf("lookup: %w", validationError("invalid response", cause))

	if !errors.Is(err, ErrValidation) {
		t.Fatalf("wrapped validation error not matched")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause not reachable through Unwrap")
	}
	var e *Error
	if !errors.As(err, &e) || e.StatusCode != 400 {
		t.Fatalf("expected status 400, got %+v", e)
	}
	want := "veganify: invalid response (status 400): schema: status: expected integer, got null"
	if e.Error() != want {
		t.Fatalf("Error()=%q want %q", e.Error(), want)
	}
	if ErrNotFound.Error() != "veganify: not_found" {
		t.Fatalf("sentinel message: %q", ErrNotFound.Error())
	}
	if StatusCode(cause) != 0 {
		t.Fatalf("plain error should carry no status")
	}
}
