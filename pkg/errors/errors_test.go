package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	cases := []struct {
		code   Code
		status int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeRateLimit, http.StatusTooManyRequests},
		{CodeInternal, http.StatusInternalServerError},
		{CodeDependency, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		if got := MetadataFor(tc.code).HTTPStatus; got != tc.status {
			t.Fatalf("code %s: expected status %d, got %d", tc.code, tc.status, got)
		}
	}
}

func TestMetadataForUnknownCodeFallsBack(t *testing.T) {
	if got := MetadataFor(Code("NOPE")).HTTPStatus; got != http.StatusInternalServerError {
		t.Fatalf("expected fallback to internal, got %d", got)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("root")
	err := Wrap(CodeDependency, cause, "db read failed")

	if !stdErrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be discoverable via errors.Is")
	}
	if err.Code() != CodeDependency {
		t.Fatalf("expected dependency code, got %s", err.Code())
	}
}

func TestAsUnwrapsThroughFmtErrorf(t *testing.T) {
	typed := New(CodeValidation, "bad input")
	wrapped := fmt.Errorf("handler: %w", typed)

	got := As(wrapped)
	if got == nil || got.Code() != CodeValidation {
		t.Fatalf("expected typed validation error, got %v", got)
	}
}

func TestDumpBuildsChain(t *testing.T) {
	err := Wrap(CodeInternal, stdErrors.New("io failure"), "query")
	d := Dump(err)

	if d.Code != CodeInternal {
		t.Fatalf("expected internal code, got %s", d.Code)
	}
	if len(d.Chain) != 2 {
		t.Fatalf("expected 2 chain entries, got %d", len(d.Chain))
	}
}
