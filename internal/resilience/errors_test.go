package resilience

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"transient error", NewTransientError(errors.New("overloaded"), 529), true},
		{"wrapped transient", fmt.Errorf("call: %w", NewTransientError(errors.New("x"), 503)), true},
		{"auth error", NewAuthError(errors.New("bad key"), 401), false},
		{"auth wrapping transient text", NewAuthError(errors.New("i/o timeout"), 403), false},
		{"connection reset string", errors.New("read tcp: connection reset by peer"), true},
		{"tls handshake", errors.New("net/http: TLS handshake timeout"), true},
		{"plain error", errors.New("invalid argument"), false},
		{"malformed", &MalformedResponseError{Err: errors.New("no json")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTransient(tt.err); got != tt.want {
				t.Errorf("IsTransient(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsTransientHTTPStatus(t *testing.T) {
	for _, code := range []int{408, 429, 500, 502, 503, 504} {
		if !IsTransientHTTPStatus(code) {
			t.Errorf("expected %d to be transient", code)
		}
	}
	for _, code := range []int{200, 400, 401, 403, 404, 422} {
		if IsTransientHTTPStatus(code) {
			t.Errorf("expected %d to not be transient", code)
		}
	}
}

func TestErrorTaxonomyUnwrap(t *testing.T) {
	base := errors.New("root cause")

	if !errors.Is(NewTransientError(base, 500), base) {
		t.Error("TransientError should unwrap to base")
	}
	if !errors.Is(NewAuthError(base, 401), base) {
		t.Error("AuthError should unwrap to base")
	}
	me := &MalformedResponseError{Err: base, Snippet: "garbage"}
	if !errors.Is(me, base) {
		t.Error("MalformedResponseError should unwrap to base")
	}
	if me.Error() != "malformed response: root cause" {
		t.Errorf("unexpected message %q", me.Error())
	}
}

func TestIsMalformedAndIsAuth(t *testing.T) {
	me := fmt.Errorf("gateway: %w", &MalformedResponseError{Err: errors.New("x")})
	if !IsMalformed(me) {
		t.Error("expected malformed")
	}
	if IsMalformed(errors.New("other")) {
		t.Error("did not expect malformed")
	}
	if !IsAuth(fmt.Errorf("wrap: %w", NewAuthError(errors.New("x"), 403))) {
		t.Error("expected auth")
	}
}
