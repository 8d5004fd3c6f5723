package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid", InvalidErr("bad", nil), http.StatusBadRequest},
		{"unauthorized", UnauthorizedErr("Not authenticated"), http.StatusUnauthorized},
		{"forbidden", ForbiddenErr("Insufficient permissions"), http.StatusForbidden},
		{"not found", NotFoundErr("Campaign not found"), http.StatusNotFound},
		{"conflict", ConflictErr("exists"), http.StatusConflict},
		{"unavailable", UnavailableErr("Payment service not configured"), http.StatusServiceUnavailable},
		{"upstream", UpstreamErr("card declined", errors.New("stripe")), http.StatusInternalServerError},
		{"wrapped app error", fmt.Errorf("checkout: %w", NotFoundErr("Campaign not found")), http.StatusNotFound},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.want {
				t.Errorf("Expected status %d, got %d", tt.want, got)
			}
		})
	}
}

func TestPublicMessage_HidesInternalErrors(t *testing.T) {
	err := Wrap(errors.New("dial tcp 10.0.0.5:3306: connection refused"))
	if got := PublicMessage(err); got != genericMessage {
		t.Errorf("Expected generic message, got %q", got)
	}
	if got := PublicMessage(errors.New("raw")); got != genericMessage {
		t.Errorf("Expected generic message for plain errors, got %q", got)
	}
	if got := PublicMessage(UpstreamErr("Your card was declined.", nil)); got != "Your card was declined." {
		t.Errorf("Expected upstream text to surface, got %q", got)
	}
}

func TestSentinelIdentity(t *testing.T) {
	sentinel := NotFoundErr("Student profile not found")
	err := fmt.Errorf("verify: %w", sentinel)
	if !errors.Is(err, sentinel) {
		t.Error("Expected errors.Is to match the sentinel")
	}
	if Wrap(nil) != nil {
		t.Error("Expected Wrap(nil) to be nil")
	}
}
