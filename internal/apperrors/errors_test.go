package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"direct", New(KindValidation, "bad input"), KindValidation},
		{"wrapped", Wrap(errors.New("low level"), KindStore, "query failed"), KindStore},
		{"fmt wrapped", fmt.Errorf("context: %w", New(KindExternal, "timeout")), KindExternal},
		{"plain error", errors.New("anything"), KindInternal},
		{"nil cause chain", New(KindNotFound, "missing"), KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWrapNil(t *testing.T) {
	if err := Wrap(nil, KindStore, "anything"); err != nil {
		t.Errorf("Wrap(nil) = %v, want nil", err)
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		kind Kind
		want bool
	}{
		{KindExternal, true},
		{KindMalformedResponse, true},
		{KindStore, false},
		{KindValidation, false},
		{KindAuth, false},
		{KindNotFound, false},
		{KindInternal, false},
	}
	for _, tt := range tests {
		if got := IsRetryable(New(tt.kind, "x")); got != tt.want {
			t.Errorf("IsRetryable(%v) = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindAuth, http.StatusUnauthorized},
		{KindValidation, http.StatusBadRequest},
		{KindNotFound, http.StatusNotFound},
		{KindExternal, http.StatusServiceUnavailable},
		{KindMalformedResponse, http.StatusServiceUnavailable},
		{KindStore, http.StatusInternalServerError},
		{KindInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := HTTPStatus(New(tt.kind, "x")); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.kind, got, tt.want)
		}
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"auth", New(KindAuth, "jwt expired"), "Session expired, please re-authenticate."},
		{"external hides detail", New(KindExternal, "status 500 from upstream"), "The AI service is temporarily unavailable. Please try again."},
		{"malformed hides detail", New(KindMalformedResponse, "unexpected token"), "The AI service is temporarily unavailable. Please try again."},
		{"validation passes message", New(KindValidation, "Cluster name cannot be empty"), "Cluster name cannot be empty"},
		{"not found passes message", New(KindNotFound, "cluster abc not found"), "cluster abc not found"},
		{"store hides detail", Wrap(errors.New("pq: connection refused"), KindStore, "query failed"), "Something went wrong. Please try again."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
