package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestGenerateReferenceNo(t *testing.T) {
	cases := []struct {
		prefix string
		seq    int64
		want   string
	}{
		{"RES", 1, "RES-000001"},
		{"INV", 42, "INV-000042"},
		{"INV", 1234567, "INV-1234567"},
	}
	for _, tc := range cases {
		if got := GenerateReferenceNo(tc.prefix, tc.seq); got != tc.want {
			t.Errorf("GenerateReferenceNo(%q, %d) = %q, want %q", tc.prefix, tc.seq, got, tc.want)
		}
	}
}

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	id := uuid.New()

	token, err := m.GenerateAccessToken(id, "ops@example.com", []string{"manage-reservations"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := m.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != id {
		t.Errorf("user id = %s, want %s", claims.UserID, id)
	}
	if !claims.HasPermission("manage-reservations") {
		t.Error("expected manage-reservations permission")
	}
	if claims.HasPermission("manage-invoices") {
		t.Error("unexpected manage-invoices permission")
	}
}

func TestJWTRejectsOtherSecret(t *testing.T) {
	token, err := NewJWTManager("one", time.Hour).GenerateAccessToken(uuid.New(), "a@b.c", nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := NewJWTManager("two", time.Hour).ValidateAccessToken(token); err == nil {
		t.Fatal("expected validation to fail with a different secret")
	}
}
