package utils

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// NewUUID generates a new UUID
func NewUUID() uuid.UUID {
	return uuid.New()
}

// ParseUUID parses a string into a UUID
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(s))
}

// GenerateReferenceNo formats a sequential document number, e.g. RES-000042.
func GenerateReferenceNo(prefix string, seq int64) string {
	return fmt.Sprintf("%s-%06d", prefix, seq)
}

// NormalizeCode upper-cases and trims codes such as GSTIN, PAN and state codes.
func NormalizeCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
