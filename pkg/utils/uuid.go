package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateReferenceNo generates a short human-facing reference such as SO-1A2B3C4D
func GenerateReferenceNo(prefix string) string {
	return prefix + "-" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
}
