package models

import (
	"strings"

	"github.com/google/uuid"
)

// NewID produces ids like "job_3f9c2a81b4de": a short prefix plus 12 hex
// characters, matching what the API has always handed out.
func NewID(prefix string) string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "_" + hex[:12]
}
