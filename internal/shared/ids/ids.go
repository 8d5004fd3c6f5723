package ids

import (
	"strings"

	"github.com/google/uuid"
)

// New returns an identifier of the form "<prefix>_<12 hex chars>".
func New(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// Hex returns n (<= 32) random lowercase hex characters.
func Hex(n int) string {
	h := strings.ReplaceAll(uuid.NewString(), "-", "")
	if n > len(h) {
		n = len(h)
	}
	return h[:n]
}
