package http

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp if random fails
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

// pathID extracts a numeric id from the path segment following prefix, e.g.
// pathID("/api/income/42", "/api/income/") -> 42. A trailing sub-path after
// the id is returned as rest ("contribute" in /api/goals/3/contribute).
func pathID(path, prefix string) (int64, string, error) {
	tail := strings.TrimPrefix(path, prefix)
	idPart, rest, _ := strings.Cut(tail, "/")
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil || id <= 0 {
		return 0, "", fmt.Errorf("invalid id %q", idPart)
	}
	return id, rest, nil
}
