package logging

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// RedactionLevel controls how much of a key stays visible in rendered
// output.
type RedactionLevel string

const (
	// RedactPartial shows prefix...suffix — enough to recognize a key
	// without reconstructing it.
	RedactPartial RedactionLevel = "partial"

	// RedactFull replaces the key entirely.
	RedactFull RedactionLevel = "full"

	// RedactHash shows a truncated sha256, letting two reports be
	// compared for same-key without revealing anything.
	RedactHash RedactionLevel = "hash"
)

// ParseRedactionLevel validates a level name from config or a flag.
func ParseRedactionLevel(s string) (RedactionLevel, error) {
	switch RedactionLevel(s) {
	case RedactPartial, RedactFull, RedactHash:
		return RedactionLevel(s), nil
	case "":
		return RedactPartial, nil
	}
	return "", fmt.Errorf("unknown redaction level %q (want partial, full, or hash)", s)
}

// RedactKey renders a key at the given level. The partial form mirrors
// the fingerprint rule: short keys are starred out entirely rather than
// revealed.
func RedactKey(key string, level RedactionLevel) string {
	switch level {
	case RedactFull:
		return "[REDACTED]"
	case RedactHash:
		sum := sha256.Sum256([]byte(key))
		return "[sha256:" + hex.EncodeToString(sum[:])[:12] + "]"
	}
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + "..." + key[len(key)-4:]
}
