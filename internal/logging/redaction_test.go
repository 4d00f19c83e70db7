package logging

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecretNeverPrints(t *testing.T) {
	t.Parallel()

	s := Secret("sk-very-secret-value")
	for _, rendered := range []string{
		fmt.Sprintf("%s", s),
		fmt.Sprintf("%v", s),
		fmt.Sprintf("%#v", s),
	} {
		assert.Equal(t, "[REDACTED]", rendered)
		assert.NotContains(t, rendered, "very-secret")
	}
}

func TestRedact(t *testing.T) {
	t.Parallel()

	out := Redact("token sk-abc123 leaked into sk-abc123.log", []string{"sk-abc123", "ab"})
	assert.Equal(t, "token [REDACTED] leaked into [REDACTED].log", out)
	assert.NotContains(t, out, "sk-abc123")
}

func TestRedactKeyLevels(t *testing.T) {
	t.Parallel()

	key := "sk-abcdefghijklmnop1234"

	tests := []struct {
		level RedactionLevel
		check func(t *testing.T, got string)
	}{
		{RedactPartial, func(t *testing.T, got string) {
			assert.Equal(t, "sk-a...1234", got)
		}},
		{RedactFull, func(t *testing.T, got string) {
			assert.Equal(t, "[REDACTED]", got)
		}},
		{RedactHash, func(t *testing.T, got string) {
			assert.True(t, strings.HasPrefix(got, "[sha256:"))
			assert.NotContains(t, got, "abcdefgh")
		}},
	}
	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			t.Parallel()
			tt.check(t, RedactKey(key, tt.level))
		})
	}
}

func TestRedactKeyShortKeysFullyStarred(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "******", RedactKey("secret", RedactPartial))
}

func TestParseRedactionLevel(t *testing.T) {
	t.Parallel()

	lvl, err := ParseRedactionLevel("")
	require.NoError(t, err)
	assert.Equal(t, RedactPartial, lvl)

	lvl, err = ParseRedactionLevel("hash")
	require.NoError(t, err)
	assert.Equal(t, RedactHash, lvl)

	_, err = ParseRedactionLevel("everything")
	assert.Error(t, err)
}
