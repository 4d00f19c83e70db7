package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/systmms/keyaudit/pkg/provider"
)

func resultFor(name string) provider.KeyResult {
	return provider.KeyResult{
		Provider:       name,
		EnvVar:         "SOME_KEY",
		KeyFingerprint: provider.Fingerprint{Prefix: "sk-a", Suffix: "wxyz", Length: 40},
		Status:         provider.StatusValid,
	}
}

func TestPutThenGetWithinTTL(t *testing.T) {
	t.Parallel()

	c := New(time.Hour, 100)
	want := resultFor("openai")
	c.Put("openai", "sk-secret", want)

	got, ok := c.Get("openai", "sk-secret")
	require.True(t, ok)
	assert.Equal(t, want, got)
	assert.Equal(t, Stats{Hits: 1, Misses: 0}, c.Stats())
}

func TestExpiredEntryEvictedOnGet(t *testing.T) {
	t.Parallel()

	c := New(time.Hour, 100)
	current := time.Now()
	c.now = func() time.Time { return current }

	c.Put("openai", "sk-secret", resultFor("openai"))
	require.Equal(t, 1, c.Len())

	current = current.Add(2 * time.Hour)
	_, ok := c.Get("openai", "sk-secret")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len(), "stale entry should be removed")
	assert.Equal(t, Stats{Hits: 0, Misses: 1}, c.Stats())
}

func TestCapacityEvictsOldest(t *testing.T) {
	t.Parallel()

	c := New(time.Hour, 3)
	current := time.Now()
	c.now = func() time.Time { return current }

	for i := 0; i < 3; i++ {
		c.Put("openai", fmt.Sprintf("sk-key-%d", i), resultFor("openai"))
		current = current.Add(time.Minute)
	}
	c.Put("openai", "sk-key-3", resultFor("openai"))

	assert.Equal(t, 3, c.Len())
	_, ok := c.Get("openai", "sk-key-0")
	assert.False(t, ok, "oldest entry should have been evicted")
	_, ok = c.Get("openai", "sk-key-3")
	assert.True(t, ok)
}

func TestDifferentProvidersDoNotCollide(t *testing.T) {
	t.Parallel()

	c := New(time.Hour, 100)
	c.Put("openai", "shared-secret", resultFor("openai"))

	_, ok := c.Get("github", "shared-secret")
	assert.False(t, ok)

	got, ok := c.Get("openai", "shared-secret")
	require.True(t, ok)
	assert.Equal(t, "openai", got.Provider)
}

func TestRawSecretNeverStored(t *testing.T) {
	t.Parallel()

	secret := "sk-SUPER-SECRET-VALUE-123456"
	c := New(time.Hour, 100)
	c.Put("openai", secret, resultFor("openai"))

	for k := range c.store {
		assert.NotContains(t, k, secret)
		assert.Len(t, k, 16)
	}
}

func TestHitRate(t *testing.T) {
	t.Parallel()

	var s Stats
	assert.Zero(t, s.HitRate())

	s = Stats{Hits: 3, Misses: 1}
	assert.InDelta(t, 0.75, s.HitRate(), 1e-9)
}

func TestConcurrentAccess(t *testing.T) {
	t.Parallel()

	c := New(time.Hour, 1000)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("sk-%d-%d", n, j)
				c.Put("openai", key, resultFor("openai"))
				c.Get("openai", key)
			}
		}(i)
	}
	wg.Wait()

	stats := c.Stats()
	assert.Equal(t, 1600, stats.Hits+stats.Misses)
}
