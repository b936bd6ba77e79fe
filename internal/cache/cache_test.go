package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "cache.db"), DefaultTTL)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestPutGet(t *testing.T) {
	c := openTestCache(t)
	key := Key{VideoID: "abc123def45", Language: "en", Operation: "transcribe"}

	_, ok, err := c.Get(key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put(key, "WEBVTT\n\npayload"))

	payload, ok, err := c.Get(key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "WEBVTT\n\npayload", payload)
}

func TestPutOverwrites(t *testing.T) {
	c := openTestCache(t)
	key := Key{VideoID: "abc123def45", Language: "en", Operation: "transcribe"}

	require.NoError(t, c.Put(key, "first"))
	require.NoError(t, c.Put(key, "second"))

	payload, ok, err := c.Get(key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "second", payload)
}

func TestKeysAreIndependent(t *testing.T) {
	c := openTestCache(t)
	require.NoError(t, c.Put(Key{VideoID: "abc123def45", Language: "en", Operation: "transcribe"}, "vtt"))
	require.NoError(t, c.Put(Key{VideoID: "abc123def45", Language: "pt", Operation: "transcribe"}, "vtt-pt"))
	require.NoError(t, c.Put(Key{VideoID: "abc123def45", Language: "en", Operation: "summarize"}, "summary"))

	payload, ok, err := c.Get(Key{VideoID: "abc123def45", Language: "pt", Operation: "transcribe"})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "vtt-pt", payload)
}

// Entries written at T must still resolve at T+6d and be absent at T+8d.
func TestLazyExpiry(t *testing.T) {
	c := openTestCache(t)
	key := Key{VideoID: "abc123def45", Language: "en", Operation: "transcribe"}

	written := time.Now()
	c.now = func() time.Time { return written }
	require.NoError(t, c.Put(key, "payload"))

	c.now = func() time.Time { return written.Add(6 * 24 * time.Hour) }
	_, ok, err := c.Get(key)
	require.NoError(t, err)
	assert.True(t, ok, "entry should survive 6 days")

	c.now = func() time.Time { return written.Add(8 * 24 * time.Hour) }
	_, ok, err = c.Get(key)
	require.NoError(t, err)
	assert.False(t, ok, "entry should expire after 7 days")

	// Expired entry was deleted on read, not just hidden
	c.now = func() time.Time { return written }
	_, ok, err = c.Get(key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClearAll(t *testing.T) {
	c := openTestCache(t)
	require.NoError(t, c.Put(Key{VideoID: "a1234567890", Language: "en", Operation: "transcribe"}, "x"))
	require.NoError(t, c.Put(Key{VideoID: "b1234567890", Language: "en", Operation: "transcribe"}, "y"))

	count, err := c.ClearAll()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	_, ok, err := c.Get(Key{VideoID: "a1234567890", Language: "en", Operation: "transcribe"})
	require.NoError(t, err)
	assert.False(t, ok)

	count, err = c.ClearAll()
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
