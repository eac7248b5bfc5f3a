package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSnapshot(t *testing.T) {
	snap := NewSnapshot("zara", "https://www.zara.com/", "en-US")

	assert.NotEmpty(t, snap.RunID)
	assert.Equal(t, "zara", snap.Target)
	assert.Equal(t, "https://www.zara.com/", snap.URL)
	assert.Equal(t, "en-US", snap.Locale)
	assert.False(t, snap.Success)
	assert.Empty(t, snap.Items)
	assert.Empty(t, snap.Errors)

	// The timestamp string is derived from StartedAt and names the
	// snapshot files.
	parsed, err := time.ParseInLocation(TimestampLayout, snap.Timestamp, time.Local)
	require.NoError(t, err)
	assert.WithinDuration(t, snap.StartedAt, parsed, time.Second)
}

func TestSnapshotRunIDsAreUnique(t *testing.T) {
	a := NewSnapshot("demo", "https://httpbin.org/html", "en-US")
	b := NewSnapshot("demo", "https://httpbin.org/html", "en-US")

	assert.NotEqual(t, a.RunID, b.RunID)
}

func TestAddError(t *testing.T) {
	snap := NewSnapshot("test", "https://example.com", "en-US")

	snap.AddError("first")
	snap.AddError("second")

	assert.Equal(t, 2, snap.ErrorCount())
	assert.Equal(t, []string{"first", "second"}, snap.Errors)
	assert.Equal(t, 0, snap.ItemCount())
}
