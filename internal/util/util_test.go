package util

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToValidUTF8(t *testing.T) {
	assert.Equal(t, "plain", ToValidUTF8("plain"))
	assert.Equal(t, "Müller", ToValidUTF8("M\xfcller"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcd...", Truncate("abcdefghij", 7))
	assert.Equal(t, "ab", Truncate("abcdefghij", 2))
}

func TestHashRowsSeparatesCells(t *testing.T) {
	a := HashRows([][]string{{"a,b"}})
	b := HashRows([][]string{{"a", "b"}})
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, HashRows([][]string{{"a,b"}}))
	assert.Len(t, a, 64)
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "2024-03", SheetName("work/2024-03.csv"))
	assert.Equal(t, "hours", SheetName("hours"))
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2024, 3, 19, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "never", relativeTime(now, time.Time{}))
	assert.Equal(t, "just now", relativeTime(now, now.Add(-10*time.Second)))
	assert.Equal(t, "1 minute ago", relativeTime(now, now.Add(-time.Minute)))
	assert.Equal(t, "5 hours ago", relativeTime(now, now.Add(-5*time.Hour)))
	assert.Equal(t, "Mar 17, 12:00", relativeTime(now, now.Add(-48*time.Hour)))
}

func TestNewULIDUnique(t *testing.T) {
	seen := map[string]bool{}
	for range 1000 {
		id := NewULID()
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestIvyErrorWrap(t *testing.T) {
	err := NewError("Cannot open").WithSuggestion("check it").Wrap(ErrFileNotFound)
	assert.True(t, errors.Is(err, ErrFileNotFound))
	assert.Contains(t, err.Format(), "check it")
}
