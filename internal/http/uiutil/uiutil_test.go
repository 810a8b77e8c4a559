package uiutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	t.Parallel()
	tests := map[float64]string{
		0:          "$0.00",
		9.5:        "$9.50",
		1234.567:   "$1,234.57",
		1000000:    "$1,000,000.00",
		-42.1:      "-$42.10",
		999.999999: "$1,000.00",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatMoney(in), "%v", in)
	}
}

func TestFriendlyRelativeTime(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "never", FriendlyRelativeTime(time.Time{}, now))
	assert.Equal(t, "just now", FriendlyRelativeTime(now.Add(time.Minute), now))
	assert.Equal(t, "just now", FriendlyRelativeTime(now.Add(-30*time.Second), now))
	assert.Equal(t, "1 minute ago", FriendlyRelativeTime(now.Add(-time.Minute), now))
	assert.Equal(t, "5 minutes ago", FriendlyRelativeTime(now.Add(-5*time.Minute), now))
	assert.Equal(t, "2 hours ago", FriendlyRelativeTime(now.Add(-2*time.Hour), now))
	assert.Equal(t, "3 days ago", FriendlyRelativeTime(now.Add(-72*time.Hour), now))
	assert.Equal(t, "Feb 1, 2025 12:00 PM", FriendlyRelativeTime(time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC), now))
}

func TestTruncateWithEllipsis(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "short", TruncateWithEllipsis("short", 10))
	assert.Equal(t, "Coca-Cola…", TruncateWithEllipsis("Coca-Cola 600ml", 10))
	assert.Equal(t, "…", TruncateWithEllipsis("abc", 1))
}
