package bot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDate(t *testing.T) {
	testCases := []struct {
		name     string
		value    any
		expected string
	}{
		{"nil renders placeholder", nil, "—"},
		{"empty string renders placeholder", "", "—"},
		{"whitespace renders placeholder", "   ", "—"},
		{"date-only string stays on the same local day", "2026-01-01", "01/01/2026"},
		{"iso timestamp", "2026-08-10T09:30:00", "10/08/2026"},
		{"rfc3339 timestamp", "2026-08-10T09:30:00Z", "10/08/2026"},
		{"unparseable string comes back verbatim", "amanhã", "amanhã"},
		{"time value", time.Date(2026, 3, 5, 0, 0, 0, 0, time.Local), "05/03/2026"},
		{"zero time renders placeholder", time.Time{}, "—"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, FormatDate(tc.value))
		})
	}
}

func TestValidateDueDate(t *testing.T) {
	now := time.Date(2026, 8, 30, 15, 0, 0, 0, time.Local)

	t.Run("today is accepted", func(t *testing.T) {
		normalized, err := ValidateDueDate("2026-08-30", now)
		require.NoError(t, err)
		assert.Equal(t, "2026-08-30", normalized)
	})

	t.Run("yesterday is rejected", func(t *testing.T) {
		_, err := ValidateDueDate("2026-08-29", now)
		assert.Error(t, err)
	})

	t.Run("exactly two years out is accepted", func(t *testing.T) {
		normalized, err := ValidateDueDate("2028-08-30", now)
		require.NoError(t, err)
		assert.Equal(t, "2028-08-30", normalized)
	})

	t.Run("beyond two years is rejected", func(t *testing.T) {
		_, err := ValidateDueDate("2028-08-31", now)
		assert.Error(t, err)
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		_, err := ValidateDueDate("31/08/2026", now)
		assert.Error(t, err)
	})
}
