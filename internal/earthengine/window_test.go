package earthengine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(value string) time.Time {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return parsed
}

func TestNewTimeWindowRejectsReversedDates(t *testing.T) {
	_, err := NewTimeWindow(date("2001-12-31"), date("1985-01-01"))
	assert.Error(t, err)

	window, err := NewTimeWindow(date("1985-01-01"), date("1985-01-01"))
	require.NoError(t, err)
	assert.True(t, window.Contains(date("1985-01-01")))
}

func TestValidateWindowsRejectsOverlap(t *testing.T) {
	first, err := NewTimeWindow(date("1990-01-01"), date("1990-03-31"))
	require.NoError(t, err)
	second, err := NewTimeWindow(date("1990-03-31"), date("1990-06-30"))
	require.NoError(t, err)

	assert.Error(t, ValidateWindows([]TimeWindow{first, second}))
}

func TestValidateWindowsAcceptsDisjointInAnyOrder(t *testing.T) {
	summer, err := NewTimeWindow(date("1990-01-01"), date("1990-03-31"))
	require.NoError(t, err)
	winter, err := NewTimeWindow(date("1990-06-01"), date("1990-08-31"))
	require.NoError(t, err)

	assert.NoError(t, ValidateWindows([]TimeWindow{summer, winter}))
	assert.NoError(t, ValidateWindows([]TimeWindow{winter, summer}))
	assert.NoError(t, ValidateWindows([]TimeWindow{summer}))
	assert.Error(t, ValidateWindows(nil))
}
