package leave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountDays(t *testing.T) {
	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"same day", day(2024, 6, 10), day(2024, 6, 10), 1},
		{"leap february", day(2024, 2, 1), day(2024, 2, 29), 29},
		{"full leap year", day(2024, 1, 1), day(2024, 12, 31), 366},
		{"one gregorian cycle", day(1700, 1, 1), day(2100, 1, 1), 146098},
		{"widest dates", day(1, 1, 1), day(9999, 12, 31), 3652059},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CountDays(tt.start, tt.end)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := CountDays(day(2024, 6, 11), day(2024, 6, 10))
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestParseLeaveType(t *testing.T) {
	got, err := ParseLeaveType("sick")
	require.NoError(t, err)
	assert.Equal(t, LeaveTypeSick, got)

	for _, raw := range []string{"", "Sick", "sabbatical"} {
		_, err := ParseLeaveType(raw)
		assert.ErrorIs(t, err, ErrInvalidLeaveType, raw)
	}
}

func TestListLeaveRequestsQuery_ToFilter(t *testing.T) {
	filter := ListLeaveRequestsQuery{Status: "approved", Limit: 5}.ToFilter()
	require.NotNil(t, filter.Status)
	assert.Equal(t, LeaveRequestStatusApproved, *filter.Status)
	assert.Equal(t, 5, filter.Limit)

	filter = ListLeaveRequestsQuery{}.ToFilter()
	assert.Nil(t, filter.Status)
	assert.Equal(t, DefaultPageSize, filter.Limit)

	filter = ListLeaveRequestsQuery{Status: "archived"}.ToFilter()
	assert.Nil(t, filter.Status)
}
