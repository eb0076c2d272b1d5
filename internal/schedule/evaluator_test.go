package schedule_test

import (
	"testing"
	"time"

	"github.com/staffhubhq/staffhub/internal/model"
	"github.com/staffhubhq/staffhub/internal/schedule"
	"github.com/stretchr/testify/assert"
)

func defaultOrg() *model.Organization {
	return &model.Organization{
		WorkStartTime:        "09:00",
		WorkEndTime:          "17:00",
		LateThresholdMinutes: 15,
	}
}

func at(hour, min, sec int) time.Time {
	return time.Date(2025, 6, 12, hour, min, sec, 0, time.UTC)
}

func TestIsClockInLate(t *testing.T) {
	org := defaultOrg()

	tests := []struct {
		name    string
		clockIn time.Time
		late    bool
	}{
		{"well before start", at(8, 30, 0), false},
		{"exactly at start", at(9, 0, 0), false},
		{"inside the grace period", at(9, 10, 0), false},
		{"exactly at the threshold", at(9, 15, 0), false},
		{"one second past the threshold", at(9, 15, 1), true},
		{"one minute past the threshold", at(9, 16, 0), true},
		{"late afternoon", at(14, 0, 0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.late, schedule.IsClockInLate(org, tt.clockIn))
		})
	}
}

func TestIsClockInLateIgnoresDate(t *testing.T) {
	org := defaultOrg()

	// The same time of day is judged identically on any calendar date.
	early := time.Date(2020, 1, 1, 8, 59, 0, 0, time.UTC)
	late := time.Date(2030, 12, 31, 9, 15, 1, 0, time.UTC)

	assert.False(t, schedule.IsClockInLate(org, early))
	assert.True(t, schedule.IsClockInLate(org, late))
}

func TestIsClockInLateZeroThreshold(t *testing.T) {
	org := defaultOrg()
	org.LateThresholdMinutes = 0

	assert.False(t, schedule.IsClockInLate(org, at(9, 0, 0)))
	assert.True(t, schedule.IsClockInLate(org, at(9, 0, 1)))
}

func TestIsClockInLateMalformedStart(t *testing.T) {
	org := defaultOrg()
	org.WorkStartTime = "not-a-time"

	// Falls back to the 09:00 default rather than failing.
	assert.False(t, schedule.IsClockInLate(org, at(9, 15, 0)))
	assert.True(t, schedule.IsClockInLate(org, at(9, 15, 1)))
}

func TestIsWorkDay(t *testing.T) {
	org := defaultOrg()

	// 2025-06-11 is a Wednesday, 2025-06-14 a Saturday, 2025-06-15 a Sunday.
	wednesday := time.Date(2025, 6, 11, 12, 0, 0, 0, time.UTC)
	saturday := time.Date(2025, 6, 14, 12, 0, 0, 0, time.UTC)
	sunday := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("default schedule is Monday to Friday", func(t *testing.T) {
		assert.True(t, schedule.IsWorkDay(org, wednesday))
		assert.False(t, schedule.IsWorkDay(org, saturday))
		assert.False(t, schedule.IsWorkDay(org, sunday))
	})

	t.Run("configured days override the default", func(t *testing.T) {
		org := defaultOrg()
		org.WorkDays = model.WorkDays{6, 7}

		assert.False(t, schedule.IsWorkDay(org, wednesday))
		assert.True(t, schedule.IsWorkDay(org, saturday))
		assert.True(t, schedule.IsWorkDay(org, sunday))
	})
}

func TestISOWeekday(t *testing.T) {
	// 2025-06-09 is a Monday.
	monday := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		assert.Equal(t, i+1, schedule.ISOWeekday(monday.AddDate(0, 0, i)))
	}
}

func TestFormattedWorkTimes(t *testing.T) {
	tests := []struct {
		start, end         string
		wantStart, wantEnd string
	}{
		{"09:00", "17:00", "9:00 AM", "5:00 PM"},
		{"00:30", "12:00", "12:30 AM", "12:00 PM"},
		{"13:45", "23:59", "1:45 PM", "11:59 PM"},
	}

	for _, tt := range tests {
		org := &model.Organization{WorkStartTime: tt.start, WorkEndTime: tt.end}
		assert.Equal(t, tt.wantStart, schedule.FormattedWorkStart(org))
		assert.Equal(t, tt.wantEnd, schedule.FormattedWorkEnd(org))
	}
}
