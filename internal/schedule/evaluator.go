// internal/schedule/evaluator.go

// Package schedule decides lateness and workday membership from an
// organization's configured schedule. Everything here is a pure function of
// the organization record and a timestamp: deterministic, side-effect-free,
// and total for any input.
package schedule

import (
	"fmt"
	"time"

	"github.com/staffhubhq/staffhub/internal/model"
)

const defaultWorkStart = "09:00"

// defaultWorkDays is Monday through Friday, used when an organization has no
// configured workday set.
var defaultWorkDays = model.WorkDays{1, 2, 3, 4, 5}

// IsClockInLate reports whether a clock-in is late for the organization's
// schedule. Only the time-of-day component of the clock-in is compared; the
// calendar date is ignored. A clock-in exactly at work start plus the grace
// period is on time; one second past it is late.
func IsClockInLate(org *model.Organization, clockIn time.Time) bool {
	startMinutes := parseMinutes(org.WorkStartTime)
	threshold := startMinutes*60 + org.LateThresholdMinutes*60

	clockInSeconds := clockIn.Hour()*3600 + clockIn.Minute()*60 + clockIn.Second()
	return clockInSeconds > threshold
}

// IsWorkDay reports whether the date falls on one of the organization's
// active weekdays. Weekdays are ISO numbered, 1=Monday through 7=Sunday.
// Organizations without a configured set work Monday to Friday.
func IsWorkDay(org *model.Organization, date time.Time) bool {
	days := org.WorkDays
	if len(days) == 0 {
		days = defaultWorkDays
	}
	return days.Contains(ISOWeekday(date))
}

// ISOWeekday maps time.Weekday's Sunday-based numbering to ISO 1-7.
func ISOWeekday(date time.Time) int {
	wd := int(date.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// FormattedWorkStart renders the configured start time in the 12-hour
// "9:00 AM" form the clients expect.
func FormattedWorkStart(org *model.Organization) string {
	return format12Hour(org.WorkStartTime)
}

// FormattedWorkEnd renders the configured end time in 12-hour form.
func FormattedWorkEnd(org *model.Organization) string {
	return format12Hour(org.WorkEndTime)
}

// parseMinutes converts an "HH:MM" string to minutes after midnight,
// falling back to the default start when the value is empty or malformed.
func parseMinutes(hhmm string) int {
	var hour, minute int
	if _, err := fmt.Sscanf(hhmm, "%d:%d", &hour, &minute); err != nil || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		fmt.Sscanf(defaultWorkStart, "%d:%d", &hour, &minute)
	}
	return hour*60 + minute
}

func format12Hour(hhmm string) string {
	minutes := parseMinutes(hhmm)
	hour, minute := minutes/60, minutes%60

	period := "AM"
	switch {
	case hour == 0:
		hour = 12
	case hour == 12:
		period = "PM"
	case hour > 12:
		hour -= 12
		period = "PM"
	}
	return fmt.Sprintf("%d:%02d %s", hour, minute, period)
}
