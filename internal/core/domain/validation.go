package domain

import (
	"strings"
	"time"
)

// Validation messages, returned in this order.
const (
	MsgFirstNameRequired = "firstName is required and must be a non-empty string"
	MsgLastNameRequired  = "lastName is required and must be a non-empty string"
	MsgDateRequired      = "dateOfBirth is required"
	MsgDateInvalid       = "dateOfBirth must be a valid date"
	MsgDateInFuture      = "dateOfBirth cannot be in the future"
)

var dateLayouts = []string{DateLayout, time.RFC3339Nano, time.RFC3339}

// ValidateProfile checks a payload and returns every failing rule's message.
// The future-date check only runs on a date that parsed.
func ValidateProfile(in ProfileInput, now time.Time) []string {
	var errs []string

	if !nonBlank(in.FirstName) {
		errs = append(errs, MsgFirstNameRequired)
	}
	if !nonBlank(in.LastName) {
		errs = append(errs, MsgLastNameRequired)
	}

	if in.DateOfBirth == nil || *in.DateOfBirth == "" {
		return append(errs, MsgDateRequired)
	}
	dob, ok := ParseDate(*in.DateOfBirth)
	if !ok {
		return append(errs, MsgDateInvalid)
	}
	if dob.After(calendarDay(now.UTC())) {
		errs = append(errs, MsgDateInFuture)
	}

	return errs
}

// ParseDate accepts YYYY-MM-DD or an RFC 3339 timestamp and returns the calendar
// day as written (midnight UTC). The UTC offset of a timestamp is ignored, the same
// way a PostgreSQL DATE cast ignores it.
func ParseDate(value string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return calendarDay(t), true
		}
	}
	return time.Time{}, false
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Normalize returns the values to persist: trimmed names and the date as YYYY-MM-DD,
// the same calendar day the future check ran on. Callers validate first.
func (in ProfileInput) Normalize() (firstName, lastName, dateOfBirth string) {
	dateOfBirth = deref(in.DateOfBirth)
	if dob, ok := ParseDate(dateOfBirth); ok {
		dateOfBirth = dob.Format(DateLayout)
	}
	return strings.TrimSpace(deref(in.FirstName)), strings.TrimSpace(deref(in.LastName)), dateOfBirth
}

func nonBlank(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
