package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// DateLayout is the calendar-date format used for dateOfBirth on the wire.
const DateLayout = "2006-01-02"

// UserProfile is the persisted profile as returned to clients.
type UserProfile struct {
	ID          int64     `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	DateOfBirth string    `json:"dateOfBirth"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProfileInput is the decoded create/update payload.
// A nil field means the value was missing or had the wrong JSON type.
type ProfileInput struct {
	FirstName   *string
	LastName    *string
	DateOfBirth *string
}

// ProfileRequest is the raw JSON body for POST and PUT. Fields stay raw so that
// type mismatches surface as per-field validation messages instead of decode errors.
type ProfileRequest struct {
	FirstName   json.RawMessage `json:"firstName"`
	LastName    json.RawMessage `json:"lastName"`
	DateOfBirth json.RawMessage `json:"dateOfBirth"`
}

// Input converts the raw request into a ProfileInput.
func (r ProfileRequest) Input() ProfileInput {
	in := ProfileInput{
		FirstName: rawString(r.FirstName),
		LastName:  rawString(r.LastName),
	}

	switch dob := rawString(r.DateOfBirth); {
	case dob != nil:
		in.DateOfBirth = dob
	case isPresent(r.DateOfBirth):
		// Numbers, booleans, objects: keep the literal so validation rejects it as a date.
		literal := string(bytes.TrimSpace(r.DateOfBirth))
		if !isFalsyLiteral(literal) {
			in.DateOfBirth = &literal
		}
	}

	return in
}

// rawString returns the decoded string, or nil when the value is absent or not a string.
func rawString(raw json.RawMessage) *string {
	if !isPresent(raw) {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	return &s
}

func isPresent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// isFalsyLiteral reports whether a non-string JSON literal is false or numeric zero
// (0, -0, 0.0, 0e5); those count as a missing value.
func isFalsyLiteral(literal string) bool {
	if literal == "false" {
		return true
	}
	f, err := strconv.ParseFloat(literal, 64)
	return err == nil && f == 0
}
