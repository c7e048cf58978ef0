package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

var fixedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func TestValidateProfile(t *testing.T) {
	tests := []struct {
		name  string
		input ProfileInput
		want  []string
	}{
		{
			name:  "valid profile",
			input: ProfileInput{FirstName: strPtr("John"), LastName: strPtr("Doe"), DateOfBirth: strPtr("1990-01-01")},
			want:  nil,
		},
		{
			name:  "valid RFC 3339 date",
			input: ProfileInput{FirstName: strPtr("John"), LastName: strPtr("Doe"), DateOfBirth: strPtr("1990-01-01T10:00:00Z")},
			want:  nil,
		},
		{
			name:  "missing first name",
			input: ProfileInput{LastName: strPtr("Doe"), DateOfBirth: strPtr("1990-01-01")},
			want:  []string{MsgFirstNameRequired},
		},
		{
			name:  "whitespace-only first name",
			input: ProfileInput{FirstName: strPtr("   "), LastName: strPtr("Doe"), DateOfBirth: strPtr("1990-01-01")},
			want:  []string{MsgFirstNameRequired},
		},
		{
			name:  "blank last name",
			input: ProfileInput{FirstName: strPtr("John"), LastName: strPtr(""), DateOfBirth: strPtr("1990-01-01")},
			want:  []string{MsgLastNameRequired},
		},
		{
			name:  "missing date of birth",
			input: ProfileInput{FirstName: strPtr("John"), LastName: strPtr("Doe")},
			want:  []string{MsgDateRequired},
		},
		{
			name:  "empty date of birth counts as missing",
			input: ProfileInput{FirstName: strPtr("John"), LastName: strPtr("Doe"), DateOfBirth: strPtr("")},
			want:  []string{MsgDateRequired},
		},
		{
			name:  "invalid date",
			input: ProfileInput{FirstName: strPtr("John"), LastName: strPtr("Doe"), DateOfBirth: strPtr("invalid-date")},
			want:  []string{MsgDateInvalid},
		},
		{
			name:  "impossible calendar date",
			input: ProfileInput{FirstName: strPtr("John"), LastName: strPtr("Doe"), DateOfBirth: strPtr("1990-02-30")},
			want:  []string{MsgDateInvalid},
		},
		{
			name:  "future date",
			input: ProfileInput{FirstName: strPtr("John"), LastName: strPtr("Doe"), DateOfBirth: strPtr(fixedNow.AddDate(1, 0, 0).Format(DateLayout))},
			want:  []string{MsgDateInFuture},
		},
		{
			name:  "offset timestamp on tomorrow's calendar day is in the future",
			input: ProfileInput{FirstName: strPtr("John"), LastName: strPtr("Doe"), DateOfBirth: strPtr("2024-06-16T01:00:00+14:00")},
			want:  []string{MsgDateInFuture},
		},
		{
			name:  "offset timestamp on today's calendar day is allowed",
			input: ProfileInput{FirstName: strPtr("John"), LastName: strPtr("Doe"), DateOfBirth: strPtr("2024-06-15T23:30:00-05:00")},
			want:  nil,
		},
		{
			name:  "today is allowed",
			input: ProfileInput{FirstName: strPtr("John"), LastName: strPtr("Doe"), DateOfBirth: strPtr("2024-06-15")},
			want:  nil,
		},
		{
			name:  "all fields wrong reports three messages without future check",
			input: ProfileInput{FirstName: strPtr(""), LastName: strPtr(""), DateOfBirth: strPtr("invalid-date")},
			want:  []string{MsgFirstNameRequired, MsgLastNameRequired, MsgDateInvalid},
		},
		{
			name:  "everything missing",
			input: ProfileInput{},
			want:  []string{MsgFirstNameRequired, MsgLastNameRequired, MsgDateRequired},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateProfile(tt.input, fixedNow))
		})
	}
}

func TestProfileInput_Normalize(t *testing.T) {
	in := ProfileInput{FirstName: strPtr("  John  "), LastName: strPtr("\tDoe\n"), DateOfBirth: strPtr("1990-01-01")}

	first, last, dob := in.Normalize()
	assert.Equal(t, "John", first)
	assert.Equal(t, "Doe", last)
	assert.Equal(t, "1990-01-01", dob)

	// Timestamps are stored as the calendar day written, offset ignored.
	for raw, want := range map[string]string{
		"2024-06-16T01:00:00+14:00":   "2024-06-16",
		"2024-06-15T23:30:00-05:00":   "2024-06-15",
		"1990-01-01T10:00:00.123456Z": "1990-01-01",
		"not-a-date":                  "not-a-date",
	} {
		_, _, got := ProfileInput{DateOfBirth: strPtr(raw)}.Normalize()
		assert.Equal(t, want, got, raw)
	}

	// Trimming is idempotent.
	again := ProfileInput{FirstName: &first, LastName: &last, DateOfBirth: &dob}
	first2, last2, _ := again.Normalize()
	assert.Equal(t, first, first2)
	assert.Equal(t, last, last2)
}

func TestProfileRequest_Input(t *testing.T) {
	t.Run("strings pass through", func(t *testing.T) {
		var req ProfileRequest
		require.NoError(t, json.Unmarshal([]byte(`{"firstName":"John","lastName":"Doe","dateOfBirth":"1990-01-01"}`), &req))

		in := req.Input()
		require.NotNil(t, in.FirstName)
		assert.Equal(t, "John", *in.FirstName)
		assert.Equal(t, "Doe", *in.LastName)
		assert.Equal(t, "1990-01-01", *in.DateOfBirth)
	})

	t.Run("non-string names are treated as missing", func(t *testing.T) {
		var req ProfileRequest
		require.NoError(t, json.Unmarshal([]byte(`{"firstName":42,"lastName":null,"dateOfBirth":"1990-01-01"}`), &req))

		in := req.Input()
		assert.Nil(t, in.FirstName)
		assert.Nil(t, in.LastName)
		assert.Equal(t, []string{MsgFirstNameRequired, MsgLastNameRequired}, ValidateProfile(in, fixedNow))
	})

	t.Run("non-string date is invalid", func(t *testing.T) {
		var req ProfileRequest
		require.NoError(t, json.Unmarshal([]byte(`{"firstName":"John","lastName":"Doe","dateOfBirth":19900101}`), &req))

		assert.Equal(t, []string{MsgDateInvalid}, ValidateProfile(req.Input(), fixedNow))
	})

	t.Run("falsy date is missing", func(t *testing.T) {
		for _, literal := range []string{"false", "0", "0.0", "-0", "0e5"} {
			var req ProfileRequest
			body := `{"firstName":"John","lastName":"Doe","dateOfBirth":` + literal + `}`
			require.NoError(t, json.Unmarshal([]byte(body), &req))

			assert.Equal(t, []string{MsgDateRequired}, ValidateProfile(req.Input(), fixedNow), literal)
		}
	})

	t.Run("truthy non-string date is invalid", func(t *testing.T) {
		for _, literal := range []string{"true", "1", "-0.5", "{}", "[]"} {
			var req ProfileRequest
			body := `{"firstName":"John","lastName":"Doe","dateOfBirth":` + literal + `}`
			require.NoError(t, json.Unmarshal([]byte(body), &req))

			assert.Equal(t, []string{MsgDateInvalid}, ValidateProfile(req.Input(), fixedNow), literal)
		}
	})
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Details: []string{MsgFirstNameRequired, MsgDateRequired}}
	assert.Equal(t, "validation failed: "+MsgFirstNameRequired+"; "+MsgDateRequired, err.Error())
}
