package validation_test

import (
	"strconv"
	"testing"
	"time"

	"tedred-internship-api/pkg/validation"

	"github.com/stretchr/testify/assert"
)

func fixedClock(year int) func() time.Time {
	return func() time.Time {
		return time.Date(year, time.June, 1, 12, 0, 0, 0, time.UTC)
	}
}

func TestValidateNames(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name  string
		value string
		valid bool
	}{
		{"empty", "", false},
		{"whitespace only", "   ", false},
		{"single letter", "A", false},
		{"single letter padded", "  A  ", false},
		{"two letters", "Al", true},
		{"regular", "Ayesha", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, v.Validate(validation.FieldFirstName, tt.value).Valid)
			assert.Equal(t, tt.valid, v.Validate(validation.FieldLastName, tt.value).Valid)
		})
	}

	t.Run("required reason", func(t *testing.T) {
		out := v.Validate(validation.FieldFirstName, "")
		assert.Equal(t, "First name is required", out.Reason)
	})

	t.Run("too short reason", func(t *testing.T) {
		out := v.Validate(validation.FieldLastName, "B")
		assert.Equal(t, "Last name is too short", out.Reason)
	})
}

func TestValidateEmail(t *testing.T) {
	v := validation.New()

	assert.False(t, v.Validate(validation.FieldEmail, "").Valid)
	assert.False(t, v.Validate(validation.FieldEmail, "a@b").Valid, "missing TLD")
	assert.False(t, v.Validate(validation.FieldEmail, "a b@c.com").Valid)
	assert.False(t, v.Validate(validation.FieldEmail, "ab.com").Valid)
	assert.True(t, v.Validate(validation.FieldEmail, "a@b.com").Valid)
	assert.True(t, v.Validate(validation.FieldEmail, " intern@tedred.io ").Valid)

	out := v.Validate(validation.FieldEmail, "a@b")
	assert.Equal(t, "Please enter a valid email address", out.Reason)
}

func TestValidatePhone(t *testing.T) {
	v := validation.New()

	assert.False(t, v.Validate(validation.FieldPhone, "").Valid)
	assert.False(t, v.Validate(validation.FieldPhone, "12345").Valid, "too short")
	assert.False(t, v.Validate(validation.FieldPhone, "0300-CALL-ME").Valid)
	assert.False(t, v.Validate(validation.FieldPhone, "123456789012345678901").Valid, "too long")
	assert.True(t, v.Validate(validation.FieldPhone, "+92 (300) 123-4567").Valid)
	assert.True(t, v.Validate(validation.FieldPhone, "1234567").Valid)
}

func TestValidateEducationFields(t *testing.T) {
	v := validation.New()

	for _, f := range []validation.Field{validation.FieldInstitution, validation.FieldDegree, validation.FieldFieldOfStudy} {
		assert.False(t, v.Validate(f, "  ").Valid, f)
		assert.True(t, v.Validate(f, "X").Valid, f)
	}
}

func TestValidateGraduationYear(t *testing.T) {
	current := 2026
	v := validation.NewWithClock(fixedClock(current))

	tests := []struct {
		value string
		valid bool
	}{
		{"", false},
		{"1899", false},
		{"1949", false},
		{"1950", true},
		{"2024", true},
		{strconv.Itoa(current + 10), true},
		{strconv.Itoa(current + 11), false},
		{"99", false},
		{"20a4", false},
		{"+202", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.valid, v.Validate(validation.FieldGraduationYear, tt.value).Valid)
		})
	}

	assert.Equal(t, "Year must be between 1950 and 2036", v.Validate(validation.FieldGraduationYear, "2040").Reason)
	assert.Equal(t, "Please enter a valid year (e.g., 2023)", v.Validate(validation.FieldGraduationYear, "99").Reason)
}

func TestValidateWallClockYear(t *testing.T) {
	v := validation.New()
	year := time.Now().Year()

	assert.True(t, v.Validate(validation.FieldGraduationYear, strconv.Itoa(year+10)).Valid)
	assert.False(t, v.Validate(validation.FieldGraduationYear, strconv.Itoa(year+11)).Valid)
}

func TestOptionalFieldsAlwaysValid(t *testing.T) {
	v := validation.New()

	for _, f := range []validation.Field{"company", "position", "portfolio", "skills", "description"} {
		assert.True(t, v.Validate(f, "").Valid, f)
		assert.True(t, v.Validate(f, "anything at all").Valid, f)
	}
}

func TestValidateIsIdempotent(t *testing.T) {
	v := validation.New()
	first := v.Validate(validation.FieldEmail, "nobody@")
	second := v.Validate(validation.FieldEmail, "nobody@")
	assert.Equal(t, first, second)
}

func TestVisibleErrors(t *testing.T) {
	outcomes := map[string]validation.Outcome{
		"firstName": {Valid: false, Reason: "First name is required"},
		"email":     {Valid: false, Reason: "Please enter a valid email address"},
		"phone":     {Valid: true},
	}

	t.Run("nothing touched shows nothing", func(t *testing.T) {
		assert.Empty(t, validation.VisibleErrors(map[string]bool{}, outcomes))
	})

	t.Run("only touched invalid fields", func(t *testing.T) {
		visible := validation.VisibleErrors(map[string]bool{"email": true, "phone": true}, outcomes)
		assert.Equal(t, map[string]string{"email": "Please enter a valid email address"}, visible)
	})
}
