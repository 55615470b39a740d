package validation_test

import (
	"testing"
	"time"

	"jobboard-api/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name      string    `json:"name" validate:"required,valid_name"`
	Email     string    `json:"email" validate:"required,email"`
	Phone     string    `json:"phone" validate:"valid_phone"`
	Level     string    `json:"level" validate:"omitempty,oneof=beginner expert"`
	StartDate time.Time `json:"startDate" validate:"required"`
	EndDate   time.Time `json:"endDate" validate:"required,gtefield=StartDate"`
}

func TestFormatValidationErrors(t *testing.T) {
	v := validation.New()
	now := time.Now()

	err := v.Struct(sample{
		Name:      "<b>",
		Email:     "nope",
		Phone:     "12",
		Level:     "guru",
		StartDate: now,
		EndDate:   now.Add(-time.Hour),
	})
	require.Error(t, err)

	fields := map[string]string{}
	for _, fe := range validation.FormatValidationErrors(err) {
		fields[fe.Field] = fe.Message
	}

	assert.Contains(t, fields["name"], "may only contain")
	assert.Equal(t, "must be a valid email address", fields["email"])
	assert.Contains(t, fields["phone"], "7-15 digits")
	assert.Equal(t, "must be one of: beginner, expert", fields["level"])
	assert.Equal(t, "must not be before startDate", fields["endDate"])
}

func TestRequiredUsesJSONNames(t *testing.T) {
	err := validation.New().Struct(sample{})
	require.Error(t, err)

	var names []string
	for _, fe := range validation.FormatValidationErrors(err) {
		names = append(names, fe.Field)
		if fe.Field == "email" {
			assert.Equal(t, "is required", fe.Message)
		}
	}
	assert.Contains(t, names, "name")
	assert.Contains(t, names, "email")
	assert.Contains(t, names, "startDate")
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "hello", validation.Sanitize("  <script>alert(1)</script>hello "))
	assert.Equal(t, []string{"a", "b"}, validation.SanitizeAll([]string{"<i>a</i>", "  ", "b"}))
	assert.Nil(t, validation.SanitizeAll(nil))
}

func TestSanitizeKeepsPlainText(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Conan O'Brien", "Conan O'Brien"},
		{"Smith & Sons", "Smith & Sons"},
		{`Tom's "quoted" 1 < 2`, `Tom's "quoted" 1 < 2`},
		{"R&D <b>lead</b>", "R&D lead"},
		{"<img src=x onerror=alert(1)>", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, validation.Sanitize(tc.in), tc.in)
	}
}

func TestSanitizedNamesStayValid(t *testing.T) {
	type person struct {
		Name string `json:"name" validate:"required,valid_name"`
	}
	v := validation.New()
	for _, name := range []string{"Conan O'Brien", "Smith & Sons", "Dr. Ana-María (PhD)"} {
		assert.NoError(t, v.Struct(person{Name: validation.Sanitize(name)}), name)
	}
}
