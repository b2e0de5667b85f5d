package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `form:"fullname" validate:"required"`
	Born  string `form:"dob_ad" validate:"required,isodate"`
	Email string `json:"email" validate:"omitempty,email"`
}

func TestStruct_ReportsTagNames(t *testing.T) {
	errs, err := Struct(sample{Born: "2010-13-01", Email: "nope"})
	require.NoError(t, err)

	assert.ElementsMatch(t, []FieldError{
		{Field: "fullname", Tag: "required"},
		{Field: "dob_ad", Tag: "isodate"},
		{Field: "email", Tag: "email"},
	}, errs)
}

func TestStruct_Valid(t *testing.T) {
	errs, err := Struct(sample{Name: "Ram", Born: "2010-05-01"})
	require.NoError(t, err)
	assert.Empty(t, errs)
}

func TestISODate(t *testing.T) {
	cases := map[string]bool{
		"2010-05-01": true,
		"2024-02-29": true,
		"2023-02-29": false,
		"01/05/2010": false,
		"2010-5-1":   false,
	}
	for in, ok := range cases {
		errs, err := Struct(sample{Name: "x", Born: in})
		require.NoError(t, err)
		assert.Equal(t, ok, len(errs) == 0, in)
	}
}
