package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindStorage},
		{"plain error", errors.New("boom"), KindStorage},
		{"wrapped sentinel", fmt.Errorf("lookup: %w", ErrNoCurrentAcademicYear), KindConfiguration},
		{"exhausted band", ErrIdentifierBandExhausted, KindConfiguration},
		{"duplicate email", ErrEmailAlreadyExists, KindUserInput},
		{"student missing", ErrStudentNotFound, KindResolution},
		{"conflict", ErrAllocationConflict, KindRetryable},
		{"custom overrides sentinel", &CustomError{Kind: KindRetryable, Err: ErrValidationFailed}, KindRetryable},
		{"wrapped custom", fmt.Errorf("outer: %w", NewStorageError("x", errors.New("io"))), KindStorage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestCustomErrorUnwrapsSentinelAndCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewRetryableError("try again", cause)

	assert.True(t, errors.Is(err, ErrAllocationConflict))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "try again", err.Error())
}

func TestUserMessageHidesStorageFaults(t *testing.T) {
	storage := NewStorageError("internal detail", errors.New("pq: relation missing"))
	assert.Equal(t, "generic", UserMessage(storage, "generic"))
	assert.Equal(t, "generic", UserMessage(errors.New("raw"), "generic"))

	input := NewUserInputError(ErrValidationFailed, "Please fill in all required fields.", "email")
	assert.Equal(t, "Please fill in all required fields.", UserMessage(input, "generic"))
	assert.Equal(t, []string{"email"}, input.Fields)
}
