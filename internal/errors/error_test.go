package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Describe(t *testing.T) {
	errRefused := errors.New("connection refused")
	testCases := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "nil", err: nil, expected: ""},
		{
			name:     "validation message as is",
			err:      &ValidationError{Message: "Price must be a positive number."},
			expected: "Price must be a positive number.",
		},
		{
			name:     "not found",
			err:      &NotFoundError{ID: "9", StatusFailure: StatusFailure{Status: http.StatusNotFound, Reason: "Not Found"}},
			expected: "Product not found.",
		},
		{
			name:     "fetch status and reason",
			err:      &FetchError{StatusFailure{Status: 500, Reason: "Internal Server Error"}},
			expected: "500 Internal Server Error",
		},
		{
			name:     "delete status without reason",
			err:      &DeleteError{StatusFailure{Status: 599}},
			expected: "599",
		},
		{
			name:     "transport failure shows the cause",
			err:      &CreateError{StatusFailure{Err: errRefused}},
			expected: "connection refused",
		},
		{
			name:     "wrapped update error",
			err:      fmt.Errorf("update flow: %w", &UpdateError{StatusFailure{Status: 409, Reason: "Conflict"}}),
			expected: "409 Conflict",
		},
		{name: "foreign error", err: errRefused, expected: "connection refused"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Describe(tc.err))
		})
	}
}

func Test_NotFoundError_Is(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &NotFoundError{ID: "1", StatusFailure: StatusFailure{Status: 404}})

	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.False(t, errors.Is(&DeleteError{StatusFailure{Status: 404}}, ErrProductNotFound))
}

func Test_Unwrap(t *testing.T) {
	cause := errors.New("timeout")
	testCases := []error{
		&FetchError{StatusFailure{Err: cause}},
		&CreateError{StatusFailure{Err: cause}},
		&UpdateError{StatusFailure{Err: cause}},
		&DeleteError{StatusFailure{Err: cause}},
		&NotFoundError{ID: "1", StatusFailure: StatusFailure{Err: cause}},
	}
	for _, err := range testCases {
		assert.ErrorIs(t, err, cause, "%T", err)
	}
}
