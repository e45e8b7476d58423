package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	err := New(ErrCodeInvalidPerson, "person #%d: missing sex", 2)
	assert.Equal(t, ErrCodeInvalidPerson, err.Code)
	assert.Equal(t, "INVALID_PERSON: person #2: missing sex", err.Error())
	assert.Nil(t, errors.Unwrap(err))

	cause := errors.New("disk full")
	wrapped := Wrap(ErrCodeStorage, cause, "save family %s", "smiths")
	assert.Equal(t, "STORAGE_ERROR: save family smiths: disk full", wrapped.Error())
	assert.ErrorIs(t, wrapped, cause)
}

func TestIs(t *testing.T) {
	joined := errors.Join(
		errors.New("plain"),
		New(ErrCodeInvalidPerson, "person #0: missing key"),
		New(ErrCodeInvalidFamily, "no people"),
	)
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"matching code", New(ErrCodeInvalidInput, "x"), ErrCodeInvalidInput, true},
		{"other code", New(ErrCodeInvalidInput, "x"), ErrCodeStorage, false},
		{"outer code of wrap", Wrap(ErrCodeStorage, New(ErrCodeInvalidInput, "inner"), "outer"), ErrCodeStorage, true},
		{"inner code of wrap", Wrap(ErrCodeStorage, New(ErrCodeInvalidInput, "inner"), "outer"), ErrCodeInvalidInput, false},
		{"through fmt wrap", fmt.Errorf("layout: %w", New(ErrCodeInvalidOptions, "x")), ErrCodeInvalidOptions, true},
		{"first of join", joined, ErrCodeInvalidPerson, true},
		{"later branch of join", joined, ErrCodeInvalidFamily, true},
		{"plain error", errors.New("plain"), ErrCodeInvalidInput, false},
		{"nil", nil, ErrCodeInvalidInput, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Is(tt.err, tt.code))
		})
	}
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, ErrCodeInvalidPerson, GetCode(New(ErrCodeInvalidPerson, "x")))
	assert.Equal(t, ErrCodeFamilyNotFound, GetCode(fmt.Errorf("get: %w", New(ErrCodeFamilyNotFound, "x"))))
	assert.Equal(t, Code(""), GetCode(errors.New("plain")))
	assert.Equal(t, Code(""), GetCode(nil))
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"single", New(ErrCodeInvalidInput, "friendly message"), "friendly message"},
		{"drops cause", Wrap(ErrCodeStorage, errors.New("EOF"), "read family"), "read family"},
		{"plain", errors.New("plain error"), "plain error"},
		{
			"joined",
			fmt.Errorf("build: %w", errors.Join(
				New(ErrCodeInvalidPerson, "person #0: missing key"),
				New(ErrCodeInvalidPerson, "person #3: missing sex"),
			)),
			"person #0: missing key; person #3: missing sex",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}
