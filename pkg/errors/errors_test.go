package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransportError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *TransportError
		want string
	}{
		{
			name: "status and cause",
			err:  NewTransportError("update user", 500, stderrors.New("boom")),
			want: "update user: HTTP 500: boom",
		},
		{
			name: "status only",
			err:  NewTransportError("delete user", 404, nil),
			want: "delete user: HTTP 404",
		},
		{
			name: "network failure",
			err:  NewTransportError("list users", 0, stderrors.New("connection refused")),
			want: "list users: connection refused",
		},
		{
			name: "nothing known",
			err:  NewTransportError("create user", 0, nil),
			want: "create user: transport failure",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestTransportError_UnwrapAndTimeout(t *testing.T) {
	err := fmt.Errorf("failed to load users: %w", NewTransportError("list users", 0, context.DeadlineExceeded))

	assert.True(t, IsTransport(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	var te *TransportError
	assert.True(t, stderrors.As(err, &te))
	assert.True(t, te.Timeout())
	assert.False(t, NewTransportError("list users", 503, nil).Timeout())
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusOf(fmt.Errorf("wrapped: %w", NewNotFoundError("user", 7))))
	assert.Equal(t, http.StatusBadRequest, StatusOf(NewValidationError("id", "must be a number")))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(NewInternalError("db down", nil)))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(stderrors.New("plain")))
}

func TestValidationError_Error(t *testing.T) {
	assert.Equal(t, "validation failed: All fields are required", ErrFieldsRequired.Error())
	assert.Equal(t, "validation failed: field - unknown field", NewValidationError("field", "unknown field").Error())
	assert.True(t, IsValidation(fmt.Errorf("save: %w", ErrFieldsRequired)))
}
