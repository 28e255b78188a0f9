package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError_MatchesSentinel(t *testing.T) {
	err := fmt.Errorf("reserve: %w", NewValidationError("range exceeds %d days", 14))

	require.ErrorIs(t, err, ErrValidation)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "range exceeds 14 days", ve.Reason)
	assert.Equal(t, "validation error: range exceeds 14 days", ve.Error())
}

func TestRemoteError_UnwrapByStatus(t *testing.T) {
	tests := []struct {
		code int
		want error
	}{
		{401, ErrUnauthorized},
		{403, ErrUnauthorized},
		{404, ErrNotFound},
		{409, ErrUnavailable},
		{500, ErrUnavailable},
	}

	for _, tc := range tests {
		t.Run(fmt.Sprint(tc.code), func(t *testing.T) {
			err := &RemoteError{StatusCode: tc.code}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestRemoteError_MessagePrecedence(t *testing.T) {
	assert.Equal(t, "remote error: HTTP 409: busy", (&RemoteError{StatusCode: 409, Body: `{"komunikat":"busy"}`, Message: "busy"}).Error())
	assert.Equal(t, "remote error: HTTP 500: boom", (&RemoteError{StatusCode: 500, Body: "boom"}).Error())
	assert.Equal(t, "remote error: HTTP 502", (&RemoteError{StatusCode: 502}).Error())
}

func TestWipeByteArray(t *testing.T) {
	b := []byte("secret")
	WipeByteArray(b)
	assert.Equal(t, make([]byte, 6), b)

	assert.NotPanics(t, func() { WipeByteArray(nil) })
}

func TestIsCredentialsRejected(t *testing.T) {
	assert.True(t, IsCredentialsRejected(&RemoteError{StatusCode: 401}))
	assert.True(t, IsCredentialsRejected(fmt.Errorf("me: %w", &RemoteError{StatusCode: 401})))
	assert.False(t, IsCredentialsRejected(&RemoteError{StatusCode: 403}))
	assert.False(t, IsCredentialsRejected(ErrUnauthorized))
	assert.False(t, IsCredentialsRejected(nil))
}
