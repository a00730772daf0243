package utils

import (
	"testing"
	"time"

	"github.com/celaops/cela/pkg/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	token, err := CreateJWTToken(42, []string{"device:list", "su"}, "secret", time.Minute)
	require.NoError(t, err)

	claims, err := ParseJWTToken(token, "secret")
	require.NoError(t, err)
	assert.EqualValues(t, 42, claims.UserID)
	assert.Equal(t, []string{"device:list", "su"}, claims.Scopes)
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	token, err := CreateJWTToken(42, nil, "secret", time.Minute)
	require.NoError(t, err)

	_, err = ParseJWTToken(token, "other-secret")
	assert.ErrorIs(t, err, errs.ErrNotLoggedIn)
}

func TestJWTRejectsExpiredToken(t *testing.T) {
	token, err := CreateJWTToken(42, nil, "secret", -time.Minute)
	require.NoError(t, err)

	_, err = ParseJWTToken(token, "secret")
	assert.ErrorIs(t, err, errs.ErrExpiredToken)
}

func TestJWTRejectsGarbage(t *testing.T) {
	_, err := ParseJWTToken("not-a-token", "secret")
	assert.ErrorIs(t, err, errs.ErrNotLoggedIn)
}
