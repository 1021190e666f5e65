package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndValidate(t *testing.T) {
	svc := NewIdentityService("secret", time.Hour)

	resp, err := svc.Issue()
	require.NoError(t, err)
	_, err = uuid.Parse(resp.ClientID)
	assert.NoError(t, err)

	claims, err := svc.Validate(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.ClientID, claims.ClientID)
	require.NotNil(t, claims.ExpiresAt)
}

func TestValidateRejectsForeignAndExpiredTokens(t *testing.T) {
	svc := NewIdentityService("secret", time.Hour)
	resp, err := svc.Issue()
	require.NoError(t, err)

	_, err = NewIdentityService("other", time.Hour).Validate(resp.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Validate("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.Validate(resp.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsOtherSigningMethods(t *testing.T) {
	svc := NewIdentityService("secret", 0)
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{"clientId": "c1"})
	signed, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = svc.Validate(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokensWithoutTTLNeverExpire(t *testing.T) {
	svc := NewIdentityService("secret", 0)
	resp, err := svc.Issue()
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().AddDate(5, 0, 0) }
	claims, err := svc.Validate(resp.Token)
	require.NoError(t, err)
	assert.Nil(t, claims.ExpiresAt)
}
