package pkg

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Athena_Nexus/internal/model"
)

func TestNewTokenServiceRequiresSecret(t *testing.T) {
	_, err := NewTokenService("", time.Hour)
	assert.ErrorIs(t, err, ErrSecretMissing)

	s, err := NewTokenService("k", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTokenTTL, s.TTL())
}

func TestTokenRoundTrip(t *testing.T) {
	s, err := NewTokenService("test-secret", time.Hour)
	require.NoError(t, err)

	tok, err := s.Issue(42, model.RoleAdmin)
	require.NoError(t, err)

	claims, err := s.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, model.RoleAdmin, claims.Role)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestTokenExpired(t *testing.T) {
	s, err := NewTokenService("test-secret", time.Hour)
	require.NoError(t, err)
	base := time.Now()
	s.now = func() time.Time { return base }

	tok, err := s.Issue(1, model.RoleMember)
	require.NoError(t, err)

	s.now = func() time.Time { return base.Add(59 * time.Minute) }
	_, err = s.Verify(tok)
	assert.NoError(t, err)

	s.now = func() time.Time { return base.Add(61 * time.Minute) }
	_, err = s.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenWrongKeyOrGarbage(t *testing.T) {
	a, _ := NewTokenService("key-a", time.Hour)
	b, _ := NewTokenService("key-b", time.Hour)

	tok, err := a.Issue(1, model.RoleMember)
	require.NoError(t, err)

	_, err = b.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = a.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenRejectsOtherAlgAndRole(t *testing.T) {
	s, _ := NewTokenService("test-secret", time.Hour)
	exp := jwt.NewNumericDate(time.Now().Add(time.Hour))

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 1, Role: model.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: exp}})
	raw, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = s.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)

	hs512 := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{UserID: 1, Role: model.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: exp}})
	raw, err = hs512.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = s.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)

	bogus := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: 1, Role: "root",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: exp}})
	raw, err = bogus.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = s.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: 1, Role: model.RoleMember})
	raw, err = noExp.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = s.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
