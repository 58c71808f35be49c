package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/MrJamesThe3rd/tally/internal/auth"
)

func TestIssuer_RoundTrip(t *testing.T) {
	issuer := auth.NewIssuer("secret", time.Hour)
	id := uuid.New()

	token, err := issuer.Issue(id, "ana@example.com")
	require.NoError(t, err)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
}

func TestIssuer_Verify(t *testing.T) {
	id := uuid.New()

	expired, err := auth.NewIssuer("secret", -time.Minute).Issue(id, "a@b.c")
	require.NoError(t, err)

	otherKey, err := auth.NewIssuer("other", time.Hour).Issue(id, "a@b.c")
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, auth.Claims{UserID: id}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{Email: "a@b.c"}).
		SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "Expired", token: expired, wantErr: auth.ErrTokenExpired},
		{name: "WrongKey", token: otherKey, wantErr: auth.ErrTokenInvalid},
		{name: "Garbage", token: "not-a-token", wantErr: auth.ErrTokenInvalid},
		{name: "AlgNone", token: none, wantErr: auth.ErrTokenInvalid},
		{name: "MissingUser", token: noUser, wantErr: auth.ErrTokenInvalid},
	}

	issuer := auth.NewIssuer("secret", time.Hour)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := issuer.Verify(tt.token)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestHasher(t *testing.T) {
	h := auth.NewHasher(bcrypt.MinCost)

	hash, err := h.Hash("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.True(t, h.Matches(hash, "hunter22"))
	assert.False(t, h.Matches(hash, "hunter23"))
	assert.False(t, h.Matches("not-a-hash", "hunter22"))
}
