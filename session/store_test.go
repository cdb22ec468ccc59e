package session_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Abitto-org/user-app/internal/errors"
	"github.com/Abitto-org/user-app/localstore"
	"github.com/Abitto-org/user-app/session"
)

func newStore(t *testing.T) *session.Store {
	t.Helper()
	return session.NewStore(localstore.NewMemStore())
}

func TestStateMachine(t *testing.T) {
	st := newStore(t)

	// Fresh store: unauthenticated
	require.Equal(t, session.Unauthenticated, st.Current().State())

	// OTP verification: unauthenticated → authenticated (incomplete)
	require.NoError(t, st.Begin("token-abc", false))
	require.Equal(t, session.AuthenticatedIncomplete, st.Current().State())

	// Onboarding submission: incomplete → complete
	require.NoError(t, st.CompleteOnboarding())
	require.Equal(t, session.AuthenticatedComplete, st.Current().State())

	// Logout: any state → unauthenticated, both values cleared
	require.NoError(t, st.End())
	current := st.Current()
	require.Equal(t, session.Unauthenticated, current.State())
	require.Empty(t, current.Token)
	require.False(t, current.OnboardingCompleted)
}

func TestBeginReplacesWholesale(t *testing.T) {
	st := newStore(t)

	require.NoError(t, st.Begin("first", true))
	require.NoError(t, st.Begin("second", false))

	current := st.Current()
	require.Equal(t, "second", current.Token)
	require.False(t, current.OnboardingCompleted)
	require.Equal(t, session.AuthenticatedIncomplete, current.State())
}

func TestBeginRejectsEmptyToken(t *testing.T) {
	st := newStore(t)
	require.Error(t, st.Begin("", true))
	require.Equal(t, session.Unauthenticated, st.Current().State())
}

func TestCompleteOnboardingWithoutSession(t *testing.T) {
	st := newStore(t)
	require.ErrorIs(t, st.CompleteOnboarding(), apperrors.ErrNoSession)
}

func TestEndWithoutSessionIsNoop(t *testing.T) {
	st := newStore(t)
	require.NoError(t, st.End())
}

func TestTokenInfo(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "user-1",
		"email": "ada@example.com",
		"exp":   exp.Unix(),
	})
	signed, err := token.SignedString([]byte("remote-secret"))
	require.NoError(t, err)

	info, err := session.Session{Token: signed}.TokenInfo()
	require.NoError(t, err)
	require.Equal(t, "user-1", info.Subject)
	require.Equal(t, "ada@example.com", info.Email)
	require.True(t, exp.Equal(info.ExpiresAt))
	require.False(t, info.Expired(time.Now()))
	require.True(t, info.Expired(exp.Add(time.Minute)))
}

func TestTokenInfoMalformed(t *testing.T) {
	_, err := session.Session{Token: "not-a-jwt"}.TokenInfo()
	require.ErrorIs(t, err, apperrors.ErrTokenMalformed)
}

func TestTokenInfoNoSession(t *testing.T) {
	_, err := session.Session{}.TokenInfo()
	require.ErrorIs(t, err, apperrors.ErrNoSession)
}
