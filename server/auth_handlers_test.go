package server_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Abitto-org/user-app/server"
	"github.com/Abitto-org/user-app/session"
)

func TestLoginForwardsCredentialsAndReportsOTP(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPost, server.RouteLogin, `{"email":"a@b.com","password":"password1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "OTP sent")

	// No session exists until the OTP verifies.
	require.Equal(t, session.Unauthenticated, h.sessions.Current().State())
}

func TestLoginRejectsInvalidForm(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPost, server.RouteLogin, `{"email":"not-an-email","password":"short"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "email")
	require.Contains(t, rec.Body.String(), "password")
	require.Equal(t, session.Unauthenticated, h.sessions.Current().State())
}

func TestVerifyOTPBeginsSession(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPost, server.RouteVerifyOTP, `{"email":"a@b.com","otp":"123456"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	current := h.sessions.Current()
	require.Equal(t, session.AuthenticatedComplete, current.State())
	require.Equal(t, "backend-token", current.Token)

	data := decodeData(t, rec)
	require.Equal(t, true, data["onboardingCompleted"])
	require.Equal(t, "/", data["next"])
}

func TestVerifyOTPRejectsMalformedCode(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPost, server.RouteVerifyOTP, `{"email":"a@b.com","otp":"12ab56"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, session.Unauthenticated, h.sessions.Current().State())
}

func TestLogoutEndsSessionWholesale(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.sessions.Begin("tok", true))

	rec := h.do(t, http.MethodPost, server.RouteLogout, "")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, server.RouteLogin, rec.Header().Get("Location"))
	require.Equal(t, session.Unauthenticated, h.sessions.Current().State())
}

func TestOnboardingCompletionFlipsSessionState(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.sessions.Begin("tok", false))

	body := `{"firstName":"Ada","lastName":"Obi","gender":"FEMALE","phoneNumber":"08012345678",` +
		`"nin":"12345678901","estateId":"e1","houseNumber":"4B"}`
	rec := h.do(t, http.MethodPost, server.RouteOnboarding, body)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, session.AuthenticatedComplete, h.sessions.Current().State())
}
