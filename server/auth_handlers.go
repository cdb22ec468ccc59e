package server

import (
	"net/http"

	"github.com/Abitto-org/user-app/api"
)

type credentialsForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type otpForm struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
	Type  string `json:"type"`
}

// LoginHandler starts a sign-in. The upstream replies with a message only;
// the session is not created until the device OTP verifies.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form credentialsForm
		if err := decodeBody(r, &form); err != nil {
			s.respondError(w, err)
			return
		}
		if fe := validateCredentials(form.Email, form.Password); fe != nil {
			s.respondFieldErrors(w, fe)
			return
		}

		message, err := s.api.Signin(r.Context(), form.Email, form.Password)
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.respondMessage(w, http.StatusOK, message)
	}
}

func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form credentialsForm
		if err := decodeBody(r, &form); err != nil {
			s.respondError(w, err)
			return
		}
		if fe := validateCredentials(form.Email, form.Password); fe != nil {
			s.respondFieldErrors(w, fe)
			return
		}

		message, err := s.api.Signup(r.Context(), form.Email, form.Password)
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.respondMessage(w, http.StatusCreated, message)
	}
}

// VerifyOTPHandler exchanges a passcode for a bearer token and begins the
// session. This is the only place a session starts.
func (s *Server) VerifyOTPHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form otpForm
		if err := decodeBody(r, &form); err != nil {
			s.respondError(w, err)
			return
		}
		if form.Type == "" {
			form.Type = api.OTPLoginDeviceVerification
		}
		if fe := validateOTP(form.Email, form.OTP); fe != nil {
			s.respondFieldErrors(w, fe)
			return
		}

		result, err := s.api.VerifyOTP(r.Context(), form.Email, form.OTP, form.Type)
		if err != nil {
			s.respondError(w, err)
			return
		}

		// Gifting authorisation OTPs validate without issuing a token; only
		// auth OTPs seed a session.
		if result.Token != "" {
			if err := s.sessions.Begin(result.Token, result.OnboardingCompleted); err != nil {
				s.respondError(w, err)
				return
			}
		}

		next := RouteOnboarding
		if result.OnboardingCompleted {
			next = "/"
		}
		s.respondData(w, http.StatusOK, map[string]any{
			"validated":           result.Validated,
			"onboardingCompleted": result.OnboardingCompleted,
			"next":                next,
		})
	}
}

func (s *Server) ResendOTPHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form otpForm
		if err := decodeBody(r, &form); err != nil {
			s.respondError(w, err)
			return
		}
		if form.Type == "" {
			form.Type = api.OTPLoginDeviceVerification
		}
		if !isEmail(form.Email) {
			s.respondFieldErrors(w, FieldErrors{"email": "a valid email is required"})
			return
		}

		message, err := s.api.GenerateOTP(r.Context(), form.Email, form.Type)
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.respondMessage(w, http.StatusOK, message)
	}
}

// LogoutHandler ends the session wholesale and sends the user to login.
// The last selected meter survives a logout on purpose: signing back in
// lands on the same meter.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.sessions.End(); err != nil {
			s.respondError(w, err)
			return
		}
		http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
	}
}
