package session

// Session is the client-held credential state identifying an authenticated
// user: the opaque bearer token issued on OTP verification plus the
// onboarding-completion flag returned alongside it.
type Session struct {
	Token               string
	OnboardingCompleted bool
}

// State is the derived access level of a session.
type State int

const (
	// Unauthenticated means no token is held.
	Unauthenticated State = iota
	// AuthenticatedIncomplete means a token is held but onboarding has not
	// been completed; only the onboarding surfaces are accessible.
	AuthenticatedIncomplete
	// AuthenticatedComplete means a token is held and onboarding is done.
	AuthenticatedComplete
)

func (s State) String() string {
	switch s {
	case AuthenticatedIncomplete:
		return "authenticated_incomplete"
	case AuthenticatedComplete:
		return "authenticated_complete"
	default:
		return "unauthenticated"
	}
}

// State derives the access level from the held values.
func (s Session) State() State {
	if s.Token == "" {
		return Unauthenticated
	}
	if !s.OnboardingCompleted {
		return AuthenticatedIncomplete
	}
	return AuthenticatedComplete
}
