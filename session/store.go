package session

import (
	"errors"
	"strconv"

	apperrors "github.com/Abitto-org/user-app/internal/errors"
	"github.com/Abitto-org/user-app/localstore"
)

// Store is the single access path to the persisted session. All reads and
// writes go through its methods rather than ad hoc key lookups, so tests
// can inject a localstore.MemStore instead of the real file store.
//
// The backing store is authoritative; Store keeps no in-memory copy.
type Store struct {
	kv localstore.Store
}

func NewStore(kv localstore.Store) *Store {
	return &Store{kv: kv}
}

// Current reads the session fresh from the backing store. An absent or
// unreadable token yields an Unauthenticated session rather than an error:
// a broken store must never crash a guard decision.
func (st *Store) Current() Session {
	token, err := st.kv.Get(localstore.KeyToken)
	if err != nil {
		return Session{}
	}

	completed := false
	if flag, err := st.kv.Get(localstore.KeyOnboardingCompleted); err == nil {
		completed, _ = strconv.ParseBool(flag)
	}

	return Session{Token: token, OnboardingCompleted: completed}
}

// Begin replaces the session wholesale after a successful OTP verification.
func (st *Store) Begin(token string, onboardingCompleted bool) error {
	if token == "" {
		return apperrors.Wrapf(apperrors.ErrInvalidInput, "[Store Begin] empty token")
	}
	if err := st.kv.Set(localstore.KeyToken, token); err != nil {
		return apperrors.Wrapf(err, "[Store Begin] storing token")
	}
	if err := st.kv.Set(localstore.KeyOnboardingCompleted, strconv.FormatBool(onboardingCompleted)); err != nil {
		return apperrors.Wrapf(err, "[Store Begin] storing onboarding flag")
	}
	return nil
}

// CompleteOnboarding flips the onboarding flag after a successful
// onboarding submission. Requires an authenticated session.
func (st *Store) CompleteOnboarding() error {
	if _, err := st.kv.Get(localstore.KeyToken); err != nil {
		if errors.Is(err, apperrors.ErrKeyNotFound) {
			return apperrors.ErrNoSession
		}
		return apperrors.Wrapf(err, "[Store CompleteOnboarding] reading token")
	}
	if err := st.kv.Set(localstore.KeyOnboardingCompleted, "true"); err != nil {
		return apperrors.Wrapf(err, "[Store CompleteOnboarding] storing flag")
	}
	return nil
}

// End clears both stored values, returning to Unauthenticated. Ending an
// absent session is a no-op.
func (st *Store) End() error {
	if err := st.kv.Delete(localstore.KeyToken); err != nil {
		return apperrors.Wrapf(err, "[Store End] clearing token")
	}
	if err := st.kv.Delete(localstore.KeyOnboardingCompleted); err != nil {
		return apperrors.Wrapf(err, "[Store End] clearing onboarding flag")
	}
	return nil
}
