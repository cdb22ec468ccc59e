package localstore

// Well-known keys. These mirror the browser local-storage keys of the
// original customer app one for one.
const (
	KeyToken                  = "token"
	KeyOnboardingCompleted    = "onboardingCompleted"
	KeyLastSelectedMeter      = "lastSelectedMeter"
	KeyInstallPromptDismissed = "installPromptDismissed"
)

// Store is the persistent local key-value store shared by the session,
// meter selection and install-prompt state.
//
// Semantics are deliberately weak: last-write-wins, no transactions, and no
// component owns a key beyond "read fresh before each decision". Writers
// must not cache reads across decisions.
type Store interface {
	// Get retrieves a value by key. Returns errors.ErrKeyNotFound when the
	// key is absent.
	Get(key string) (string, error)

	// Set stores a value under key, replacing any previous value.
	Set(key, value string) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(key string) error
}
