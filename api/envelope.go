package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/Abitto-org/user-app/internal/errors"
)

// envelope is the uniform `{status, message, data}` wrapper every backend
// response arrives in. Data stays raw until the endpoint method decodes it
// into its own shape.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Error is a failed API response surfaced to callers. The dispatcher never
// interprets it; handling (forced logout, user notice) is the caller's
// concern.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.StatusCode)
}

// Unwrap maps auth failures onto the sentinel so callers can errors.Is them.
func (e *Error) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden {
		return apperrors.ErrUnauthorized
	}
	return nil
}

// decodeEnvelope reads the response body, maps non-2xx statuses to *Error
// (using the envelope message when one is present), and returns the
// envelope otherwise.
func decodeEnvelope(resp *http.Response) (*envelope, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, apperrors.Wrapf(err, "[decodeEnvelope] reading body")
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		if resp.StatusCode >= 400 {
			return nil, &Error{StatusCode: resp.StatusCode}
		}
		return nil, apperrors.Wrapf(apperrors.ErrBadEnvelope, "[decodeEnvelope] %v", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &Error{StatusCode: resp.StatusCode, Message: env.Message}
	}

	return &env, nil
}

// decodeData unmarshals the envelope data into out. An absent data field is
// only an error when the endpoint expects one.
func (env *envelope) decodeData(out any) error {
	if len(env.Data) == 0 {
		return apperrors.Wrapf(apperrors.ErrBadEnvelope, "[decodeData] missing data field")
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return apperrors.Wrapf(apperrors.ErrBadEnvelope, "[decodeData] %v", err)
	}
	return nil
}
