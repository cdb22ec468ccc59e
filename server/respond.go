package server

import (
	"encoding/json"
	"net/http"

	"github.com/Abitto-org/user-app/api"
	apperrors "github.com/Abitto-org/user-app/internal/errors"
)

// response mirrors the upstream envelope shape so the shell only ever
// parses one format, whichever side of the gateway a payload came from.
type response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func (s *Server) respondData(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(response{Status: "success", Data: data})
}

func (s *Server) respondMessage(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(response{Status: "success", Message: message})
}

func (s *Server) respondFieldErrors(w http.ResponseWriter, fields FieldErrors) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(response{Status: "error", Message: "validation failed", Data: fields})
}

// respondError maps an upstream or internal error onto a gateway status
// code. Upstream API errors keep their original status and message.
func (s *Server) respondError(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	message := "internal error"

	var apiErr *api.Error
	switch {
	case apperrors.As(err, &apiErr):
		statusCode = apiErr.StatusCode
		message = apiErr.Message
	case apperrors.Is(err, apperrors.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		message = err.Error()
	case apperrors.Is(err, apperrors.ErrUnauthorized), apperrors.Is(err, apperrors.ErrNoSession):
		statusCode = http.StatusUnauthorized
		message = "unauthorized"
	case apperrors.Is(err, apperrors.ErrMeterNotOwned):
		statusCode = http.StatusForbidden
		message = "meter not owned by this account"
	case apperrors.Is(err, apperrors.ErrAPIUnavailable):
		statusCode = http.StatusBadGateway
		message = "upstream unavailable"
	case apperrors.Is(err, apperrors.ErrPollExhausted):
		statusCode = http.StatusGatewayTimeout
		message = "purchase still pending"
	case apperrors.Is(err, apperrors.ErrNotFound):
		statusCode = http.StatusNotFound
		message = "not found"
	}

	if statusCode >= http.StatusInternalServerError {
		s.logger.Error().Err(err).Msg("request failed")
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(response{Status: "error", Message: message})
}

// decodeBody parses a JSON request body into out, capped at 1MB.
func decodeBody(r *http.Request, out any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	if err := dec.Decode(out); err != nil {
		return apperrors.Wrapf(apperrors.ErrInvalidInput, "decoding request body: %v", err)
	}
	return nil
}
