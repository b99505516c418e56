package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/services"
)

// Envelope styles selectable with RESPONSE_ENVELOPE
const (
	EnvelopePlain    = "plain"
	EnvelopeStandard = "standard"
)

const maxResponseSize = 10 * 1024 * 1024

type Responder struct {
	logger   zerolog.Logger
	envelope string
}

func NewResponder(logger zerolog.Logger, envelope string) Responder {
	if envelope != EnvelopeStandard {
		envelope = EnvelopePlain
	}
	return Responder{logger: logger, envelope: envelope}
}

// standardEnvelope wraps success bodies when RESPONSE_ENVELOPE=standard
type standardEnvelope struct {
	Message    string `json:"message"`
	Data       any    `json:"data"`
	StatusCode int    `json:"status_code"`
}

// Respond writes a success response. With the standard envelope the payload
// is wrapped together with message and status.
func (r Responder) Respond(w http.ResponseWriter, status int, message string, payload any) {
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}
	if r.envelope == EnvelopeStandard {
		payload = standardEnvelope{Message: message, Data: payload, StatusCode: status}
	}
	r.WriteJSON(w, status, payload)
}

func (r Responder) WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if len(jsonData) > maxResponseSize {
		r.logger.Error().
			Int("responseSize", len(jsonData)).
			Int("maxSize", maxResponseSize).
			Msg("response too large")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Response too large","status":"error"}`))
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

// WriteError translates err into a status code and an error body. Faults
// that are not client errors are logged in full and reported generically.
func (r Responder) WriteError(w http.ResponseWriter, err error) {
	apiErr := toApiErr(err)

	if apiErr.StatusCode >= http.StatusInternalServerError {
		r.logger.Error().Str("error", apiErr.GetFullError()).Msg("request failed")
		r.WriteJSON(w, apiErr.StatusCode, ErrorResponse{
			Error:   "Internal Server Error",
			Message: "An unexpected error occurred",
			Status:  "error",
		})
		return
	}

	r.WriteJSON(w, apiErr.StatusCode, ErrorResponse{
		Error:   apiErr.Message(),
		Status:  "error",
		Field:   apiErr.Field,
		Details: apiErr.Details,
	})
}

// toApiErr maps service and repository errors onto HTTP errors
func toApiErr(err error) *errs.ApiErr {
	var (
		validation *services.ValidationError
		conflict   *services.ConflictError
		apiErr     *errs.ApiErr
	)
	switch {
	case errors.As(err, &validation):
		return errs.NewBadRequestErrorWithField(validation.Message, validation.Field, "")
	case errors.As(err, &conflict):
		return errs.NewBadRequestErrorWithField(conflict.Message, conflict.Field, "")
	case errors.Is(err, services.ErrInvalidCredentials):
		return errs.NewUnauthorizedError(services.ErrInvalidCredentials.Error())
	case errors.As(err, &apiErr):
		if errs.IsUniqueConstraintViolationError(apiErr) {
			return errs.NewBadRequestErrorWithField("A record with this "+apiErr.Field+" already exists", apiErr.Field, "")
		}
		return apiErr
	default:
		return errs.NewInternalErrorWithCause("internal server error", err)
	}
}
