package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware" // For RequestID
)

// Envelope is the wire format every endpoint responds with: a success flag,
// a bilingual message pair, and optionally a data payload or a list of
// field-level validation errors.
type Envelope struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
	MessageSW string      `json:"message_sw,omitempty"`
	Errors    []string    `json:"errors,omitempty"`
	Data      interface{} `json:"data,omitempty"`
}

// SuccessResponse writes a success envelope with the localized pair for code
// and an optional data payload.
func SuccessResponse(w http.ResponseWriter, r *http.Request, status int, code MsgCode, data interface{}) {
	en, sw := Lookup(code)
	WriteJSONResponse(w, r, status, Envelope{
		Success:   true,
		Message:   en,
		MessageSW: sw,
		Data:      data,
	})
}

// DataResponse writes a success envelope carrying only data, no message
// pair. Used by plain reads.
func DataResponse(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	WriteJSONResponse(w, r, status, Envelope{
		Success: true,
		Data:    data,
	})
}

// ErrorResponse writes a failure envelope with the localized pair for code.
func ErrorResponse(w http.ResponseWriter, r *http.Request, status int, code MsgCode) {
	en, sw := Lookup(code)
	WriteJSONResponse(w, r, status, Envelope{
		Success:   false,
		Message:   en,
		MessageSW: sw,
	})
}

// ValidationErrorResponse writes the validation-failed envelope carrying the
// individual field messages.
func ValidationErrorResponse(w http.ResponseWriter, r *http.Request, fieldErrors []string) {
	en, sw := Lookup(MsgValidationFailed)
	WriteJSONResponse(w, r, http.StatusBadRequest, Envelope{
		Success:   false,
		Message:   en,
		MessageSW: sw,
		Errors:    fieldErrors,
	})
}

// WriteJSONResponse encodes the data to JSON and writes the response header and body.
func WriteJSONResponse(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}

	js, err := json.Marshal(data)
	if err != nil {
		reqID := middleware.GetReqID(r.Context())
		slog.ErrorContext(r.Context(), "Failed to marshal JSON response",
			slog.Any("error", err),
			slog.String("request_id", reqID),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err = w.Write(js); err != nil {
		reqID := middleware.GetReqID(r.Context())
		slog.ErrorContext(r.Context(), "Failed to write response body",
			slog.Any("error", err),
			slog.String("request_id", reqID),
		)
	}
}

// DecodeJSONBody reads and decodes a JSON request body safely.
func DecodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	// Cap the body size to prevent abuse (1MB).
	maxBytes := 1_048_576
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)

		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")

		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q (wanted %s)", unmarshalTypeError.Field, unmarshalTypeError.Type)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)

		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")

		case errors.As(err, &maxBytesError):
			return fmt.Errorf("body must not be larger than %d bytes", maxBytesError.Limit)

		case errors.As(err, &invalidUnmarshalError):
			panic(fmt.Errorf("developer error: invalid argument passed to json.Unmarshal: %w", err))

		default:
			return fmt.Errorf("error decoding JSON body: %w", err)
		}
	}

	// Reject trailing data after the first JSON object.
	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

// NormalizeEmail lower-cases and trims an email for use as the login key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail is a cheap structural check: one @ with something on both
// sides and a dot in the domain. Deliverability is not our problem.
func ValidEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	if strings.Contains(domain, "@") {
		return false
	}
	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1
}
