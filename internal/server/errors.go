package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/ats-resume/internal/schemas"
	"github.com/jonathan/ats-resume/internal/types"
)

// HTTPStatus returns the appropriate HTTP status code for an error.
// Template mismatches and export failures are server-side and map to 500.
func HTTPStatus(err error) int {
	var (
		malformed *types.InputMalformedError
		schemaErr *schemas.ValidationError
		fieldErrs validator.ValidationErrors
		tooLarge  *http.MaxBytesError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &malformed), errors.As(err, &schemaErr), errors.As(err, &fieldErrs):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// errorDetails renders err for the "details" field of an error response.
func errorDetails(err error) string {
	var schemaErr *schemas.ValidationError
	if errors.As(err, &schemaErr) {
		return strings.Join(schemaErr.Fields(), "; ")
	}
	return err.Error()
}
