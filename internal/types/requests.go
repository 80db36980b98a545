package types

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MetricsUserRequest registers a client identifier with the metrics collaborator.
type MetricsUserRequest struct {
	ClientID string `json:"clientId" validate:"required,max=200"`
}

// MetricsUserResponse reports whether the identifier was counted as new.
type MetricsUserResponse struct {
	OK      bool `json:"ok"`
	Counted bool `json:"counted"`
}

// MetricsTotalsResponse is the aggregate counter view.
type MetricsTotalsResponse struct {
	UsersTotal int64 `json:"usersTotal"`
	PDFsTotal  int64 `json:"pdfsTotal"`
}

// HTMLExportRequest asks for a raw HTML document to be printed to PDF.
type HTMLExportRequest struct {
	HTML string `json:"html" validate:"required,notblank"`
}

// ErrorResponse is the JSON body written for failed requests.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// notblank rejects whitespace-only strings
	if err := v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}); err != nil {
		panic(fmt.Sprintf("failed to register notblank validation: %v", err))
	}
	return v
}

// Validate validates the MetricsUserRequest using the validator.
func (r *MetricsUserRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the HTMLExportRequest using the validator.
func (r *HTMLExportRequest) Validate() error {
	return validate.Struct(r)
}
