package types

import (
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsUserRequest_Validate(t *testing.T) {
	assert.NoError(t, (&MetricsUserRequest{ClientID: "c-123"}).Validate())

	err := (&MetricsUserRequest{}).Validate()
	require.Error(t, err)
	var ve validator.ValidationErrors
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "ClientID", ve[0].Field())

	assert.Error(t, (&MetricsUserRequest{ClientID: strings.Repeat("x", 201)}).Validate())
}

func TestHTMLExportRequest_Validate(t *testing.T) {
	assert.NoError(t, (&HTMLExportRequest{HTML: "<p>hi</p>"}).Validate())
	assert.Error(t, (&HTMLExportRequest{}).Validate())
	assert.Error(t, (&HTMLExportRequest{HTML: " \n\t "}).Validate(), "whitespace-only html is missing")
}

func TestNewValidator_RegistersNotBlank(t *testing.T) {
	var v *validator.Validate
	require.NotPanics(t, func() { v = newValidator() })
	assert.Error(t, v.Var("   ", "notblank"))
	assert.NoError(t, v.Var("x", "notblank"))
}
