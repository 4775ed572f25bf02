package http

import (
	"testing"

	"github.com/go-playground/assert/v2"
)

type sampleBody struct {
	Destination string   `json:"destination" validate:"required"`
	Mode        string   `json:"mode" default:"active" validate:"oneof=active standby"`
	Tags        []string `json:"tags"`
}

func TestDecodeAndValidate(t *testing.T) {
	var ok sampleBody
	assert.Equal(t, 0, len(DecodeAndValidate([]byte(`{"destination":"U1"}`), &ok)))
	assert.Equal(t, "active", ok.Mode)

	var missing sampleBody
	errs := DecodeAndValidate([]byte(`{"mode":"active"}`), &missing)
	assert.Equal(t, 1, len(errs))
	assert.Equal(t, "ERR_REQUIRED", errs[0].Code)
	assert.Equal(t, "Destination", errs[0].Field)

	var bad sampleBody
	errs = DecodeAndValidate([]byte(`{"destination":"U1","mode":"sleep"}`), &bad)
	assert.Equal(t, "ERR_ONEOF", errs[0].Code)

	var broken sampleBody
	errs = DecodeAndValidate([]byte(`{`), &broken)
	assert.Equal(t, "ERR_UNKNOWN", errs[0].Code)
}
