package shared

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	Name  string `json:"name"  validate:"required"`
	Count int    `json:"count" validate:"gte=0"`
}

type selfValidating struct {
	called *bool
}

func (s selfValidating) Validate() error {
	*s.called = true
	return nil
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	t.Run("valid body", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest("POST", "/", bytes.NewBufferString(`{"name":"ciao","count":3}`))

		var payload samplePayload
		require.NoError(t, DecodeJSON(r, &payload))
		assert.Equal(t, "ciao", payload.Name)
		assert.Equal(t, 3, payload.Count)
	})

	t.Run("malformed body", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest("POST", "/", bytes.NewBufferString(`{"name":`))

		var payload samplePayload
		assert.Error(t, DecodeJSON(r, &payload))
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest("POST", "/", bytes.NewBufferString(`{"name":"ciao","bogus":true}`))

		var payload samplePayload
		assert.Error(t, DecodeJSON(r, &payload))
	})
}

func TestValidateRequest(t *testing.T) {
	t.Parallel()

	t.Run("struct tags", func(t *testing.T) {
		t.Parallel()
		assert.Error(t, ValidateRequest(samplePayload{Count: -1}))
		assert.NoError(t, ValidateRequest(samplePayload{Name: "ciao"}))
	})

	t.Run("custom Validate method takes precedence", func(t *testing.T) {
		t.Parallel()
		called := false
		assert.NoError(t, ValidateRequest(selfValidating{called: &called}))
		assert.True(t, called)
	})
}
