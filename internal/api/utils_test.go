package api

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "asha@example.com", NormalizeEmail("  Asha@Example.COM "))
	assert.Equal(t, "asha@example.com", NormalizeEmail("asha@example.com"))
}

func TestValidEmail(t *testing.T) {
	valid := []string{"a@b.co", "user.name@sub.domain.org", "x+tag@example.com"}
	for _, email := range valid {
		assert.True(t, ValidEmail(email), email)
	}

	invalid := []string{"", "plain", "@no-local.com", "no-at.com", "user@", "user@nodot", "user@.com", "a@b@c.com"}
	for _, email := range invalid {
		assert.False(t, ValidEmail(email), email)
	}
}

func TestLookup(t *testing.T) {
	en, sw := Lookup(MsgInvalidCredentials)
	assert.Equal(t, "Invalid email or password", en)
	assert.Equal(t, "Barua pepe au nenosiri si sahihi", sw)

	// Unknown codes fall back to the internal error pair.
	en, sw = Lookup(MsgCode("no_such_code"))
	assert.Equal(t, "Internal server error", en)
	assert.Equal(t, "Hitilafu ya ndani ya seva", sw)
}

func TestDecodeJSONBody(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	t.Run("Valid", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Asha"}`))
		var p payload
		require.NoError(t, DecodeJSONBody(httptest.NewRecorder(), req, &p))
		assert.Equal(t, "Asha", p.Name)
	})

	t.Run("Empty", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(""))
		var p payload
		err := DecodeJSONBody(httptest.NewRecorder(), req, &p)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must not be empty")
	})

	t.Run("Malformed", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":`))
		var p payload
		assert.Error(t, DecodeJSONBody(httptest.NewRecorder(), req, &p))
	})

	t.Run("TrailingData", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"a"}{"name":"b"}`))
		var p payload
		err := DecodeJSONBody(httptest.NewRecorder(), req, &p)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "single JSON value")
	})
}
