package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidURL(t *testing.T) {
	v := GetValidator()

	tests := []struct {
		url   string
		valid bool
	}{
		{"https://example.com", true},
		{"http://example.com/some/path?q=1#frag", true},
		{"ftp://files.example.com/archive.zip", true},
		{"example.com", false},
		{"http://", false},
		{"not a url", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.valid, v.IsValidURL(tt.url))
		})
	}
}

func TestVerifyEmail(t *testing.T) {
	v := GetValidator()

	assert.True(t, v.VerifyEmail("ada@example.com"))
	assert.False(t, v.VerifyEmail("ada"))
	assert.False(t, v.VerifyEmail("ada@"))
}

func TestNameValidation(t *testing.T) {
	v := GetValidator()

	type named struct {
		Name string `validate:"name_validation"`
	}

	for _, name := range []string{"Ada", "O'Brien", "Jean-Luc", "Zoë", "St. John", "Ὀδυσσεύς"} {
		assert.NoError(t, v.Validate.Struct(named{Name: name}), name)
	}
	for _, name := range []string{"Ada1", "<script>", "-Ada", " Ada", "a@b"} {
		assert.Error(t, v.Validate.Struct(named{Name: name}), name)
	}
}

func TestSanitizeData(t *testing.T) {
	v := GetValidator()

	type payload struct {
		Name     string `sanitize:"strict"`
		Password string
	}

	p := &payload{Name: "<b>Ada</b><script>alert(1)</script>", Password: "<b>kept</b>"}
	require.NoError(t, v.SanitizeData(p))

	assert.Equal(t, "Ada", p.Name)
	assert.Equal(t, "<b>kept</b>", p.Password)
}

func TestSanitizeDataKeepsPlainPunctuation(t *testing.T) {
	v := GetValidator()

	type payload struct {
		Name string `sanitize:"strict" validate:"name_validation"`
	}

	for _, name := range []string{"O'Brien", "D'Arcy-Smith", "St. John"} {
		p := &payload{Name: name}
		require.NoError(t, v.SanitizeData(p))
		assert.Equal(t, name, p.Name)
		assert.NoError(t, v.Validate.Struct(p), name)
	}
}

func TestSanitizeDataRequiresStructPointer(t *testing.T) {
	v := GetValidator()

	type payload struct {
		Name string `sanitize:"strict"`
	}

	assert.Error(t, v.SanitizeData(payload{Name: "Ada"}))
	assert.Error(t, v.SanitizeData("Ada"))
}
