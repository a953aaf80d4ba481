package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitOrigins(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"single", "http://localhost:3000", []string{"http://localhost:3000"}},
		{
			"multiple with spaces",
			"http://localhost:3000, https://shop.maisonlux.com ,https://admin.maisonlux.com",
			[]string{"http://localhost:3000", "https://shop.maisonlux.com", "https://admin.maisonlux.com"},
		},
		{"trailing comma", "http://localhost:3000,", []string{"http://localhost:3000"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitOrigins(tt.raw))
		})
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("MAISONLUX_TEST_KEY", "value")
	assert.Equal(t, "value", getEnv("MAISONLUX_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", getEnv("MAISONLUX_TEST_MISSING", "fallback"))
}
