package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeUploadName(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
		ok       bool
	}{
		{"plain", "lookbook.png", "lookbook.png", true},
		{"uppercase extension", "campaign.JPG", "campaign.JPG", true},
		{"traversal", "../../evil.png", "evil.png", true},
		{"backslash path", `..\..\evil.png`, "evil.png", true},
		{"absolute path", "/etc/passwd.png", "passwd.png", true},
		{"disallowed extension", "malware.exe", "", false},
		{"no extension", "README", "", false},
		{"dot only", "..", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := sanitizeUploadName(tt.filename)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
