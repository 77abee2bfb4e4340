package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUniqueID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{name: "valid id", id: "IE-001-K48213", wantErr: false},
		{name: "lower case letter", id: "IE-001-k48213", wantErr: true},
		{name: "four digits", id: "IE-001-K4821", wantErr: true},
		{name: "wrong prefix", id: "IE-002-K48213", wantErr: true},
		{name: "empty", id: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUniqueID(tt.id)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSafeFileStem(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "spaces become underscores", in: "Jane Doe", want: "Jane_Doe"},
		{name: "each space is replaced", in: "Mary  Ann Lee", want: "Mary__Ann_Lee"},
		{name: "surrounding whitespace trimmed", in: "  Jane Doe\t", want: "Jane_Doe"},
		{name: "path separators dropped", in: "../../etc/passwd", want: "etcpasswd"},
		{name: "unicode kept", in: "José Ñúñez", want: "José_Ñúñez"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SafeFileStem(tt.in))
		})
	}
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "Data Intern", SanitizeString(" Data\x00 Intern\x7f "))
}

func TestNewLogger(t *testing.T) {
	t.Run("writes to file sink", func(t *testing.T) {
		path := t.TempDir() + "/logs/app.log"
		logger, err := NewLogger(LoggerConfig{Level: "debug", OutputPath: path, Format: "json"})
		assert.NoError(t, err)
		logger.Info("hello")
		assert.NoError(t, logger.Sync())
		assert.FileExists(t, path)
	})

	t.Run("falls back to info on unknown level", func(t *testing.T) {
		logger, err := NewLogger(LoggerConfig{Level: "loud", OutputPath: "stderr", Format: "console"})
		assert.NoError(t, err)
		assert.False(t, logger.Core().Enabled(-1))
	})
}
