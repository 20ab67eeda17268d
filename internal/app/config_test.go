package app

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Run("accepts supported extensions", func(t *testing.T) {
		for _, path := range []string{"p.hcl", "p.yaml", "p.yml", "p.json", "projects"} {
			_, err := NewConfig(Config{ProjectPath: path})
			assert.NoError(t, err, "path %q", path)
		}
	})

	t.Run("rejects bad input", func(t *testing.T) {
		testCases := []struct {
			name string
			cfg  Config
		}{
			{"empty path", Config{}},
			{"unsupported extension", Config{ProjectPath: "p.toml"}},
			{"bad log level", Config{ProjectPath: "p.yaml", LogLevel: "verbose"}},
			{"bad log format", Config{ProjectPath: "p.yaml", LogFormat: "xml"}},
			{"negative cap", Config{ProjectPath: "p.yaml", MaxVectors: -1}},
		}
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := NewConfig(tc.cfg)
				require.Error(t, err)
			})
		}
	})
}

func TestParseLogLevel(t *testing.T) {
	testCases := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"Error", slog.LevelError},
	}
	for _, tc := range testCases {
		level, err := parseLogLevel(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, level, "input %q", tc.in)
	}

	_, err := parseLogLevel("verbose")
	assert.Error(t, err)
}

func TestParseLogFormat(t *testing.T) {
	for _, in := range []string{"", "text", "json", "JSON"} {
		_, err := parseLogFormat(in)
		assert.NoError(t, err, "input %q", in)
	}
	_, err := parseLogFormat("xml")
	assert.Error(t, err)
}
