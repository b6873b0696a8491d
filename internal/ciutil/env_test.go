package ciutil

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func clearCIEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{EnvCI, EnvGitHubActions, EnvGitLabCI, EnvJenkinsURL, EnvCircleCI} {
		t.Setenv(name, "")
	}
}

func TestIsCI(t *testing.T) {
	tests := []struct {
		name     string
		envVar   string
		expected bool
	}{
		{"no CI variables", "", false},
		{"generic CI", EnvCI, true},
		{"GitHub Actions", EnvGitHubActions, true},
		{"GitLab CI", EnvGitLabCI, true},
		{"Jenkins", EnvJenkinsURL, true},
		{"CircleCI", EnvCircleCI, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clearCIEnv(t)
			if tc.envVar != "" {
				t.Setenv(tc.envVar, "true")
			}
			assert.Equal(t, tc.expected, IsCI())
		})
	}
}

func TestGetEnvWithFallbacks(t *testing.T) {
	vars := []string{"RADAR_CIUTIL_PRIMARY", "RADAR_CIUTIL_SECONDARY"}

	t.Run("default when unset", func(t *testing.T) {
		t.Setenv(vars[0], "")
		t.Setenv(vars[1], "")
		assert.Equal(t, "fallback", GetEnvWithFallbacks(vars, "fallback", nil))
	})

	t.Run("primary wins", func(t *testing.T) {
		t.Setenv(vars[0], "primary")
		t.Setenv(vars[1], "secondary")
		assert.Equal(t, "primary", GetEnvWithFallbacks(vars, "", nil))
	})

	t.Run("secondary is logged", func(t *testing.T) {
		t.Setenv(vars[0], "")
		t.Setenv(vars[1], "secondary")

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

		assert.Equal(t, "secondary", GetEnvWithFallbacks(vars, "", logger))
		assert.Contains(t, buf.String(), "preferred_var=RADAR_CIUTIL_PRIMARY")
		assert.NotContains(t, buf.String(), "value=")
	})
}
