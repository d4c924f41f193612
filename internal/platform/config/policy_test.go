package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sello/internal/platform/config"
)

func TestDefaultPolicy(t *testing.T) {
	policy := config.DefaultPolicy()

	assert.Equal(t, 50, policy.MinDescriptionLength)
	assert.Equal(t, 1000, policy.MaxDescriptionLength)
	assert.Equal(t, 5, policy.MaxVerificationAttempts)
	assert.Equal(t, time.Hour, policy.ReverificationCooldown.Std())
	assert.NotEmpty(t, policy.CategoryKeywords["Limpieza"])
	assert.NotEmpty(t, policy.ProhibitedContent["armas"])
	assert.NotEmpty(t, policy.Stopwords)
}

func TestLoadPolicy(t *testing.T) {
	t.Run("empty path returns defaults", func(t *testing.T) {
		policy, err := config.LoadPolicy("")
		require.NoError(t, err)
		assert.Equal(t, config.DefaultPolicy().MinDescriptionLength, policy.MinDescriptionLength)
	})

	t.Run("file overrides defaults field by field", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "policy.yaml")
		raw := "min_description_length: 80\nreverification_cooldown: 30m\n"
		require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

		policy, err := config.LoadPolicy(path)
		require.NoError(t, err)

		assert.Equal(t, 80, policy.MinDescriptionLength)
		assert.Equal(t, 30*time.Minute, policy.ReverificationCooldown.Std())
		// Untouched fields keep defaults.
		assert.Equal(t, 1000, policy.MaxDescriptionLength)
		assert.NotEmpty(t, policy.CategoryKeywords)
	})

	t.Run("missing file errors", func(t *testing.T) {
		_, err := config.LoadPolicy(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("bad duration errors", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "policy.yaml")
		require.NoError(t, os.WriteFile(path, []byte("reverification_cooldown: later\n"), 0o600))

		_, err := config.LoadPolicy(path)
		assert.Error(t, err)
	})
}
