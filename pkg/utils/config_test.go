package utils

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Run("with nil values", func(t *testing.T) {
		config := NewConfig(nil)
		require.NotNil(t, config)
		assert.Len(t, config.Keys(), 0)
	})

	t.Run("with values", func(t *testing.T) {
		values := map[string]string{
			"APPS_SCRIPT_URL": "https://script.google.com/macros/s/abc/exec",
			"API_PORT":        "9090",
		}
		config := NewConfig(values)

		assert.Equal(t, "9090", config.Get("API_PORT"))

		// Verify it's a copy, not a reference
		values["API_PORT"] = "modified"
		assert.Equal(t, "9090", config.Get("API_PORT"))
	})
}

func TestNewConfigFromEnv(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, ".env")
	second := filepath.Join(dir, ".env.local")

	require.NoError(t, os.WriteFile(first, []byte("HQ_TEST_MODEL=first\nHQ_TEST_PORT=8080\n"), 0644))
	require.NoError(t, os.WriteFile(second, []byte("HQ_TEST_MODEL=second\n"), 0644))

	t.Setenv("HQ_TEST_PORT", "7070")

	config := NewConfigFromEnv(first, second, filepath.Join(dir, "missing.env"))

	assert.Equal(t, "second", config.Get("HQ_TEST_MODEL"), "later files win")
	assert.Equal(t, "7070", config.Get("HQ_TEST_PORT"), "environment wins over files")
}

func TestConfigGetters(t *testing.T) {
	config := NewConfig(map[string]string{
		"existing": "value",
		"empty":    "",
		"on":       "yes",
		"off":      "0",
		"garbage":  "maybe",
		"number":   " 42 ",
		"bad":      "forty",
	})

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"get existing", config.Get("existing"), "value"},
		{"get missing", config.Get("missing"), ""},
		{"default on empty", config.GetWithDefault("empty", "fallback"), "fallback"},
		{"default on missing", config.GetWithDefault("missing", "fallback"), "fallback"},
		{"default unused", config.GetWithDefault("existing", "fallback"), "value"},
		{"bool yes", config.GetBool("on"), true},
		{"bool zero", config.GetBool("off"), false},
		{"bool garbage", config.GetBool("garbage"), false},
		{"int trimmed", config.GetInt("number"), 42},
		{"int invalid default", config.GetIntWithDefault("bad", 7), 7},
		{"int missing default", config.GetIntWithDefault("missing", 3), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestConfigSetUnsetHas(t *testing.T) {
	config := NewConfig(nil)

	assert.False(t, config.Has("APPS_SCRIPT_URL"))

	config.Set("APPS_SCRIPT_URL", "https://script.google.com/x")
	assert.True(t, config.Has("APPS_SCRIPT_URL"))

	config.Set("APPS_SCRIPT_URL", "")
	assert.False(t, config.Has("APPS_SCRIPT_URL"), "empty values do not count as set")

	config.Set("APPS_SCRIPT_URL", "https://script.google.com/y")
	config.Unset("APPS_SCRIPT_URL")
	assert.False(t, config.Has("APPS_SCRIPT_URL"))
}

func TestConfigRequire(t *testing.T) {
	config := NewConfig(map[string]string{"API_KEY": "secret", "MODEL": ""})

	assert.NoError(t, config.Require("API_KEY"))

	err := config.Require("API_KEY", "MODEL", "GEMINI_API_KEY")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MODEL, GEMINI_API_KEY")
}

func TestConfigKeysAndClone(t *testing.T) {
	config := NewConfig(map[string]string{"b": "2", "a": "1"})
	assert.Equal(t, []string{"a", "b"}, config.Keys())

	clone := config.Clone()
	clone.Set("a", "changed")
	assert.Equal(t, "1", config.Get("a"))
	assert.Equal(t, "changed", clone.Get("a"))
}

func TestConfigConcurrentAccess(t *testing.T) {
	config := NewConfig(nil)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			config.Set("APPS_SCRIPT_URL", "https://script.google.com/"+string(rune('a'+i%26)))
		}()
		go func() {
			defer wg.Done()
			_ = config.Has("APPS_SCRIPT_URL")
		}()
	}
	wg.Wait()

	assert.True(t, config.Has("APPS_SCRIPT_URL"))
}
