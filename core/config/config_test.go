package config_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/highnoon/core/config"
)

type successConfig struct {
	Name  string `env:"HN_TEST_NAME" envDefault:"default"`
	Count int    `env:"HN_TEST_COUNT" envDefault:"42"`
	Debug bool   `env:"HN_TEST_DEBUG" envDefault:"true"`
}

type defaultsConfig struct {
	Name  string `env:"HN_TEST_DEFAULT_NAME" envDefault:"default"`
	Count int    `env:"HN_TEST_DEFAULT_COUNT" envDefault:"42"`
}

type cachedConfig struct {
	Value string `env:"HN_TEST_CACHED" envDefault:"first"`
}

type concurrentConfig struct {
	Value string `env:"HN_TEST_CONCURRENT" envDefault:"same"`
}

type requiredConfig struct {
	Value string `env:"HN_TEST_REQUIRED,required"`
}

type badIntConfig struct {
	Count int `env:"HN_TEST_BAD_INT"`
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("HN_TEST_NAME", "custom")
	t.Setenv("HN_TEST_COUNT", "7")
	t.Setenv("HN_TEST_DEBUG", "false")

	var cfg successConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, successConfig{Name: "custom", Count: 7, Debug: false}, cfg)
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.Get[defaultsConfig]()
	require.NoError(t, err)
	assert.Equal(t, "default", cfg.Name)
	assert.Equal(t, 42, cfg.Count)
}

func TestLoad_Cached(t *testing.T) {
	var first cachedConfig
	require.NoError(t, config.Load(&first))
	assert.Equal(t, "first", first.Value)

	t.Setenv("HN_TEST_CACHED", "second")

	var second cachedConfig
	require.NoError(t, config.Load(&second))
	assert.Equal(t, "first", second.Value)
}

func TestLoad_Concurrent(t *testing.T) {
	t.Parallel()

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var cfg concurrentConfig
			assert.NoError(t, config.Load(&cfg))
			assert.Equal(t, "same", cfg.Value)
		}()
	}
	wg.Wait()
}

func TestLoad_Errors(t *testing.T) {
	t.Run("nil pointer", func(t *testing.T) {
		assert.ErrorIs(t, config.Load[successConfig](nil), config.ErrNilPointer)
	})

	t.Run("missing required is not cached", func(t *testing.T) {
		var cfg requiredConfig
		assert.ErrorIs(t, config.Load(&cfg), config.ErrParsingConfig)

		t.Setenv("HN_TEST_REQUIRED", "now set")
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "now set", cfg.Value)
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Setenv("HN_TEST_BAD_INT", "not-a-number")
		var cfg badIntConfig
		assert.ErrorIs(t, config.Load(&cfg), config.ErrParsingConfig)
	})

	t.Run("must load panics", func(t *testing.T) {
		t.Setenv("HN_TEST_BAD_INT", "still-bad")
		assert.Panics(t, func() {
			var cfg badIntConfig
			config.MustLoad(&cfg)
		})
	})
}
