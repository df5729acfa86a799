package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntFromEnv(t *testing.T) {
	for input, output := range map[string]int{"100": 100, "-100": -100} {
		t.Setenv("SIMPLYDICOM_TEST", input)
		val, found := intFromEnv("SIMPLYDICOM_TEST")
		assert.True(t, found)
		assert.Equal(t, output, val)
	}
	// not an integer
	t.Setenv("SIMPLYDICOM_TEST", "ten")
	_, found := intFromEnv("SIMPLYDICOM_TEST")
	assert.False(t, found)
	assert.Equal(t, 9000, intFromEnvDefault("SIMPLYDICOM_TEST", 9000))
}

func TestInt64FromEnvDefault(t *testing.T) {
	t.Setenv("SIMPLYDICOM_TEST", "-9223372036854775808")
	assert.Equal(t, int64(-9223372036854775808), int64FromEnvDefault("SIMPLYDICOM_TEST", 7))
	t.Setenv("SIMPLYDICOM_TEST", "x")
	assert.Equal(t, int64(7), int64FromEnvDefault("SIMPLYDICOM_TEST", 7))
	assert.Equal(t, int64(7), int64FromEnvDefault("SIMPLYDICOM_TEST_UNSET", 7))
}

func TestStrFromEnv(t *testing.T) {
	for _, input := range []string{"ascii", "-100", "中文"} {
		t.Setenv("SIMPLYDICOM_TEST", input)
		val, found := strFromEnv("SIMPLYDICOM_TEST")
		assert.True(t, found)
		assert.Equal(t, input, val)
	}
	assert.Equal(t, "ascii", strFromEnvDefault("SIMPLYDICOM_TEST_UNSET", "ascii"))
}

func TestBoolFromEnv(t *testing.T) {
	for input, output := range map[string]bool{"true": true, "1": true, "false": false, "0": false} {
		t.Setenv("SIMPLYDICOM_TEST", input)
		val, found := boolFromEnv("SIMPLYDICOM_TEST")
		assert.True(t, found)
		assert.Equal(t, output, val)
	}
	t.Setenv("SIMPLYDICOM_TEST", "maybe")
	assert.True(t, boolFromEnvDefault("SIMPLYDICOM_TEST", true))
}

func TestGetConfig(t *testing.T) {
	t.Setenv("SIMPLYDICOM_BUFFERSIZE", "4096")
	t.Setenv("SIMPLYDICOM_STRICTMODE", "true")
	t.Setenv("SIMPLYDICOM_SALT", "12345")
	t.Setenv("SIMPLYDICOM_LOGLEVEL", "WARN")
	t.Setenv("SIMPLYDICOM_OPENFILELIMIT", "8")
	resetConfig()
	defer resetConfig()

	config := GetConfig()
	assert.Equal(t, Version, config.Version)
	assert.Equal(t, 4096, config.BufferSize)
	assert.True(t, config.StrictMode)
	assert.Equal(t, int64(12345), config.Salt)
	assert.Equal(t, "warn", config.LogLevel)
	assert.Equal(t, 8, config.OpenFileLimit)

	// not re-read once set
	t.Setenv("SIMPLYDICOM_BUFFERSIZE", "8")
	assert.Equal(t, 4096, GetConfig().BufferSize)
}

func TestGetConfigDefaults(t *testing.T) {
	for _, key := range []string{"SIMPLYDICOM_BUFFERSIZE", "SIMPLYDICOM_STRICTMODE", "SIMPLYDICOM_SALT", "SIMPLYDICOM_LOGLEVEL", "SIMPLYDICOM_OPENFILELIMIT"} {
		t.Setenv(key, "")
	}
	// empty values are not numbers: defaults apply, except the level which must be valid
	t.Setenv("SIMPLYDICOM_LOGLEVEL", "info")
	resetConfig()
	defer resetConfig()

	config := GetConfig()
	assert.Equal(t, DefaultBufferSize, config.BufferSize)
	assert.False(t, config.StrictMode)
	assert.Equal(t, int64(0), config.Salt)
	assert.Equal(t, 64, config.OpenFileLimit)
}

func TestGetConfigInvalidLevel(t *testing.T) {
	t.Setenv("SIMPLYDICOM_LOGLEVEL", "verbose")
	resetConfig()
	defer resetConfig()
	assert.Panics(t, func() { GetConfig() })
}

func TestOverrideConfig(t *testing.T) {
	resetConfig()
	defer resetConfig()
	OverrideConfig(Config{BufferSize: 16, LogLevel: "error"})
	assert.Equal(t, 16, GetConfig().BufferSize)
	assert.Equal(t, ParseLevel("error"), logLevel.Level())
	SetLoggingLevel("info")
}
