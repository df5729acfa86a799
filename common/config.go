package common

import (
	"os"
	"strconv"
	"strings"
	"sync"
)

// DefaultBufferSize is the default size of the scratch buffer used to copy element values.
const DefaultBufferSize = 1024

// Config represents the application configuration
type Config struct {
	Version       string
	OpenFileLimit int
	LogLevel      string
	/* By enabling `StrictMode`, the transcoder will reject inputs which contain
	   an Item Delimitation or Sequence Delimitation Item with a non-zero length.
	   Otherwise the trailing bytes are skipped with a warning.
	*/
	StrictMode bool

	// BufferSize is the size of the scratch buffer used to stream element values.
	// It is rounded up to a multiple of 8 by the transcoder.
	BufferSize int

	// Salt seeds the anonymizer. 0 selects a random salt, 1 a salt that is stable for the current day.
	Salt int64

	// do not access / write `_set`. It is used internally.
	_set bool
}

// intFromEnv retrieves `key` from the OS environment.
// if the key is not found, or cannot be expressed as an integer,
// `found` will be false.
func intFromEnv(key string) (val int, found bool) {
	valStr, found := os.LookupEnv(key)
	if !found {
		return
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		found = false
	}
	return
}

func intFromEnvDefault(key string, def int) (val int) {
	val, found := intFromEnv(key)
	if !found {
		val = def
	}
	return
}

func int64FromEnvDefault(key string, def int64) int64 {
	valStr, found := os.LookupEnv(key)
	if !found {
		return def
	}
	val, err := strconv.ParseInt(valStr, 10, 64)
	if err != nil {
		return def
	}
	return val
}

func strFromEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

func strFromEnvDefault(key string, def string) (val string) {
	val, found := strFromEnv(key)
	if !found {
		val = def
	}
	return
}

func boolFromEnv(key string) (val bool, found bool) {
	valStr, found := os.LookupEnv(key)
	if !found {
		return
	}
	val, err := strconv.ParseBool(valStr)
	if err != nil {
		found = false
	}
	return
}

func boolFromEnvDefault(key string, def bool) (val bool) {
	val, found := boolFromEnv(key)
	if !found {
		val = def
	}
	return
}

var (
	config   Config
	configMu sync.Mutex
)

// GetConfig returns the application configuration.
// Will set from environment if not already set.
func GetConfig() Config {
	configMu.Lock()
	defer configMu.Unlock()
	if !config._set {
		config.Version = Version
		config.OpenFileLimit = intFromEnvDefault("SIMPLYDICOM_OPENFILELIMIT", 64)
		config.StrictMode = boolFromEnvDefault("SIMPLYDICOM_STRICTMODE", false)
		config.BufferSize = intFromEnvDefault("SIMPLYDICOM_BUFFERSIZE", DefaultBufferSize)
		config.Salt = int64FromEnvDefault("SIMPLYDICOM_SALT", 0)
		config.LogLevel = strings.ToLower(strFromEnvDefault("SIMPLYDICOM_LOGLEVEL", "info"))
		switch config.LogLevel {
		case "debug", "info", "warn", "error", "fatal", "none", "disabled", "off", "0", "1", "2", "3", "4", "5":
			SetLoggingLevel(config.LogLevel)
		default:
			panic(`Invalid "SIMPLYDICOM_LOGLEVEL". Choose from "debug", "info", "warn", "error", "fatal", or "none".`)
		}
		config._set = true
	}
	return config
}

// OverrideConfig overrides the configuration parsed from environment with the one provided
func OverrideConfig(newconfig Config) {
	configMu.Lock()
	defer configMu.Unlock()
	if !newconfig._set { // to prevent being reverted with subsequent calls to `GetConfig`
		newconfig._set = true
	}
	if newconfig.LogLevel != "" {
		SetLoggingLevel(newconfig.LogLevel)
	}
	config = newconfig
}

// resetConfig forces the next `GetConfig` to re-read the environment.
func resetConfig() {
	configMu.Lock()
	defer configMu.Unlock()
	config = Config{}
}
