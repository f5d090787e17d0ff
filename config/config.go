package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvFileEnvVar        = "MOUSEKM_ENV"
	DataFileEnvVar       = "MOUSEKM_DATA_FILE"
	SampleMsEnvVar       = "MOUSEKM_SAMPLE_MS"
	SaveSecEnvVar        = "MOUSEKM_SAVE_SEC"
	MetersPerPixelEnvVar = "MOUSEKM_METERS_PER_PIXEL"
	SoundEnvVar          = "MOUSEKM_SOUND"
	FileLoggingEnvVar    = "ENABLE_FILE_LOGGING"
	LangEnvVar           = "MOUSEKM_LANG"
)

type Config struct {
	DataFile          string
	SampleInterval    time.Duration
	SaveInterval      time.Duration
	MetersPerPixel    float64
	EnableSound       bool
	EnableFileLogging bool
	// Lang overrides the detected UI language when set.
	Lang string
}

// Load reads configuration from the environment after applying a .env file
// found next to the executable, or the file named by MOUSEKM_ENV. Values that
// are unset or invalid are left zero so the tracker applies its own defaults.
func Load() (*Config, error) {
	if envPath := resolveEnvPath(); envPath != "" {
		_ = godotenv.Load(envPath)
	}

	cfg := &Config{
		DataFile:          strings.TrimSpace(os.Getenv(DataFileEnvVar)),
		SampleInterval:    time.Duration(positiveInt(SampleMsEnvVar)) * time.Millisecond,
		SaveInterval:      time.Duration(positiveInt(SaveSecEnvVar)) * time.Second,
		MetersPerPixel:    positiveFloat(MetersPerPixelEnvVar),
		EnableSound:       boolWithDefault(SoundEnvVar, true),
		EnableFileLogging: strings.ToLower(os.Getenv(FileLoggingEnvVar)) == "true",
		Lang:              strings.TrimSpace(os.Getenv(LangEnvVar)),
	}

	return cfg, nil
}

func resolveEnvPath() string {
	if execPath, err := os.Executable(); err == nil {
		exeEnv := filepath.Join(filepath.Dir(execPath), ".env")
		if _, err := os.Stat(exeEnv); err == nil {
			return exeEnv
		}
	}

	if alt := os.Getenv(EnvFileEnvVar); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	return ""
}

func positiveInt(key string) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return 0
}

func positiveFloat(key string) float64 {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
	}
	return 0
}

func boolWithDefault(key string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	}
	return def
}
