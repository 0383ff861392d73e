package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variable names
const (
	EnvYTDLPPath   = "VIDGRAB_YTDLP"
	EnvDownloadDir = "VIDGRAB_DOWNLOAD_DIR"
	EnvLogLevel    = "VIDGRAB_LOG_LEVEL"
)

// Env holds values read from the environment
type Env struct {
	YTDLPPath   string
	DownloadDir string
	LogLevel    string
}

// LoadEnv loads the given .env files (".env" when none is given) into the
// process environment and reads the variables in use. Missing files are not
// an error; variables already set in the environment are not overridden.
func LoadEnv(files ...string) (Env, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return ReadEnv(), err
	}
	return ReadEnv(), nil
}

// ReadEnv reads the variables in use from the process environment
func ReadEnv() Env {
	return Env{
		YTDLPPath:   strings.TrimSpace(os.Getenv(EnvYTDLPPath)),
		DownloadDir: strings.TrimSpace(os.Getenv(EnvDownloadDir)),
		LogLevel:    strings.TrimSpace(os.Getenv(EnvLogLevel)),
	}
}
