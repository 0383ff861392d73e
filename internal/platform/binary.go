package platform

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// YTDLPBinaryName is the executable name looked up on PATH
const YTDLPBinaryName = "yt-dlp"

// ErrYTDLPNotFound is returned when no yt-dlp executable can be located
var ErrYTDLPNotFound = errors.New("yt-dlp executable not found")

// FindYTDLP locates the yt-dlp executable. An explicit override wins; then a
// copy next to the running executable or in the working directory; then PATH.
func FindYTDLP(override string) (string, error) {
	if override = strings.TrimSpace(override); override != "" {
		if path, ok := executable(override); ok {
			return path, nil
		}
		return "", fmt.Errorf("%w: %s", ErrYTDLPNotFound, override)
	}

	for _, candidate := range localCandidates() {
		if path, ok := executable(candidate); ok {
			return path, nil
		}
	}

	if path, err := exec.LookPath(YTDLPBinaryName); err == nil {
		return path, nil
	}
	return "", ErrYTDLPNotFound
}

// localCandidates lists bundled locations, next to the binary first
func localCandidates() []string {
	name := YTDLPBinaryName
	if runtime.GOOS == OSWindows {
		name += ".exe"
	}

	var out []string
	if exe, err := os.Executable(); err == nil {
		out = append(out, filepath.Join(filepath.Dir(exe), name))
	}
	if wd, err := os.Getwd(); err == nil {
		out = append(out, filepath.Join(wd, name))
	}
	return out
}

// executable resolves path to an executable file. Bare names are looked up on PATH.
func executable(path string) (string, bool) {
	if !strings.ContainsAny(path, `/\`) {
		resolved, err := exec.LookPath(path)
		return resolved, err == nil
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", false
	}
	if runtime.GOOS == OSWindows {
		return path, strings.HasSuffix(strings.ToLower(path), ".exe")
	}
	return path, info.Mode()&0111 != 0
}
