package platform

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func fakeExecutable(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, YTDLPBinaryName)
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0755); err != nil {
		t.Fatalf("Failed to create fake executable: %v", err)
	}
	return path
}

func TestFindYTDLP_Override(t *testing.T) {
	if runtime.GOOS == OSWindows {
		t.Skip("executable bit is not used on Windows")
	}
	path := fakeExecutable(t, t.TempDir())

	got, err := FindYTDLP(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got != path {
		t.Errorf("Expected %s, got %s", path, got)
	}
}

func TestFindYTDLP_MissingOverride(t *testing.T) {
	tests := []string{
		filepath.Join(t.TempDir(), "yt-dlp"),
		"definitely-not-a-real-binary-vidgrab",
	}

	for _, override := range tests {
		t.Run(override, func(t *testing.T) {
			_, err := FindYTDLP(override)
			if !errors.Is(err, ErrYTDLPNotFound) {
				t.Errorf("Expected ErrYTDLPNotFound, got %v", err)
			}
		})
	}
}

func TestFindYTDLP_NotExecutable(t *testing.T) {
	if runtime.GOOS == OSWindows {
		t.Skip("executable bit is not used on Windows")
	}
	path := filepath.Join(t.TempDir(), YTDLPBinaryName)
	if err := os.WriteFile(path, []byte("data"), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	if _, err := FindYTDLP(path); !errors.Is(err, ErrYTDLPNotFound) {
		t.Errorf("Expected ErrYTDLPNotFound, got %v", err)
	}
}

func TestFindYTDLP_FromPath(t *testing.T) {
	if runtime.GOOS == OSWindows {
		t.Skip("executable bit is not used on Windows")
	}
	dir := t.TempDir()
	path := fakeExecutable(t, dir)
	t.Setenv("PATH", dir)

	got, err := FindYTDLP("")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got != path {
		t.Errorf("Expected %s, got %s", path, got)
	}
}
