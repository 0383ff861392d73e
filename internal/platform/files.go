package platform

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
)

// Operating system constants
const (
	OSDarwin  = "darwin"
	OSWindows = "windows"
	OSLinux   = "linux"
	OSAndroid = "android"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// Command constants
const (
	OpenCommand     = "open"
	ExplorerCommand = "explorer"
	XDGOpenCommand  = "xdg-open"
)

// Command parameters
const (
	MacOSSelectFlag    = "-R"
	WindowsSelectParam = "/select,"
)

// Android storage locations
const (
	AndroidDownloadsDir = "/sdcard/Download"
	AndroidDownloadsURI = "content://com.android.externalstorage.documents/root/primary/Download"
)

// File manager names
var (
	LinuxFileManagers = []string{"nautilus", "dolphin", "thunar", "nemo", "pcmanfm"}
)

// File extensions of unfinished downloads
var (
	SkippedExtensions = []string{".part", ".ytdl"}
)

// formatSuffixRegex matches the ".f137" part yt-dlp adds to intermediate files
var formatSuffixRegex = regexp.MustCompile(`\.f[0-9A-Za-z-]+$`)

// commandRunner runs an external command; replaced in tests
var commandRunner = func(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

// OpenFolder opens dir in the system file manager
func OpenFolder(dir string) error {
	if dir == "" {
		return errors.New("folder path is empty")
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}
	info, err := os.Stat(absDir)
	if err != nil {
		return fmt.Errorf("folder does not exist: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a folder: %s", absDir)
	}

	switch runtime.GOOS {
	case OSDarwin:
		return commandRunner(OpenCommand, absDir)
	case OSWindows:
		return commandRunner(ExplorerCommand, absDir)
	case OSLinux:
		return openInManagerLinux(absDir)
	case OSAndroid:
		return openInManagerAndroid(absDir)
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
}

// RevealFile opens the file manager with the file selected where the OS
// supports it, otherwise opens the containing folder
func RevealFile(filePath string) error {
	foundPath, err := FindFileWithFallback(filePath)
	if err != nil {
		return fmt.Errorf("file does not exist: %w", err)
	}

	absPath, err := filepath.Abs(foundPath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	switch runtime.GOOS {
	case OSDarwin:
		return commandRunner(OpenCommand, MacOSSelectFlag, absPath)
	case OSWindows:
		return commandRunner(ExplorerCommand, WindowsSelectParam, absPath)
	case OSLinux:
		// file selection is not standardized on Linux
		return openInManagerLinux(filepath.Dir(absPath))
	case OSAndroid:
		return openInManagerAndroid(filepath.Dir(absPath))
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
}

// openInManagerLinux tries xdg-open, then the common file managers
func openInManagerLinux(dir string) error {
	if err := commandRunner(XDGOpenCommand, dir); err == nil {
		return nil
	}

	for _, fm := range LinuxFileManagers {
		if _, err := exec.LookPath(fm); err == nil {
			return commandRunner(fm, dir)
		}
	}

	return fmt.Errorf("no suitable file manager found")
}

// openInManagerAndroid opens the shared Downloads folder, then the directory itself
func openInManagerAndroid(dir string) error {
	if err := commandRunner("am", "start", "-a", "android.intent.action.VIEW", "-d", AndroidDownloadsURI); err == nil {
		return nil
	}
	if err := commandRunner("am", "start", "-a", "android.intent.action.VIEW", "-d", "file://"+dir); err == nil {
		return nil
	}
	return fmt.Errorf("failed to open folder: no suitable file manager found")
}

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	info, err := os.Stat(dirPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	case err != nil:
		return err
	case !info.IsDir():
		return fmt.Errorf("not a directory: %s", dirPath)
	}
	return nil
}

// IsAndroid reports whether the process runs on Android, including fyne
// apps built for it
func IsAndroid() bool {
	return runtime.GOOS == OSAndroid ||
		os.Getenv("ANDROID_DATA") != "" ||
		os.Getenv("ANDROID_ROOT") != "" ||
		os.Getenv("ANDROID_STORAGE") != "" ||
		filepath.Base(os.Args[0]) == "libdist.so"
}

// GetHomeDownloadsDir returns the standard Downloads directory for the user
func GetHomeDownloadsDir() (string, error) {
	if IsAndroid() {
		// external storage so files show up in the gallery
		return AndroidDownloadsDir, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, "Downloads"), nil
}

// FindFileWithFallback returns filePath if it exists. Otherwise it looks in the
// same directory for the finished file yt-dlp produced from it: the same stem
// without the ".fNNN" format suffix, possibly with a different extension.
func FindFileWithFallback(filePath string) (string, error) {
	if filePath == "" {
		return "", fmt.Errorf("file path is empty")
	}
	if strings.HasPrefix(filePath, "http://") || strings.HasPrefix(filePath, "https://") {
		return "", fmt.Errorf("file path appears to be a URL: %s", filePath)
	}

	if _, err := os.Stat(filePath); err == nil {
		return filePath, nil
	}

	dir := filepath.Dir(filePath)
	stem := fileStem(filepath.Base(filePath))

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || isSkippedFile(entry.Name()) {
			continue
		}
		if fileStem(entry.Name()) == stem {
			return filepath.Join(dir, entry.Name()), nil
		}
	}

	return "", fmt.Errorf("no file matching %s in %s", filepath.Base(filePath), dir)
}

// fileStem strips the extension and the yt-dlp format suffix
func fileStem(name string) string {
	for _, ext := range SkippedExtensions {
		name = strings.TrimSuffix(name, ext)
	}
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return formatSuffixRegex.ReplaceAllString(name, "")
}

func isSkippedFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, skipped := range SkippedExtensions {
		if ext == skipped {
			return true
		}
	}
	return false
}
