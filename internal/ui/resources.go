package ui

import (
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"
)

// AppIconName is the window icon file looked up next to the executable
const AppIconName = "vidgrab.png"

// LoadAppIcon loads the window icon from the executable directory or the
// working directory
func LoadAppIcon() (fyne.Resource, error) {
	var candidates []string
	if exe, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(exe), AppIconName))
	}
	candidates = append(candidates, AppIconName)

	var lastErr error
	for _, path := range candidates {
		res, err := fyne.LoadResourceFromPath(path)
		if err == nil {
			return res, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
