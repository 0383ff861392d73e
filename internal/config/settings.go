package config

import (
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"

	"github.com/ytget/vidgrab/internal/platform"
)

// Settings keys for Fyne preferences
const (
	KeyDownloadDir        = "download_directory"
	KeyYTDLPPath          = "ytdlp_path"
	KeyFilenameTemplate   = "filename_template"
	KeyLanguage           = "app_language"
	KeyAutoRevealComplete = "auto_reveal_on_complete"
)

// Default values
const (
	DefaultFilenameTemplate   = "%(title)s.%(ext)s"
	DefaultLanguage           = "system"
	DefaultAutoRevealComplete = false
	FallbackDownloadSubdir    = "vidgrab"
)

// Settings manages application configuration. Stored preferences win over
// the environment, which wins over platform defaults.
type Settings struct {
	app fyne.App
	env Env
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App, env Env) *Settings {
	return &Settings{app: app, env: env}
}

// GetDownloadDirectory returns the configured download directory
func (s *Settings) GetDownloadDirectory() string {
	if dir := s.app.Preferences().String(KeyDownloadDir); dir != "" {
		return dir
	}
	if s.env.DownloadDir != "" {
		return s.env.DownloadDir
	}

	defaultDir, err := platform.GetHomeDownloadsDir()
	if err != nil {
		defaultDir = filepath.Join(os.TempDir(), FallbackDownloadSubdir)
	}
	s.SetDownloadDirectory(defaultDir)
	return defaultDir
}

// SetDownloadDirectory sets the download directory
func (s *Settings) SetDownloadDirectory(dir string) {
	s.app.Preferences().SetString(KeyDownloadDir, dir)
}

// GetYTDLPPath returns the configured yt-dlp executable, empty for auto-detection
func (s *Settings) GetYTDLPPath() string {
	if path := s.app.Preferences().String(KeyYTDLPPath); path != "" {
		return path
	}
	return s.env.YTDLPPath
}

// SetYTDLPPath sets the yt-dlp executable; empty restores auto-detection
func (s *Settings) SetYTDLPPath(path string) {
	s.app.Preferences().SetString(KeyYTDLPPath, path)
}

// ResolveYTDLP locates the yt-dlp executable to run
func (s *Settings) ResolveYTDLP() (string, error) {
	return platform.FindYTDLP(s.GetYTDLPPath())
}

// GetFilenameTemplate returns the filename template
func (s *Settings) GetFilenameTemplate() string {
	template := s.app.Preferences().String(KeyFilenameTemplate)
	if template == "" {
		s.SetFilenameTemplate(DefaultFilenameTemplate)
		return DefaultFilenameTemplate
	}
	return template
}

// SetFilenameTemplate sets the filename template
func (s *Settings) SetFilenameTemplate(template string) {
	if template == "" {
		template = DefaultFilenameTemplate
	}
	s.app.Preferences().SetString(KeyFilenameTemplate, template)
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	lang := s.app.Preferences().String(KeyLanguage)
	if lang == "" {
		s.SetLanguage(DefaultLanguage)
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}

// GetAutoRevealOnComplete returns whether to reveal finished downloads in the file manager
func (s *Settings) GetAutoRevealOnComplete() bool {
	return s.app.Preferences().BoolWithFallback(KeyAutoRevealComplete, DefaultAutoRevealComplete)
}

// SetAutoRevealOnComplete sets whether to reveal finished downloads in the file manager
func (s *Settings) SetAutoRevealOnComplete(autoReveal bool) {
	s.app.Preferences().SetBool(KeyAutoRevealComplete, autoReveal)
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"vi":     "Tiếng Việt",
		"ru":     "Русский",
	}
}
