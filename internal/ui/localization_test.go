package ui

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ytget/vidgrab/internal/download"
	"github.com/ytget/vidgrab/internal/metadata"
	"github.com/ytget/vidgrab/internal/platform"
	"github.com/ytget/vidgrab/internal/process"
)

func TestLocalization_Fallbacks(t *testing.T) {
	l := NewLocalization()

	if got := l.GetText(KeyDownload); got != "Download" {
		t.Errorf("GetText(KeyDownload) = %q, expected %q", got, "Download")
	}

	l.SetLanguage("ru")
	if got := l.GetText(KeyDownload); got != "Скачать" {
		t.Errorf("ru GetText(KeyDownload) = %q", got)
	}

	l.SetLanguage("xx")
	if l.GetCurrentLanguage() != "ru" {
		t.Errorf("unknown language should be ignored, current = %s", l.GetCurrentLanguage())
	}

	if got := l.GetText("no_such_key"); got != "no_such_key" {
		t.Errorf("missing key should return itself, got %q", got)
	}
}

func TestLocalization_SystemLanguage(t *testing.T) {
	t.Setenv("LC_ALL", "")
	t.Setenv("LANG", "vi_VN.UTF-8")

	l := NewLocalization()
	l.SetLanguage(LangSystem)
	if l.GetCurrentLanguage() != "vi" {
		t.Errorf("expected vi from LANG, got %s", l.GetCurrentLanguage())
	}

	t.Setenv("LANG", "de_DE.UTF-8")
	l = NewLocalization()
	l.SetLanguage(LangSystem)
	if l.GetCurrentLanguage() != LangEnglish {
		t.Errorf("untranslated system language should keep English, got %s", l.GetCurrentLanguage())
	}
}

func TestLocalization_AllLanguagesComplete(t *testing.T) {
	l := NewLocalization()
	for lang := range l.GetAvailableLanguages() {
		for key := range l.texts[LangEnglish] {
			if _, ok := l.texts[lang][key]; !ok {
				t.Errorf("language %s is missing key %s", lang, key)
			}
		}
	}
}

func TestLocalization_ErrorMessage(t *testing.T) {
	l := NewLocalization()

	tests := []struct {
		name string
		err  error
		key  string
	}{
		{"unsupported", &metadata.UnsupportedURLError{URL: "https://netflix.com", Reason: "unsupported host"}, KeyErrUnsupportedURL},
		{"spawn without cause", &process.SpawnError{Name: "yt-dlp"}, KeyErrToolMissing},
		{"not installed", fmt.Errorf("resolve: %w", platform.ErrYTDLPNotFound), KeyErrToolMissing},
		{"parse", &metadata.ParseError{Reason: "no formats"}, KeyErrParse},
		{"exit", &process.ExitError{Name: "yt-dlp", Code: 1}, KeyErrToolFailed},
		{"busy", download.ErrSessionBusy, KeyErrBusy},
		{"shutdown", download.ErrShutdown, KeyErrShutdown},
		{"timeout", fmt.Errorf("fetch info: %w", context.DeadlineExceeded), KeyErrTimeout},
		{"other", errors.New("boom"), KeyErrUnknown},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got, want := l.ErrorMessage(test.err), l.GetText(test.key); got != want {
				t.Errorf("ErrorMessage() = %q, expected %q", got, want)
			}
		})
	}

	spawnErr := fmt.Errorf("fetch: %w", &process.SpawnError{Name: "yt-dlp", Err: errors.New("executable file not found in $PATH")})
	if got, want := l.ErrorMessage(spawnErr), l.GetText(KeyErrToolMissing)+": executable file not found in $PATH"; got != want {
		t.Errorf("ErrorMessage(spawn) = %q, expected %q", got, want)
	}

	if got := l.ErrorMessage(nil); got != "" {
		t.Errorf("ErrorMessage(nil) = %q, expected empty", got)
	}
}

func TestLocalization_StatusText(t *testing.T) {
	l := NewLocalization()
	if got := l.StatusText("Cancelled"); got != "Cancelled" {
		t.Errorf("StatusText(Cancelled) = %q", got)
	}
	if got := l.StatusText("Idle"); got != "Ready" {
		t.Errorf("StatusText(Idle) = %q", got)
	}
}
