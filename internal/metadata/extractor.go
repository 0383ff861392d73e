package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ytget/vidgrab/internal/logger"
	"github.com/ytget/vidgrab/internal/model"
	"github.com/ytget/vidgrab/internal/process"
)

// infoArgs are passed to yt-dlp before the URL
var infoArgs = []string{"-J", "--no-playlist", "--no-warnings"}

// Extractor fetches video metadata with yt-dlp
type Extractor struct {
	runner  process.Runner
	binary  string
	timeout time.Duration
}

// NewExtractor creates an extractor that runs binary through runner
func NewExtractor(runner process.Runner, binary string) *Extractor {
	return &Extractor{
		runner: runner,
		binary: binary,
	}
}

// SetTimeout bounds a single fetch. The default of zero imposes no limit and
// leaves deadlines to the caller's context.
func (e *Extractor) SetTimeout(timeout time.Duration) {
	e.timeout = timeout
}

// FetchInfo validates rawURL, runs yt-dlp in metadata mode and maps its
// output. Errors from the process runner (*process.SpawnError,
// *process.ExitError) are returned unchanged.
func (e *Extractor) FetchInfo(ctx context.Context, rawURL string) (*model.VideoInfo, error) {
	u, platform, err := ValidateURL(rawURL)
	if err != nil {
		return nil, err
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	target := u.String()
	args := append(append([]string(nil), infoArgs...), target)

	started := time.Now()
	logger.Info("Fetching video info", "url", target, "platform", platform)

	proc, err := e.runner.Run(ctx, e.binary, args, process.Options{Mode: process.ModeJSON})
	if err != nil {
		logger.Error("Failed to start yt-dlp", "binary", e.binary, "error", err)
		return nil, err
	}

	if err := proc.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("fetch info: %w", ctxErr)
		}
		logger.Error("yt-dlp metadata request failed", "url", target, "error", err)
		return nil, err
	}

	info, err := parseInfo(proc.Output())
	if err != nil {
		logger.Error("Failed to parse yt-dlp output", "url", target, "error", err)
		return nil, err
	}
	info.Platform = platform
	info.OriginalURL = target

	logger.InfoWithDuration("Video info fetched", started, "title", info.Title, "formats", len(info.Formats))
	return info, nil
}

// ValidateURL checks that raw is an http(s) URL of a supported platform.
// A missing scheme is read as https.
func ValidateURL(raw string) (*url.URL, model.Platform, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, "", &UnsupportedURLError{URL: raw, Reason: "empty"}
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, "", &UnsupportedURLError{URL: raw, Reason: "malformed"}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, "", &UnsupportedURLError{URL: raw, Reason: "scheme must be http or https"}
	}
	if u.Hostname() == "" {
		return nil, "", &UnsupportedURLError{URL: raw, Reason: "missing host"}
	}

	platform, ok := model.DetectPlatform(u.Hostname())
	if !ok {
		return nil, "", &UnsupportedURLError{URL: raw, Reason: "platform not supported"}
	}
	return u, platform, nil
}

func parseInfo(output []byte) (*model.VideoInfo, error) {
	if len(strings.TrimSpace(string(output))) == 0 {
		return nil, &ParseError{Reason: "empty output"}
	}

	var doc ytDlpJSON
	if err := json.Unmarshal(output, &doc); err != nil {
		return nil, &ParseError{Reason: "not valid JSON", Err: err}
	}
	if strings.TrimSpace(doc.Title) == "" {
		return nil, &ParseError{Reason: "missing title"}
	}

	formats := buildFormats(&doc)
	if len(formats) == 0 {
		return nil, &ParseError{Reason: "no downloadable formats"}
	}

	return &model.VideoInfo{
		ID:              doc.ID,
		Title:           doc.Title,
		ThumbnailURL:    thumbnail(&doc),
		DurationDisplay: duration(&doc),
		Author:          firstNonEmpty(doc.Uploader, doc.Channel, doc.UploaderID),
		Formats:         formats,
	}, nil
}

func duration(doc *ytDlpJSON) string {
	if doc.DurationString != "" {
		return doc.DurationString
	}
	if doc.Duration > 0 {
		return model.FormatDuration(doc.Duration)
	}
	return ""
}

func thumbnail(doc *ytDlpJSON) string {
	if doc.Thumbnail != "" {
		return doc.Thumbnail
	}
	for i := len(doc.Thumbnails) - 1; i >= 0; i-- {
		if doc.Thumbnails[i].URL != "" {
			return doc.Thumbnails[i].URL
		}
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
