package model

import "strings"

// Platform identifies a supported source site
type Platform string

const (
	PlatformTikTok    Platform = "tiktok"
	PlatformInstagram Platform = "instagram"
	PlatformFacebook  Platform = "facebook"
	PlatformYouTube   Platform = "youtube"
	PlatformTwitter   Platform = "twitter"
)

// platformDomains lists the registrable domains served by each platform.
// Order matters only for display; domains never overlap.
var platformDomains = []struct {
	platform Platform
	domains  []string
}{
	{PlatformTikTok, []string{"tiktok.com"}},
	{PlatformInstagram, []string{"instagram.com"}},
	{PlatformFacebook, []string{"facebook.com", "fb.watch"}},
	{PlatformYouTube, []string{"youtube.com", "youtu.be"}},
	{PlatformTwitter, []string{"twitter.com", "x.com"}},
}

// Platforms returns all supported platforms in display order
func Platforms() []Platform {
	out := make([]Platform, 0, len(platformDomains))
	for _, p := range platformDomains {
		out = append(out, p.platform)
	}
	return out
}

// DetectPlatform maps a URL host to a supported platform. The host matches a
// domain when it equals it or is a subdomain of it, so "www.x.com" is Twitter
// but "netflix.com" is not.
func DetectPlatform(host string) (Platform, bool) {
	host = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(host)), ".")
	if host == "" {
		return "", false
	}

	for _, p := range platformDomains {
		for _, d := range p.domains {
			if host == d || strings.HasSuffix(host, "."+d) {
				return p.platform, true
			}
		}
	}
	return "", false
}

// DisplayName returns a human readable platform name
func (p Platform) DisplayName() string {
	switch p {
	case PlatformTikTok:
		return "TikTok"
	case PlatformInstagram:
		return "Instagram"
	case PlatformFacebook:
		return "Facebook"
	case PlatformYouTube:
		return "YouTube"
	case PlatformTwitter:
		return "X (Twitter)"
	default:
		return "Unknown"
	}
}

// VideoFormat is one downloadable encoding of a video
type VideoFormat struct {
	FormatID      string  `json:"formatId"`
	Quality       string  `json:"quality"` // e.g. "1080p"
	Extension     string  `json:"ext"`
	FilesizeBytes *uint64 `json:"filesize,omitempty"`
	SourceURL     string  `json:"downloadUrl,omitempty"`
}

// SizeDisplay returns the file size for listings, "~" if unknown
func (f VideoFormat) SizeDisplay() string {
	if f.FilesizeBytes == nil || *f.FilesizeBytes == 0 {
		return "~"
	}
	return FormatFileSize(*f.FilesizeBytes)
}

// Label returns "quality (ext, size)" for selection widgets
func (f VideoFormat) Label() string {
	var b strings.Builder
	b.WriteString(f.Quality)
	if f.Extension != "" {
		b.WriteString(" (")
		b.WriteString(f.Extension)
		b.WriteString(", ")
		b.WriteString(f.SizeDisplay())
		b.WriteString(")")
	}
	return b.String()
}

// VideoInfo describes a video and its available formats, best first
type VideoInfo struct {
	ID              string        `json:"id"`
	Title           string        `json:"title"`
	ThumbnailURL    string        `json:"thumbnail"`
	DurationDisplay string        `json:"duration"`
	Author          string        `json:"author"`
	Platform        Platform      `json:"platform"`
	Formats         []VideoFormat `json:"formats"`
	OriginalURL     string        `json:"originalUrl"`
}

// DefaultFormat returns the highest-ranked format
func (v *VideoInfo) DefaultFormat() (VideoFormat, bool) {
	if v == nil || len(v.Formats) == 0 {
		return VideoFormat{}, false
	}
	return v.Formats[0], true
}

// FindFormat looks up a format by its ID
func (v *VideoInfo) FindFormat(formatID string) (VideoFormat, bool) {
	if v == nil {
		return VideoFormat{}, false
	}
	for _, f := range v.Formats {
		if f.FormatID == formatID {
			return f, true
		}
	}
	return VideoFormat{}, false
}

// DownloadTarget returns what should be handed to the download session: the
// original URL when known, the extractor ID otherwise
func (v *VideoInfo) DownloadTarget() string {
	if v.OriginalURL != "" {
		return v.OriginalURL
	}
	return v.ID
}
