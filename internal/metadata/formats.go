package metadata

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ytget/vidgrab/internal/model"
)

// storyboardExt marks yt-dlp's thumbnail storyboards, which are not videos
const storyboardExt = "mhtml"

type candidate struct {
	format model.VideoFormat
	height int
	tbr    float64
	index  int
	best   bool
}

// buildFormats maps and ranks the formats of doc. The entry yt-dlp itself
// picked comes first, then higher resolution, then higher bitrate, then the
// later listed one. Duplicate quality labels keep the higher ranked entry.
func buildFormats(doc *ytDlpJSON) []model.VideoFormat {
	if len(doc.Formats) == 0 {
		return synthesizeFormat(doc)
	}

	bestID, _, _ := strings.Cut(doc.FormatID, "+")

	var video, audio []candidate
	for i, f := range doc.Formats {
		if f.FormatID == "" || strings.EqualFold(f.Ext, storyboardExt) {
			continue
		}
		c := candidate{
			format: model.VideoFormat{
				FormatID:      f.FormatID,
				Quality:       qualityLabel(f),
				Extension:     f.Ext,
				FilesizeBytes: size(f.Filesize, f.FilesizeApprox),
				SourceURL:     f.URL,
			},
			height: f.Height,
			tbr:    f.TBR,
			index:  i,
			best:   bestID != "" && f.FormatID == bestID,
		}
		if f.audioOnly() {
			audio = append(audio, c)
		} else {
			video = append(video, c)
		}
	}

	candidates := video
	if len(candidates) == 0 {
		candidates = audio
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.best != b.best {
			return a.best
		}
		if a.height != b.height {
			return a.height > b.height
		}
		if a.tbr != b.tbr {
			return a.tbr > b.tbr
		}
		return a.index > b.index
	})

	seen := make(map[string]bool, len(candidates))
	formats := make([]model.VideoFormat, 0, len(candidates))
	for _, c := range candidates {
		if seen[c.format.Quality] {
			continue
		}
		seen[c.format.Quality] = true
		formats = append(formats, c.format)
	}
	return formats
}

// synthesizeFormat builds the single format of documents that carry the
// media URL at the top level
func synthesizeFormat(doc *ytDlpJSON) []model.VideoFormat {
	if doc.URL == "" {
		return nil
	}
	id := doc.FormatID
	if id == "" {
		id = "best"
	}
	quality := "best"
	if doc.Height > 0 {
		quality = fmt.Sprintf("%dp", doc.Height)
	}
	return []model.VideoFormat{{
		FormatID:      id,
		Quality:       quality,
		Extension:     doc.Ext,
		FilesizeBytes: size(doc.Filesize, doc.FilesizeApprox),
		SourceURL:     doc.URL,
	}}
}

func qualityLabel(f ytDlpFormat) string {
	switch {
	case f.Height > 0:
		return fmt.Sprintf("%dp", f.Height)
	case f.FormatNote != "":
		return f.FormatNote
	case f.Resolution != "":
		return f.Resolution
	default:
		return f.FormatID
	}
}
