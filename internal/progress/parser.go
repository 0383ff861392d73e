// Package progress turns yt-dlp output lines into progress snapshots.
//
// Parsing is pure and per line: the caller splits the stream into lines and
// feeds them one at a time. Lines that are not progress reports are ignored.
package progress

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/ytget/vidgrab/internal/model"
)

// TemplatePrefix marks lines produced by Template
const TemplatePrefix = "[vidgrab]"

// Template is the --progress-template value that makes yt-dlp print
// machine-readable progress lines recognised by ParseLine
const Template = "download:" + TemplatePrefix +
	" %(progress.downloaded_bytes)s" +
	" %(progress.total_bytes,progress.total_bytes_estimate)s" +
	" %(progress.speed)s" +
	" %(progress.eta)s"

var (
	defaultLineRegex = regexp.MustCompile(`^\[download\]\s+([\d.,]+)\s*%(.*)$`)
	totalRegex       = regexp.MustCompile(`\bof\s+~?\s*(\S+)`)
	speedRegex       = regexp.MustCompile(`\bat\s+(\S+)`)
	etaRegex         = regexp.MustCompile(`\bETA\s+(\S+)`)
	elapsedRegex     = regexp.MustCompile(`\bin\s+\d`)
	clockRegex       = regexp.MustCompile(`^\d+(:\d{1,2})+$`)
	sizeRegex        = regexp.MustCompile(`(?i)^~?([\d.,]+)\s*([KMGTP]?i?B)$`)

	destinationRegex = regexp.MustCompile(`^\[\w+\]\s+Destination:\s+(.+)$`)
	mergerRegex      = regexp.MustCompile(`^\[Merger\]\s+Merging formats into\s+"(.+)"$`)
	alreadyRegex     = regexp.MustCompile(`^\[download\]\s+(.+?)\s+has already been downloaded`)
)

var unitMultipliers = map[string]float64{
	"B":   1,
	"KB":  1e3,
	"MB":  1e6,
	"GB":  1e9,
	"TB":  1e12,
	"PB":  1e15,
	"KIB": 1 << 10,
	"MIB": 1 << 20,
	"GIB": 1 << 30,
	"TIB": 1 << 40,
	"PIB": 1 << 50,
}

// ParseLine recognises a progress line and returns its snapshot.
// Unrelated lines return false. Sub-fields that cannot be parsed are
// reported as model.UnknownDisplay without rejecting the line.
func ParseLine(line string) (model.DownloadProgress, bool) {
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, TemplatePrefix) {
		return parseTemplateLine(strings.TrimSpace(line[len(TemplatePrefix):]))
	}
	if strings.HasPrefix(line, "[download]") {
		return parseDefaultLine(line)
	}
	return model.DownloadProgress{}, false
}

// parseDefaultLine handles yt-dlp's human readable progress line, e.g.
// "[download]  45.3% of ~ 10.50MiB at 2.30MiB/s ETA 00:03" and the
// completion form "[download] 100% of 10.50MiB in 00:00:04 at 2.41MiB/s"
func parseDefaultLine(line string) (model.DownloadProgress, bool) {
	m := defaultLineRegex.FindStringSubmatch(line)
	if m == nil {
		return model.DownloadProgress{}, false
	}

	percent, ok := ParseNumber(m[1])
	if !ok {
		return model.DownloadProgress{}, false
	}
	percent = clampPercent(percent)
	rest := m[2]

	p := unknownProgress(percent)

	totalBytes := -1.0
	if tm := totalRegex.FindStringSubmatch(rest); tm != nil {
		if n, ok := ParseSize(tm[1]); ok {
			totalBytes = n
			p.Total = model.FormatBytes(n)
		}
	}
	if sm := speedRegex.FindStringSubmatch(rest); sm != nil {
		if n, ok := ParseSize(strings.TrimSuffix(sm[1], "/s")); ok {
			p.Speed = model.FormatBytes(n) + "/s"
		}
	}

	switch {
	case elapsedRegex.MatchString(rest):
		// completion line carries elapsed time instead of ETA
		p.ETA = model.FormatETA(0)
	default:
		if em := etaRegex.FindStringSubmatch(rest); em != nil && clockRegex.MatchString(em[1]) {
			p.ETA = em[1]
		}
	}

	if totalBytes >= 0 {
		p.Downloaded = model.FormatBytes(totalBytes * percent / 100)
	}
	return p, true
}

// parseTemplateLine handles "<downloaded> <total> <speed> <eta>" where any
// field may be NA or None
func parseTemplateLine(fields string) (model.DownloadProgress, bool) {
	parts := strings.Fields(fields)
	if len(parts) != 4 {
		return model.DownloadProgress{}, false
	}

	downloaded, hasDownloaded := parseField(parts[0])
	total, hasTotal := parseField(parts[1])
	speed, hasSpeed := parseField(parts[2])
	eta, hasETA := parseField(parts[3])

	percent := 0.0
	if hasDownloaded && hasTotal && total > 0 {
		percent = clampPercent(downloaded / total * 100)
	}

	p := unknownProgress(percent)
	if hasDownloaded {
		p.Downloaded = model.FormatBytes(downloaded)
	}
	if hasTotal {
		p.Total = model.FormatBytes(total)
	}
	if hasSpeed {
		p.Speed = model.FormatBytes(speed) + "/s"
	}
	if hasETA {
		p.ETA = model.FormatETA(int(math.Round(eta)))
	}
	return p, true
}

func parseField(s string) (float64, bool) {
	switch strings.ToLower(s) {
	case "na", "none", "unknown", "":
		return 0, false
	}
	n, ok := ParseNumber(s)
	if !ok || n < 0 {
		return 0, false
	}
	return n, true
}

// ParseDestination recognises lines that name the output file: download
// and post-processor destinations, the merger target and already
// downloaded files. The last one seen is the final file.
func ParseDestination(line string) (string, bool) {
	line = strings.TrimSpace(line)
	for _, re := range []*regexp.Regexp{mergerRegex, destinationRegex, alreadyRegex} {
		if m := re.FindStringSubmatch(line); m != nil {
			if path := strings.TrimSpace(m[1]); path != "" {
				return path, true
			}
		}
	}
	return "", false
}

// ParseSize converts a size such as "10.50MiB" or "~1,2 GB" to bytes
func ParseSize(s string) (float64, bool) {
	m := sizeRegex.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, false
	}
	n, ok := ParseNumber(m[1])
	if !ok {
		return 0, false
	}
	mult, ok := unitMultipliers[strings.ToUpper(m[2])]
	if !ok {
		return 0, false
	}
	return n * mult, true
}

// ParseNumber parses a decimal number written with either '.' or ',' as the
// decimal mark and optional thousands separators. When both marks appear the
// last one is the decimal mark. A single comma followed by exactly three
// digits is read as a thousands separator.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer(" ", "", "\u00a0", "", "'", "", "_", "").Replace(s)
	if s == "" {
		return 0, false
	}

	commas := strings.Count(s, ",")
	dots := strings.Count(s, ".")

	switch {
	case commas > 0 && dots > 0:
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case commas > 1:
		s = strings.ReplaceAll(s, ",", "")
	case commas == 1:
		if i := strings.Index(s, ","); len(s)-i-1 == 3 && i > 0 && s[:i] != "0" {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.Replace(s, ",", ".", 1)
		}
	case dots > 1:
		s = strings.ReplaceAll(s, ".", "")
	}

	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func unknownProgress(percent float64) model.DownloadProgress {
	return model.DownloadProgress{
		Percent:    percent,
		Speed:      model.UnknownDisplay,
		ETA:        model.UnknownDisplay,
		Downloaded: model.UnknownDisplay,
		Total:      model.UnknownDisplay,
	}
}

func clampPercent(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return p
	}
}
