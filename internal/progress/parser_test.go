package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/vidgrab/internal/model"
)

func TestParseLine_DefaultFormat(t *testing.T) {
	p, ok := ParseLine("[download]  45.3% of ~ 10.50MiB at 2.30MiB/s ETA 00:03")
	require.True(t, ok)

	assert.InDelta(t, 45.3, p.Percent, 0.001)
	assert.Equal(t, "10.5MiB", p.Total)
	assert.Equal(t, "4.8MiB", p.Downloaded)
	assert.Equal(t, "2.3MiB/s", p.Speed)
	assert.Equal(t, "00:03", p.ETA)
}

func TestParseLine_FragmentSuffix(t *testing.T) {
	p, ok := ParseLine("[download]   3.0% of ~  80.00MiB at  1.00MiB/s ETA 01:17 (frag 3/100)")
	require.True(t, ok)

	assert.InDelta(t, 3.0, p.Percent, 0.001)
	assert.Equal(t, "80.0MiB", p.Total)
	assert.Equal(t, "01:17", p.ETA)
}

func TestParseLine_CompletionLine(t *testing.T) {
	p, ok := ParseLine("[download] 100% of 10.50MiB in 00:00:04 at 2.41MiB/s")
	require.True(t, ok)

	assert.Equal(t, 100.0, p.Percent)
	assert.Equal(t, "10.5MiB", p.Downloaded)
	assert.Equal(t, "10.5MiB", p.Total)
	assert.Equal(t, "2.4MiB/s", p.Speed)
	assert.Equal(t, "00:00", p.ETA)
}

func TestParseLine_DecimalComma(t *testing.T) {
	p, ok := ParseLine("[download]  45,3% of 10,50MiB at 2,30MiB/s ETA 00:03")
	require.True(t, ok)

	assert.InDelta(t, 45.3, p.Percent, 0.001)
	assert.Equal(t, "10.5MiB", p.Total)
	assert.Equal(t, "2.3MiB/s", p.Speed)
}

func TestParseLine_UnparseableFieldsBecomeUnknown(t *testing.T) {
	p, ok := ParseLine("[download]  12.0% of ~ Unknown at Unknown B/s ETA Unknown")
	require.True(t, ok, "line must not be dropped because of bad sub-fields")

	assert.InDelta(t, 12.0, p.Percent, 0.001)
	assert.Equal(t, model.UnknownDisplay, p.Total)
	assert.Equal(t, model.UnknownDisplay, p.Downloaded)
	assert.Equal(t, model.UnknownDisplay, p.Speed)
	assert.Equal(t, model.UnknownDisplay, p.ETA)
}

func TestParseLine_Template(t *testing.T) {
	tests := []struct {
		name string
		line string
		want model.DownloadProgress
	}{
		{
			name: "all fields",
			line: "[vidgrab] 1048576 4194304 524288.5 6",
			want: model.DownloadProgress{Percent: 25, Downloaded: "1.0MiB", Total: "4.0MiB", Speed: "512.0KiB/s", ETA: "00:06"},
		},
		{
			name: "missing fields",
			line: "[vidgrab] 1024 NA None NA",
			want: model.DownloadProgress{Percent: 0, Downloaded: "1.0KiB", Total: "--", Speed: "--", ETA: "--"},
		},
		{
			name: "thousands separators",
			line: "[vidgrab] 1,048,576 4,194,304 NA 75",
			want: model.DownloadProgress{Percent: 25, Downloaded: "1.0MiB", Total: "4.0MiB", Speed: "--", ETA: "01:15"},
		},
		{
			name: "estimate overshoot is clamped",
			line: "[vidgrab] 2000 1000 NA NA",
			want: model.DownloadProgress{Percent: 100, Downloaded: "2.0KiB", Total: "1000B", Speed: "--", ETA: "--"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseLine(tt.line)
			require.True(t, ok)
			assert.InDelta(t, tt.want.Percent, got.Percent, 0.001)
			assert.Equal(t, tt.want.Downloaded, got.Downloaded)
			assert.Equal(t, tt.want.Total, got.Total)
			assert.Equal(t, tt.want.Speed, got.Speed)
			assert.Equal(t, tt.want.ETA, got.ETA)
		})
	}
}

func TestParseLine_IgnoresUnrelatedLines(t *testing.T) {
	lines := []string{
		"",
		"   ",
		"[youtube] dQw4w9WgXcQ: Downloading webpage",
		"[info] dQw4w9WgXcQ: Downloading 1 format(s): 137+140",
		"WARNING: unable to extract uploader id",
		"[download] Destination: /tmp/Cat.mp4",
		"[Merger] Merging formats into \"/tmp/Cat.mp4\"",
		"[vidgrab] 1024",
		"[download] %",
		"\x00\xff[download]",
	}

	for _, line := range lines {
		_, ok := ParseLine(line)
		assert.False(t, ok, "line %q", line)
	}
}

func TestParseLine_Sequence(t *testing.T) {
	lines := []string{
		"[youtube] abc: Downloading webpage",
		"[download] Destination: Cat.mp4",
		"[download]  10.0% of 10.00MiB at 1.00MiB/s ETA 00:09",
		"WARNING: something harmless",
		"[download]  55.0% of 10.00MiB at 1.00MiB/s ETA 00:04",
		"[download] 100% of 10.00MiB in 00:00:10 at 1.00MiB/s",
		"[Merger] Merging formats into \"Cat.mp4\"",
	}

	var got []float64
	for _, line := range lines {
		if p, ok := ParseLine(line); ok {
			got = append(got, p.Percent)
		}
	}
	assert.Equal(t, []float64{10, 55, 100}, got)
}

func TestParseDestination(t *testing.T) {
	tests := []struct {
		line string
		want string
		ok   bool
	}{
		{"[download] Destination: /tmp/Cat.f137.mp4", "/tmp/Cat.f137.mp4", true},
		{`[Merger] Merging formats into "/tmp/Cat.mp4"`, "/tmp/Cat.mp4", true},
		{"[download] /tmp/Cat.mp4 has already been downloaded", "/tmp/Cat.mp4", true},
		{"[ExtractAudio] Destination: /tmp/Cat.m4a", "/tmp/Cat.m4a", true},
		{"[download]  45.3% of 10.50MiB at 2.30MiB/s ETA 00:03", "", false},
		{"[youtube] abc: Downloading webpage", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := ParseDestination(tt.line)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"12.5", 12.5, true},
		{"1,5", 1.5, true},
		{"1,234", 1234, true},
		{"0,500", 0.5, true},
		{"1.234,5", 1234.5, true},
		{"1,234,567.89", 1234567.89, true},
		{"1.234.567", 1234567, true},
		{"1 234", 1234, true},
		{"", 0, false},
		{"abc", 0, false},
		{"NaN", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseNumber(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 0.0001)
			}
		})
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"10.50MiB", 10.5 * (1 << 20), true},
		{"~1,5 GiB", 1.5 * (1 << 30), true},
		{"512KiB", 512 * 1024, true},
		{"2MB", 2e6, true},
		{"300B", 300, true},
		{"Unknown", 0, false},
		{"12parsecs", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseSize(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 0.5)
			}
		})
	}
}
