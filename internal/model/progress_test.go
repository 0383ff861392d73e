package model

import "testing"

func TestFormatETA(t *testing.T) {
	tests := []struct {
		seconds  int
		expected string
	}{
		{-1, UnknownDisplay},
		{0, "00:00"},
		{30, "00:30"},
		{90, "01:30"},
		{3600, "01:00:00"},
		{3661, "01:01:01"},
		{7323, "02:02:03"},
	}

	for _, test := range tests {
		result := FormatETA(test.seconds)
		if result != test.expected {
			t.Errorf("FormatETA(%d) = %s, expected %s", test.seconds, result, test.expected)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds  float64
		expected string
	}{
		{0, "0:00"},
		{59.6, "1:00"},
		{212, "3:32"},
		{3725, "1:02:05"},
	}

	for _, test := range tests {
		result := FormatDuration(test.seconds)
		if result != test.expected {
			t.Errorf("FormatDuration(%v) = %s, expected %s", test.seconds, result, test.expected)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes    float64
		expected string
	}{
		{-5, UnknownDisplay},
		{0, "0B"},
		{512, "512B"},
		{1536, "1.5KiB"},
		{2.3 * 1024 * 1024, "2.3MiB"},
		{3 * 1024 * 1024 * 1024, "3.0GiB"},
	}

	for _, test := range tests {
		result := FormatBytes(test.bytes)
		if result != test.expected {
			t.Errorf("FormatBytes(%v) = %s, expected %s", test.bytes, result, test.expected)
		}
	}
}

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		bytes    uint64
		expected string
	}{
		{100, "100.0 B"},
		{2048, "2.0 KB"},
		{13002342, "12.4 MB"},
	}

	for _, test := range tests {
		result := FormatFileSize(test.bytes)
		if result != test.expected {
			t.Errorf("FormatFileSize(%d) = %s, expected %s", test.bytes, result, test.expected)
		}
	}
}

func TestDownloadProgress_Fraction(t *testing.T) {
	tests := []struct {
		percent  float64
		expected float64
	}{
		{-3, 0},
		{0, 0},
		{55, 0.55},
		{100, 1},
		{120, 1},
	}

	for _, test := range tests {
		result := DownloadProgress{Percent: test.percent}.Fraction()
		if result != test.expected {
			t.Errorf("Fraction() with Percent=%v = %v, expected %v", test.percent, result, test.expected)
		}
	}
}
