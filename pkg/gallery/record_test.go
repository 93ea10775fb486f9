package gallery

import (
	"testing"
	"time"
)

func TestIsJPEG(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"a.JPG", true},
		{"b.png", false},
		{"c.jpeg", true},
		{"d", false},
		{"cam1/shot.Jpeg", true},
		{"archive.jpg.gz", false},
		{"weird.JPEG", true},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := IsJPEG(tt.key); got != tt.want {
				t.Errorf("IsJPEG(%q) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1048576, "1.0 MiB"},
		{3355443, "3.2 MiB"},
	}

	for _, tt := range tests {
		if got := FormatSize(tt.size); got != tt.want {
			t.Errorf("FormatSize(%d) = %q, want %q", tt.size, got, tt.want)
		}
	}
}

func TestNewImageRecord(t *testing.T) {
	ts := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	r := NewImageRecord("cam1/2026/shot-042.jpg", "https://signed.example/x", 2048, ts)

	if r.Name != "shot-042.jpg" {
		t.Errorf("Name = %q, want last path segment", r.Name)
	}
	if r.Key != "cam1/2026/shot-042.jpg" {
		t.Errorf("Key = %q, identity must be the full key", r.Key)
	}
	if !r.LastModified.Equal(ts) {
		t.Errorf("LastModified = %v, want %v", r.LastModified, ts)
	}
}
