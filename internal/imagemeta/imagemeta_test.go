package imagemeta

import (
	"testing"
	"time"
)

func TestParseCaptureDate(t *testing.T) {
	want := time.Date(2019, 1, 1, 10, 30, 5, 0, time.UTC)

	tests := []struct {
		name string
		raw  string
		want *time.Time
	}{
		{"exif", "2019:01:01 10:30:05", &want},
		{"libvips description", "2019:01:01 10:30:05 (2019:01:01 10:30:05, ASCII, 20 components, 20 bytes)", &want},
		{"dashes", "2019-01-01 10:30:05", &want},
		{"nul padded", "2019:01:01 10:30:05\x00", &want},
		{"rfc3339", "2019-01-01T10:30:05Z", &want},
		{"empty", "", nil},
		{"blanked", "0000:00:00 00:00:00", nil},
		{"garbage", "yesterday", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseCaptureDate(tt.raw)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("ParseCaptureDate(%q) = %v, want nil", tt.raw, got)
			case tt.want != nil && got == nil:
				t.Errorf("ParseCaptureDate(%q) = nil, want %v", tt.raw, tt.want)
			case tt.want != nil && !got.Equal(*tt.want):
				t.Errorf("ParseCaptureDate(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}
