package slug

import "testing"

func TestSegment(t *testing.T) {
	tests := []struct {
		in, fallback, want string
	}{
		{"Campaigns", "general", "campaigns"},
		{"  Student ID ", "document", "student-id"},
		{"../../etc/passwd", "general", "etc-passwd"},
		{"transcript_2024", "document", "transcript_2024"},
		{"", "general", "general"},
		{"///", "general", "general"},
	}
	for _, tt := range tests {
		if got := Segment(tt.in, tt.fallback); got != tt.want {
			t.Errorf("Segment(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
