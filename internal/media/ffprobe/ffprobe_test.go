package ffprobe

import "testing"

func TestDurationSeconds(t *testing.T) {
	tests := []struct {
		name     string
		duration string
		want     float64
	}{
		{"normal", "123.45", 123.45},
		{"empty", "", 0},
		{"garbage", "N/A", 0},
		{"negative", "-4", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Result{Format: Format{Duration: tt.duration}}
			if got := result.DurationSeconds(); got != tt.want {
				t.Errorf("DurationSeconds() = %v, want %v", got, tt.want)
			}
		})
	}
}
