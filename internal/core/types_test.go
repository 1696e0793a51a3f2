package core

import "testing"

func TestPercent(t *testing.T) {
	tests := []struct {
		name     string
		progress int
		total    int
		want     int
	}{
		{"zero total", 50, 0, 0},
		{"negative total", 50, -10, 0},
		{"zero progress", 0, 100, 0},
		{"half", 50, 100, 50},
		{"rounds up", 1, 3, 33},
		{"rounds to nearest", 2, 3, 67},
		{"complete", 100, 100, 100},
		{"overshoot stays raw", 150, 100, 150},
		{"negative progress clamps", -5, 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Percent(tt.progress, tt.total); got != tt.want {
				t.Errorf("Percent(%d, %d) = %d, want %d", tt.progress, tt.total, got, tt.want)
			}
		})
	}
}

func TestGoal_PercentComplete(t *testing.T) {
	g := &Goal{Progress: 1, Total: 5}
	if got := g.PercentComplete(); got != 20 {
		t.Errorf("PercentComplete() = %d, want 20", got)
	}
}

func TestGoal_Remaining(t *testing.T) {
	g := &Goal{Progress: 3, Total: 5}
	if got := g.Remaining(); got != 2 {
		t.Errorf("Remaining() = %d, want 2", got)
	}

	g = &Goal{Progress: 10, Total: 5}
	if got := g.Remaining(); got != 0 {
		t.Errorf("Remaining() with overshoot = %d, want 0", got)
	}
}
