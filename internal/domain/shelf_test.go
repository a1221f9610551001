package domain

import "testing"

func TestReadingStatusValid(t *testing.T) {
	tests := []struct {
		status ReadingStatus
		want   bool
	}{
		{StatusWantToRead, true},
		{StatusReading, true},
		{StatusCompleted, true},
		{StatusStacked, true},
		{ReadingStatus("finished"), false},
		{ReadingStatus(""), false},
		{ReadingStatus("WANT_TO_READ"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.Valid(); got != tt.want {
				t.Errorf("Valid(%q) = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestValidRating(t *testing.T) {
	intp := func(v int) *int { return &v }

	tests := []struct {
		name   string
		rating *int
		want   bool
	}{
		{"nil is allowed", nil, true},
		{"min", intp(1), true},
		{"max", intp(5), true},
		{"mid", intp(3), true},
		{"zero", intp(0), false},
		{"above max", intp(6), false},
		{"negative", intp(-1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidRating(tt.rating); got != tt.want {
				t.Errorf("ValidRating = %v, want %v", got, tt.want)
			}
		})
	}
}
