package model

import "testing"

func TestValidRating(t *testing.T) {
	tests := []struct {
		name   string
		rating float64
		want   bool
	}{
		{"下限ちょうど", 0.5, true},
		{"上限ちょうど", 5.0, true},
		{"範囲内の小数", 3.5, true},
		{"下限未満", 0.4, false},
		{"ゼロ", 0, false},
		{"負の値", -1, false},
		{"上限超過", 5.1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidRating(tt.rating); got != tt.want {
				t.Errorf("ValidRating(%g) = %v, want %v", tt.rating, got, tt.want)
			}
		})
	}
}

func TestRatingBucket(t *testing.T) {
	tests := []struct {
		name   string
		rating float64
		want   int
	}{
		{"下限0.5はバケット1", 0.5, 1},
		{"1.0はバケット1", 1.0, 1},
		{"1.9は切り捨てでバケット1", 1.9, 1},
		{"2.0はバケット2", 2.0, 2},
		{"4.5はバケット4", 4.5, 4},
		{"上限5.0はバケット5", 5.0, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RatingBucket(tt.rating); got != tt.want {
				t.Errorf("RatingBucket(%g) = %d, want %d", tt.rating, got, tt.want)
			}
		})
	}
}

func TestNewEmptyRatingSummary(t *testing.T) {
	s := NewEmptyRatingSummary()

	if s.Count != 0 {
		t.Errorf("Count = %d, want 0", s.Count)
	}
	if s.Average != 0 {
		t.Errorf("Average = %g, want 0", s.Average)
	}
	for bucket := 1; bucket <= 5; bucket++ {
		if got, ok := s.Distribution[bucket]; !ok || got != 0 {
			t.Errorf("Distribution[%d] = %d (exists=%v), want 0", bucket, got, ok)
		}
	}
}

func TestMovieRefIsZero(t *testing.T) {
	tests := []struct {
		name string
		ref  MovieRef
		want bool
	}{
		{"すべて未指定", MovieRef{}, true},
		{"MovieID指定", MovieRef{MovieID: "abc"}, false},
		{"TMDBID指定", MovieRef{TMDBID: 123}, false},
		{"Title指定", MovieRef{Title: "Oldboy"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ref.IsZero(); got != tt.want {
				t.Errorf("IsZero() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAPIErrorError(t *testing.T) {
	err := NewMovieNotFoundError()
	if err.Error() == "" {
		t.Error("Error() should not be empty")
	}
	if err.Code != ErrCodeMovieNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrCodeMovieNotFound)
	}
}
