package match

import (
	"testing"
	"time"
)

func TestOversFromBalls(t *testing.T) {
	tests := []struct {
		balls int
		want  float64
	}{
		{balls: 0, want: 0},
		{balls: 3, want: 0.3},
		{balls: 6, want: 1},
		{balls: 7, want: 1.1},
		{balls: 119, want: 19.5},
		{balls: 120, want: 20},
		{balls: -4, want: 0},
	}

	for _, tt := range tests {
		if got := OversFromBalls(tt.balls); got != tt.want {
			t.Fatalf("OversFromBalls(%d)=%v want=%v", tt.balls, got, tt.want)
		}
	}
}

func TestMatchValidate(t *testing.T) {
	valid := Match{
		ID:      "1001",
		Date:    time.Date(2024, time.March, 14, 0, 0, 0, 0, time.UTC),
		VenueID: "v1",
		Teams:   []TeamInMatch{{TeamID: "t1"}, {TeamID: "t2"}},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid match, got %v", err)
	}

	t.Run("requires two teams", func(t *testing.T) {
		m := valid
		m.Teams = []TeamInMatch{{TeamID: "t1"}}
		if err := m.Validate(); err == nil {
			t.Fatalf("expected error for single team")
		}
	})

	t.Run("requires a date", func(t *testing.T) {
		m := valid
		m.Date = time.Time{}
		if err := m.Validate(); err == nil {
			t.Fatalf("expected error for zero date")
		}
	})

	t.Run("requires team ids", func(t *testing.T) {
		m := valid
		m.Teams = []TeamInMatch{{TeamID: "t1"}, {}}
		if err := m.Validate(); err == nil {
			t.Fatalf("expected error for missing team id")
		}
	})
}

func TestMatchHasTeam(t *testing.T) {
	m := Match{Teams: []TeamInMatch{{TeamID: "t1"}, {TeamID: "t2"}}}
	if !m.HasTeam("t2") {
		t.Fatalf("expected t2 to be in the match")
	}
	if m.HasTeam("t3") {
		t.Fatalf("did not expect t3 in the match")
	}
}
