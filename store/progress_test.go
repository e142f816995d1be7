package store

import (
	"testing"
	"time"

	"github.com/andrewpaige1/studydeck/clock"
)

func TestAddPointsClampsAndLevels(t *testing.T) {
	deltas := []int{-10, 30, 470, -1, 1, 1000, -5000, 499, 1, -2}
	s := newTestStore(t, time.Now())
	for _, d := range deltas {
		s.AddPoints(d)
		p := s.Progress()
		if p.Points < 0 {
			t.Fatalf("points went negative after %d: %d", d, p.Points)
		}
		if p.Level != p.Points/500+1 {
			t.Fatalf("level %d does not match points %d", p.Level, p.Points)
		}
	}
}

func TestLevelFor(t *testing.T) {
	cases := map[int]int{0: 1, 499: 1, 500: 2, 999: 2, 1000: 3, 1499: 3, -20: 1}
	for points, want := range cases {
		if got := LevelFor(points); got != want {
			t.Fatalf("LevelFor(%d) = %d, want %d", points, got, want)
		}
	}
}

func TestNegativePointsOnEmptyRepository(t *testing.T) {
	s := newTestStore(t, time.Now())
	s.AddPoints(-10)
	p := s.Progress()
	if p.Points != 0 || p.Level != 1 {
		t.Fatalf("expected 0 points at level 1, got %+v", p)
	}
}

func TestFiveCorrectGrades(t *testing.T) {
	s := newTestStore(t, time.Now())
	for i := 0; i < 5; i++ {
		c := mustAdd(t, s, "q")
		if err := s.MarkCardCorrect(c.ID); err != nil {
			t.Fatalf("MarkCardCorrect: %v", err)
		}
	}
	p := s.Progress()
	if p.Points != 150 || p.Level != 1 {
		t.Fatalf("expected 150 points at level 1, got %+v", p)
	}
	if sess := s.Session(); sess.Correct != 5 || sess.Total != 5 || sess.Incorrect != 0 {
		t.Fatalf("unexpected session tally: %+v", sess)
	}
}

func TestGradingSchedulesReview(t *testing.T) {
	now := time.Date(2026, 10, 19, 15, 30, 0, 0, time.UTC)
	s := newTestStore(t, now)
	c := mustAdd(t, s, "q")

	if err := s.MarkCardCorrect(c.ID); err != nil {
		t.Fatalf("MarkCardCorrect: %v", err)
	}
	got, _ := s.Card(c.ID)
	if got.CorrectCount != 1 || !got.LastReviewed.Equal(now) {
		t.Fatalf("unexpected card after correct: %+v", got)
	}
	if d := got.NextReview.Sub(*got.LastReviewed); d != 5*24*time.Hour {
		t.Fatalf("correct interval = %v", d)
	}

	if err := s.MarkCardIncorrect(c.ID); err != nil {
		t.Fatalf("MarkCardIncorrect: %v", err)
	}
	got, _ = s.Card(c.ID)
	if got.IncorrectCount != 1 || got.CorrectCount != 1 {
		t.Fatalf("unexpected counters: %+v", got)
	}
	if d := got.NextReview.Sub(*got.LastReviewed); d != 24*time.Hour {
		t.Fatalf("incorrect interval = %v", d)
	}

	p := s.Progress()
	if p.Points != 20 {
		t.Fatalf("expected 30-10=20 points, got %d", p.Points)
	}
	sess := s.Session()
	if sess.Correct != 1 || sess.Incorrect != 1 || sess.Total != 2 {
		t.Fatalf("unexpected session: %+v", sess)
	}

	s.ResetSession()
	if sess := s.Session(); sess != (Session{}) {
		t.Fatalf("session not reset: %+v", sess)
	}
}

func TestIncorrectAtZeroPoints(t *testing.T) {
	s := newTestStore(t, time.Now())
	c := mustAdd(t, s, "q")
	_ = s.MarkCardIncorrect(c.ID)
	if p := s.Progress(); p.Points != 0 || p.Level != 1 {
		t.Fatalf("expected clamp at zero, got %+v", p)
	}
}

func TestUpdateStreak(t *testing.T) {
	day := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	now := day
	s := New(WithClock(clock.Func(func() time.Time { return now })), WithLocation(time.UTC))

	s.UpdateStreak()
	if p := s.Progress(); p.Streak != 1 || p.LastStudyDate != "2026-10-19" || p.LongestStreak != 1 {
		t.Fatalf("first day: %+v", p)
	}

	now = day.Add(5 * time.Hour)
	s.UpdateStreak()
	if p := s.Progress(); p.Streak != 1 {
		t.Fatalf("same day not idempotent: %+v", p)
	}

	for i := 1; i <= 3; i++ {
		now = day.AddDate(0, 0, i)
		s.UpdateStreak()
	}
	if p := s.Progress(); p.Streak != 4 || p.LongestStreak != 4 || p.LastStudyDate != "2026-10-22" {
		t.Fatalf("consecutive days: %+v", p)
	}

	now = day.AddDate(0, 0, 10)
	s.UpdateStreak()
	if p := s.Progress(); p.Streak != 1 || p.LongestStreak != 4 || p.LastStudyDate != "2026-10-29" {
		t.Fatalf("after gap: %+v", p)
	}
}

func TestUpdateStreakUsesLocalCalendar(t *testing.T) {
	loc := time.FixedZone("UTC-8", -8*60*60)
	// 2026-10-20 03:00 UTC is still 2026-10-19 in UTC-8.
	now := time.Date(2026, 10, 20, 3, 0, 0, 0, time.UTC)
	s := New(WithClock(clock.Fixed(now)), WithLocation(loc))
	s.UpdateStreak()
	if got := s.Progress().LastStudyDate; got != "2026-10-19" {
		t.Fatalf("expected local date, got %s", got)
	}
}

func TestAccuracyAndStudyTime(t *testing.T) {
	if got := Accuracy(7, 10); got != 70 {
		t.Fatalf("Accuracy(7,10) = %v", got)
	}
	if got := Accuracy(0, 0); got != 0 {
		t.Fatalf("Accuracy(0,0) = %v", got)
	}

	s := newTestStore(t, time.Now())
	s.AddStudyTime(12)
	s.AddStudyTime(-3)
	if got := s.Progress().TotalStudyTimeMinutes; got != 12 {
		t.Fatalf("expected 12 minutes, got %d", got)
	}
}
