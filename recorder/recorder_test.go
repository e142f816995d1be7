package recorder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/andrewpaige1/studydeck/apperrors"
	"github.com/andrewpaige1/studydeck/clock"
	"github.com/andrewpaige1/studydeck/remote"
	"github.com/andrewpaige1/studydeck/store"
)

type fakeRemote struct {
	sessions  []remote.StudySessionRecord
	stats     *remote.UserStatsRecord
	patches   []remote.StatsPatch
	insertErr error
	statsErr  error
}

func (f *fakeRemote) InsertStudySession(_ context.Context, rec remote.StudySessionRecord) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.sessions = append(f.sessions, rec)
	return nil
}

func (f *fakeRemote) ListStudySessions(_ context.Context, _ string, limit int) ([]remote.StudySessionRecord, error) {
	out := f.sessions
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeRemote) GetUserStats(context.Context, string) (remote.UserStatsRecord, error) {
	if f.statsErr != nil {
		return remote.UserStatsRecord{}, f.statsErr
	}
	if f.stats == nil {
		return remote.UserStatsRecord{}, apperrors.ErrNotFound
	}
	return *f.stats, nil
}

func (f *fakeRemote) UpdateUserStats(_ context.Context, _ string, p remote.StatsPatch) error {
	f.patches = append(f.patches, p)
	return nil
}

var now = time.Date(2026, 10, 19, 18, 0, 0, 0, time.UTC)

func TestSaveComputesAccuracyAndUpdatesStats(t *testing.T) {
	rem := &fakeRemote{stats: &remote.UserStatsRecord{UserID: "u", TotalStudyTimeMinutes: 30}}
	r := New(rem, clock.Fixed(now), nil)

	rec, err := r.Save(context.Background(), "u", Tally{TotalCards: 10, CorrectAnswers: 7, IncorrectAnswers: 3, DurationMinutes: 12})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if rec.AccuracyPercentage != 70 {
		t.Fatalf("expected 70%% accuracy, got %v", rec.AccuracyPercentage)
	}
	if len(rem.sessions) != 1 || rem.sessions[0].AccuracyPercentage != 70 || !rem.sessions[0].SessionDate.Equal(now) {
		t.Fatalf("unexpected persisted sessions: %+v", rem.sessions)
	}
	if len(rem.patches) != 1 {
		t.Fatalf("expected one stats update, got %d", len(rem.patches))
	}
	p := rem.patches[0]
	if *p.TotalStudyTimeMinutes != 42 || !p.LastStudyDate.Equal(now) {
		t.Fatalf("unexpected patch: total=%d date=%v", *p.TotalStudyTimeMinutes, p.LastStudyDate)
	}
	if p.Points != nil || p.CurrentStreak != nil {
		t.Fatalf("patch touched unrelated fields: %+v", p)
	}
}

func TestSaveEmptySession(t *testing.T) {
	rem := &fakeRemote{}
	rec, err := New(rem, clock.Fixed(now), nil).Save(context.Background(), "u", Tally{})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if rec.AccuracyPercentage != 0 {
		t.Fatalf("expected 0 accuracy, got %v", rec.AccuracyPercentage)
	}
}

func TestSaveWithoutAggregateSkipsUpdate(t *testing.T) {
	rem := &fakeRemote{}
	if _, err := New(rem, clock.Fixed(now), nil).Save(context.Background(), "u", Tally{TotalCards: 1, CorrectAnswers: 1, DurationMinutes: 3}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if len(rem.sessions) != 1 || len(rem.patches) != 0 {
		t.Fatalf("expected summary only, sessions=%d patches=%d", len(rem.sessions), len(rem.patches))
	}
}

func TestSaveErrors(t *testing.T) {
	ctx := context.Background()

	rem := &fakeRemote{}
	if _, err := New(rem, nil, nil).Save(ctx, "", Tally{TotalCards: 1}); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if len(rem.sessions) != 0 {
		t.Fatalf("anonymous save reached the remote")
	}

	rem = &fakeRemote{insertErr: apperrors.ErrRemote, stats: &remote.UserStatsRecord{}}
	if _, err := New(rem, nil, nil).Save(ctx, "u", Tally{TotalCards: 1}); !errors.Is(err, apperrors.ErrRemote) {
		t.Fatalf("expected ErrRemote, got %v", err)
	}
	if len(rem.patches) != 0 {
		t.Fatalf("stats updated after failed insert")
	}

	rem = &fakeRemote{statsErr: apperrors.ErrRemote}
	if _, err := New(rem, nil, nil).Save(ctx, "u", Tally{TotalCards: 1}); !errors.Is(err, apperrors.ErrRemote) {
		t.Fatalf("expected ErrRemote from stats read, got %v", err)
	}
}

func TestTallyFromAndRecent(t *testing.T) {
	tally := TallyFrom(store.Session{Correct: 4, Incorrect: 2, Total: 6}, 9)
	if tally != (Tally{TotalCards: 6, CorrectAnswers: 4, IncorrectAnswers: 2, DurationMinutes: 9}) {
		t.Fatalf("unexpected tally %+v", tally)
	}

	rem := &fakeRemote{}
	r := New(rem, clock.Fixed(now), nil)
	for i := 0; i < 10; i++ {
		if _, err := r.Save(context.Background(), "u", tally); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	recent, err := r.Recent(context.Background(), "u", 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != DefaultRecent {
		t.Fatalf("expected %d recent sessions, got %d", DefaultRecent, len(recent))
	}
}
