// Package recorder stores the summary of a finished practice session and
// folds it into the user's remote aggregate stats.
package recorder

import (
	"context"
	"errors"
	"fmt"

	"github.com/andrewpaige1/studydeck/apperrors"
	"github.com/andrewpaige1/studydeck/clock"
	"github.com/andrewpaige1/studydeck/logger"
	"github.com/andrewpaige1/studydeck/remote"
	"github.com/andrewpaige1/studydeck/store"
)

// DefaultRecent is how many sessions the dashboard shows.
const DefaultRecent = 7

// Tally is the outcome of one practice session.
type Tally struct {
	TotalCards       int
	CorrectAnswers   int
	IncorrectAnswers int
	DurationMinutes  int
}

// TallyFrom builds a Tally from the repository's session counters.
func TallyFrom(s store.Session, durationMinutes int) Tally {
	return Tally{
		TotalCards:       s.Total,
		CorrectAnswers:   s.Correct,
		IncorrectAnswers: s.Incorrect,
		DurationMinutes:  durationMinutes,
	}
}

type Remote interface {
	remote.Sessions
	remote.Stats
}

type Recorder struct {
	remote Remote
	clock  clock.Clock
	log    *logger.Logger
}

func New(r Remote, c clock.Clock, log *logger.Logger) *Recorder {
	if c == nil {
		c = clock.System{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Recorder{remote: r, clock: c, log: log.With("component", "recorder")}
}

// Save persists the session summary, then adds its duration to the user's
// aggregate stats. A user without an aggregate record is left alone.
func (r *Recorder) Save(ctx context.Context, userID string, t Tally) (remote.StudySessionRecord, error) {
	if userID == "" {
		return remote.StudySessionRecord{}, fmt.Errorf("save study session: %w", apperrors.ErrUnauthorized)
	}

	now := r.clock.Now()
	rec := remote.StudySessionRecord{
		UserID:             userID,
		TotalCards:         t.TotalCards,
		CorrectAnswers:     t.CorrectAnswers,
		IncorrectAnswers:   t.IncorrectAnswers,
		AccuracyPercentage: store.Accuracy(t.CorrectAnswers, t.TotalCards),
		DurationMinutes:    t.DurationMinutes,
		SessionDate:        now,
	}
	if err := r.remote.InsertStudySession(ctx, rec); err != nil {
		r.log.Error("save study session", "user_id", userID, "error", err)
		return rec, fmt.Errorf("save study session: %w", err)
	}

	stats, err := r.remote.GetUserStats(ctx, userID)
	if errors.Is(err, apperrors.ErrNotFound) {
		r.log.Debug("no aggregate stats yet", "user_id", userID)
		return rec, nil
	}
	if err != nil {
		r.log.Error("load user stats", "user_id", userID, "error", err)
		return rec, fmt.Errorf("load user stats: %w", err)
	}

	total := stats.TotalStudyTimeMinutes + t.DurationMinutes
	if err := r.remote.UpdateUserStats(ctx, userID, remote.StatsPatch{
		TotalStudyTimeMinutes: &total,
		LastStudyDate:         &now,
	}); err != nil {
		r.log.Error("update user stats", "user_id", userID, "error", err)
		return rec, fmt.Errorf("update user stats: %w", err)
	}
	return rec, nil
}

// Recent lists the latest session summaries, newest first.
func (r *Recorder) Recent(ctx context.Context, userID string, limit int) ([]remote.StudySessionRecord, error) {
	if userID == "" {
		return nil, apperrors.ErrUnauthorized
	}
	if limit <= 0 {
		limit = DefaultRecent
	}
	return r.remote.ListStudySessions(ctx, userID, limit)
}
