// Package syncer reconciles the local card repository with the remote store
// whenever the signed-in identity changes.
//
// Each identity change runs Pulling then Pushing once and ends Settled:
//
//	Idle -> Pulling -> Pushing -> Settled
//
// Pulling replaces the local cards when the remote set is non-empty. Pushing
// uploads every local card, one request at a time, when the remote set is
// empty. Nothing is diffed and concurrent edits on other devices are not
// detected, so the sync is at-least-once: a retry after a partial push can
// duplicate remote records.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/andrewpaige1/studydeck/apperrors"
	"github.com/andrewpaige1/studydeck/identity"
	"github.com/andrewpaige1/studydeck/logger"
	"github.com/andrewpaige1/studydeck/remote"
	"github.com/andrewpaige1/studydeck/store"
)

// DefaultSettleDelay is how long Pushing waits before checking the remote set.
const DefaultSettleDelay = time.Second

type State int

const (
	StateIdle State = iota
	StatePulling
	StatePushing
	StateSettled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePulling:
		return "pulling"
	case StatePushing:
		return "pushing"
	case StateSettled:
		return "settled"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Cards is the part of the repository the syncer drives.
type Cards interface {
	Cards() []store.Flashcard
	ClearCards()
	AddCard(d store.Draft) (store.Flashcard, error)
	UpdateCard(id string, p store.Patch) error
}

// Report describes what one identity change did.
type Report struct {
	UserID  string
	Pulled  int
	Pushed  int
	PullErr error
	PushErr error
}

// Err joins the phase errors, nil when both phases succeeded.
func (r Report) Err() error {
	return errors.Join(r.PullErr, r.PushErr)
}

type Syncer struct {
	cards  Cards
	remote remote.Flashcards
	log    *logger.Logger
	settle time.Duration
	after  func(time.Duration) <-chan time.Time

	mu       sync.Mutex
	state    State
	lastUser string
	last     Report
}

type Option func(*Syncer)

func WithSettleDelay(d time.Duration) Option {
	return func(s *Syncer) { s.settle = d }
}

// WithAfter replaces time.After, letting tests drive the settle delay.
func WithAfter(f func(time.Duration) <-chan time.Time) Option {
	return func(s *Syncer) { s.after = f }
}

func WithLogger(l *logger.Logger) Option {
	return func(s *Syncer) { s.log = l }
}

func New(cards Cards, rem remote.Flashcards, opts ...Option) *Syncer {
	s := &Syncer{
		cards:  cards,
		remote: rem,
		log:    logger.Nop(),
		settle: DefaultSettleDelay,
		after:  time.After,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("component", "syncer")
	return s
}

func (s *Syncer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Syncer) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// Listener adapts the syncer to identity.Session notifications.
func (s *Syncer) Listener() identity.Listener {
	return func(ctx context.Context, id identity.Identity) {
		rep := s.OnIdentityChange(ctx, id.UserID)
		if err := rep.Err(); err != nil {
			s.log.Warn("sync incomplete", "user_id", rep.UserID, "error", err)
		}
	}
}

// OnIdentityChange runs one reconciliation for userID. An empty userID means
// sign-out and returns the syncer to Idle. Repeating the identity that was
// handled last does nothing.
func (s *Syncer) OnIdentityChange(ctx context.Context, userID string) Report {
	rep := Report{UserID: userID}

	s.mu.Lock()
	if userID == "" {
		s.state = StateIdle
		s.lastUser = ""
		s.mu.Unlock()
		return rep
	}
	if userID == s.lastUser {
		s.mu.Unlock()
		return rep
	}
	s.lastUser = userID
	s.state = StatePulling
	s.mu.Unlock()

	rep.Pulled, rep.PullErr = s.pull(ctx, userID)

	s.setState(StatePushing)
	rep.Pushed, rep.PushErr = s.pushIfEmpty(ctx, userID)

	s.mu.Lock()
	s.state = StateSettled
	s.last = rep
	s.mu.Unlock()
	s.log.Info("sync settled", "user_id", userID, "pulled", rep.Pulled, "pushed", rep.Pushed)
	return rep
}

// LastReport is the report of the most recent reconciliation that ran.
func (s *Syncer) LastReport() Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Reset forgets the last handled identity so the next change for it runs
// again.
func (s *Syncer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUser = ""
	s.state = StateIdle
}

func (s *Syncer) pull(ctx context.Context, userID string) (int, error) {
	s.log.Debug("loading remote cards", "user_id", userID)
	recs, err := s.remote.ListFlashcards(ctx, userID, 0)
	if err != nil {
		s.log.Error("load remote cards", "user_id", userID, "error", err)
		return 0, fmt.Errorf("pull: %w", wrapRemote(err))
	}
	if len(recs) == 0 {
		return 0, nil
	}

	s.cards.ClearCards()
	pulled := 0
	for _, rec := range recs {
		if err := s.replay(rec); err != nil {
			s.log.Error("replay remote card", "remote_id", rec.ID, "error", err)
			return pulled, fmt.Errorf("pull: %w", err)
		}
		pulled++
	}
	s.log.Info("loaded remote cards", "user_id", userID, "count", pulled)
	return pulled, nil
}

// replay adds rec as a new local card and carries the review state across.
func (s *Syncer) replay(rec remote.FlashcardRecord) error {
	diff, _ := store.ParseDifficulty(rec.Difficulty)
	card, err := s.cards.AddCard(store.Draft{
		Question:     rec.Question,
		Answer:       rec.Answer,
		Subject:      rec.Subject,
		Week:         rec.Week,
		Difficulty:   diff,
		LastReviewed: rec.LastReviewed,
		NextReview:   rec.NextReview,
	})
	if err != nil {
		return err
	}
	correct, incorrect, starred := rec.CorrectCount, rec.IncorrectCount, rec.IsStarred
	return s.cards.UpdateCard(card.ID, store.Patch{
		CorrectCount:   &correct,
		IncorrectCount: &incorrect,
		Starred:        &starred,
	})
}

func (s *Syncer) pushIfEmpty(ctx context.Context, userID string) (int, error) {
	if len(s.cards.Cards()) == 0 {
		return 0, nil
	}

	if s.settle > 0 {
		select {
		case <-ctx.Done():
			return 0, fmt.Errorf("push: %w", ctx.Err())
		case <-s.after(s.settle):
		}
	}

	existing, err := s.remote.ListFlashcards(ctx, userID, 1)
	if err != nil {
		s.log.Error("check remote cards", "user_id", userID, "error", err)
		return 0, fmt.Errorf("push: %w", wrapRemote(err))
	}
	if len(existing) > 0 {
		return 0, nil
	}

	s.log.Info("syncing local cards to remote", "user_id", userID)
	pushed := 0
	for _, c := range s.cards.Cards() {
		if err := s.remote.InsertFlashcard(ctx, toRecord(userID, c)); err != nil {
			s.log.Error("insert card", "user_id", userID, "card_id", c.ID, "error", err)
			return pushed, fmt.Errorf("push: %w", wrapRemote(err))
		}
		pushed++
	}
	return pushed, nil
}

func toRecord(userID string, c store.Flashcard) remote.FlashcardRecord {
	return remote.FlashcardRecord{
		UserID:         userID,
		Question:       c.Question,
		Answer:         c.Answer,
		Subject:        c.Subject,
		Week:           c.Week,
		Difficulty:     string(c.Difficulty),
		CorrectCount:   c.CorrectCount,
		IncorrectCount: c.IncorrectCount,
		IsStarred:      c.Starred,
		LastReviewed:   c.LastReviewed,
		NextReview:     c.NextReview,
	}
}

func wrapRemote(err error) error {
	if errors.Is(err, apperrors.ErrRemote) {
		return err
	}
	return fmt.Errorf("%w: %w", apperrors.ErrRemote, err)
}
