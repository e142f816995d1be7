// Package store owns the flashcard collection, the practice-session tally and
// the gamified progress of a single user.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/andrewpaige1/studydeck/apperrors"
	"github.com/andrewpaige1/studydeck/clock"
	"github.com/andrewpaige1/studydeck/generate"
	"github.com/andrewpaige1/studydeck/logger"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// StorageName is the key the repository snapshot is saved under.
const StorageName = "flashcard-storage"

// Stage is the screen the client shows; routing itself lives in the UI.
type Stage int

const (
	StageSetup Stage = iota + 1
	StageOrganize
	StagePractice
	StageReviewTimer
)

// Session is the in-progress tally of one practice run.
type Session struct {
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
	Total     int `json:"total"`
}

// State is everything the repository persists.
type State struct {
	Stage            Stage       `json:"stage"`
	Cards            []Flashcard `json:"cards"`
	CurrentCardIndex int         `json:"currentCardIndex"`
	Progress         Progress    `json:"progress"`
	NextReviewTime   *time.Time  `json:"nextReviewTime,omitempty"`
	Session          Session     `json:"studySession"`
}

func initialState() State {
	return State{
		Stage:    StageSetup,
		Cards:    []Flashcard{},
		Progress: Progress{Level: 1},
	}
}

// Persister is durable local storage for named snapshots.
type Persister interface {
	Load(ctx context.Context, name string) ([]byte, error)
	Save(ctx context.Context, name string, data []byte) error
}

// Repository is the set of operations the rest of the client drives.
type Repository interface {
	AddCard(d Draft) (Flashcard, error)
	UpdateCard(id string, p Patch) error
	DeleteCard(id string) error
	ClearCards()
	ToggleStar(id string) error
	MarkCardCorrect(id string) error
	MarkCardIncorrect(id string) error
	NextCard() int
	ResetSession()
	UpdateStreak()
	AddPoints(delta int)
	Cards() []Flashcard
	Session() Session
	Progress() Progress
}

var _ Repository = (*Store)(nil)

type Store struct {
	mu        sync.Mutex
	state     State
	clock     clock.Clock
	loc       *time.Location
	newID     func() (string, error)
	persister Persister
	log       *logger.Logger
}

type Option func(*Store)

func WithClock(c clock.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithLocation sets the timezone used for calendar-date comparisons.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) { s.loc = loc }
}

func WithIDGenerator(f func() (string, error)) Option {
	return func(s *Store) { s.newID = f }
}

func WithPersister(p Persister) Option {
	return func(s *Store) { s.persister = p }
}

func WithLogger(l *logger.Logger) Option {
	return func(s *Store) { s.log = l }
}

// New returns an empty repository.
func New(opts ...Option) *Store {
	s := &Store{
		state: initialState(),
		clock: clock.System{},
		loc:   time.Local,
		newID: func() (string, error) { return gonanoid.New() },
		log:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("component", "store")
	return s
}

// Open rehydrates the repository saved in p. A missing snapshot yields an
// empty repository.
func Open(ctx context.Context, p Persister, opts ...Option) (*Store, error) {
	s := New(append(opts, WithPersister(p))...)

	data, err := p.Load(ctx, StorageName)
	if errors.Is(err, apperrors.ErrNotFound) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", StorageName, err)
	}

	state := initialState()
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("decode %s: %w", StorageName, err)
	}
	if state.Cards == nil {
		state.Cards = []Flashcard{}
	}
	if state.Stage == 0 {
		state.Stage = StageSetup
	}
	state.Progress.Points = max(state.Progress.Points, 0)
	state.Progress.Level = LevelFor(state.Progress.Points)
	s.state = state

	s.log.Info("flashcard store rehydrated", "cards", len(state.Cards))
	return s, nil
}

// persist saves the current state. Callers hold s.mu. Failures are logged and
// never undo the in-memory change.
func (s *Store) persist() {
	if s.persister == nil {
		return
	}
	data, err := json.Marshal(s.state)
	if err != nil {
		s.log.Error("encode snapshot", "error", err)
		return
	}
	if err := s.persister.Save(context.Background(), StorageName, data); err != nil {
		s.log.Error("save snapshot", "error", err)
	}
}

func (s *Store) indexOf(id string) int {
	for i := range s.state.Cards {
		if s.state.Cards[i].ID == id {
			return i
		}
	}
	return -1
}

func notFound(id string) error {
	return fmt.Errorf("card %q: %w", id, apperrors.ErrNotFound)
}

func (s *Store) AddCard(d Draft) (Flashcard, error) {
	if strings.TrimSpace(d.Question) == "" || strings.TrimSpace(d.Answer) == "" {
		return Flashcard{}, fmt.Errorf("question and answer are required: %w", apperrors.ErrInvalidArgument)
	}
	id, err := s.newID()
	if err != nil {
		return Flashcard{}, fmt.Errorf("generate card id: %w", err)
	}

	card := Flashcard{
		ID:         id,
		Question:   d.Question,
		Answer:     d.Answer,
		Subject:    d.Subject,
		Week:       d.Week,
		Difficulty: d.Difficulty,
	}
	if d.LastReviewed != nil {
		t := *d.LastReviewed
		card.LastReviewed = &t
	}
	if d.NextReview != nil {
		t := *d.NextReview
		card.NextReview = &t
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Cards = append(s.state.Cards, card)
	s.persist()
	s.log.Debug("added card", "id", id, "question", card.Question)
	return card.clone(), nil
}

// AddGeneratedCards adds every generated card and returns the ones stored.
// Unknown difficulty labels are dropped.
func (s *Store) AddGeneratedCards(cards []generate.Card) ([]Flashcard, error) {
	added := make([]Flashcard, 0, len(cards))
	for _, gc := range cards {
		diff, _ := ParseDifficulty(gc.Difficulty)
		c, err := s.AddCard(Draft{
			Question:   gc.Question,
			Answer:     gc.Answer,
			Subject:    gc.Subject,
			Difficulty: diff,
		})
		if err != nil {
			return added, err
		}
		added = append(added, c)
	}
	return added, nil
}

func (s *Store) UpdateCard(id string, p Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return notFound(id)
	}
	p.apply(&s.state.Cards[i])
	s.persist()
	return nil
}

func (s *Store) DeleteCard(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return notFound(id)
	}
	s.state.Cards = append(s.state.Cards[:i], s.state.Cards[i+1:]...)
	s.persist()
	return nil
}

func (s *Store) ClearCards() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log.Debug("clearing all cards", "count", len(s.state.Cards))
	s.state.Cards = []Flashcard{}
	s.persist()
}

func (s *Store) ToggleStar(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return notFound(id)
	}
	s.state.Cards[i].Starred = !s.state.Cards[i].Starred
	s.persist()
	return nil
}

// NextCard advances the practice cursor, wrapping around the collection.
func (s *Store) NextCard() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.CurrentCardIndex = (s.state.CurrentCardIndex + 1) % max(len(s.state.Cards), 1)
	s.persist()
	return s.state.CurrentCardIndex
}

func (s *Store) ResetSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.CurrentCardIndex = 0
	s.state.Session = Session{}
	s.persist()
}

func (s *Store) SetStage(stage Stage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log.Debug("setting stage", "stage", stage)
	s.state.Stage = stage
	s.persist()
}

func (s *Store) SetNextReviewTime(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.NextReviewTime = &t
	s.persist()
}

func (s *Store) Stage() Stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Stage
}

func (s *Store) NextReviewTime() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.NextReviewTime == nil {
		return time.Time{}, false
	}
	return *s.state.NextReviewTime, true
}

// Cards returns a copy of the collection in insertion order.
func (s *Store) Cards() []Flashcard {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Flashcard, len(s.state.Cards))
	for i, c := range s.state.Cards {
		out[i] = c.clone()
	}
	return out
}

func (s *Store) Card(id string) (Flashcard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return Flashcard{}, notFound(id)
	}
	return s.state.Cards[i].clone(), nil
}

func (s *Store) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CurrentCardIndex
}

// CurrentCard is the card under the practice cursor, if any.
func (s *Store) CurrentCard() (Flashcard, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.state.CurrentCardIndex
	if i < 0 || i >= len(s.state.Cards) {
		return Flashcard{}, false
	}
	return s.state.Cards[i].clone(), true
}

func (s *Store) Session() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Session
}

// Snapshot returns a deep copy of the persisted state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.state
	out.Cards = make([]Flashcard, len(s.state.Cards))
	for i, c := range s.state.Cards {
		out.Cards[i] = c.clone()
	}
	if s.state.NextReviewTime != nil {
		t := *s.state.NextReviewTime
		out.NextReviewTime = &t
	}
	return out
}
