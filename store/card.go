package store

import (
	"strings"
	"time"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty accepts easy, medium or hard in any case. Anything else
// yields the empty difficulty and false.
func ParseDifficulty(s string) (Difficulty, bool) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return d, true
	}
	return "", false
}

// Flashcard represents an individual flashcard
type Flashcard struct {
	ID             string     `json:"id"`
	Question       string     `json:"question"`
	Answer         string     `json:"answer"`
	Subject        string     `json:"subject,omitempty"`
	Week           string     `json:"week,omitempty"`
	Difficulty     Difficulty `json:"difficulty,omitempty"`
	LastReviewed   *time.Time `json:"lastReviewed,omitempty"`
	NextReview     *time.Time `json:"nextReview,omitempty"`
	CorrectCount   int        `json:"correctCount"`
	IncorrectCount int        `json:"incorrectCount"`
	Starred        bool       `json:"isStarred"`
}

// Draft is the caller supplied part of a new card. Counters and the star
// flag always start zeroed.
type Draft struct {
	Question     string
	Answer       string
	Subject      string
	Week         string
	Difficulty   Difficulty
	LastReviewed *time.Time
	NextReview   *time.Time
}

// Patch holds the fields to merge into an existing card. Nil fields are left
// untouched.
type Patch struct {
	Question       *string
	Answer         *string
	Subject        *string
	Week           *string
	Difficulty     *Difficulty
	LastReviewed   *time.Time
	NextReview     *time.Time
	CorrectCount   *int
	IncorrectCount *int
	Starred        *bool
}

func (p Patch) apply(c *Flashcard) {
	if p.Question != nil {
		c.Question = *p.Question
	}
	if p.Answer != nil {
		c.Answer = *p.Answer
	}
	if p.Subject != nil {
		c.Subject = *p.Subject
	}
	if p.Week != nil {
		c.Week = *p.Week
	}
	if p.Difficulty != nil {
		c.Difficulty = *p.Difficulty
	}
	if p.LastReviewed != nil {
		t := *p.LastReviewed
		c.LastReviewed = &t
	}
	if p.NextReview != nil {
		t := *p.NextReview
		c.NextReview = &t
	}
	if p.CorrectCount != nil {
		c.CorrectCount = max(*p.CorrectCount, 0)
	}
	if p.IncorrectCount != nil {
		c.IncorrectCount = max(*p.IncorrectCount, 0)
	}
	if p.Starred != nil {
		c.Starred = *p.Starred
	}
}

func (c Flashcard) clone() Flashcard {
	if c.LastReviewed != nil {
		t := *c.LastReviewed
		c.LastReviewed = &t
	}
	if c.NextReview != nil {
		t := *c.NextReview
		c.NextReview = &t
	}
	return c
}

// Due reports whether the card should be reviewed at now. Cards that were
// never graded are always due.
func (c Flashcard) Due(now time.Time) bool {
	return c.NextReview == nil || !c.NextReview.After(now)
}
