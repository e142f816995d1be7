// Package remote describes the remote record store the client reconciles
// with, and implements it over the studydeck HTTP API.
package remote

import (
	"context"
	"time"
)

// FlashcardRecord is a flashcard as the remote store keeps it.
type FlashcardRecord struct {
	ID             string     `json:"id,omitempty"`
	UserID         string     `json:"user_id"`
	Question       string     `json:"question"`
	Answer         string     `json:"answer"`
	Subject        string     `json:"subject,omitempty"`
	Week           string     `json:"week,omitempty"`
	Difficulty     string     `json:"difficulty,omitempty"`
	CorrectCount   int        `json:"correct_count"`
	IncorrectCount int        `json:"incorrect_count"`
	IsStarred      bool       `json:"is_starred"`
	LastReviewed   *time.Time `json:"last_reviewed"`
	NextReview     *time.Time `json:"next_review"`
	CreatedAt      *time.Time `json:"created_at,omitempty"`
}

// StudySessionRecord is the summary of one completed practice run.
type StudySessionRecord struct {
	ID                 string    `json:"id,omitempty"`
	UserID             string    `json:"user_id"`
	TotalCards         int       `json:"total_cards"`
	CorrectAnswers     int       `json:"correct_answers"`
	IncorrectAnswers   int       `json:"incorrect_answers"`
	AccuracyPercentage float64   `json:"accuracy_percentage"`
	DurationMinutes    int       `json:"duration_minutes"`
	SessionDate        time.Time `json:"session_date"`
}

// UserStatsRecord is the per-user aggregate of study progress.
type UserStatsRecord struct {
	UserID                string     `json:"user_id"`
	TotalCards            int        `json:"total_cards"`
	CardsMastered         int        `json:"cards_mastered"`
	CurrentStreak         int        `json:"current_streak"`
	LongestStreak         int        `json:"longest_streak"`
	TotalStudyTimeMinutes int        `json:"total_study_time_minutes"`
	Points                int        `json:"points"`
	Level                 int        `json:"level"`
	LastStudyDate         *time.Time `json:"last_study_date"`
}

// StatsPatch lists the aggregate fields to change; nil fields are kept.
type StatsPatch struct {
	TotalCards            *int       `json:"total_cards,omitempty"`
	CardsMastered         *int       `json:"cards_mastered,omitempty"`
	CurrentStreak         *int       `json:"current_streak,omitempty"`
	LongestStreak         *int       `json:"longest_streak,omitempty"`
	TotalStudyTimeMinutes *int       `json:"total_study_time_minutes,omitempty"`
	Points                *int       `json:"points,omitempty"`
	Level                 *int       `json:"level,omitempty"`
	LastStudyDate         *time.Time `json:"last_study_date,omitempty"`
}

type Flashcards interface {
	// ListFlashcards returns the user's cards newest first. limit <= 0 means all.
	ListFlashcards(ctx context.Context, userID string, limit int) ([]FlashcardRecord, error)
	InsertFlashcard(ctx context.Context, rec FlashcardRecord) error
}

type Sessions interface {
	InsertStudySession(ctx context.Context, rec StudySessionRecord) error
	// ListStudySessions returns the most recent sessions first.
	ListStudySessions(ctx context.Context, userID string, limit int) ([]StudySessionRecord, error)
}

type Stats interface {
	// GetUserStats fails with apperrors.ErrNotFound when no aggregate exists.
	GetUserStats(ctx context.Context, userID string) (UserStatsRecord, error)
	UpdateUserStats(ctx context.Context, userID string, patch StatsPatch) error
}

// Store is everything the client needs from the remote side.
type Store interface {
	Flashcards
	Sessions
	Stats
}
