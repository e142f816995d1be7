package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StudySession is the summary of one finished practice run
type StudySession struct {
	ID                 string    `gorm:"primaryKey;size:36" json:"id"`
	UserID             string    `gorm:"not null;index;size:36" json:"user_id"`
	User               User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	TotalCards         int       `gorm:"not null" json:"total_cards"`
	CorrectAnswers     int       `gorm:"not null" json:"correct_answers"`
	IncorrectAnswers   int       `gorm:"not null" json:"incorrect_answers"`
	AccuracyPercentage float64   `gorm:"not null" json:"accuracy_percentage"`
	DurationMinutes    int       `gorm:"not null" json:"duration_minutes"`
	SessionDate        time.Time `gorm:"index" json:"session_date"`
}

func (s *StudySession) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.SessionDate.IsZero() {
		s.SessionDate = time.Now().UTC()
	}
	return nil
}

// UserStats is the per-user aggregate the dashboard reads
type UserStats struct {
	UserID                string     `gorm:"primaryKey;size:36" json:"user_id"`
	TotalCards            int        `gorm:"default:0" json:"total_cards"`
	CardsMastered         int        `gorm:"default:0" json:"cards_mastered"`
	CurrentStreak         int        `gorm:"default:0" json:"current_streak"`
	LongestStreak         int        `gorm:"default:0" json:"longest_streak"`
	TotalStudyTimeMinutes int        `gorm:"default:0" json:"total_study_time_minutes"`
	Points                int        `gorm:"default:0" json:"points"`
	Level                 int        `gorm:"default:1" json:"level"`
	LastStudyDate         *time.Time `gorm:"default:null" json:"last_study_date"`
	UpdatedAt             time.Time  `json:"-"`
}

func (UserStats) TableName() string {
	return "user_stats"
}
