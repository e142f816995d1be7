package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Flashcard is a user's card as stored on the server
type Flashcard struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"`
	UserID   string `gorm:"not null;index;size:36" json:"user_id"`
	User     User   `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Question string `gorm:"not null;size:1000" json:"question"`
	Answer   string `gorm:"not null;size:2000" json:"answer"`
	Subject  string `gorm:"size:100" json:"subject,omitempty"`
	Week     string `gorm:"size:50" json:"week,omitempty"`

	// Review tracking
	Difficulty     string     `gorm:"size:10" json:"difficulty,omitempty"`
	CorrectCount   int        `gorm:"default:0" json:"correct_count"`
	IncorrectCount int        `gorm:"default:0" json:"incorrect_count"`
	IsStarred      bool       `gorm:"default:false" json:"is_starred"`
	LastReviewed   *time.Time `gorm:"default:null" json:"last_reviewed"`
	NextReview     *time.Time `gorm:"default:null" json:"next_review"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

func (f *Flashcard) BeforeCreate(*gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}
