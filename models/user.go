package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a user in the system
type User struct {
	ID           string      `gorm:"primaryKey;size:36" json:"id"`
	Email        string      `gorm:"uniqueIndex;not null;size:255" json:"email"`
	DisplayName  string      `gorm:"size:100" json:"display_name"`
	PasswordHash string      `gorm:"not null" json:"-"`
	Flashcards   []Flashcard `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"-"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// All lists every model the server migrates.
func All() []any {
	return []any{&User{}, &Flashcard{}, &StudySession{}, &UserStats{}}
}
