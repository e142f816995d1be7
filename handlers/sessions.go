package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/andrewpaige1/studydeck/models"
	"github.com/andrewpaige1/studydeck/utils"
)

const (
	defaultSessionLimit = 7
	maxSessionLimit     = 100
)

func (db *DBHandler) CreateStudySession(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")

	var req struct {
		TotalCards         int       `json:"total_cards"`
		CorrectAnswers     int       `json:"correct_answers"`
		IncorrectAnswers   int       `json:"incorrect_answers"`
		AccuracyPercentage float64   `json:"accuracy_percentage"`
		DurationMinutes    int       `json:"duration_minutes"`
		SessionDate        time.Time `json:"session_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.TotalCards < 0 || req.CorrectAnswers < 0 || req.IncorrectAnswers < 0 || req.DurationMinutes < 0 {
		http.Error(w, "Session values must not be negative", http.StatusBadRequest)
		return
	}
	if req.AccuracyPercentage < 0 || req.AccuracyPercentage > 100 {
		http.Error(w, "Accuracy must be between 0 and 100", http.StatusBadRequest)
		return
	}

	session := models.StudySession{
		UserID:             userID,
		TotalCards:         req.TotalCards,
		CorrectAnswers:     req.CorrectAnswers,
		IncorrectAnswers:   req.IncorrectAnswers,
		AccuracyPercentage: req.AccuracyPercentage,
		DurationMinutes:    req.DurationMinutes,
		SessionDate:        req.SessionDate,
	}

	if err := db.WithContext(r.Context()).Create(&session).Error; err != nil {
		db.Log.Error("create study session", "user_id", userID, "error", err)
		http.Error(w, "Failed to save study session", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, session)
}

func (db *DBHandler) GetStudySessions(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	limit := utils.ParseLimit(r, defaultSessionLimit, maxSessionLimit)

	sessions := []models.StudySession{}
	err := db.WithContext(r.Context()).
		Where("user_id = ?", userID).
		Order("session_date desc").
		Limit(limit).
		Find(&sessions).Error
	if err != nil {
		db.Log.Error("list study sessions", "user_id", userID, "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, sessions)
}
