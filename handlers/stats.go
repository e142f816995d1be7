package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/andrewpaige1/studydeck/models"
	"github.com/andrewpaige1/studydeck/utils"
	"gorm.io/gorm"
)

func (db *DBHandler) GetUserStats(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")

	var stats models.UserStats
	err := db.WithContext(r.Context()).Where("user_id = ?", userID).First(&stats).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "Stats not found", http.StatusNotFound)
		return
	}
	if err != nil {
		db.Log.Error("load stats", "user_id", userID, "error", err)
		http.Error(w, "Failed to load stats", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, stats)
}

func (db *DBHandler) UpdateUserStats(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")

	type StatsUpdateRequest struct {
		TotalCards            *int       `json:"total_cards,omitempty"`
		CardsMastered         *int       `json:"cards_mastered,omitempty"`
		CurrentStreak         *int       `json:"current_streak,omitempty"`
		LongestStreak         *int       `json:"longest_streak,omitempty"`
		TotalStudyTimeMinutes *int       `json:"total_study_time_minutes,omitempty"`
		Points                *int       `json:"points,omitempty"`
		Level                 *int       `json:"level,omitempty"`
		LastStudyDate         *time.Time `json:"last_study_date,omitempty"`
	}
	var req StatsUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var stats models.UserStats
	err := db.WithContext(r.Context()).Where("user_id = ?", userID).First(&stats).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "Stats not found", http.StatusNotFound)
		return
	}
	if err != nil {
		db.Log.Error("load stats", "user_id", userID, "error", err)
		http.Error(w, "Failed to load stats", http.StatusInternalServerError)
		return
	}

	// Update fields if provided
	updates := map[string]any{}
	setInt := func(column string, v *int) bool {
		if v == nil {
			return true
		}
		if *v < 0 {
			return false
		}
		updates[column] = *v
		return true
	}
	ok := setInt("total_cards", req.TotalCards) &&
		setInt("cards_mastered", req.CardsMastered) &&
		setInt("current_streak", req.CurrentStreak) &&
		setInt("longest_streak", req.LongestStreak) &&
		setInt("total_study_time_minutes", req.TotalStudyTimeMinutes) &&
		setInt("points", req.Points) &&
		setInt("level", req.Level)
	if !ok {
		http.Error(w, "Stats must not be negative", http.StatusBadRequest)
		return
	}
	if req.LastStudyDate != nil {
		updates["last_study_date"] = *req.LastStudyDate
	}

	if len(updates) > 0 {
		if err := db.WithContext(r.Context()).Model(&stats).Updates(updates).Error; err != nil {
			db.Log.Error("update stats", "user_id", userID, "error", err)
			http.Error(w, "Failed to update stats", http.StatusInternalServerError)
			return
		}
		if err := db.WithContext(r.Context()).Where("user_id = ?", userID).First(&stats).Error; err != nil {
			http.Error(w, "Failed to load stats", http.StatusInternalServerError)
			return
		}
	}

	utils.WriteJSON(w, http.StatusOK, stats)
}
