package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/andrewpaige1/studydeck/models"
	"github.com/andrewpaige1/studydeck/utils"
)

const maxFlashcardLimit = 5000

// GetFlashcardsForUser lists the user's cards newest first. Without ?limit
// every card is returned.
func (db *DBHandler) GetFlashcardsForUser(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	query := db.WithContext(r.Context()).
		Where("user_id = ?", userID).
		Order("created_at desc")
	if limit := utils.ParseLimit(r, 0, maxFlashcardLimit); limit > 0 {
		query = query.Limit(limit)
	}

	flashcards := []models.Flashcard{}
	err := query.Find(&flashcards).Error
	if err != nil {
		db.Log.Error("list flashcards", "user_id", userID, "error", err)
		http.Error(w, "Failed to fetch flashcards", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, flashcards)
}

func (db *DBHandler) CreateFlashCard(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")

	type FlashcardRequestData struct {
		Question       string     `json:"question"`
		Answer         string     `json:"answer"`
		Subject        string     `json:"subject"`
		Week           string     `json:"week"`
		Difficulty     string     `json:"difficulty"`
		CorrectCount   int        `json:"correct_count"`
		IncorrectCount int        `json:"incorrect_count"`
		IsStarred      bool       `json:"is_starred"`
		LastReviewed   *time.Time `json:"last_reviewed"`
		NextReview     *time.Time `json:"next_review"`
	}

	var req FlashcardRequestData
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Could not decode request", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Question) == "" || strings.TrimSpace(req.Answer) == "" {
		http.Error(w, "Question and answer are required", http.StatusBadRequest)
		return
	}
	if req.CorrectCount < 0 || req.IncorrectCount < 0 {
		http.Error(w, "Counts must not be negative", http.StatusBadRequest)
		return
	}

	// the path owner wins over any user_id in the body
	flashcard := models.Flashcard{
		UserID:         userID,
		Question:       req.Question,
		Answer:         req.Answer,
		Subject:        req.Subject,
		Week:           req.Week,
		Difficulty:     req.Difficulty,
		CorrectCount:   req.CorrectCount,
		IncorrectCount: req.IncorrectCount,
		IsStarred:      req.IsStarred,
		LastReviewed:   req.LastReviewed,
		NextReview:     req.NextReview,
	}

	if err := db.WithContext(r.Context()).Create(&flashcard).Error; err != nil {
		db.Log.Error("create flashcard", "user_id", userID, "error", err)
		http.Error(w, "Failed to create flashcard", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, flashcard)
}
