package handlers

import (
	"net/http"

	"github.com/andrewpaige1/studydeck/auth"
	"github.com/andrewpaige1/studydeck/logger"
	"github.com/andrewpaige1/studydeck/middleware"
	"gorm.io/gorm"
)

type DBHandler struct {
	*gorm.DB
	Tokens *auth.TokenIssuer
	Log    *logger.Logger
}

// Register mounts every API route on mux.
func Register(mux *http.ServeMux, db *DBHandler) {
	requireUser := middleware.SyncUserMiddleware(db.DB, db.Log)

	// Auth
	mux.HandleFunc("POST /api/auth/sign-up", db.SignUp)
	mux.HandleFunc("POST /api/auth/sign-in", db.SignIn)
	mux.HandleFunc("POST /api/auth/sign-out", requireUser(db.SignOut))

	// Flashcards
	mux.HandleFunc("GET /api/users/{userID}/flashcards", requireUser(db.GetFlashcardsForUser))
	mux.HandleFunc("POST /api/users/{userID}/flashcards", requireUser(db.CreateFlashCard))

	// Study sessions
	mux.HandleFunc("GET /api/users/{userID}/sessions", requireUser(db.GetStudySessions))
	mux.HandleFunc("POST /api/users/{userID}/sessions", requireUser(db.CreateStudySession))

	// Stats
	mux.HandleFunc("GET /api/users/{userID}/stats", requireUser(db.GetUserStats))
	mux.HandleFunc("PATCH /api/users/{userID}/stats", requireUser(db.UpdateUserStats))
}
