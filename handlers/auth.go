package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/andrewpaige1/studydeck/auth"
	"github.com/andrewpaige1/studydeck/middleware"
	"github.com/andrewpaige1/studydeck/models"
	"github.com/andrewpaige1/studydeck/utils"
	"gorm.io/gorm"
)

const minPasswordLength = 6

type authResponse struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

type credentials struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name,omitempty"`
}

func decodeCredentials(r *http.Request) (credentials, error) {
	var c credentials
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		return c, err
	}
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	if _, err := mail.ParseAddress(c.Email); err != nil {
		return c, errors.New("a valid email is required")
	}
	if len(c.Password) < minPasswordLength {
		return c, errors.New("password is too short")
	}
	return c, nil
}

func (db *DBHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCredentials(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		db.Log.Error("hash password", "error", err)
		http.Error(w, "Failed to create user", http.StatusInternalServerError)
		return
	}

	user := models.User{
		Email:        req.Email,
		DisplayName:  strings.TrimSpace(req.DisplayName),
		PasswordHash: hash,
	}

	// The stats row is created with the user so the dashboard always has one.
	// A taken email surfaces as gorm.ErrDuplicatedKey from the unique index.
	err = db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return tx.Create(&models.UserStats{UserID: user.ID, Level: 1}).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		http.Error(w, "Email already registered", http.StatusConflict)
		return
	}
	if err != nil {
		db.Log.Error("create user", "email", user.Email, "error", err)
		http.Error(w, "Failed to create user", http.StatusInternalServerError)
		return
	}

	db.respondWithToken(w, http.StatusCreated, user)
}

func (db *DBHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCredentials(r)
	if err != nil {
		http.Error(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	var user models.User
	if err := db.WithContext(r.Context()).Where("email = ?", req.Email).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			db.Log.Error("load user", "email", req.Email, "error", err)
		}
		http.Error(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		http.Error(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	db.respondWithToken(w, http.StatusOK, user)
}

// SignOut acknowledges the sign-out. Tokens are not tracked server side, so
// there is nothing to revoke.
func (db *DBHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if user, ok := middleware.UserFromContext(r.Context()); ok {
		db.Log.Info("user signed out", "user_id", user.ID)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (db *DBHandler) respondWithToken(w http.ResponseWriter, status int, user models.User) {
	token, err := db.Tokens.CreateToken(user.ID, user.Email)
	if err != nil {
		db.Log.Error("create token", "user_id", user.ID, "error", err)
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, status, authResponse{User: user, Token: token})
}
