package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/andrewpaige1/studydeck/logger"
	"github.com/andrewpaige1/studydeck/models"
	"github.com/andrewpaige1/studydeck/utils"
	"gorm.io/gorm"
)

type contextKey string

const userKey contextKey = "user"

// SyncUserMiddleware requires a validated token whose subject is a known
// user, and, on routes with a {userID} segment, that the subject is that user.
// The user is attached to the request context.
func SyncUserMiddleware(db *gorm.DB, log *logger.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			userID, ok := utils.GetUserID(r)
			if !ok || userID == "" {
				http.Error(w, "No token subject found", http.StatusUnauthorized)
				return
			}

			if pathUser := r.PathValue("userID"); pathUser != "" && pathUser != userID {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			var user models.User
			err := db.WithContext(r.Context()).Where("id = ?", userID).First(&user).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				http.Error(w, "Unknown user", http.StatusUnauthorized)
				return
			}
			if err != nil {
				log.Error("load user", "user_id", userID, "error", err)
				http.Error(w, "Failed to load user", http.StatusInternalServerError)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, &user)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
	}
}

// UserFromContext returns the user SyncUserMiddleware attached.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userKey).(*models.User)
	return u, ok
}
