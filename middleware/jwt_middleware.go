package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/andrewpaige1/studydeck/logger"
	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
)

// CustomClaims are the non-registered claims our tokens carry.
type CustomClaims struct {
	Email string `json:"email"`
}

func (c *CustomClaims) Validate(context.Context) error {
	return nil
}

// EnsureValidToken validates HS256 bearer tokens when one is sent. Requests
// without a token pass through; SyncUserMiddleware decides whether a route
// needs one.
func EnsureValidToken(secret []byte, issuer, audience string, log *logger.Logger) (func(http.Handler) http.Handler, error) {
	keyFunc := func(context.Context) (interface{}, error) {
		return secret, nil
	}

	jwtValidator, err := validator.New(
		keyFunc,
		validator.HS256,
		issuer,
		[]string{audience},
		validator.WithCustomClaims(func() validator.CustomClaims {
			return &CustomClaims{}
		}),
	)
	if err != nil {
		return nil, err
	}

	errorHandler := func(w http.ResponseWriter, r *http.Request, err error) {
		log.Warn("encountered error while validating JWT", "path", r.URL.Path, "error", err)
		if errors.Is(err, jwtmiddleware.ErrJWTMissing) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		http.Error(w, "Invalid token", http.StatusUnauthorized)
	}

	mw := jwtmiddleware.New(
		jwtValidator.ValidateToken,
		jwtmiddleware.WithCredentialsOptional(true),
		jwtmiddleware.WithErrorHandler(errorHandler),
	)

	return mw.CheckJWT, nil
}
