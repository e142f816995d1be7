package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Environment struct {
	IsDevelopment  bool
	Port           string
	DBURL          string
	JWTSecret      []byte
	JWTIssuer      string
	JWTAudience    string
	TokenTTL       time.Duration
	AllowedOrigins []string
	LogMode        string
	// DotenvErr is why .env could not be loaded, nil when it was or when
	// running hosted.
	DotenvErr error
}

// Load reads the server environment. Outside a hosted environment a .env file
// is loaded first if present.
func Load() (Environment, error) {
	var dotenvErr error
	if os.Getenv("RAILWAY_ENVIRONMENT_NAME") == "" {
		dotenvErr = godotenv.Load()
	}

	isDev := os.Getenv("RAILWAY_ENVIRONMENT_NAME") == ""
	env := Environment{
		DotenvErr:     dotenvErr,
		IsDevelopment: isDev,
		Port:          getenv("PORT", "8080"),
		DBURL:         getenv("DB_URL", "studydeck.db"),
		JWTSecret:     []byte(os.Getenv("JWT_SECRET_KEY")),
		JWTIssuer:     getenv("JWT_ISSUER", "studydeck"),
		JWTAudience:   getenv("JWT_AUDIENCE", "studydeck-clients"),
		TokenTTL:      24 * time.Hour,
		LogMode:       getenv("LOG_MODE", "dev"),
		AllowedOrigins: splitList(getenv("ALLOWED_ORIGINS",
			"http://localhost:3000,http://localhost:5173")),
	}
	if ttl := os.Getenv("TOKEN_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return Environment{}, fmt.Errorf("TOKEN_TTL: %w", err)
		}
		env.TokenTTL = d
	}
	if !isDev {
		env.LogMode = getenv("LOG_MODE", "prod")
	}

	if len(env.JWTSecret) == 0 {
		return Environment{}, fmt.Errorf("JWT_SECRET_KEY not set")
	}
	return env, nil
}

func (e Environment) Addr() string {
	return "0.0.0.0:" + e.Port
}

func getenv(name, def string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
