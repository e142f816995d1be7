package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/andrewpaige1/studydeck/apperrors"
	"github.com/andrewpaige1/studydeck/identity"
)

// Client talks to the studydeck API. It implements Store and
// identity.Provider.
type Client struct {
	baseURL string
	http    *http.Client
	token   func() string
}

var (
	_ Store             = (*Client)(nil)
	_ identity.Provider = (*Client)(nil)
)

type ClientOption func(*Client)

func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.http = h }
}

// WithToken supplies the bearer token for each request.
func WithToken(f func() string) ClientOption {
	return func(c *Client) { c.token = f }
}

func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		token:   func() string { return "" },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w: %v", method, path, apperrors.ErrRemote, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return statusError(method, path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w: %v", method, path, apperrors.ErrRemote, err)
	}
	return nil
}

func statusError(method, path string, code int, msg string) error {
	var kind error
	switch code {
	case http.StatusNotFound:
		kind = apperrors.ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = apperrors.ErrUnauthorized
	case http.StatusConflict:
		kind = apperrors.ErrConflict
	case http.StatusBadRequest:
		kind = apperrors.ErrInvalidArgument
	default:
		kind = apperrors.ErrRemote
	}
	return fmt.Errorf("%s %s: %d %s: %w", method, path, code, msg, kind)
}

func userPath(userID, rest string) string {
	return "/api/users/" + url.PathEscape(userID) + rest
}

func withLimit(path string, limit int) string {
	if limit <= 0 {
		return path
	}
	return path + "?limit=" + strconv.Itoa(limit)
}

func (c *Client) ListFlashcards(ctx context.Context, userID string, limit int) ([]FlashcardRecord, error) {
	var out []FlashcardRecord
	if err := c.do(ctx, http.MethodGet, withLimit(userPath(userID, "/flashcards"), limit), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) InsertFlashcard(ctx context.Context, rec FlashcardRecord) error {
	return c.do(ctx, http.MethodPost, userPath(rec.UserID, "/flashcards"), rec, nil)
}

func (c *Client) InsertStudySession(ctx context.Context, rec StudySessionRecord) error {
	return c.do(ctx, http.MethodPost, userPath(rec.UserID, "/sessions"), rec, nil)
}

func (c *Client) ListStudySessions(ctx context.Context, userID string, limit int) ([]StudySessionRecord, error) {
	var out []StudySessionRecord
	if err := c.do(ctx, http.MethodGet, withLimit(userPath(userID, "/sessions"), limit), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetUserStats(ctx context.Context, userID string) (UserStatsRecord, error) {
	var out UserStatsRecord
	if err := c.do(ctx, http.MethodGet, userPath(userID, "/stats"), nil, &out); err != nil {
		return UserStatsRecord{}, err
	}
	return out, nil
}

func (c *Client) UpdateUserStats(ctx context.Context, userID string, patch StatsPatch) error {
	return c.do(ctx, http.MethodPatch, userPath(userID, "/stats"), patch, nil)
}

// AuthResponse is what the sign-in and sign-up endpoints return.
type AuthResponse struct {
	User struct {
		ID          string `json:"id"`
		Email       string `json:"email"`
		DisplayName string `json:"display_name"`
	} `json:"user"`
	Token string `json:"token"`
}

func (r AuthResponse) identity() identity.Identity {
	return identity.Identity{
		UserID:      r.User.ID,
		Email:       r.User.Email,
		DisplayName: r.User.DisplayName,
		Token:       r.Token,
	}
}

func (c *Client) SignIn(ctx context.Context, email, password string) (identity.Identity, error) {
	var out AuthResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/sign-in", body, &out); err != nil {
		return identity.Identity{}, err
	}
	return out.identity(), nil
}

func (c *Client) SignUp(ctx context.Context, email, password, displayName string) (identity.Identity, error) {
	var out AuthResponse
	body := map[string]string{"email": email, "password": password, "display_name": displayName}
	if err := c.do(ctx, http.MethodPost, "/api/auth/sign-up", body, &out); err != nil {
		return identity.Identity{}, err
	}
	return out.identity(), nil
}

// SignOut tells the server the token is no longer in use. Tokens are
// stateless, so this is an acknowledgement only.
func (c *Client) SignOut(ctx context.Context, current identity.Identity) error {
	tok := current.Token
	cc := *c
	cc.token = func() string { return tok }
	return cc.do(ctx, http.MethodPost, "/api/auth/sign-out", nil, nil)
}
