// Package generate is the boundary to the content-generation service that
// turns an uploaded document or a video link into draft flashcards.
package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
)

const (
	DefaultSubject    = "General"
	DefaultDifficulty = "medium"

	fallbackAnswerLen = 200
)

// Card is one generated question/answer pair.
type Card struct {
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Subject    string `json:"subject"`
	Difficulty string `json:"difficulty"`
}

// Source is what the generator extracts content from. Exactly one of File or
// VideoURL is expected.
type Source struct {
	File        io.Reader
	FileName    string
	ContentType string
	VideoURL    string
	Subject     string
}

func (s Source) Validate() error {
	if s.File == nil && strings.TrimSpace(s.VideoURL) == "" {
		return fmt.Errorf("generate: a file or a video url is required")
	}
	return nil
}

// Generator produces draft cards for a source.
type Generator interface {
	Generate(ctx context.Context, src Source) ([]Card, error)
}

// FileGenerator reads a model response that was saved to a file. Plain notes
// without a card list come back as the fallback set built from their text.
type FileGenerator struct {
	// MaxBytes caps how much of the file is read; 0 means 1 MiB.
	MaxBytes int64
}

var _ Generator = FileGenerator{}

func (g FileGenerator) Generate(ctx context.Context, src Source) ([]Card, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	if src.File == nil {
		return nil, fmt.Errorf("generate: video sources need the generation service")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	limit := g.MaxBytes
	if limit <= 0 {
		limit = 1 << 20
	}
	content, err := io.ReadAll(io.LimitReader(src.File, limit))
	if err != nil {
		return nil, fmt.Errorf("generate: read %s: %w", src.FileName, err)
	}
	text := string(content)
	return ParseCards(text, src.Subject, text), nil
}

var jsonArray = regexp.MustCompile(`\[[\s\S]*\]`)

// ParseCards normalizes a model response into cards. The first JSON array in
// content is decoded; when none decodes the fixed fallback set built from
// extracted is returned instead.
func ParseCards(content, subject, extracted string) []Card {
	subject = SubjectOrDefault(subject)

	match := jsonArray.FindString(content)
	if match == "" {
		return FallbackCards(subject, extracted)
	}
	var raw []Card
	if err := json.Unmarshal([]byte(match), &raw); err != nil {
		return FallbackCards(subject, extracted)
	}

	cards := make([]Card, 0, len(raw))
	for _, c := range raw {
		if c.Question == "" {
			c.Question = "Generated question"
		}
		if c.Answer == "" {
			c.Answer = "Generated answer"
		}
		if c.Subject == "" {
			c.Subject = subject
		}
		if c.Difficulty == "" {
			c.Difficulty = DefaultDifficulty
		}
		cards = append(cards, c)
	}
	return cards
}

// FallbackCards is the substitute set used when a response cannot be parsed.
func FallbackCards(subject, extracted string) []Card {
	subject = SubjectOrDefault(subject)
	return []Card{
		{
			Question:   fmt.Sprintf("What are the main concepts covered in this %s content?", subject),
			Answer:     truncate(extracted, fallbackAnswerLen) + "...",
			Subject:    subject,
			Difficulty: DefaultDifficulty,
		},
		{
			Question:   fmt.Sprintf("What key information should be remembered from this %s material?", subject),
			Answer:     "The content covers fundamental principles and important concepts that are essential for understanding the subject.",
			Subject:    subject,
			Difficulty: DefaultDifficulty,
		},
	}
}

func SubjectOrDefault(subject string) string {
	if s := strings.TrimSpace(subject); s != "" {
		return s
	}
	return DefaultSubject
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
