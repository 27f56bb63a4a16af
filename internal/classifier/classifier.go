package classifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/instaprompt/backend/internal/captions/categories"
	"github.com/instaprompt/backend/pkg/logger"
	"github.com/instaprompt/backend/pkg/openai"
)

// Defaults applied whenever the model call fails or yields nothing usable.
// Classification never blocks the request path.
const (
	DefaultCategory = "vendas"
	DefaultTone     = "casual"
	DefaultLanguage = "English"
)

const maxCategories = 3

// Service answers topic classification questions with single model calls.
type Service interface {
	DetectCategories(ctx context.Context, topic string) []string
	DetectTone(ctx context.Context, topic, language string) string
	DetectLanguage(ctx context.Context, topic string) string
}

type service struct {
	chat openai.ChatCompleter
	logg *logger.Logger
}

// NewService wires a classifier around the shared chat client.
func NewService(chat openai.ChatCompleter, logg *logger.Logger) (Service, error) {
	if chat == nil {
		return nil, fmt.Errorf("chat completer required")
	}
	return &service{chat: chat, logg: logg}, nil
}

// DetectCategories returns 1-3 known categories in model output order,
// deduplicated, falling back to the default category on any failure.
func (s *service) DetectCategories(ctx context.Context, topic string) []string {
	system := fmt.Sprintf(
		"Classify the topic into 1 to 3 of these categories: %s. "+
			"Answer only with the category names, comma-separated.",
		strings.Join(categories.Names(), ", "),
	)

	raw, err := s.chat.Complete(ctx, system, topic)
	if err != nil {
		s.warn(ctx, "category detection failed, using default", err)
		return []string{DefaultCategory}
	}

	parsed := parseCategories(raw)
	if len(parsed) == 0 {
		s.warn(ctx, "category detection returned no known labels, using default", nil)
		return []string{DefaultCategory}
	}
	return parsed
}

// DetectTone returns a single lower-cased tone word; the model output is
// not constrained to an enum.
func (s *service) DetectTone(ctx context.Context, topic, language string) string {
	system := fmt.Sprintf(
		"Suggest one single word (in %s) describing the ideal tone for a social media post about the topic. "+
			"Answer with the word only.",
		language,
	)

	raw, err := s.chat.Complete(ctx, system, topic)
	if err != nil || strings.TrimSpace(raw) == "" {
		s.warn(ctx, "tone detection failed, using default", err)
		return DefaultTone
	}
	return strings.ToLower(firstToken(raw))
}

// DetectLanguage names the language of the topic text, keeping only the
// first whitespace-delimited token of the model response.
func (s *service) DetectLanguage(ctx context.Context, topic string) string {
	raw, err := s.chat.Complete(ctx, "Detect language of the following:", topic)
	if err != nil || strings.TrimSpace(raw) == "" {
		s.warn(ctx, "language detection failed, using default", err)
		return DefaultLanguage
	}
	return firstToken(raw)
}

func (s *service) warn(ctx context.Context, msg string, err error) {
	if s.logg == nil {
		return
	}
	if err != nil {
		ctx = s.logg.WithField(ctx, "error", err.Error())
	}
	s.logg.Warn(ctx, msg)
}

func parseCategories(raw string) []string {
	seen := map[string]bool{}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" || seen[name] || !categories.Known(name) {
			continue
		}
		seen[name] = true
		out = append(out, name)
		if len(out) == maxCategories {
			break
		}
	}
	return out
}

func firstToken(raw string) string {
	tokens := strings.Fields(raw)
	if len(tokens) == 0 {
		return ""
	}
	return tokens[0]
}
