package captions

import (
	"context"
	"fmt"

	"github.com/instaprompt/backend/pkg/enums"
	pkgerrors "github.com/instaprompt/backend/pkg/errors"
	"github.com/instaprompt/backend/pkg/openai"
)

// captionSeparator is the marker the model is asked to place between
// the three captions; the email template splits on it.
const captionSeparator = "\n\n"

// GenerateInput carries everything the prompt needs.
type GenerateInput struct {
	Topic    string
	Platform string
	Language string
	Tone     string
	Plan     enums.Plan
	Hashtags string
}

// Generator produces one caption set per call.
type Generator interface {
	Generate(ctx context.Context, input GenerateInput) (string, error)
}

type generator struct {
	chat openai.ChatCompleter
}

// NewGenerator wires the caption generator around the shared chat client.
func NewGenerator(chat openai.ChatCompleter) (Generator, error) {
	if chat == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "chat completer required")
	}
	return &generator{chat: chat}, nil
}

// Generate issues one model call and returns the raw response. The
// output is not validated structurally; this is the paid critical path,
// so failures propagate instead of being swallowed.
func (g *generator) Generate(ctx context.Context, input GenerateInput) (string, error) {
	text, err := g.chat.Complete(ctx, systemPrompt(input.Plan, input.Language), userPrompt(input))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "generate captions")
	}
	return text, nil
}

func systemPrompt(plan enums.Plan, language string) string {
	if plan == enums.PlanPro {
		return fmt.Sprintf(
			"You are a senior social media copywriter. Write in %s with a distinctive voice: "+
				"hook the reader in the first line, keep sentences short, and close with a call to action.",
			language,
		)
	}
	return fmt.Sprintf("You write engaging social media captions in %s.", language)
}

func userPrompt(input GenerateInput) string {
	return fmt.Sprintf(
		"Write exactly 3 numbered captions about %q for %s, in %s, with a %s tone. "+
			"Separate the captions with a blank line (%q between them). "+
			"End every caption with: %s",
		input.Topic, input.Platform, input.Language, input.Tone, captionSeparator, input.Hashtags,
	)
}
