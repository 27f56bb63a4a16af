package notify

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/slack-go/slack"

	"github.com/instaprompt/backend/pkg/config"
	"github.com/instaprompt/backend/pkg/enums"
	pkgerrors "github.com/instaprompt/backend/pkg/errors"
)

var tagPattern = regexp.MustCompile(`<[^>]+>`)

// stripTags removes HTML tags so rendered email bodies can be reused
// as plain text.
func stripTags(html string) string {
	return strings.TrimSpace(tagPattern.ReplaceAllString(html, ""))
}

// SlackParams is one internal caption announcement.
type SlackParams struct {
	Email    string
	Topic    string
	Language string
	Plan     enums.Plan
	Caption  string
}

// SlackNotifier posts caption announcements to the team channel via an
// incoming webhook. A notifier built without a webhook URL is a no-op.
type SlackNotifier struct {
	webhookURL string
	httpClient *http.Client
}

func NewSlackNotifier(cfg config.SlackConfig) *SlackNotifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &SlackNotifier{
		webhookURL: strings.TrimSpace(cfg.WebhookURL),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Enabled reports whether a webhook URL is configured.
func (n *SlackNotifier) Enabled() bool {
	return n != nil && n.webhookURL != ""
}

// Post announces one generated caption set. The message leads with the
// plan marker so paying customers stand out in the channel.
func (n *SlackNotifier) Post(ctx context.Context, params SlackParams) error {
	if !n.Enabled() {
		return nil
	}

	text := fmt.Sprintf(
		"[%s] New captions for %s\nTopic: %s\nLanguage: %s\n\n%s",
		planMarker(params.Plan), params.Email, params.Topic, params.Language,
		stripTags(params.Caption),
	)

	err := slack.PostWebhookCustomHTTPContext(ctx, n.webhookURL, n.httpClient, &slack.WebhookMessage{
		Text: text,
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "post slack webhook")
	}
	return nil
}

func planMarker(plan enums.Plan) string {
	switch plan {
	case enums.PlanPro:
		return "PRO"
	case enums.PlanFree:
		return "FREE"
	default:
		return "TRIAL"
	}
}
