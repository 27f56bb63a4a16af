package notify

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/instaprompt/backend/pkg/config"
	pkgerrors "github.com/instaprompt/backend/pkg/errors"
)

// mailClient is the slice of the SendGrid SDK the sender uses; tests
// substitute a stub.
type mailClient interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// EmailParams is one caption delivery email.
type EmailParams struct {
	To        string
	Caption   string
	Language  string
	Topic     string
	Platform  string
	CaptionID string
}

// EmailSender renders and sends the caption result email.
type EmailSender struct {
	client  mailClient
	from    string
	baseURL string
}

func NewEmailSender(cfg config.SendgridConfig, baseURL string) (*EmailSender, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "sendgrid api key required")
	}
	from := strings.TrimSpace(cfg.DefaultFrom)
	if from == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "sendgrid from address required")
	}
	return &EmailSender{
		client:  sendgrid.NewSendClient(apiKey),
		from:    from,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Send delivers one caption email. The body and subject follow the
// language family of the caption (Portuguese, Norwegian, English).
func (s *EmailSender) Send(ctx context.Context, params EmailParams) error {
	tmpl := templateFor(params.Language)
	html := s.renderBody(tmpl, params)

	message := mail.NewSingleEmail(
		mail.NewEmail("InstaPrompt", s.from),
		tmpl.subject,
		mail.NewEmail("", params.To),
		stripTags(html),
		html,
	)

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send caption email")
	}
	if response != nil && response.StatusCode >= 400 {
		return pkgerrors.New(pkgerrors.CodeDependency,
			fmt.Sprintf("sendgrid returned status %d", response.StatusCode))
	}
	return nil
}

type emailTemplate struct {
	subject  string
	heading  string
	intro    string
	rateLine string
	signoff  string
}

var emailTemplates = map[string]emailTemplate{
	"pt": {
		subject:  "Suas legendas do InstaPrompt",
		heading:  "Suas legendas estão prontas!",
		intro:    "Aqui estão as legendas geradas para a sua postagem sobre %s no %s:",
		rateLine: "O que achou? Avalie de 1 a 5 estrelas:",
		signoff:  "Abraços,<br><strong>InstaPrompt</strong>",
	},
	"no": {
		subject:  "Dine InstaPrompt captions",
		heading:  "Dine captions er klare!",
		intro:    "Her er captions generert for innlegget ditt om %s på %s:",
		rateLine: "Hva synes du? Gi en vurdering fra 1 til 5 stjerner:",
		signoff:  "Hilsen,<br><strong>InstaPrompt</strong>",
	},
	"en": {
		subject:  "Your InstaPrompt captions",
		heading:  "Your captions are ready!",
		intro:    "Here are the captions generated for your post about %s on %s:",
		rateLine: "How did we do? Rate your captions from 1 to 5 stars:",
		signoff:  "Best,<br><strong>InstaPrompt</strong>",
	},
}

// templateFor folds the free-form language value down to a template
// family; anything unrecognized reads the English template.
func templateFor(language string) emailTemplate {
	lang := strings.ToLower(strings.TrimSpace(language))
	switch {
	case strings.HasPrefix(lang, "pt"), strings.Contains(lang, "portug"):
		return emailTemplates["pt"]
	case lang == "no", strings.Contains(lang, "norsk"), strings.Contains(lang, "norweg"):
		return emailTemplates["no"]
	default:
		return emailTemplates["en"]
	}
}

func (s *EmailSender) renderBody(tmpl emailTemplate, params EmailParams) string {
	var b strings.Builder
	b.WriteString(`<div style="font-family:Arial;padding:20px;">`)
	fmt.Fprintf(&b, "<h2>%s</h2>", tmpl.heading)
	fmt.Fprintf(&b, "<p>"+tmpl.intro+"</p>", params.Topic, params.Platform)
	for _, paragraph := range strings.Split(params.Caption, "\n\n") {
		fmt.Fprintf(&b, "<p>%s</p>", strings.TrimSpace(paragraph))
	}
	fmt.Fprintf(&b, "<p>%s</p><p>", tmpl.rateLine)
	for score := 1; score <= 5; score++ {
		fmt.Fprintf(&b, `<a href="%s">%d ⭐</a> `, s.rateURL(params, score), score)
	}
	b.WriteString("</p>")
	fmt.Fprintf(&b, "<p>%s</p>", tmpl.signoff)
	b.WriteString("</div>")
	return b.String()
}

func (s *EmailSender) rateURL(params EmailParams, score int) string {
	query := url.Values{}
	query.Set("email", params.To)
	query.Set("id", params.CaptionID)
	query.Set("score", fmt.Sprintf("%d", score))
	return s.baseURL + "/rate?" + query.Encode()
}
