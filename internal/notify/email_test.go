package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type stubMailClient struct {
	sent     []*mail.SGMailV3
	response *rest.Response
	err      error
}

func (s *stubMailClient) SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error) {
	s.sent = append(s.sent, email)
	return s.response, s.err
}

func newTestEmailSender(client mailClient) *EmailSender {
	return &EmailSender{
		client:  client,
		from:    "captions@instaprompt.app",
		baseURL: "https://instaprompt.app",
	}
}

func TestTemplateForLanguageFamilies(t *testing.T) {
	cases := []struct {
		language string
		subject  string
	}{
		{"Portuguese", emailTemplates["pt"].subject},
		{"português", emailTemplates["pt"].subject},
		{"pt-BR", emailTemplates["pt"].subject},
		{"Norsk", emailTemplates["no"].subject},
		{"no", emailTemplates["no"].subject},
		{"English", emailTemplates["en"].subject},
		{"Klingon", emailTemplates["en"].subject},
		{"", emailTemplates["en"].subject},
	}
	for _, tc := range cases {
		if got := templateFor(tc.language).subject; got != tc.subject {
			t.Fatalf("language %q: expected subject %q, got %q", tc.language, tc.subject, got)
		}
	}
}

func TestSendRendersRatingLinks(t *testing.T) {
	client := &stubMailClient{response: &rest.Response{StatusCode: 202}}
	sender := newTestEmailSender(client)

	err := sender.Send(context.Background(), EmailParams{
		To:        "ana@example.com",
		Caption:   "1. first\n\n2. second",
		Language:  "Portuguese",
		Topic:     "café",
		Platform:  "Instagram",
		CaptionID: "d7f9f6f0-0000-4000-8000-000000000001",
	})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if len(client.sent) != 1 {
		t.Fatalf("expected one email, got %d", len(client.sent))
	}

	message := client.sent[0]
	if message.Subject != emailTemplates["pt"].subject {
		t.Fatalf("expected portuguese subject, got %q", message.Subject)
	}

	var html string
	for _, content := range message.Content {
		if content.Type == "text/html" {
			html = content.Value
		}
	}
	if html == "" {
		t.Fatal("expected an html body")
	}
	for _, fragment := range []string{
		"score=1", "score=5",
		"id=d7f9f6f0-0000-4000-8000-000000000001",
		"email=ana%40example.com",
		"/rate?",
		"<p>1. first</p>",
		"<p>2. second</p>",
	} {
		if !strings.Contains(html, fragment) {
			t.Fatalf("html body missing %q:\n%s", fragment, html)
		}
	}
}

func TestSendSurfacesTransportErrors(t *testing.T) {
	client := &stubMailClient{err: errors.New("connection refused")}
	sender := newTestEmailSender(client)

	if err := sender.Send(context.Background(), EmailParams{To: "x@example.com"}); err == nil {
		t.Fatal("expected transport error")
	}
}

func TestSendSurfacesRejectedStatus(t *testing.T) {
	client := &stubMailClient{response: &rest.Response{StatusCode: 401}}
	sender := newTestEmailSender(client)

	if err := sender.Send(context.Background(), EmailParams{To: "x@example.com"}); err == nil {
		t.Fatal("expected error for rejected status")
	}
}
