package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/instaprompt/backend/pkg/errors"
	"github.com/instaprompt/backend/pkg/types"
)

func TestWriteSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, map[string]string{"status": "ok"})

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var envelope types.SuccessEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	data, ok := envelope.Data.(map[string]any)
	if !ok || data["status"] != "ok" {
		t.Fatalf("unexpected envelope %+v", envelope)
	}
}

func TestWriteErrorMapsCodesToStatus(t *testing.T) {
	cases := []struct {
		code   pkgerrors.Code
		status int
	}{
		{pkgerrors.CodeValidation, 400},
		{pkgerrors.CodeForbidden, 403},
		{pkgerrors.CodeNotFound, 404},
		{pkgerrors.CodeConflict, 409},
		{pkgerrors.CodeRateLimit, 429},
		{pkgerrors.CodeInternal, 500},
		{pkgerrors.CodeDependency, 503},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		WriteError(context.Background(), nil, rec, pkgerrors.New(tc.code, "boom"))
		if rec.Code != tc.status {
			t.Fatalf("code %s: expected status %d, got %d", tc.code, tc.status, rec.Code)
		}
	}
}

func TestWriteErrorHidesInternalMessages(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, pkgerrors.New(pkgerrors.CodeInternal, "db password leaked"))

	var envelope types.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if strings.Contains(envelope.Error.Message, "leaked") {
		t.Fatalf("internal message exposed: %q", envelope.Error.Message)
	}
}

func TestWriteErrorWrapsUnknownErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, errors.New("plain failure"))
	if rec.Code != 500 {
		t.Fatalf("expected 500 for untyped error, got %d", rec.Code)
	}
}

func TestWriteTextErrorUsesPlainBody(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteTextError(context.Background(), nil, rec, pkgerrors.New(pkgerrors.CodeForbidden, "trial used up"))

	if rec.Code != 403 {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/plain") {
		t.Fatalf("expected text content type, got %q", got)
	}
	if body := rec.Body.String(); body != "trial used up" {
		t.Fatalf("expected bare reason text, got %q", body)
	}
}

func TestWriteHTML(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteHTML(rec, 200, "<h2>ok</h2>")

	if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/html") {
		t.Fatalf("expected html content type, got %q", got)
	}
	if rec.Body.String() != "<h2>ok</h2>" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}
