package classifier

import (
	"context"
	"errors"
	"testing"
)

type stubChat struct {
	response string
	err      error
	lastSys  string
	lastUser string
}

func (s *stubChat) Complete(ctx context.Context, system, user string) (string, error) {
	s.lastSys = system
	s.lastUser = user
	return s.response, s.err
}

func TestDetectCategoriesParsesAndFilters(t *testing.T) {
	chat := &stubChat{response: "Café, fitness, skydiving, café"}
	svc, err := NewService(chat, nil)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	got := svc.DetectCategories(context.Background(), "morning workout at the coffee shop")

	if len(got) != 2 {
		t.Fatalf("expected 2 categories, got %v", got)
	}
	if got[0] != "café" || got[1] != "fitness" {
		t.Fatalf("expected model order preserved, got %v", got)
	}
	if chat.lastUser != "morning workout at the coffee shop" {
		t.Fatalf("topic not forwarded, got %q", chat.lastUser)
	}
}

func TestDetectCategoriesCapsAtThree(t *testing.T) {
	chat := &stubChat{response: "moda, comida, pet, beleza"}
	svc, _ := NewService(chat, nil)

	got := svc.DetectCategories(context.Background(), "anything")
	if len(got) != 3 {
		t.Fatalf("expected cap at 3, got %v", got)
	}
}

func TestDetectCategoriesFallsBackOnError(t *testing.T) {
	chat := &stubChat{err: errors.New("model down")}
	svc, _ := NewService(chat, nil)

	got := svc.DetectCategories(context.Background(), "café")
	if len(got) != 1 || got[0] != DefaultCategory {
		t.Fatalf("expected default category, got %v", got)
	}
}

func TestDetectCategoriesFallsBackOnNoKnownLabels(t *testing.T) {
	chat := &stubChat{response: "quantum physics, skydiving"}
	svc, _ := NewService(chat, nil)

	got := svc.DetectCategories(context.Background(), "topic")
	if len(got) != 1 || got[0] != DefaultCategory {
		t.Fatalf("expected default category, got %v", got)
	}
}

func TestDetectToneLowercasesSingleWord(t *testing.T) {
	chat := &stubChat{response: "Inspirador e leve"}
	svc, _ := NewService(chat, nil)

	if got := svc.DetectTone(context.Background(), "topic", "português"); got != "inspirador" {
		t.Fatalf("expected lower-cased first word, got %q", got)
	}
}

func TestDetectToneFallsBack(t *testing.T) {
	chat := &stubChat{err: errors.New("model down")}
	svc, _ := NewService(chat, nil)

	if got := svc.DetectTone(context.Background(), "topic", "English"); got != DefaultTone {
		t.Fatalf("expected default tone, got %q", got)
	}
}

func TestDetectLanguageTakesFirstToken(t *testing.T) {
	chat := &stubChat{response: "Portuguese (Brazil)"}
	svc, _ := NewService(chat, nil)

	if got := svc.DetectLanguage(context.Background(), "bom dia"); got != "Portuguese" {
		t.Fatalf("expected first token, got %q", got)
	}
}

func TestDetectLanguageFallsBack(t *testing.T) {
	chat := &stubChat{response: "   "}
	svc, _ := NewService(chat, nil)

	if got := svc.DetectLanguage(context.Background(), "hi"); got != DefaultLanguage {
		t.Fatalf("expected default language, got %q", got)
	}
}
