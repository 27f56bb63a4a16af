package fields

import "testing"

func TestExtractMatchesVariantsCaseInsensitive(t *testing.T) {
	raw := map[string]string{
		"  EMAIL ":                        "a@x.com",
		"post   topic":                    "café da manhã",
		"Para qual plataforma é essa legenda?": "Instagram",
	}

	got := Extract(raw)

	if got[FieldEmail] != "a@x.com" {
		t.Fatalf("expected email to resolve, got %q", got[FieldEmail])
	}
	if got[FieldTopic] != "café da manhã" {
		t.Fatalf("expected topic to resolve, got %q", got[FieldTopic])
	}
	if got[FieldPlatform] != "Instagram" {
		t.Fatalf("expected platform to resolve, got %q", got[FieldPlatform])
	}
	if got[FieldLanguage] != "" {
		t.Fatalf("expected missing language sentinel, got %q", got[FieldLanguage])
	}
	if got[FieldTone] != "" {
		t.Fatalf("expected missing tone sentinel, got %q", got[FieldTone])
	}
}

func TestExtractUnrecognizedLabelsReturnSentinel(t *testing.T) {
	got := Extract(map[string]string{"Completely different": "value"})
	for field, value := range got {
		if value != "" {
			t.Fatalf("field %s should be empty, got %q", field, value)
		}
	}
}

func TestMissingReportsOnlyRequiredFields(t *testing.T) {
	extracted := Extract(map[string]string{
		"Email":      "a@x.com",
		"Post topic": "fitness",
	})

	missing := Missing(extracted)
	if len(missing) != 1 || missing[0] != FieldPlatform {
		t.Fatalf("expected only platform missing, got %v", missing)
	}

	extracted[FieldPlatform] = "Instagram"
	if missing := Missing(extracted); len(missing) != 0 {
		t.Fatalf("expected nothing missing, got %v", missing)
	}
}

func TestNormalizeCollapsesWhitespace(t *testing.T) {
	if got := Normalize("  Escolha   um \t estilo de tom "); got != "escolha um estilo de tom" {
		t.Fatalf("unexpected normalization %q", got)
	}
}
