package fields

import (
	"regexp"
	"strings"
)

// Logical names for the form fields the webhook consumes.
const (
	FieldEmail    = "email"
	FieldTopic    = "topic"
	FieldPlatform = "platform"
	FieldLanguage = "language"
	FieldTone     = "tone"
)

// labelVariants maps each logical field to the label spellings the form
// builder has shipped over time. Matching is normalized, so case and
// whitespace runs in incoming labels do not matter.
var labelVariants = map[string][]string{
	FieldEmail: {
		"Qual é o seu endereço de e-mail?",
		"Email",
	},
	FieldTopic: {
		"Sobre o que é a sua postagem?",
		"Post topic",
	},
	FieldPlatform: {
		"Para qual plataforma é essa legenda?",
		"Platform",
	},
	FieldLanguage: {
		"Em qual idioma você quer a legenda?",
		"Language",
	},
	FieldTone: {
		"Escolha um estilo de tom",
		"Choose a tone/style",
	},
}

// RequiredFields must all resolve for a webhook request to proceed.
var RequiredFields = []string{FieldEmail, FieldTopic, FieldPlatform}

var whitespaceRe = regexp.MustCompile(`\s+`)

// Normalize lowercases, trims and collapses whitespace runs so label
// comparison tolerates form-builder formatting drift.
func Normalize(text string) string {
	return whitespaceRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(text)), " ")
}

// Extract resolves every logical field from the raw label/value pairs.
// A field with no matching label variant maps to the empty string.
func Extract(raw map[string]string) map[string]string {
	normalized := make(map[string]string, len(raw))
	for label, value := range raw {
		normalized[Normalize(label)] = value
	}

	out := make(map[string]string, len(labelVariants))
	for field, variants := range labelVariants {
		out[field] = ""
		for _, variant := range variants {
			if value, ok := normalized[Normalize(variant)]; ok {
				out[field] = value
				break
			}
		}
	}
	return out
}

// Missing returns the required fields that did not resolve.
func Missing(extracted map[string]string) []string {
	var missing []string
	for _, field := range RequiredFields {
		if strings.TrimSpace(extracted[field]) == "" {
			missing = append(missing, field)
		}
	}
	return missing
}
