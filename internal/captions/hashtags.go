package captions

import (
	"strings"

	"github.com/instaprompt/backend/internal/captions/categories"
)

const (
	maxHashtags    = 7
	defaultHashtag = "#instagood"
)

// AggregateHashtags merges the curated hashtag lists for the detected
// categories into one space-joined string: first-seen order, duplicates
// dropped, capped at seven tags. Unknown categories contribute nothing;
// a generic tag stands in when nothing resolves.
func AggregateHashtags(detected []string) string {
	seen := map[string]bool{}
	var tags []string
	for _, category := range detected {
		for _, tag := range categories.Hashtags(category) {
			if seen[tag] {
				continue
			}
			seen[tag] = true
			tags = append(tags, tag)
			if len(tags) == maxHashtags {
				return strings.Join(tags, " ")
			}
		}
	}
	if len(tags) == 0 {
		return defaultHashtag
	}
	return strings.Join(tags, " ")
}
