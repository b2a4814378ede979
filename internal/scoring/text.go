package scoring

import (
	"regexp"
	"strings"
)

var tokenPattern = regexp.MustCompile(`[a-z0-9+#.]+`)

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"by": {}, "for": {}, "from": {}, "in": {}, "is": {}, "it": {}, "of": {},
	"on": {}, "or": {}, "the": {}, "to": {}, "we": {}, "with": {}, "you": {},
}

// tokenize splits text into lowercased word tokens with stop words removed.
func tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// tokenSet builds the normalized keyword set of a text.
func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, token := range tokenize(text) {
		if _, stop := stopWords[token]; stop {
			continue
		}
		set[token] = struct{}{}
	}
	return set
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
