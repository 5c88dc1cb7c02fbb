package knowledge

import "strings"

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "that": {}, "this": {}, "from": {},
	"into": {}, "are": {}, "was": {}, "were": {}, "will": {}, "can": {}, "could": {},
	"would": {}, "should": {}, "you": {}, "your": {}, "please": {}, "want": {},
	"need": {}, "like": {}, "have": {}, "has": {}, "had": {}, "what": {}, "when": {},
	"where": {}, "which": {}, "who": {}, "how": {}, "then": {}, "than": {}, "them": {},
	"they": {}, "its": {}, "not": {}, "but": {}, "all": {}, "any": {}, "some": {},
	"just": {}, "also": {}, "very": {}, "about": {}, "there": {}, "here": {},
	"onto": {}, "each": {}, "every": {}, "use": {}, "using": {}, "make": {}, "let": {},
	"get": {}, "set": {}, "out": {}, "our": {}, "one": {}, "now": {}, "too": {},
}

// Tokenize lowercases text, replaces non-alphanumerics with spaces, drops
// tokens of length <= 2 and stop words, and deduplicates keeping first
// occurrence order.
func Tokenize(text string) []string {
	words := words(text)

	seen := make(map[string]struct{}, len(words))
	tokens := make([]string, 0, len(words))

	for _, w := range words {
		if len(w) <= 2 {
			continue
		}

		if _, stop := stopWords[w]; stop {
			continue
		}

		if _, dup := seen[w]; dup {
			continue
		}

		seen[w] = struct{}{}
		tokens = append(tokens, w)
	}

	return tokens
}

// splits lowercase text on anything outside [a-z0-9]; non-ASCII letters act
// as separators
func words(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return (r < 'a' || r > 'z') && (r < '0' || r > '9')
	})
}

// keywords indexed for a class name, member name or tag: the single word it
// holds, or its words longer than two characters when it has several
func fieldKeywords(field string) []string {
	parts := words(field)
	if len(parts) == 1 {
		return parts
	}

	var keywords []string
	for _, p := range parts {
		if len(p) > 2 {
			keywords = append(keywords, p)
		}
	}

	return keywords
}

// title words longer than three characters
func titleKeywords(title string) []string {
	var keywords []string

	for _, w := range words(title) {
		if len(w) > 3 {
			keywords = append(keywords, w)
		}
	}

	return keywords
}
