package llm

import (
	"regexp"
	"strings"
)

// fence languages accepted as script code; "" is an untagged fence
var codeFenceTags = map[string]struct{}{
	"":           {},
	"javascript": {},
	"js":         {},
	"jsx":        {},
}

// a top-level declaration, the cheapest sign that unfenced text is a script
var declarationPattern = regexp.MustCompile(`\b(var|function)\s+[A-Za-z_$][\w$]*`)

// ExtractCode returns the trimmed interior of the first javascript, js, jsx or
// untagged fenced block. Without one it returns the whole trimmed response
// when it looks like code, and "" otherwise.
func ExtractCode(raw string) string {
	if code, ok := extractCodeFromFence(raw); ok {
		return code
	}

	if hasCodePatterns(raw) {
		return strings.TrimSpace(raw)
	}

	return ""
}

// fenced spans anywhere in the response, opening and closing on any line
var fencePattern = regexp.MustCompile("(?s)```(.*?)```")

// a bare language tag on the opening fence line
var fenceTagPattern = regexp.MustCompile(`^[A-Za-z][\w+#.-]*$`)

// returns the interior of the first fence tagged with an accepted language
// or untagged; fences in other languages are skipped
func extractCodeFromFence(response string) (string, bool) {
	for _, m := range fencePattern.FindAllStringSubmatch(response, -1) {
		tag, body := splitFenceTag(m[1])
		if _, ok := codeFenceTags[tag]; ok {
			return strings.TrimSpace(body), true
		}
	}

	return "", false
}

// separates the lowercase language tag from a fence interior
func splitFenceTag(interior string) (string, string) {
	first, rest, multiline := strings.Cut(interior, "\n")
	first = strings.TrimSpace(first)

	if !multiline {
		// single-line fence: only an accepted tag followed by code counts as a tag
		if tag, body, ok := strings.Cut(first, " "); ok {
			tag = strings.ToLower(tag)
			if _, known := codeFenceTags[tag]; known && tag != "" {
				return tag, body
			}
		}
		return "", interior
	}

	if first == "" {
		return "", rest
	}

	if fenceTagPattern.MatchString(first) {
		return strings.ToLower(first), rest
	}

	// code on the opening line
	return "", interior
}

func hasCodePatterns(response string) bool {
	return declarationPattern.MatchString(response)
}
