// Package extract scans posting text for a fixed technology vocabulary.
package extract

import "strings"

// MaxRequirements bounds the tag list on every listing.
const MaxRequirements = 8

// vocabulary is matched case-insensitively as substrings, and results come
// back in this order. Keep multi-word/punctuated forms ("node.js", "c++")
// spelled the way boards spell them.
var vocabulary = []string{
	"javascript", "typescript", "python", "java", "golang", "rust",
	"c#", "c++", "php", "ruby", "kotlin", "swift",
	"react", "angular", "vue", "svelte", "next.js", "node.js",
	"django", "flask", "spring", "rails", ".net",
	"graphql", "rest", "grpc",
	"sql", "postgresql", "mysql", "mongodb", "redis",
	"docker", "kubernetes", "terraform", "aws", "azure", "gcp",
}

// Requirements returns the vocabulary entries present in content, in
// vocabulary order, capped at MaxRequirements. Empty content yields nil.
func Requirements(content string) []string {
	if strings.TrimSpace(content) == "" {
		return nil
	}
	text := strings.ToLower(content)

	var out []string
	for _, kw := range vocabulary {
		if strings.Contains(text, kw) {
			out = append(out, kw)
			if len(out) == MaxRequirements {
				break
			}
		}
	}
	return out
}

// Vocabulary exposes a copy of the keyword list for callers that need the
// default scoring keyword set.
func Vocabulary() []string {
	out := make([]string, len(vocabulary))
	copy(out, vocabulary)
	return out
}
