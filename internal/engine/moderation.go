package engine

import (
	"regexp"
	"strings"
)

// Category classifies why the moderation gate blocked a message.
type Category string

const (
	CategoryNone       Category = ""
	CategoryIllegal    Category = "illegal"
	CategoryProhibited Category = "prohibited"
)

// Moderation is the outcome of classifying one message. A block is a normal
// outcome, not an error: the caller stops processing and logs the reason.
type Moderation struct {
	Allowed  bool
	Category Category
	Reason   string
}

// Pattern lists are evaluated in order: illegal first, then prohibited; the
// first match wins. Patterns are case-insensitive whole-word matches.
var (
	illegalPatterns = compileWordPatterns([]string{
		"child", "underage", "teen",
	})
	prohibitedPatterns = compileWordPatterns([]string{
		"kill", "terror", "explosive",
	})
)

func compileWordPatterns(words []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(words))
	for _, w := range words {
		out = append(out, regexp.MustCompile(`\b`+regexp.QuoteMeta(w)+`\b`))
	}
	return out
}

// Classify checks text against the prohibited-content pattern lists. It is
// pure and side-effect free; no match means allowed.
func Classify(text string) Moderation {
	lowered := strings.ToLower(text)
	for _, p := range illegalPatterns {
		if p.MatchString(lowered) {
			return Moderation{
				Allowed:  false,
				Category: CategoryIllegal,
				Reason:   "content referencing minors detected",
			}
		}
	}
	for _, p := range prohibitedPatterns {
		if p.MatchString(lowered) {
			return Moderation{
				Allowed:  false,
				Category: CategoryProhibited,
				Reason:   "potential violent or illegal content detected",
			}
		}
	}
	return Moderation{Allowed: true}
}
