package engine

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ppiankov/tabhound/internal/model"
)

const nullValueMessage = "NULL VALUE"

var wordPattern = regexp.MustCompile(`\w+`)

// wordCount counts maximal runs of word characters in a value.
func wordCount(s string) int {
	return len(wordPattern.FindAllString(s, -1))
}

// tooShortMessage renders the below-threshold diagnostic.
func tooShortMessage(min int) string {
	return fmt.Sprintf("Too short (<%d words)", min)
}

// keywordFlagMessage runs substring keyword detection on the target
// column's value. The returned message lists the configured phrases as
// written (original casing and order); matching is case-insensitive.
func keywordFlagMessage(value string, kw model.KeywordFlag) (string, bool) {
	if !kw.Enabled || len(kw.Phrases) == 0 {
		return "", false
	}
	var norm []string
	for _, p := range kw.Phrases {
		if t := strings.ToLower(strings.TrimSpace(p)); t != "" {
			norm = append(norm, t)
		}
	}
	if len(norm) == 0 {
		return "", false
	}
	low := strings.ToLower(value)
	hit := false
	if kw.Mode == model.MatchAll {
		hit = true
		for _, p := range norm {
			if !strings.Contains(low, p) {
				hit = false
				break
			}
		}
	} else {
		for _, p := range norm {
			if strings.Contains(low, p) {
				hit = true
				break
			}
		}
	}
	if !hit {
		return "", false
	}
	return "Keyword flag: " + strings.Join(kw.Phrases, ", "), true
}
