package engine

import (
	"strings"

	"github.com/ppiankov/tabhound/internal/model"
)

// combineTests folds per-column booleans with the across-columns mode.
func combineTests(tests []bool, mode model.CombineMode) bool {
	if mode == model.CombineOr {
		for _, t := range tests {
			if t {
				return true
			}
		}
		return false
	}
	for _, t := range tests {
		if !t {
			return false
		}
	}
	return true
}

// rowMeetsValueFilters checks exact membership of each configured column's
// trimmed value in its allowed set. Columns with an empty allowed set are
// skipped, not failed. No configured column means a vacuous pass.
func rowMeetsValueFilters(row model.Row, filters map[string][]string, mode model.CombineMode) bool {
	var tests []bool
	for col, allowed := range filters {
		if len(allowed) == 0 {
			continue
		}
		val := strings.TrimSpace(row.Value(col))
		hit := false
		for _, a := range allowed {
			if val == a {
				hit = true
				break
			}
		}
		tests = append(tests, hit)
	}
	if len(tests) == 0 {
		return true
	}
	return combineTests(tests, mode)
}

// valueMeetsTextPhrases runs the substring phrase test on one value.
// Phrases are trimmed and lowered; empties are dropped. An empty phrase
// list (before or after normalization) is a vacuous pass.
func valueMeetsTextPhrases(value string, phrases []string, mode model.MatchMode) bool {
	var checks []string
	for _, p := range phrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			checks = append(checks, p)
		}
	}
	if len(checks) == 0 {
		return true
	}
	low := strings.ToLower(value)
	if mode == model.MatchAll {
		for _, c := range checks {
			if !strings.Contains(low, c) {
				return false
			}
		}
		return true
	}
	for _, c := range checks {
		if strings.Contains(low, c) {
			return true
		}
	}
	return false
}

// rowMeetsTextFilters applies per-column phrase rules with include/exclude
// inversion, then combines across columns. Columns whose rule carries no
// phrase list are skipped entirely.
func rowMeetsTextFilters(row model.Row, filters map[string]model.TextFilterRule, mode model.CombineMode) bool {
	var tests []bool
	for col, rule := range filters {
		if rule.Phrases == nil {
			continue
		}
		hit := valueMeetsTextPhrases(row.Value(col), rule.Phrases, model.NormalizeMatchMode(string(rule.Mode)))
		if !rule.Include {
			hit = !hit
		}
		tests = append(tests, hit)
	}
	if len(tests) == 0 {
		return true
	}
	return combineTests(tests, mode)
}
