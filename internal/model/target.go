package model

import (
	"encoding/json"
	"strings"
)

// MatchMode selects how a phrase list matches a value.
type MatchMode string

const (
	MatchAny MatchMode = "ANY" // at least one phrase present
	MatchAll MatchMode = "ALL" // every phrase present
)

// CombineMode selects how per-column filter results combine across columns.
type CombineMode string

const (
	CombineAnd CombineMode = "AND"
	CombineOr  CombineMode = "OR"
)

// NormalizeMatchMode maps free-form input to a MatchMode (default ANY).
func NormalizeMatchMode(s string) MatchMode {
	if strings.ToUpper(strings.TrimSpace(s)) == string(MatchAll) {
		return MatchAll
	}
	return MatchAny
}

// NormalizeCombineMode maps free-form input to a CombineMode (default AND).
func NormalizeCombineMode(s string) CombineMode {
	if strings.ToUpper(strings.TrimSpace(s)) == string(CombineOr) {
		return CombineOr
	}
	return CombineAnd
}

// KeywordFlag configures substring keyword detection on the target column.
type KeywordFlag struct {
	Enabled bool      `json:"enabled"`
	Mode    MatchMode `json:"mode"`
	Phrases []string  `json:"phrases"`
}

// TextFilterRule configures phrase gating for one column.
// Include=false inverts the test (rows matching the phrases are excluded).
type TextFilterRule struct {
	Mode    MatchMode `json:"mode"`
	Phrases []string  `json:"phrases"`
	Include bool      `json:"include"`
}

// UnmarshalJSON defaults include to true when the document omits it, so
// a bare phrase rule means "keep matching rows".
func (r *TextFilterRule) UnmarshalJSON(b []byte) error {
	type plain TextFilterRule
	tmp := plain{Include: true}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*r = TextFilterRule(tmp)
	return nil
}

// TargetConfig is the per-column audit configuration. Zero values are
// legal; WithDefaults fills the documented defaults so downstream code
// never branches on absence.
type TargetConfig struct {
	Column string `json:"column"`

	WordCountEnabled bool `json:"wc"`
	WordCountMin     int  `json:"wc_min"`

	Keyword KeywordFlag `json:"kw_flag"`

	ValueFilterEnabled bool                `json:"vf_on"`
	ValueFilters       map[string][]string `json:"filters"`

	TextFilterEnabled bool                      `json:"tf_on"`
	TextFilters       map[string]TextFilterRule `json:"text_filters"`

	FilterCombineMode CombineMode `json:"filter_mode"`

	AIEnabled      bool   `json:"ai"`
	PromptTemplate string `json:"prompt"`
}

// DefaultWordCountMin is the word-count threshold used when none is set.
const DefaultWordCountMin = 7

// Valid word-count minimum range, inclusive.
const (
	WordCountMinFloor   = 1
	WordCountMinCeiling = 20
)

// WithDefaults returns a fully populated copy of the configuration.
// The receiver is never mutated.
func (t TargetConfig) WithDefaults() TargetConfig {
	out := t
	if out.WordCountMin == 0 {
		out.WordCountMin = DefaultWordCountMin
	}
	if out.Keyword.Mode == "" {
		out.Keyword.Mode = MatchAny
	}
	if out.Keyword.Phrases == nil {
		out.Keyword.Phrases = []string{}
	}
	if out.ValueFilters == nil {
		out.ValueFilters = map[string][]string{}
	}
	if out.TextFilters == nil {
		out.TextFilters = map[string]TextFilterRule{}
	}
	if out.FilterCombineMode == "" {
		out.FilterCombineMode = CombineAnd
	}
	return out
}

// DiagnosticColumn is the name of the per-target diagnostic column
// appended to the output dataset.
func (t TargetConfig) DiagnosticColumn() string {
	return t.Column + " Mistakes"
}
