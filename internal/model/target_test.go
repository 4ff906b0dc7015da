package model

import (
	"encoding/json"
	"testing"
)

func TestWithDefaults(t *testing.T) {
	cfg := TargetConfig{Column: "Enquiry"}.WithDefaults()

	if cfg.WordCountMin != DefaultWordCountMin {
		t.Errorf("WordCountMin = %d, want %d", cfg.WordCountMin, DefaultWordCountMin)
	}
	if cfg.Keyword.Mode != MatchAny {
		t.Errorf("Keyword.Mode = %q, want ANY", cfg.Keyword.Mode)
	}
	if cfg.FilterCombineMode != CombineAnd {
		t.Errorf("FilterCombineMode = %q, want AND", cfg.FilterCombineMode)
	}
	if cfg.WordCountEnabled || cfg.ValueFilterEnabled || cfg.TextFilterEnabled || cfg.AIEnabled {
		t.Error("toggles must default off")
	}
	if cfg.ValueFilters == nil || cfg.TextFilters == nil || cfg.Keyword.Phrases == nil {
		t.Error("collections must be non-nil after defaulting")
	}
}

func TestWithDefaultsDoesNotMutate(t *testing.T) {
	in := TargetConfig{Column: "Enquiry"}
	_ = in.WithDefaults()
	if in.WordCountMin != 0 || in.FilterCombineMode != "" {
		t.Error("WithDefaults mutated its input")
	}
}

func TestWithDefaultsKeepsExplicitValues(t *testing.T) {
	in := TargetConfig{
		Column:            "Enquiry",
		WordCountMin:      3,
		Keyword:           KeywordFlag{Mode: MatchAll},
		FilterCombineMode: CombineOr,
	}
	cfg := in.WithDefaults()
	if cfg.WordCountMin != 3 || cfg.Keyword.Mode != MatchAll || cfg.FilterCombineMode != CombineOr {
		t.Errorf("explicit values overwritten: %+v", cfg)
	}
}

func TestTextFilterRuleIncludeDefaultsTrue(t *testing.T) {
	var rule TextFilterRule
	if err := json.Unmarshal([]byte(`{"phrases":["x"]}`), &rule); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !rule.Include {
		t.Error("omitted include must default to true")
	}

	if err := json.Unmarshal([]byte(`{"phrases":["x"],"include":false}`), &rule); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rule.Include {
		t.Error("explicit include=false lost")
	}
}

func TestDiagnosticSerialization(t *testing.T) {
	if got := (Diagnostic{}).String(); got != NoMistake {
		t.Errorf("empty diagnostic = %q, want %q", got, NoMistake)
	}
	if got := (Diagnostic{"NULL VALUE"}).String(); got != "NULL VALUE" {
		t.Errorf("single message = %q", got)
	}
	want := "NULL VALUE ; Keyword flag: x"
	if got := (Diagnostic{"NULL VALUE", "Keyword flag: x"}).String(); got != want {
		t.Errorf("joined = %q, want %q", got, want)
	}

	if Triggered(NoMistake) {
		t.Error("sentinel must not count as triggered")
	}
	if !Triggered("NULL VALUE") {
		t.Error("message must count as triggered")
	}
}

func TestNormalizeModes(t *testing.T) {
	if NormalizeMatchMode(" all ") != MatchAll {
		t.Error("lowercase all not normalized")
	}
	if NormalizeMatchMode("bogus") != MatchAny {
		t.Error("unknown match mode must default to ANY")
	}
	if NormalizeCombineMode("or") != CombineOr {
		t.Error("lowercase or not normalized")
	}
	if NormalizeCombineMode("") != CombineAnd {
		t.Error("empty combine mode must default to AND")
	}
}

func TestRowIsBlank(t *testing.T) {
	row := Row{"empty": "", "spaces": "  \t ", "filled": "x"}
	if !row.IsBlank("empty") {
		t.Error("empty cell must read blank")
	}
	if !row.IsBlank("spaces") {
		t.Error("whitespace-only cell must read blank")
	}
	if !row.IsBlank("missing") {
		t.Error("absent column must read blank")
	}
	if row.IsBlank("filled") {
		t.Error("filled cell must not read blank")
	}
}

func TestDatasetCloneIsolation(t *testing.T) {
	ds := &Dataset{
		Columns: []string{"A"},
		Rows:    []Row{{"A": "1"}},
	}
	cl := ds.Clone()
	cl.AddColumn("B", []string{"x"})
	cl.Rows[0]["A"] = "changed"

	if ds.HasColumn("B") {
		t.Error("clone column leaked into source")
	}
	if ds.Rows[0].Value("A") != "1" {
		t.Error("clone row mutation leaked into source")
	}
}
