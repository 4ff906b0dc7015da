package engine

import (
	"testing"

	"github.com/ppiankov/tabhound/internal/model"
)

func TestNormalizeVarName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Enquiry", "Enquiry"},
		{"Order ID", "Order_ID"},
		{"  spaced  out  ", "spaced_out"},
		{"a/b (c)", "a_b_c"},
	}
	for _, tt := range tests {
		if got := normalizeVarName(tt.in); got != tt.want {
			t.Errorf("normalizeVarName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderPrompt(t *testing.T) {
	row := model.Row{"Enquiry": "help me", "Order ID": "42"}

	tests := []struct {
		name string
		tpl  string
		want string
	}{
		{
			"column variables",
			"Check {Enquiry} for order {Order_ID}",
			"Check help me for order 42",
		},
		{
			"synthetic field slots",
			"Field {Field_Name} has value {Field_Value}",
			"Field Enquiry has value help me",
		},
		{
			"unknown variable renders empty",
			"before {Missing} after",
			"before  after",
		},
		{
			"literal braces survive",
			`Respond as JSON: {"trigger": true, "message": {Enquiry}}`,
			`Respond as JSON: {"trigger": true, "message": help me}`,
		},
		{
			"brace without variable shape untouched",
			"set {a-b} and { spaced }",
			"set {a-b} and { spaced }",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderPrompt(tt.tpl, row, "Enquiry", row.Value("Enquiry"))
			if got != tt.want {
				t.Errorf("RenderPrompt() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTemplateVariables(t *testing.T) {
	vars := TemplateVariables("{A} {B} {A} {not-a-var} {C_1}")
	want := []string{"A", "B", "C_1"}
	if len(vars) != len(want) {
		t.Fatalf("got %v, want %v", vars, want)
	}
	for i := range want {
		if vars[i] != want[i] {
			t.Errorf("vars[%d] = %q, want %q", i, vars[i], want[i])
		}
	}
}
