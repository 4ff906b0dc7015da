package engine

import (
	"regexp"
	"strings"

	"github.com/ppiankov/tabhound/internal/model"
)

var (
	varPattern     = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)
	nonWordPattern = regexp.MustCompile(`\W+`)
)

// normalizeVarName maps a column name to the identifier usable inside a
// prompt template ("Order ID" -> "Order_ID").
func normalizeVarName(col string) string {
	return strings.Trim(nonWordPattern.ReplaceAllString(col, "_"), "_")
}

// RenderPrompt substitutes {Variable} slots in a template with row values.
// Every column is available under its normalized name, plus the synthetic
// Field_Name and Field_Value slots for the target column. Slots naming an
// unknown variable render empty; braces that do not form a slot survive
// as-is.
func RenderPrompt(tpl string, row model.Row, fieldName, fieldValue string) string {
	ctx := make(map[string]string, len(row)+2)
	for col, v := range row {
		ctx[normalizeVarName(col)] = v
	}
	ctx["Field_Name"] = fieldName
	ctx["Field_Value"] = fieldValue

	return varPattern.ReplaceAllStringFunc(tpl, func(m string) string {
		return ctx[m[1:len(m)-1]]
	})
}

// TemplateVariables lists the distinct variable names a template uses.
func TemplateVariables(tpl string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range varPattern.FindAllStringSubmatch(tpl, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			out = append(out, m[1])
		}
	}
	return out
}
