package configstore

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// documentSchema constrains saved configuration documents. The word-count
// range and mode enums mirror the engine's own validation so that a bad
// document is rejected at save time, not at evaluation time.
const documentSchema = `{
  "type": "object",
  "required": ["name", "targets"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "description": {"type": "string"},
    "updated_at": {"type": "string"},
    "targets": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["column"],
        "properties": {
          "column": {"type": "string", "minLength": 1},
          "wc": {"type": "boolean"},
          "wc_min": {"type": "integer", "minimum": 0, "maximum": 20},
          "kw_flag": {
            "type": "object",
            "properties": {
              "enabled": {"type": "boolean"},
              "mode": {"enum": ["ANY", "ALL", ""]},
              "phrases": {"type": "array", "items": {"type": "string"}}
            }
          },
          "vf_on": {"type": "boolean"},
          "filters": {
            "type": "object",
            "additionalProperties": {"type": "array", "items": {"type": "string"}}
          },
          "tf_on": {"type": "boolean"},
          "text_filters": {
            "type": "object",
            "additionalProperties": {
              "type": "object",
              "properties": {
                "mode": {"enum": ["ANY", "ALL", ""]},
                "phrases": {"type": "array", "items": {"type": "string"}},
                "include": {"type": "boolean"}
              }
            }
          },
          "filter_mode": {"enum": ["AND", "OR", ""]},
          "ai": {"type": "boolean"},
          "prompt": {"type": "string"}
        }
      }
    }
  }
}`

// ValidateDocument checks a raw JSON document against the saved-config
// schema and returns one descriptive error listing every violation.
func ValidateDocument(doc []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(documentSchema),
		gojsonschema.NewBytesLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	if result.Valid() {
		return nil
	}
	var problems []string
	for _, e := range result.Errors() {
		problems = append(problems, e.String())
	}
	return fmt.Errorf("invalid config document: %s", strings.Join(problems, "; "))
}
