package ai

import (
	"encoding/json"
	"strings"
)

// Response is the normalized shape of a scoring response.
type Response struct {
	Trigger    bool
	Message    string
	Confidence *float64

	// Degraded marks responses recovered by the heuristic fallback
	// rather than strict parsing.
	Degraded bool
}

// Parse normalizes heterogeneous scoring responses. Two source shapes
// are recognized: {"trigger":bool,"message":str,"confidence"?:num} passed
// through, and {"result":"detailed"|"correct"|"not detailed"|"incorrect",
// "justification"|"reason":str,"confidence"?:num} mapped so that the
// negative results set trigger. Anything else goes through best-effort
// keyword scanning. Parse never fails; the worst case is a non-triggered
// empty response.
func Parse(content string) Response {
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(content), &data); err == nil {
		return parseStrict(data)
	}
	return parseLoose(content)
}

func parseStrict(data map[string]interface{}) Response {
	var resp Response

	if v, ok := data["trigger"]; ok {
		resp.Trigger = truthy(v)
		resp.Message = strings.TrimSpace(stringValue(data["message"]))
		resp.Confidence = floatValue(data["confidence"])
		return resp
	}

	if v, ok := data["result"]; ok {
		switch strings.TrimSpace(strings.ToLower(stringValue(v))) {
		case "not detailed", "incorrect":
			resp.Trigger = true
			msg := stringValue(data["justification"])
			if msg == "" {
				msg = stringValue(data["reason"])
			}
			resp.Message = strings.TrimSpace(msg)
		case "detailed", "correct":
			resp.Trigger = false
		}
		resp.Confidence = floatValue(data["confidence"])
	}

	return resp
}

// parseLoose scans for known outcome keywords and message-bearing keys.
// The "incorrect"/"correct" ordering matters: "incorrect" contains
// "correct" as a substring.
func parseLoose(content string) Response {
	resp := Response{Degraded: true}
	lower := strings.ToLower(content)

	if strings.Contains(lower, `"result"`) {
		if strings.Contains(lower, "not detailed") || strings.Contains(lower, "incorrect") {
			resp.Trigger = true
		}
	}

	for _, key := range []string{"justification", "reason", "message"} {
		idx := strings.Index(lower, `"`+key+`"`)
		if idx == -1 {
			continue
		}
		end := idx + 200
		if end > len(content) {
			end = len(content)
		}
		if msg, ok := quotedAfterColon(content[idx:end]); ok {
			resp.Message = strings.TrimSpace(msg)
			break
		}
	}

	return resp
}

// quotedAfterColon extracts the first double-quoted value following the
// first colon in the snippet.
func quotedAfterColon(snippet string) (string, bool) {
	colon := strings.Index(snippet, ":")
	if colon == -1 {
		return "", false
	}
	rest := snippet[colon+1:]
	first := strings.Index(rest, `"`)
	if first == -1 {
		return "", false
	}
	second := strings.Index(rest[first+1:], `"`)
	if second == -1 {
		return "", false
	}
	return rest[first+1 : first+1+second], true
}

// truthy mirrors the tolerant boolean coercion applied to the trigger
// field of untrusted responses.
func truthy(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	case map[string]interface{}:
		return len(t) > 0
	case []interface{}:
		return len(t) > 0
	case nil:
		return false
	default:
		return true
	}
}

func stringValue(v interface{}) string {
	s, _ := v.(string)
	return s
}

func floatValue(v interface{}) *float64 {
	f, ok := v.(float64)
	if !ok {
		return nil
	}
	return &f
}
