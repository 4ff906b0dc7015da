package ai

import "testing"

func TestParseStrictTriggerShape(t *testing.T) {
	resp := Parse(`{"trigger":true,"message":"bad"}`)
	if !resp.Trigger || resp.Message != "bad" {
		t.Errorf("got %+v, want trigger=true message=bad", resp)
	}
	if resp.Degraded {
		t.Error("strict parse marked degraded")
	}
}

func TestParseStrictResultShape(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		wantTrigger bool
		wantMessage string
	}{
		{"incorrect maps to trigger", `{"result":"incorrect","justification":"why"}`, true, "why"},
		{"not detailed maps to trigger", `{"result":"not detailed","reason":"thin"}`, true, "thin"},
		{"reason fallback", `{"result":"incorrect","reason":"r"}`, true, "r"},
		{"detailed no trigger", `{"result":"detailed","justification":"fine"}`, false, ""},
		{"correct no trigger", `{"result":"correct"}`, false, ""},
		{"unknown result no trigger", `{"result":"maybe","reason":"x"}`, false, ""},
		{"result case-insensitive", `{"result":"  INCORRECT ","justification":"w"}`, true, "w"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := Parse(tt.content)
			if resp.Trigger != tt.wantTrigger {
				t.Errorf("trigger = %v, want %v", resp.Trigger, tt.wantTrigger)
			}
			if resp.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", resp.Message, tt.wantMessage)
			}
			if resp.Degraded {
				t.Error("strict parse marked degraded")
			}
		})
	}
}

func TestParseTriggerCoercion(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{"number one", `{"trigger":1}`, true},
		{"number zero", `{"trigger":0}`, false},
		{"non-empty string", `{"trigger":"yes"}`, true},
		{"empty string", `{"trigger":""}`, false},
		{"null", `{"trigger":null}`, false},
		{"empty object", `{"trigger":{}}`, false},
		{"non-empty object", `{"trigger":{"a":1}}`, true},
		{"empty array", `{"trigger":[]}`, false},
		{"non-empty array", `{"trigger":["x"]}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Parse(tt.content).Trigger; got != tt.want {
				t.Errorf("trigger = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseConfidence(t *testing.T) {
	resp := Parse(`{"trigger":true,"message":"m","confidence":0.9}`)
	if resp.Confidence == nil || *resp.Confidence != 0.9 {
		t.Errorf("confidence = %v, want 0.9", resp.Confidence)
	}

	resp = Parse(`{"trigger":false}`)
	if resp.Confidence != nil {
		t.Errorf("confidence = %v, want nil", resp.Confidence)
	}
}

func TestParseHeuristicFallback(t *testing.T) {
	tests := []struct {
		name         string
		content      string
		wantTrigger  bool
		wantMessage  string
		wantDegraded bool
	}{
		{"not json at all", "not json at all", false, "", true},
		{"neutral empty object", "{}", false, "", false},
		{
			"truncated json with result",
			`some text "result": "incorrect", "justification": "missing detail" trailing`,
			true, "missing detail", true,
		},
		{
			"result keyword without quotes around doc",
			`prefix {"result": "not detailed"`,
			true, "", true,
		},
		{
			"message key in broken json",
			`garbage "message": "found it" more garbage`,
			false, "found it", true,
		},
		{
			"correct in broken json does not trigger",
			`noise "result": "correct", "reason": "fine"`,
			false, "fine", true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := Parse(tt.content)
			if resp.Trigger != tt.wantTrigger {
				t.Errorf("trigger = %v, want %v", resp.Trigger, tt.wantTrigger)
			}
			if resp.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", resp.Message, tt.wantMessage)
			}
			if resp.Degraded != tt.wantDegraded {
				t.Errorf("degraded = %v, want %v", resp.Degraded, tt.wantDegraded)
			}
		})
	}
}

func TestParseNeverPanics(t *testing.T) {
	inputs := []string{
		"", "null", "[]", "42", `"string"`,
		`{"trigger":"yes"}`, `{"trigger":null}`, `{"result":null}`,
		`{"message": {"nested": true}}`, "\x00\xff",
	}
	for _, in := range inputs {
		_ = Parse(in) // must not panic
	}
}
