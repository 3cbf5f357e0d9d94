package conversations

import (
	"encoding/json"
	"testing"
)

func TestExtractCallID(t *testing.T) {
	cases := []struct {
		name     string
		metadata string
		want     string
		found    bool
	}{
		{"present", `{"phone_call":{"call_sid":"CA123"}}`, "CA123", true},
		{"extra fields", `{"phone_call":{"call_sid":"CA9","agent_number":"+15550001111"},"duration":42}`, "CA9", true},
		{"missing phone_call", `{"duration":42}`, "", false},
		{"empty sid", `{"phone_call":{"call_sid":""}}`, "", false},
		{"phone_call null", `{"phone_call":null}`, "", false},
		{"malformed", `{"phone_call":`, "", false},
		{"empty payload", ``, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var raw json.RawMessage
			if tc.metadata != "" {
				raw = json.RawMessage(tc.metadata)
			}
			got, found := ExtractCallID(raw)
			if got != tc.want || found != tc.found {
				t.Fatalf("ExtractCallID(%q) = (%q, %v), want (%q, %v)", tc.metadata, got, found, tc.want, tc.found)
			}
		})
	}
}
