package conversations

import "encoding/json"

// callMetadata is the only slice of the otherwise opaque metadata payload
// this service understands: the telephony call sid nested under phone_call.
type callMetadata struct {
	PhoneCall *struct {
		CallSid string `json:"call_sid"`
	} `json:"phone_call"`
}

// ExtractCallID pulls the call sid from a conversation's metadata payload.
// Absence at any level of the path (nil payload, malformed JSON, missing
// phone_call, empty call_sid) reads as not-present, never as an error: a
// conversation without telephony metadata is a valid conversation.
func ExtractCallID(metadata json.RawMessage) (string, bool) {
	if len(metadata) == 0 {
		return "", false
	}
	var m callMetadata
	if err := json.Unmarshal(metadata, &m); err != nil {
		return "", false
	}
	if m.PhoneCall == nil || m.PhoneCall.CallSid == "" {
		return "", false
	}
	return m.PhoneCall.CallSid, true
}
