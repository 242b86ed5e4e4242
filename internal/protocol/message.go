// Package protocol implements the inter-agent message envelope carried on
// the orchestrator's stdout and stdin as tagged single-line JSON.
package protocol

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MessagePrefix tags a line carrying a message envelope.
const MessagePrefix = "[MESSAGE]"

// MessageType discriminates the message envelope.
type MessageType string

const (
	TypeWorkRequest           MessageType = "work_request"
	TypeCodeOutput            MessageType = "code_output"
	TypeRevisionReq           MessageType = "revision_req"
	TypeAsicRequest           MessageType = "asic_request"
	TypeAsicResponse          MessageType = "asic_response"
	TypeOptions               MessageType = "options"
	TypeEvaluation            MessageType = "evaluation"
	TypeComplete              MessageType = "complete"
	TypeError                 MessageType = "error"
	TypeStatus                MessageType = "status"
	TypeDiagnostic            MessageType = "diagnostic"
	TypeAbort                 MessageType = "abort"
	TypeForkliftRequest       MessageType = "forklift_request"
	TypeForkliftResponse      MessageType = "forklift_response"
	TypeToolRequest           MessageType = "tool_request"
	TypeToolResponse          MessageType = "tool_response"
	TypeToolConfirm           MessageType = "tool_confirm"
	TypeRemSleepStart         MessageType = "rem_sleep_start"
	TypeRemSleepComplete      MessageType = "rem_sleep_complete"
	TypeConsolidationRequest  MessageType = "consolidation_request"
	TypeConsolidationResponse MessageType = "consolidation_response"
)

var validTypes = map[MessageType]bool{
	TypeWorkRequest:           true,
	TypeCodeOutput:            true,
	TypeRevisionReq:           true,
	TypeAsicRequest:           true,
	TypeAsicResponse:          true,
	TypeOptions:               true,
	TypeEvaluation:            true,
	TypeComplete:              true,
	TypeError:                 true,
	TypeStatus:                true,
	TypeDiagnostic:            true,
	TypeAbort:                 true,
	TypeForkliftRequest:       true,
	TypeForkliftResponse:      true,
	TypeToolRequest:           true,
	TypeToolResponse:          true,
	TypeToolConfirm:           true,
	TypeRemSleepStart:         true,
	TypeRemSleepComplete:      true,
	TypeConsolidationRequest:  true,
	TypeConsolidationResponse: true,
}

// Valid reports whether t is one of the protocol's discriminants.
func (t MessageType) Valid() bool {
	return validTypes[t]
}

// Message is the protocol envelope exchanged between agents and the
// supervisor. Payload is arbitrary JSON; Metadata defaults to an empty
// object when absent on the wire.
type Message struct {
	ID            string      `json:"id"`
	Type          MessageType `json:"type"`
	Sender        string      `json:"sender"`
	Receiver      string      `json:"receiver"`
	Payload       any         `json:"payload"`
	Timestamp     string      `json:"timestamp"`
	CorrelationID *string     `json:"correlation_id"`
	Metadata      any         `json:"metadata"`
}

// New creates a message with a fresh short id and the current UTC timestamp.
func New(t MessageType, sender, receiver string, payload any) *Message {
	return &Message{
		ID:        uuid.NewString()[:8],
		Type:      t,
		Sender:    sender,
		Receiver:  receiver,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Metadata:  map[string]any{},
	}
}

// Reply creates a response envelope: sender and receiver swapped, correlation
// id pointing back at m.
func (m *Message) Reply(t MessageType, payload any) *Message {
	r := New(t, m.Receiver, m.Sender, payload)
	id := m.ID
	r.CorrelationID = &id
	return r
}

// EncodeLine renders m as one tagged line, without a trailing newline.
func EncodeLine(m *Message) (string, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return MessagePrefix + " " + string(data), nil
}

// DecodeLine parses a tagged message line. It returns false when the line is
// not message-tagged, the JSON is invalid, or the type discriminant is
// unknown; such lines still flow to the log as plain text, they just carry no
// structured meaning.
func DecodeLine(line string) (*Message, bool) {
	if !strings.HasPrefix(line, MessagePrefix) {
		return nil, false
	}

	var m Message
	raw := strings.TrimSpace(strings.TrimPrefix(line, MessagePrefix))
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, false
	}
	if !m.Type.Valid() {
		return nil, false
	}
	if m.Metadata == nil {
		m.Metadata = map[string]any{}
	}

	return &m, true
}
