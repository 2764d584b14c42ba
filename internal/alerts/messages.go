package alerts

import (
	"encoding/json"
	"time"

	"kharcha/internal/core"
	"kharcha/internal/viewmodel"
)

// AdvisoryMessage is the wire form of a spending advisory. The full dashboard
// state is not carried; the message is a self-contained notification.
type AdvisoryMessage struct {
	Severity  core.Severity `json:"severity"`
	Category  core.Category `json:"category,omitempty"`
	Message   string        `json:"message"`
	Timestamp time.Time     `json:"timestamp"`
}

// NewAdvisoryMessage wraps an advisory with a publish timestamp.
func NewAdvisoryMessage(a viewmodel.Advisory, now time.Time) *AdvisoryMessage {
	return &AdvisoryMessage{
		Severity:  a.Severity,
		Category:  a.Category,
		Message:   a.Message,
		Timestamp: now,
	}
}

// ToJSON converts the message to JSON bytes.
func (m *AdvisoryMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// AdvisoryMessageFromJSON decodes a message from JSON bytes.
func AdvisoryMessageFromJSON(data []byte) (*AdvisoryMessage, error) {
	var msg AdvisoryMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
