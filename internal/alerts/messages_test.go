package alerts

import (
	"testing"
	"time"

	"kharcha/internal/core"
	"kharcha/internal/viewmodel"
)

func TestAdvisoryMessage_JSON(t *testing.T) {
	timestamp := time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)
	msg := NewAdvisoryMessage(viewmodel.Advisory{
		Severity: core.SeverityWarning,
		Category: core.CategoryFood,
		Message:  "Food budget at 85%: spent ₹425.00 of ₹500.00",
	}, timestamp)

	jsonBytes, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsed, err := AdvisoryMessageFromJSON(jsonBytes)
	if err != nil {
		t.Fatalf("AdvisoryMessageFromJSON() error = %v", err)
	}

	if parsed.Severity != core.SeverityWarning {
		t.Errorf("Severity = %v, want warning", parsed.Severity)
	}
	if parsed.Category != core.CategoryFood {
		t.Errorf("Category = %v, want food", parsed.Category)
	}
	if parsed.Message != msg.Message {
		t.Errorf("Message = %q, want %q", parsed.Message, msg.Message)
	}
	if !parsed.Timestamp.Equal(timestamp) {
		t.Errorf("Timestamp = %v, want %v", parsed.Timestamp, timestamp)
	}
}

func TestAdvisoryMessage_OmitsEmptyCategory(t *testing.T) {
	msg := NewAdvisoryMessage(viewmodel.Advisory{
		Severity: core.SeverityDanger,
		Message:  "Monthly spending ₹1500.00 exceeds income ₹1000.00",
	}, time.Now())

	jsonBytes, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}
	if contains(string(jsonBytes), `"category"`) {
		t.Errorf("overspend advisory should omit category, got %s", jsonBytes)
	}
}

func TestAdvisoryMessage_InvalidJSON(t *testing.T) {
	if _, err := AdvisoryMessageFromJSON([]byte(`{"severity": 5}`)); err == nil {
		t.Error("AdvisoryMessageFromJSON() should fail on malformed input")
	}
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
