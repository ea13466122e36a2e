package events

import "testing"

func TestNewRecordEvent(t *testing.T) {
	evt := NewRecordEvent(TypeRecordUpdated, "ws-1", "option-types", "42")

	if evt.EventType() != TypeRecordUpdated {
		t.Errorf("type = %q, want %q", evt.EventType(), TypeRecordUpdated)
	}
	data := evt.Payload()
	if data["workspace_id"] != "ws-1" || data["endpoint"] != "option-types" || data["record_id"] != "42" {
		t.Errorf("payload = %v", data)
	}
	if evt.Timestamp().IsZero() {
		t.Error("timestamp must be set")
	}
}
