package events

import (
	"testing"
	"time"
)

func TestNewChangeMessage(t *testing.T) {
	before := time.Now()
	msg := NewChangeMessage("invoices", "update", "inv-1")

	if msg.Collection != "invoices" || msg.Op != "update" || msg.ID != "inv-1" {
		t.Fatalf("unexpected message: %+v", msg)
	}
	if msg.Timestamp.Before(before) {
		t.Error("timestamp not set")
	}
}

func TestChangeMessageJSON(t *testing.T) {
	msg := NewChangeMessage("expenses", "delete", "exp-9")
	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	decoded, err := ChangeMessageFromJSON(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Collection != "expenses" || decoded.Op != "delete" || decoded.ID != "exp-9" {
		t.Fatalf("round trip lost fields: %+v", decoded)
	}
}

func TestChangeMessageFromJSON_Malformed(t *testing.T) {
	if _, err := ChangeMessageFromJSON([]byte("{not json")); err == nil {
		t.Fatal("malformed payload accepted")
	}
}
