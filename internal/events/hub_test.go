package events

import (
	"encoding/json"
	"testing"
)

func TestNewEventEnvelope(t *testing.T) {
	e := New("req-1", "run_started", map[string]string{"k": "v"})

	if e.Type != "run_started" {
		t.Errorf("type = %q, want run_started", e.Type)
	}
	if e.RequestID != "req-1" {
		t.Errorf("request id = %q", e.RequestID)
	}
	if e.At.IsZero() {
		t.Error("timestamp missing")
	}

	var data map[string]string
	if err := json.Unmarshal(e.Data, &data); err != nil {
		t.Fatalf("data payload: %v", err)
	}
	if data["k"] != "v" {
		t.Errorf("data = %v", data)
	}

	var decoded Event
	if err := json.Unmarshal([]byte(e.Encode()), &decoded); err != nil {
		t.Fatalf("Encode produced invalid JSON: %v", err)
	}
	if decoded.Type != e.Type {
		t.Errorf("round trip type = %q", decoded.Type)
	}
}

func TestHubPublishSubscribe(t *testing.T) {
	h := NewHub()

	ch := h.Subscribe()
	defer h.Unsubscribe(ch)

	h.Emit("", "posting_deleted", map[string]string{"id": "42"})
	select {
	case got := <-ch:
		if got.Type != "posting_deleted" {
			t.Errorf("got type %q", got.Type)
		}
	default:
		t.Fatal("no event delivered")
	}
}

func TestHubDropsWhenSubscriberIsSlow(t *testing.T) {
	h := NewHub()
	ch := h.Subscribe()
	defer h.Unsubscribe(ch)

	// Overfill the buffer; Publish must never block.
	for i := 0; i < 100; i++ {
		h.Emit("", "tick", nil)
	}

	drained := 0
	for {
		select {
		case <-ch:
			drained++
			continue
		default:
		}
		break
	}
	if drained != subscriberBuffer {
		t.Errorf("drained %d events, want %d", drained, subscriberBuffer)
	}
}

func TestHubUnsubscribedChannelGetsNothing(t *testing.T) {
	h := NewHub()
	ch := h.Subscribe()
	h.Unsubscribe(ch)

	h.Emit("", "tick", nil)
	if _, ok := <-ch; ok {
		t.Error("closed channel delivered an event")
	}
}
