package mq

import "testing"

func TestEventRoutingKey(t *testing.T) {
	tests := []struct {
		event    Event
		expected string
	}{
		{Event{Entity: "collection", Status: "accepted"}, "collection.status.accepted"},
		{Event{Entity: "payment", Status: "completed"}, "payment.status.completed"},
		{Event{Entity: "tracking", Status: "arrived"}, "tracking.status.arrived"},
	}

	for _, tc := range tests {
		if got := tc.event.RoutingKey(); got != tc.expected {
			t.Errorf("RoutingKey() = %q, want %q", got, tc.expected)
		}
	}
}
