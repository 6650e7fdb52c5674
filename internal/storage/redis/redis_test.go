package redis

import (
	"encoding/json"
	"testing"
)

func TestBuildStateKey(t *testing.T) {
	if got := buildStateKey(42); got != "state:42" {
		t.Errorf("buildStateKey(42) = %q", got)
	}
	if got := buildStateKey(-1001234); got != "state:-1001234" {
		t.Errorf("buildStateKey(-1001234) = %q", got)
	}
}

func TestSnapshotJSON(t *testing.T) {
	st := UserState{
		Step: "summary",
		Booking: &Snapshot{
			PackageID:  3,
			Quantities: map[int]int{11: 2, 12: 0},
			Date:       "2026-03-12",
			Time:       "10:00",
			Contact:    map[string]string{"contactpersoon.email1": "jan@example.com"},
		},
	}
	data, err := json.Marshal(st)
	if err != nil {
		t.Fatal(err)
	}

	var back UserState
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.Booking == nil || back.Booking.Quantities[11] != 2 {
		t.Fatalf("quantities lost: %s", data)
	}
	if _, ok := back.Booking.Quantities[12]; !ok {
		t.Errorf("zero quantity dropped: %s", data)
	}
}

func TestEmptyStateOmitsBooking(t *testing.T) {
	data, err := json.Marshal(UserState{Step: "package"})
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if _, ok := raw["booking"]; ok {
		t.Errorf("booking present in %s", data)
	}
}
