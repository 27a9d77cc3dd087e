package acpuclk

import "testing"

func TestBusInit_RequestsTopLevel(t *testing.T) {
	hw := newTestHW(1)
	_, err := New(1, hw.backends(), Config{Tables: testTableBundle()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// The bring-up request is the table's top level until the first
	// transition scales it back.
	if got := (&testBus{hw}).busLevel(); got != 3 {
		t.Errorf("bus level after init: got %d, want 3", got)
	}
}

func TestSetBusBW_OutOfRangeKeepsPreviousRequest(t *testing.T) {
	d, hw := newTestDriver(t, 1)
	settle(t, d, hw, 0, 400000)

	d.setBusBW(99)
	d.setBusBW(-1)

	if got := hw.calls("bus:"); len(got) != 0 {
		t.Errorf("out-of-range levels reached the backend: %v", got)
	}
	if got := (&testBus{hw}).busLevel(); got != 2 {
		t.Errorf("bus level: got %d, want 2", got)
	}
}

func TestSetBusBW_BackendFailureTolerated(t *testing.T) {
	// GIVEN a bus backend whose next request fails
	d, hw := newTestDriver(t, 1)
	settle(t, d, hw, 0, 400000)
	hw.failBus = true

	// WHEN a transition runs
	if err := d.SetRate(0, 800000, ReasonCPUFreq); err != nil {
		t.Fatalf("SetRate: %v", err)
	}

	// THEN the transition itself succeeds and the next one re-requests
	if got := d.Rate(0); got != 800000 {
		t.Errorf("Rate: got %d, want 800000", got)
	}
	if err := d.SetRate(0, 200000, ReasonCPUFreq); err != nil {
		t.Fatalf("SetRate: %v", err)
	}
	if got := (&testBus{hw}).busLevel(); got != 1 {
		t.Errorf("bus level after recovery: got %d, want 1", got)
	}
}
