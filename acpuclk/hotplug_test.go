package acpuclk

import (
	"errors"
	"testing"
)

func TestHotplug_DyingStartingRestoresMuxSelections(t *testing.T) {
	// GIVEN cpu1 running at 800 MHz on the HFPLL
	d, hw := newTestDriver(t, 2)
	settle(t, d, hw, 0, 800000)
	settle(t, d, hw, 1, 800000)

	wantPri := d.getPriClkSrc(1)
	wantSec := d.getSecClkSrc(1)
	if wantPri != priSrcSelHFPLL {
		t.Fatalf("precondition: cpu1 pri mux = %d, want %d", wantPri, priSrcSelHFPLL)
	}

	// WHEN the core goes down
	if err := d.OnHotplug(1, CPUDying); err != nil {
		t.Fatalf("dying: %v", err)
	}

	// THEN its muxes sit on the always-on standby path
	if got := d.getPriClkSrc(1); got != priSrcSelSecSrc {
		t.Errorf("pri mux after dying: got %d, want %d", got, priSrcSelSecSrc)
	}
	if got := d.getSecClkSrc(1); got != secSrcSelQSB {
		t.Errorf("sec mux after dying: got %d, want %d", got, secSrcSelQSB)
	}

	// AND other cores' transitions in the meantime do not disturb the
	// saved selections
	if err := d.SetRate(0, 200000, ReasonCPUFreq); err != nil {
		t.Fatalf("SetRate cpu0: %v", err)
	}
	if err := d.SetRate(0, 400000, ReasonCPUFreq); err != nil {
		t.Fatalf("SetRate cpu0: %v", err)
	}

	// WHEN the core comes back
	if err := d.OnHotplug(1, CPUStarting); err != nil {
		t.Fatalf("starting: %v", err)
	}

	// THEN the selections captured at dying are back in force
	if got := d.getPriClkSrc(1); got != wantPri {
		t.Errorf("pri mux after starting: got %d, want %d", got, wantPri)
	}
	if got := d.getSecClkSrc(1); got != wantSec {
		t.Errorf("sec mux after starting: got %d, want %d", got, wantSec)
	}
}

func TestHotplug_DeadParksCoreAndRecordsRate(t *testing.T) {
	// GIVEN cpu1 at 400 MHz
	d, hw := newTestDriver(t, 2)
	settle(t, d, hw, 0, 800000)
	settle(t, d, hw, 1, 400000)

	// WHEN the core is reported dead
	if err := d.OnHotplug(1, CPUDead); err != nil {
		t.Fatalf("dead: %v", err)
	}

	// THEN it is parked at the standby rate
	if got := d.Rate(1); got != StbyKHz {
		t.Errorf("Rate(1): got %d, want %d", got, StbyKHz)
	}
	// AND the absent core's own rail and mux registers were not touched
	if got := hw.calls("core:"); len(got) != 0 {
		t.Errorf("core rail written for dead cpu: %v", got)
	}
	if got := hw.calls("mux:1:"); len(got) != 0 {
		t.Errorf("mux registers written for dead cpu: %v", got)
	}

	// WHEN the core prepares to come back up
	hw.reset()
	if err := d.OnHotplug(1, CPUUpPrepare); err != nil {
		t.Fatalf("up-prepare: %v", err)
	}

	// THEN it returns to the rate it ran at before going down
	if got := d.Rate(1); got != 400000 {
		t.Errorf("Rate(1) after up-prepare: got %d, want 400000", got)
	}
	// AND the mux, which was never moved on the way down, is still not
	// written from the outside
	if got := hw.calls("mux:1:"); len(got) != 0 {
		t.Errorf("mux registers written for absent cpu: %v", got)
	}
}

func TestHotplug_UpCanceledKeepsRecordedRate(t *testing.T) {
	// GIVEN a core that went down at 800 MHz
	d, hw := newTestDriver(t, 2)
	settle(t, d, hw, 0, 800000)
	settle(t, d, hw, 1, 800000)
	if err := d.OnHotplug(1, CPUDead); err != nil {
		t.Fatalf("dead: %v", err)
	}

	// WHEN a bring-up attempt is abandoned
	if err := d.OnHotplug(1, CPUUpCanceled); err != nil {
		t.Fatalf("up-canceled: %v", err)
	}
	if got := d.Rate(1); got != StbyKHz {
		t.Errorf("Rate(1) after up-canceled: got %d, want %d", got, StbyKHz)
	}

	// THEN a later successful bring-up still restores the original rate
	if err := d.OnHotplug(1, CPUUpPrepare); err != nil {
		t.Fatalf("up-prepare: %v", err)
	}
	if got := d.Rate(1); got != 800000 {
		t.Errorf("Rate(1) after up-prepare: got %d, want 800000", got)
	}
}

func TestHotplug_UpPrepareWithoutRecordedRateFails(t *testing.T) {
	d, _ := newTestDriver(t, 2)

	err := d.OnHotplug(1, CPUUpPrepare)
	if !errors.Is(err, ErrNoPrevRate) {
		t.Errorf("up-prepare without prior dead: got %v, want ErrNoPrevRate", err)
	}
}

func TestHotplug_BadCPU(t *testing.T) {
	d, _ := newTestDriver(t, 2)

	for _, cpu := range []int{-1, 2} {
		if err := d.OnHotplug(cpu, CPUDead); !errors.Is(err, ErrBadCPU) {
			t.Errorf("OnHotplug(%d): got %v, want ErrBadCPU", cpu, err)
		}
	}
}
