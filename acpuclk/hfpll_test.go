package acpuclk

import (
	"strings"
	"testing"
)

// cpu0's HFPLL register block in log form (hfpllBasePhys + 0x200).
const cpu0Pll = "pll:903200:"

func TestSetSpeed_PLLToPLL_BouncesThroughSecondarySource(t *testing.T) {
	// GIVEN a core running from the HFPLL at 400 MHz
	d, hw := newTestDriver(t, 1)
	settle(t, d, hw, 0, 400000)

	// WHEN it moves to another HFPLL rate
	if err := d.SetRate(0, 800000, ReasonCPUFreq); err != nil {
		t.Fatalf("SetRate: %v", err)
	}

	// THEN the PLL is reprogrammed only while deselected: disable,
	// new L-val, bypass off, reset release, output enable
	pll := hw.calls(cpu0Pll)
	wantPll := []string{
		cpu0Pll + "00=0",
		cpu0Pll + "08=1c",
		cpu0Pll + "00=2",
		cpu0Pll + "00=6",
		cpu0Pll + "00=7",
	}
	if len(pll) != len(wantPll) {
		t.Fatalf("PLL writes: got %v, want %v", pll, wantPll)
	}
	for i := range wantPll {
		if pll[i] != wantPll[i] {
			t.Errorf("PLL write[%d]: got %q, want %q", i, pll[i], wantPll[i])
		}
	}

	// AND the mux writes bracket the PLL reprogramming: the secondary
	// bounce before it, the switch back to the PLL after it
	all := hw.calls("mux:0:", cpu0Pll)
	firstPll, lastPll, lastMux := -1, -1, -1
	firstMux := -1
	for i, entry := range all {
		if strings.HasPrefix(entry, cpu0Pll) {
			if firstPll == -1 {
				firstPll = i
			}
			lastPll = i
		} else {
			if firstMux == -1 {
				firstMux = i
			}
			lastMux = i
		}
	}
	if firstMux == -1 || firstPll == -1 {
		t.Fatalf("missing mux or PLL writes: %v", all)
	}
	if firstMux > firstPll {
		t.Error("PLL touched before the domain was moved off it")
	}
	if lastMux < lastPll {
		t.Error("domain not switched back to the PLL after reprogramming")
	}

	// AND the mandatory bypass and lock delays ran in order
	sawBypass := false
	for _, us := range hw.delays {
		if us == pllBypassUs {
			sawBypass = true
		}
		if us == pllLockUs && !sawBypass {
			t.Fatal("lock delay observed before bypass delay")
		}
	}
	if !sawBypass {
		t.Error("bypass settle delay never ran")
	}
}

func TestSetSpeed_SameSpeedIsNoop(t *testing.T) {
	// GIVEN a settled core
	d, hw := newTestDriver(t, 1)
	settle(t, d, hw, 0, 400000)

	// WHEN setSpeed targets the identical table entry
	d.setSpeed(0, d.scalables[0].currentSpeed, ReasonCPUFreq)

	// THEN no register is written
	if calls := hw.calls("mux:", "pll:"); len(calls) != 0 {
		t.Errorf("expected no register writes, got %v", calls)
	}
}

func TestSetSpeed_HotplugToAlwaysOn_SkipsCoreMuxWrites(t *testing.T) {
	// GIVEN a core running from the HFPLL
	d, hw := newTestDriver(t, 1)
	settle(t, d, hw, 0, 800000)

	// WHEN it is parked on the standby source for the hotplug reason
	d.setSpeed(0, &d.acpuTbl[0].Speed, ReasonHotplug)

	// THEN the PLL stops but the dead core's mux registers stay untouched
	if calls := hw.calls("mux:0:"); len(calls) != 0 {
		t.Errorf("mux written for a core that is not executing: %v", calls)
	}
	if calls := hw.calls(cpu0Pll); len(calls) != 1 || calls[0] != cpu0Pll+"00=0" {
		t.Errorf("expected lone PLL disable, got %v", calls)
	}
	if d.scalables[0].currentSpeed != &d.acpuTbl[0].Speed {
		t.Error("current speed not updated")
	}
}

func TestSetSpeed_HotplugOnL2StillSwitchesMuxes(t *testing.T) {
	// GIVEN the shared domain running from the HFPLL
	d, hw := newTestDriver(t, 2)
	settle(t, d, hw, 0, 800000)

	// WHEN the L2 domain moves to standby for the hotplug reason
	d.setSpeed(d.l2, &d.l2Tbl[0].Speed, ReasonHotplug)

	// THEN its mux registers are written anyway: the L2 register file is
	// reachable regardless of which core runs the transition
	if calls := hw.calls("mux:2:"); len(calls) == 0 {
		t.Error("expected L2 mux writes on the hotplug path")
	}
}

func TestSetSpeed_AlwaysOnToPLL_Hotplug_EnablesWithoutMuxSwitch(t *testing.T) {
	// GIVEN a core parked on the standby source
	d, hw := newTestDriver(t, 1)
	settle(t, d, hw, 0, 800000)
	d.setSpeed(0, &d.acpuTbl[0].Speed, ReasonHotplug)
	hw.reset()

	// WHEN it is brought back to an HFPLL speed on the hotplug path
	d.setSpeed(0, &d.acpuTbl[3].Speed, ReasonHotplug)

	// THEN the PLL is programmed and enabled but the mux is left alone;
	// it was never moved on the way down either
	if calls := hw.calls("mux:0:"); len(calls) != 0 {
		t.Errorf("mux written for a core that is not yet executing: %v", calls)
	}
	pll := hw.calls(cpu0Pll)
	if len(pll) != 4 {
		t.Fatalf("expected L-val + three mode writes, got %v", pll)
	}
	if pll[0] != cpu0Pll+"08=1c" {
		t.Errorf("first PLL write: got %q, want L-val program", pll[0])
	}
}
