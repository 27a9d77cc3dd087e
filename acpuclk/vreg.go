package acpuclk

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Voltage limits in microvolts.
const (
	MaxVddSC = 1350000
	MinVddSC = 400000
)

// HFPLL voltage floors. Operating points sourced from the HFPLL need the
// digital and core rails held at or above a floor that depends on the PLL
// frequency-control value.
const (
	hfpllNominalVdd    = 1100000
	hfpllLowVdd        = 800000
	hfpllLowVddLValMax = 0x28
)

// HFPLL supply voltages, raised while the PLL runs.
const (
	hfpllVddA = 2100000
	hfpllVddB = 1800000
)

// Rail indices within a scalable's vreg array.
const (
	vregCore = iota
	vregMem
	vregDig
	vregHFPLLA
	vregHFPLLB
	numVregs
)

// vreg caches the last-programmed voltage of one rail so redundant backend
// calls are skipped and increase-vs-decrease ordering can be decided.
// curVdd is updated only after a successful backend call.
type vreg struct {
	name   string
	maxVdd int
	voter  int
	curVdd int
}

// increaseVdd applies any per-cpu voltage increases required before a
// frequency raise. Memory rises before the digital (cache) rail, which
// rises before the core rail; vdd_mem must stay >= vdd_dig at every
// instant. The core rail is skipped on hotplug paths: the core-rail backend
// must run on the affected core, and during hotplug we are not on it.
// The first backend failure aborts the remaining steps.
func (d *Driver) increaseVdd(cpu int, vddCore, vddMem, vddDig int, reason SetRateReason) error {
	sc := &d.scalables[cpu]

	if vddMem > sc.vreg[vregMem].curVdd {
		if err := d.be.Rails.SetVoltage(sc.vreg[vregMem].name, sc.vreg[vregMem].voter,
			vddMem, sc.vreg[vregMem].maxVdd); err != nil {
			return fmt.Errorf("vdd_mem (cpu%d) increase failed: %w", cpu, err)
		}
		sc.vreg[vregMem].curVdd = vddMem
	}

	if vddDig > sc.vreg[vregDig].curVdd {
		if err := d.be.Rails.SetVoltage(sc.vreg[vregDig].name, sc.vreg[vregDig].voter,
			vddDig, sc.vreg[vregDig].maxVdd); err != nil {
			return fmt.Errorf("vdd_dig (cpu%d) increase failed: %w", cpu, err)
		}
		sc.vreg[vregDig].curVdd = vddDig
	}

	// The core rail should already be correct on the hotplug path, and the
	// backend requires the call to come from the affected core anyway.
	if vddCore > sc.vreg[vregCore].curVdd && reason != ReasonHotplug {
		if err := d.be.CoreRail.SetVoltage(cpu, vddCore, sc.vreg[vregCore].maxVdd); err != nil {
			return fmt.Errorf("vdd_core (cpu%d) increase failed: %w", cpu, err)
		}
		sc.vreg[vregCore].curVdd = vddCore
	}

	return nil
}

// decreaseVdd drops any rail whose new requirement is below its cached
// value, in the reverse order of increaseVdd: core first (skipped for
// hotplug, where the rail is off and we run on another core), then digital,
// then memory. Failures are logged and stop further drops but are not
// reported to the caller: the frequency change is already applied and every
// completed step left the system internally consistent.
func (d *Driver) decreaseVdd(cpu int, vddCore, vddMem, vddDig int, reason SetRateReason) {
	sc := &d.scalables[cpu]

	if vddCore < sc.vreg[vregCore].curVdd && reason != ReasonHotplug {
		if err := d.be.CoreRail.SetVoltage(cpu, vddCore, sc.vreg[vregCore].maxVdd); err != nil {
			logrus.Errorf("vdd_core (cpu%d) decrease failed: %v", cpu, err)
			return
		}
		sc.vreg[vregCore].curVdd = vddCore
	}

	if vddDig < sc.vreg[vregDig].curVdd {
		if err := d.be.Rails.SetVoltage(sc.vreg[vregDig].name, sc.vreg[vregDig].voter,
			vddDig, sc.vreg[vregDig].maxVdd); err != nil {
			logrus.Errorf("vdd_dig (cpu%d) decrease failed: %v", cpu, err)
			return
		}
		sc.vreg[vregDig].curVdd = vddDig
	}

	// vdd_mem drops last so vdd_mem >= vdd_dig holds throughout.
	if vddMem < sc.vreg[vregMem].curVdd {
		if err := d.be.Rails.SetVoltage(sc.vreg[vregMem].name, sc.vreg[vregMem].voter,
			vddMem, sc.vreg[vregMem].maxVdd); err != nil {
			logrus.Errorf("vdd_mem (cpu%d) decrease failed: %v", cpu, err)
			return
		}
		sc.vreg[vregMem].curVdd = vddMem
	}
}

// calculateVddMem returns the memory-rail requirement of an operating point.
func (d *Driver) calculateVddMem(tgt *AcpuLevel) int {
	return d.l2Tbl[tgt.L2].VddMem
}

// calculateVddDig returns the digital-rail requirement: the table's nominal
// value, raised to an HFPLL floor when the L2 speed runs off the HFPLL.
func (d *Driver) calculateVddDig(tgt *AcpuLevel) int {
	l2 := &d.l2Tbl[tgt.L2]
	return max(l2.VddDig, pllVddFloor(&l2.Speed))
}

// calculateVddCore returns the core-rail requirement: the table's nominal
// value, raised to an HFPLL floor when the core speed runs off the HFPLL.
func (d *Driver) calculateVddCore(tgt *AcpuLevel) int {
	return max(tgt.VddCore, pllVddFloor(&tgt.Speed))
}

// pllVddFloor is the supply floor imposed by running a speed's HFPLL: a
// higher floor above the low-voltage L-val threshold, a lower one below it,
// none when the HFPLL is not the source.
func pllVddFloor(s *CoreSpeed) int {
	switch {
	case s.Src != SrcHFPLL:
		return 0
	case s.PllLVal > hfpllLowVddLValMax:
		return hfpllNominalVdd
	default:
		return hfpllLowVdd
	}
}
