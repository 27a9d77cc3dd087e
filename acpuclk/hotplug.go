package acpuclk

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// HotplugEvent is a core lifecycle notification.
type HotplugEvent int

const (
	// CPUDying fires on the core as it goes down, before power collapse.
	CPUDying HotplugEvent = iota
	// CPUDead fires after the core has stopped executing.
	CPUDead
	// CPUUpCanceled fires when a bring-up attempt is abandoned.
	CPUUpCanceled
	// CPUUpPrepare fires before a core is brought back up.
	CPUUpPrepare
	// CPUStarting fires on the core early in bring-up.
	CPUStarting
)

func (e HotplugEvent) String() string {
	switch e {
	case CPUDying:
		return "dying"
	case CPUDead:
		return "dead"
	case CPUUpCanceled:
		return "up-canceled"
	case CPUUpPrepare:
		return "up-prepare"
	case CPUStarting:
		return "starting"
	}
	return "unknown"
}

// hotUnplugKHz is the frequency a core is parked at once it is down.
const hotUnplugKHz = StbyKHz

// OnHotplug reacts to a core lifecycle event. A core's mux and PLL
// registers can only be written while that core executes, so the
// dying/starting pair brackets the unsafe window: the muxes are forced to
// the always-on standby path before power-down and the saved selections are
// restored once the core runs again. The dead and up-prepare events drive
// the transition engine with the hotplug reason, which suppresses the
// register and core-rail accesses that would target an absent core.
func (d *Driver) OnHotplug(cpu int, ev HotplugEvent) error {
	if cpu < 0 || cpu >= d.l2 {
		return fmt.Errorf("%w: %d", ErrBadCPU, cpu)
	}
	d.Metrics.recordHotplug(ev)

	switch ev {
	case CPUDying:
		// The muxes must sit on QSB across L2 power collapse and be
		// restored after.
		d.prevSecSrc[cpu] = d.getSecClkSrc(cpu)
		d.prevPriSrc[cpu] = d.getPriClkSrc(cpu)
		d.setSecClkSrc(cpu, secSrcSelQSB)
		d.setPriClkSrc(cpu, priSrcSelSecSrc)

	case CPUDead:
		d.prevKHz[cpu] = d.Rate(cpu)
		return d.SetRate(cpu, hotUnplugKHz, ReasonHotplug)

	case CPUUpCanceled:
		return d.SetRate(cpu, hotUnplugKHz, ReasonHotplug)

	case CPUUpPrepare:
		if d.prevKHz[cpu] == 0 {
			logrus.Errorf("cpu%d preparing to start with no recorded rate", cpu)
			return fmt.Errorf("%w: cpu%d", ErrNoPrevRate, cpu)
		}
		return d.SetRate(cpu, d.prevKHz[cpu], ReasonHotplug)

	case CPUStarting:
		d.setSecClkSrc(cpu, d.prevSecSrc[cpu])
		d.setPriClkSrc(cpu, d.prevPriSrc[cpu])
	}

	return nil
}
