package acpuclk

import "github.com/sirupsen/logrus"

// setBusBW updates the memory-bus bandwidth request to a table level.
// Out-of-range levels are rejected and the previous request stays in
// effect; backend failures likewise leave the previous request standing.
// The backend call may sleep.
func (d *Driver) setBusBW(bw int) {
	if bw < 0 || bw >= len(d.bwTbl) {
		logrus.Errorf("invalid bandwidth request (%d)", bw)
		return
	}

	if err := d.be.Bus.UpdateRequest(bw); err != nil {
		logrus.Errorf("bandwidth request failed: %v", err)
	}
}

// busInit issues the initial bandwidth request at the top level; the first
// full transition scales it back to what the operating point needs.
func (d *Driver) busInit() {
	if err := d.be.Bus.UpdateRequest(len(d.bwTbl) - 1); err != nil {
		logrus.Errorf("initial bandwidth request failed: %v", err)
	}
}
