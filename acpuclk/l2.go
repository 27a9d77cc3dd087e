package acpuclk

import "github.com/sirupsen/logrus"

// computeL2Level records a core's L2 vote and returns the index of the
// level the shared domain must run at: the maximum vote across all cores.
// A parked core votes for the lowest level by virtue of having been
// transitioned to the standby point when it went down.
//
// Callers must hold l2Lock so the vote and the shared-domain speed change
// it triggers apply as one atomic unit, even against voters that do not
// hold the broad driver lock.
func (d *Driver) computeL2Level(cpu int, vote int) int {
	if vote < 0 || vote >= len(d.l2Tbl) {
		// Votes come from table entries the plan selector validated;
		// an out-of-range vote means we are operating outside verified
		// frequency/voltage combinations.
		logrus.Fatalf("L2 vote %d out of range (table size %d)", vote, len(d.l2Tbl))
	}

	d.scalables[cpu].l2Vote = vote

	newL := 0
	for c := 0; c < d.l2; c++ {
		if d.scalables[c].l2Vote > newL {
			newL = d.scalables[c].l2Vote
		}
	}
	return newL
}
