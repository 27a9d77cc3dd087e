package acpuclk

import "github.com/sirupsen/logrus"

// getPriClkSrc returns the selected source on a domain's primary mux.
func (d *Driver) getPriClkSrc(dom int) uint32 {
	sc := &d.scalables[dom]
	return d.be.Regs.ReadIndirect(dom, sc.muxIaddr) & 0x3
}

// setPriClkSrc selects a source on a domain's primary mux and waits for the
// switch to complete.
func (d *Driver) setPriClkSrc(dom int, sel uint32) {
	sc := &d.scalables[dom]
	regval := d.be.Regs.ReadIndirect(dom, sc.muxIaddr)
	regval &^= 0x3
	regval |= sel & 0x3
	d.be.Regs.WriteIndirect(dom, sc.muxIaddr, regval)
	d.be.Regs.Barrier()
	d.be.Sleep.Udelay(muxSettleUs)
}

// getSecClkSrc returns the selected source on a domain's secondary mux.
func (d *Driver) getSecClkSrc(dom int) uint32 {
	sc := &d.scalables[dom]
	return (d.be.Regs.ReadIndirect(dom, sc.muxIaddr) >> 2) & 0x3
}

// setSecClkSrc selects a source on a domain's secondary mux. Secondary
// source clock gating is disabled across the switch and re-enabled after
// the mux has settled.
func (d *Driver) setSecClkSrc(dom int, sel uint32) {
	sc := &d.scalables[dom]

	regval := d.be.Regs.ReadIndirect(dom, sc.muxIaddr)
	regval |= secClkAGD
	d.be.Regs.WriteIndirect(dom, sc.muxIaddr, regval)

	regval &^= 0x3 << 2
	regval |= (sel & 0x3) << 2
	d.be.Regs.WriteIndirect(dom, sc.muxIaddr, regval)
	d.be.Regs.Barrier()
	d.be.Sleep.Udelay(muxSettleUs)

	regval &^= uint32(secClkAGD)
	d.be.Regs.WriteIndirect(dom, sc.muxIaddr, regval)
}

// hfpllEnable brings up an already-configured HFPLL: raise its supply
// rails, take it out of bypass, de-assert reset after the mandatory settle
// delay, wait for lock, then enable the output. The delays are hardware
// requirements between dependent mode-register writes.
func (d *Driver) hfpllEnable(dom int) {
	sc := &d.scalables[dom]

	if err := d.be.Rails.SetVoltage(sc.vreg[vregHFPLLA].name, sc.vreg[vregHFPLLA].voter,
		hfpllVddA, sc.vreg[vregHFPLLA].maxVdd); err != nil {
		logrus.Errorf("%s regulator enable failed: %v", sc.vreg[vregHFPLLA].name, err)
	}
	if err := d.be.Rails.SetVoltage(sc.vreg[vregHFPLLB].name, sc.vreg[vregHFPLLB].voter,
		hfpllVddB, sc.vreg[vregHFPLLB].maxVdd); err != nil {
		logrus.Errorf("%s regulator enable failed: %v", sc.vreg[vregHFPLLB].name, err)
	}

	// Disable PLL bypass mode.
	d.be.Regs.Write(sc.hfpllBase, hfpllMode, 0x2)
	d.be.Regs.Barrier()
	d.be.Sleep.Udelay(pllBypassUs)

	// De-assert active-low PLL reset.
	d.be.Regs.Write(sc.hfpllBase, hfpllMode, 0x6)

	// Wait for the PLL to lock.
	d.be.Regs.Barrier()
	d.be.Sleep.Udelay(pllLockUs)

	// Enable PLL output.
	d.be.Regs.Write(sc.hfpllBase, hfpllMode, 0x7)
}

// hfpllDisable shuts a HFPLL down for power savings or reprogramming:
// output off, bypass on, reset asserted, then its supply rails dropped.
func (d *Driver) hfpllDisable(dom int) {
	sc := &d.scalables[dom]

	d.be.Regs.Write(sc.hfpllBase, hfpllMode, 0)

	if err := d.be.Rails.SetVoltage(sc.vreg[vregHFPLLB].name, sc.vreg[vregHFPLLB].voter,
		0, 0); err != nil {
		logrus.Errorf("%s regulator disable failed: %v", sc.vreg[vregHFPLLB].name, err)
	}
	if err := d.be.Rails.SetVoltage(sc.vreg[vregHFPLLA].name, sc.vreg[vregHFPLLA].voter,
		0, 0); err != nil {
		logrus.Errorf("%s regulator disable failed: %v", sc.vreg[vregHFPLLA].name, err)
	}
}

// hfpllSetRate programs the HFPLL frequency-control value. The PLL must
// already be disabled.
func (d *Driver) hfpllSetRate(dom int, tgt *CoreSpeed) {
	d.be.Regs.Write(d.scalables[dom].hfpllBase, hfpllLVal, tgt.PllLVal)
}

// hfpllInit configures a HFPLL for integer mode at a given rate and
// enables it.
func (d *Driver) hfpllInit(dom int, tgt *CoreSpeed) {
	logrus.Debugf("Initializing HFPLL%d", dom)
	sc := &d.scalables[dom]

	// Disable the PLL for re-programming.
	d.hfpllDisable(dom)

	// Configure PLL parameters for integer mode.
	d.be.Regs.Write(sc.hfpllBase, hfpllConfigCtl, 0x7845C665)
	d.be.Regs.Write(sc.hfpllBase, hfpllMVal, 0)
	d.be.Regs.Write(sc.hfpllBase, hfpllNVal, 1)

	// Program the droop controller.
	d.be.Regs.Write(sc.hfpllBase, hfpllDroopCtl, 0x0108C000)

	// Set an initial rate and enable the PLL.
	d.hfpllSetRate(dom, tgt)
	d.hfpllEnable(dom)
}

// setSpeed moves a domain from its current clock source to the one the
// target speed requires. Which mux writes are legal depends on the reason:
// on hotplug paths the affected core is not executing, so its mux registers
// must not be written from here — except for the L2 domain, whose registers
// are always reachable.
func (d *Driver) setSpeed(dom int, tgt *CoreSpeed, reason SetRateReason) {
	sc := &d.scalables[dom]
	strt := sc.currentSpeed

	if tgt == strt {
		return
	}

	switch {
	case strt.Src == SrcHFPLL && tgt.Src == SrcHFPLL:
		// The HFPLL cannot be reprogrammed while selected. Move to an
		// always-on source that needs no elevated voltage, reprogram,
		// then switch back.
		d.setSecClkSrc(dom, secSrcSelAux)
		d.setPriClkSrc(dom, priSrcSelSecSrc)

		d.hfpllDisable(dom)
		d.hfpllSetRate(dom, tgt)
		d.hfpllEnable(dom)

		d.setPriClkSrc(dom, tgt.PriSrcSel)

	case strt.Src == SrcHFPLL && tgt.Src != SrcHFPLL:
		// When responding to a dead core we are running elsewhere and
		// cannot reach its mux registers. The core is already halted,
		// so just stopping its PLL is safe; the mux is left as-is.
		if reason != ReasonHotplug || dom == d.l2 {
			d.setSecClkSrc(dom, tgt.SecSrcSel)
			d.setPriClkSrc(dom, tgt.PriSrcSel)
		}
		d.hfpllDisable(dom)

	case strt.Src != SrcHFPLL && tgt.Src == SrcHFPLL:
		d.hfpllSetRate(dom, tgt)
		d.hfpllEnable(dom)
		// For a core that is preparing to come up we likewise cannot
		// touch its mux registers; the mux was not moved on the way
		// down either, so it already points where it should.
		if reason != ReasonHotplug || dom == d.l2 {
			d.setPriClkSrc(dom, tgt.PriSrcSel)
		}

	default:
		if reason != ReasonHotplug || dom == d.l2 {
			d.setSecClkSrc(dom, tgt.SecSrcSel)
		}
	}

	sc.currentSpeed = tgt
}

// initClockSources routes a domain onto its initial speed at startup: park
// on the auxiliary always-on source, initialize the HFPLL, clear the div-2
// configuration, then switch to the target source.
func (d *Driver) initClockSources(dom int, tgt *CoreSpeed) {
	sc := &d.scalables[dom]

	// Select PLL8 as the AUX input to the secondary mux.
	d.be.Regs.Write(sc.auxClkSel, 0, 0x3)

	// Switch away from the HFPLL while it is re-initialized.
	d.setSecClkSrc(dom, secSrcSelAux)
	d.setPriClkSrc(dom, priSrcSelSecSrc)
	d.hfpllInit(dom, tgt)

	// Set the HFPLL-div2 primary input divider to div-2.
	regval := d.be.Regs.ReadIndirect(dom, sc.muxIaddr)
	regval &^= 0x3 << 6
	d.be.Regs.WriteIndirect(dom, sc.muxIaddr, regval)

	// Switch to the target clock source.
	d.setSecClkSrc(dom, tgt.SecSrcSel)
	d.setPriClkSrc(dom, tgt.PriSrcSel)
	sc.currentSpeed = tgt

	// Let the first SetRate call drop voltages and set the initial bus
	// bandwidth request even if the rate is unchanged.
	sc.firstSetCall = true
}
