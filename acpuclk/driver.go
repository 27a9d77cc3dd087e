package acpuclk

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// SetRateReason distinguishes who is asking for a transition. It decides
// which side effects are legal: whether the broad driver lock is taken,
// whether voltages may be touched, and whether the target core's own mux
// registers may be written.
type SetRateReason int

const (
	// ReasonCPUFreq is a normal policy-driven scaling request.
	ReasonCPUFreq SetRateReason = iota
	// ReasonPC is a power-collapse request from the idle path.
	ReasonPC
	// ReasonSWFI is a wait-for-interrupt request from the idle path.
	ReasonSWFI
	// ReasonHotplug is a transition driven by a core lifecycle event.
	ReasonHotplug
)

func (r SetRateReason) String() string {
	switch r {
	case ReasonCPUFreq:
		return "cpufreq"
	case ReasonPC:
		return "power-collapse"
	case ReasonSWFI:
		return "swfi"
	case ReasonHotplug:
		return "hotplug"
	}
	return "unknown"
}

// Sentinel errors callers can test for.
var (
	// ErrBadCPU reports a core index outside the configured range.
	ErrBadCPU = errors.New("cpu index out of range")
	// ErrUnknownRate reports a target frequency absent from the table.
	ErrUnknownRate = errors.New("rate not in frequency table")
	// ErrNoPrevRate reports a core preparing to start with no recorded
	// prior frequency.
	ErrNoPrevRate = errors.New("no previous rate recorded for cpu")
)

// Footprint state codes written at each stage of SetRate.
const (
	fpEnter      = 0x1
	fpLocked     = 0x2
	fpVddRaised  = 0x3
	fpCPUSet     = 0x4
	fpL2Set      = 0x5
	fpBusSet     = 0x6
	fpVddDropped = 0x7
	fpExit       = 0x8
)

// scalable is the mutable state of one clock domain: one per core, plus one
// for the shared L2. Created at init and never reallocated. currentSpeed is
// written only while holding the domain's exclusive right to reprogram its
// clock registers; l2Vote only under the L2 lock.
type scalable struct {
	hfpllBase    uintptr
	auxClkSel    uintptr
	muxIaddr     uint32
	currentSpeed *CoreSpeed
	l2Vote       int
	vreg         [numVregs]vreg
	firstSetCall bool
}

// Driver is the transition engine. One instance owns every domain's state,
// the calibration tables chosen at init, and the two locks of the
// concurrency model: driverLock serializes full transitions for the reasons
// that may sleep, l2Lock protects only the L2 vote and the shared-domain
// speed change and is safe to take from lock-free idle-path contexts.
type Driver struct {
	be Backends

	// scalables[0..ncpus-1] are cores; scalables[l2] is the shared domain.
	scalables []scalable
	l2        int

	acpuTbl []AcpuLevel
	l2Tbl   []L2Level
	bwTbl   []BWLevel

	driverLock sync.Mutex
	l2Lock     sync.Mutex

	maxVdd int

	// Hotplug bookkeeping, indexed by cpu.
	prevKHz    []int
	prevPriSrc []uint32
	prevSecSrc []uint32

	Metrics *Metrics
}

// New selects a frequency plan, brings every clock domain up at the plan's
// maximum operating point, enables the core rails, and registers the
// initial bus bandwidth request.
func New(ncpus int, be Backends, cfg Config) (*Driver, error) {
	if ncpus < 1 {
		return nil, fmt.Errorf("need at least one cpu, got %d", ncpus)
	}
	if be.Regs == nil || be.Sleep == nil || be.Rails == nil || be.CoreRail == nil || be.Bus == nil {
		return nil, errors.New("incomplete backend set")
	}

	d := &Driver{
		be:         be,
		scalables:  make([]scalable, ncpus+1),
		l2:         ncpus,
		prevKHz:    make([]int, ncpus),
		prevPriSrc: make([]uint32, ncpus),
		prevSecSrc: make([]uint32, ncpus),
		Metrics:    NewMetrics(),
	}

	for cpu := 0; cpu < ncpus; cpu++ {
		d.scalables[cpu] = scalable{
			hfpllBase: hfpllBasePhys + 0x200 + uintptr(cpu)*0x100,
			auxClkSel: acc0Base + uintptr(cpu)*accStride + auxClkSelOff,
			muxIaddr:  l2cpuCpmrIaddr,
			vreg: [numVregs]vreg{
				vregCore:   {name: fmt.Sprintf("krait%d", cpu), maxVdd: MaxVddSC},
				vregMem:    {name: "krait0_mem", maxVdd: 1150000, voter: cpu + 1},
				vregDig:    {name: "krait0_dig", maxVdd: 1150000, voter: cpu + 1},
				vregHFPLLA: {name: "hfpll_a", maxVdd: 2100000, voter: cpu + 1},
				vregHFPLLB: {name: "hfpll_b", maxVdd: 1800000, voter: cpu + 1},
			},
		}
	}
	d.scalables[d.l2] = scalable{
		hfpllBase: hfpllBasePhys + 0x200 + uintptr(ncpus)*0x100,
		auxClkSel: apcsGCCBase + l2AuxSelOff,
		muxIaddr:  l2cpmrIaddr,
		vreg: [numVregs]vreg{
			vregHFPLLA: {name: "hfpll_a", maxVdd: 2100000, voter: ncpus + 1},
			vregHFPLLB: {name: "hfpll_b", maxVdd: 1800000, voter: ncpus + 1},
		},
	}

	maxLevel, err := d.selectFreqPlan(cfg)
	if err != nil {
		return nil, err
	}

	d.initClockSources(d.l2, &d.l2Tbl[maxLevel.L2].Speed)
	for cpu := 0; cpu < ncpus; cpu++ {
		d.initClockSources(cpu, &maxLevel.Speed)
		d.scalables[cpu].l2Vote = maxLevel.L2
	}

	if err := d.regulatorInit(); err != nil {
		return nil, err
	}
	d.busInit()

	return d, nil
}

// regulatorInit enables each core's supply at the plan's maximum voltage so
// the bring-up operating point is safe before the first transition.
func (d *Driver) regulatorInit() error {
	for cpu := 0; cpu < d.l2; cpu++ {
		sc := &d.scalables[cpu]
		if err := d.be.CoreRail.SetVoltage(cpu, d.maxVdd, d.maxVdd); err != nil {
			return fmt.Errorf("core rail (cpu%d) init failed: %w", cpu, err)
		}
		if err := d.be.CoreRail.Enable(cpu); err != nil {
			return fmt.Errorf("core rail (cpu%d) enable failed: %w", cpu, err)
		}
		sc.vreg[vregCore].curVdd = d.maxVdd
	}
	return nil
}

// NumCPUs returns the number of core domains (the shared L2 excluded).
func (d *Driver) NumCPUs() int {
	return d.l2
}

// Rate returns a core's current frequency in KHz.
func (d *Driver) Rate(cpu int) int {
	return d.scalables[cpu].currentSpeed.KHz
}

// L2Rate returns the shared domain's current frequency in KHz.
func (d *Driver) L2Rate() int {
	return d.scalables[d.l2].currentSpeed.KHz
}

// SetRate moves a core to a target frequency, adjusting the shared L2
// domain, the bus bandwidth request, and every affected voltage rail in an
// order that never leaves a rail below what the frequency in effect
// requires. It is the single entry point policy layers use.
//
// The broad driver lock is held only for ReasonCPUFreq and ReasonHotplug.
// Power-collapse and SWFI requests run lock-free: they come from
// latency-critical idle contexts that must never block behind a sleeping
// voltage backend call, and they touch no voltage rails.
func (d *Driver) SetRate(cpu int, khz int, reason SetRateReason) error {
	d.footState(cpu, fpEnter)
	defer d.footState(cpu, fpExit)

	if cpu < 0 || cpu >= d.l2 {
		err := fmt.Errorf("%w: %d", ErrBadCPU, cpu)
		d.Metrics.recordTransition(reason, err)
		return err
	}

	if reason == ReasonCPUFreq || reason == ReasonHotplug {
		d.driverLock.Lock()
		defer d.driverLock.Unlock()
	}
	d.footState(cpu, fpLocked)

	err := d.setRate(cpu, khz, reason)
	d.Metrics.recordTransition(reason, err)
	return err
}

// setRate is the body of SetRate; locking and accounting live in the caller.
func (d *Driver) setRate(cpu int, khz int, reason SetRateReason) error {
	sc := &d.scalables[cpu]
	strt := sc.currentSpeed

	// Return early if the rate did not change.
	if khz == strt.KHz && !sc.firstSetCall {
		return nil
	}

	// Find the target operating point.
	tgt := d.findLevel(khz)
	if tgt == nil {
		return fmt.Errorf("%w: %d KHz", ErrUnknownRate, khz)
	}

	// Calculate voltage requirements for the target point.
	vddMem := d.calculateVddMem(tgt)
	vddDig := d.calculateVddDig(tgt)
	vddCore := d.calculateVddCore(tgt)

	// Raise VDD levels if needed. Never lower anything before the
	// frequency change: under-volting ahead of a raise risks instability.
	if reason == ReasonCPUFreq || reason == ReasonHotplug {
		if err := d.increaseVdd(cpu, vddCore, vddMem, vddDig, reason); err != nil {
			return err
		}
	}

	logrus.Debugf("Switching from ACPU%d rate %d KHz -> %d KHz", cpu, strt.KHz, tgt.Speed.KHz)
	d.be.Sleep.Udelay(preSwitchUs)
	d.footState(cpu, fpVddRaised)

	// Set the CPU speed.
	d.setSpeed(cpu, &tgt.Speed, reason)
	d.footCPUFreq(cpu, tgt.Speed.KHz)
	d.footState(cpu, fpCPUSet)

	// Update the L2 vote and apply the resulting shared-domain speed as
	// one atomic unit. The dedicated lock makes this safe even from the
	// lock-free idle paths, which never hold driverLock.
	d.l2Lock.Lock()
	tgtL2 := d.computeL2Level(cpu, tgt.L2)
	d.setSpeed(d.l2, &d.l2Tbl[tgtL2].Speed, reason)
	d.footL2Freq(d.l2Tbl[tgtL2].Speed.KHz)
	d.footState(cpu, fpL2Set)
	d.l2Lock.Unlock()

	// Nothing else to do for power collapse or SWFI: the core is about to
	// stop executing, so bandwidth and rail drops wait for the next full
	// transition.
	if reason == ReasonPC || reason == ReasonSWFI {
		return nil
	}

	// Update the bus bandwidth request.
	d.setBusBW(d.l2Tbl[tgtL2].BWLevel)
	d.footState(cpu, fpBusSet)

	// Drop VDD levels if we can.
	d.decreaseVdd(cpu, vddCore, vddMem, vddDig, reason)
	d.footState(cpu, fpVddDropped)

	sc.firstSetCall = false
	logrus.Debugf("ACPU%d speed change complete", cpu)
	return nil
}

// findLevel resolves a frequency by exact match in the active table.
func (d *Driver) findLevel(khz int) *AcpuLevel {
	for i := range d.acpuTbl {
		if d.acpuTbl[i].Speed.KHz == 0 {
			break
		}
		if d.acpuTbl[i].Speed.KHz == khz {
			return &d.acpuTbl[i]
		}
	}
	return nil
}

// VddLevel is one row of the voltage table report.
type VddLevel struct {
	KHz     int
	VddCore int
}

// VddLevels reports each table entry's frequency and core voltage for
// diagnostics. The standby sentinel row is skipped. Serialized behind the
// driver lock so the report is consistent with concurrent SetVdd calls.
func (d *Driver) VddLevels() []VddLevel {
	d.driverLock.Lock()
	defer d.driverLock.Unlock()

	var out []VddLevel
	for i := 1; i < len(d.acpuTbl) && d.acpuTbl[i].Speed.KHz != 0; i++ {
		out = append(out, VddLevel{KHz: d.acpuTbl[i].Speed.KHz, VddCore: d.acpuTbl[i].VddCore})
	}
	return out
}

// ScalingFrequencies returns the frequencies exposed to the scaling-policy
// layer, in table order.
func (d *Driver) ScalingFrequencies() []int {
	d.driverLock.Lock()
	defer d.driverLock.Unlock()

	var out []int
	for i := range d.acpuTbl {
		if d.acpuTbl[i].Speed.KHz == 0 {
			break
		}
		if d.acpuTbl[i].UseForScaling {
			out = append(out, d.acpuTbl[i].Speed.KHz)
		}
	}
	return out
}

// SetVdd adjusts table core voltages. With khz == 0 the value is a signed
// delta applied to every non-standby entry; otherwise it replaces the
// voltage of the matching entry. Results are clamped to
// [MinVddSC, MaxVddSC]. Takes effect on the next transition to the entry.
func (d *Driver) SetVdd(khz int, uv int) {
	d.driverLock.Lock()
	defer d.driverLock.Unlock()

	for i := 1; i < len(d.acpuTbl) && d.acpuTbl[i].Speed.KHz != 0; i++ {
		switch {
		case khz == 0:
			d.acpuTbl[i].VddCore = clampVdd(d.acpuTbl[i].VddCore + uv)
		case d.acpuTbl[i].Speed.KHz == khz:
			d.acpuTbl[i].VddCore = clampVdd(uv)
		}
	}
}

func clampVdd(uv int) int {
	return min(max(uv, MinVddSC), MaxVddSC)
}

// Nil-safe footprint helpers.

func (d *Driver) footState(cpu int, state uint32) {
	if d.be.Footprint != nil {
		d.be.Footprint.SetState(cpu, state)
	}
}

func (d *Driver) footCPUFreq(cpu, khz int) {
	if d.be.Footprint != nil {
		d.be.Footprint.SetCPUFreq(cpu, khz)
	}
}

func (d *Driver) footL2Freq(khz int) {
	if d.be.Footprint != nil {
		d.be.Footprint.SetL2Freq(khz)
	}
}
