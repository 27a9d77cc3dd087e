package acpuclk

// RegIO is the register access surface the driver programs clocks through.
// Indirect accesses target the per-domain clock-mux register file (banked by
// domain); direct accesses target memory-mapped HFPLL and auxiliary-select
// registers. Barrier orders a register write against the settle delay that
// follows it.
type RegIO interface {
	ReadIndirect(bank int, addr uint32) uint32
	WriteIndirect(bank int, addr uint32, val uint32)
	Read(base uintptr, off uint32) uint32
	Write(base uintptr, off uint32, val uint32)
	Barrier()
}

// Sleeper provides the fixed microsecond settle delays the clock hardware
// requires between dependent programming steps.
type Sleeper interface {
	Udelay(us int)
}

// RailBackend sets a shared voltage rail on behalf of one voter. Calls may
// sleep. The previous vote for (rail, voter) stays in effect on error.
type RailBackend interface {
	SetVoltage(rail string, voter int, uv, maxUV int) error
}

// CoreRailBackend sets a core's dedicated supply. The real backend must be
// invoked from the affected core's own execution context, which is why the
// rail sequencer skips it on hotplug paths.
type CoreRailBackend interface {
	SetVoltage(cpu int, uv, maxUV int) error
	Enable(cpu int) error
}

// BusBackend applies a memory-bus bandwidth request by table index.
type BusBackend interface {
	UpdateRequest(level int) error
}

// EfuseReader reads the fused process-variation word used to select a
// frequency plan.
type EfuseReader interface {
	ReadPTE() uint32
}

// Footprint records debug breadcrumbs at each stage of a transition. All
// methods must be cheap; a nil Footprint disables recording.
type Footprint interface {
	SetState(cpu int, state uint32)
	SetCPUFreq(cpu int, khz int)
	SetL2Freq(khz int)
}

// Backends bundles every external service the driver consumes.
type Backends struct {
	Regs      RegIO
	Sleep     Sleeper
	Rails     RailBackend
	CoreRail  CoreRailBackend
	Bus       BusBackend
	Efuse     EfuseReader
	Footprint Footprint // optional
}

// Register layout. The HFPLL register files sit at fixed offsets from a
// shared base, one per domain; the auxiliary-source selects live in each
// domain's clock controller block.
const (
	hfpllBasePhys uintptr = 0x00903000
	acc0Base      uintptr = 0x02088000
	accStride     uintptr = 0x00010000
	apcsGCCBase   uintptr = 0x02011000

	auxClkSelOff = 0x014
	l2AuxSelOff  = 0x028
)

// HFPLL register offsets.
const (
	hfpllMode      = 0x00
	hfpllConfigCtl = 0x04
	hfpllLVal      = 0x08
	hfpllMVal      = 0x0C
	hfpllNVal      = 0x10
	hfpllDroopCtl  = 0x14
)

// Indirect addresses of the clock-mux registers. The per-core register is
// banked by core; the L2 register is shared.
const (
	l2cpmrIaddr    = 0x500
	l2cpuCpmrIaddr = 0x501
)

// secClkAGD disables secondary-source clock gating while the secondary mux
// is switched.
const secClkAGD = 1 << 4

// Hardware settle delays in microseconds. These encode fixed hardware
// timing requirements, not tunable values.
const (
	muxSettleUs = 1
	pllBypassUs = 10 // required 5us between bypass-off and reset de-assert
	pllLockUs   = 60
	preSwitchUs = 60 // settle after the voltage raise, before set_speed
)
