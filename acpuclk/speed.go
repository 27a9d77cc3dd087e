package acpuclk

// ClockSource identifies which clock source supplies a domain.
type ClockSource int

const (
	// SrcQSB is the always-on low-frequency standby source.
	SrcQSB ClockSource = iota
	// SrcPLL8 is the always-on auxiliary source routed through the
	// secondary mux.
	SrcPLL8
	// SrcHFPLL is the reprogrammable high-frequency PLL. It cannot be
	// reprogrammed while actively selected by the primary mux.
	SrcHFPLL
)

func (s ClockSource) String() string {
	switch s {
	case SrcQSB:
		return "qsb"
	case SrcPLL8:
		return "pll8"
	case SrcHFPLL:
		return "hfpll"
	}
	return "unknown"
}

// Primary mux source selects.
const (
	priSrcSelSecSrc    = 0
	priSrcSelHFPLL     = 1
	priSrcSelHFPLLDiv2 = 2
)

// Secondary mux source selects.
const (
	secSrcSelQSB = 0
	secSrcSelAux = 2
)

// StbyKHz is the standby frequency every table carries as its first entry.
// Hot-unplugged cores are parked here.
const StbyKHz = 1

// CoreSpeed is a named point on a domain's clock tree: a frequency, the
// source that supplies it, and the mux-select codes that route it.
// Table entries are immutable; identity comparison is used to detect
// "already at this speed".
type CoreSpeed struct {
	KHz       int
	Src       ClockSource
	PriSrcSel uint32
	SecSrcSel uint32
	PllLVal   uint32
}

// L2Level pairs an L2 CoreSpeed with the voltages it requires and the bus
// bandwidth level associated with it. Immutable table entry.
type L2Level struct {
	Speed   CoreSpeed
	VddDig  int
	VddMem  int
	BWLevel int
}

// AcpuLevel is one operating point: a per-core speed, the index of the
// L2Level it requires, the core-rail voltage it requires, and whether the
// scaling-policy layer may select it. Tables are ordered by frequency and
// terminated by a sentinel entry with Speed.KHz == 0.
type AcpuLevel struct {
	UseForScaling bool
	Speed         CoreSpeed
	L2            int
	VddCore       int
}

// BWLevel is one entry of the bus bandwidth table, in MB/s of instantaneous
// bandwidth requested from the memory bus.
type BWLevel struct {
	MBps int
}
