package acpuclk

import (
	"fmt"
	"strings"
	"sync"
	"testing"
)

// testHW is a fake hardware set that records every backend interaction in
// one ordered log, so tests can assert cross-backend ordering (rails vs.
// mux writes vs. bus requests) from a single trace.
type testHW struct {
	mu  sync.Mutex
	log []string

	indirect map[[2]uint32]uint32 // [bank, addr] -> value
	direct   map[[2]uint64]uint32 // [base, off] -> value
	delays   []int

	railCur  map[string]int // "name/voter" -> uV
	failRail string         // rail name whose next set fails

	coreCur  []int
	failCore bool // next core-rail set fails

	busLevels []int
	failBus   bool

	pte uint32
}

func newTestHW(ncpus int) *testHW {
	return &testHW{
		indirect: make(map[[2]uint32]uint32),
		direct:   make(map[[2]uint64]uint32),
		railCur:  make(map[string]int),
		coreCur:  make([]int, ncpus),
	}
}

func (hw *testHW) logf(format string, args ...any) {
	hw.log = append(hw.log, fmt.Sprintf(format, args...))
}

// reset clears the recorded log (not the state), so a test can scope its
// assertions to the calls after setup.
func (hw *testHW) reset() {
	hw.mu.Lock()
	defer hw.mu.Unlock()
	hw.log = nil
	hw.delays = nil
}

// calls returns the log entries with one of the given prefixes, in order.
// No prefixes means the whole log.
func (hw *testHW) calls(prefixes ...string) []string {
	hw.mu.Lock()
	defer hw.mu.Unlock()

	if len(prefixes) == 0 {
		return append([]string(nil), hw.log...)
	}
	var out []string
	for _, entry := range hw.log {
		for _, p := range prefixes {
			if strings.HasPrefix(entry, p) {
				out = append(out, entry)
				break
			}
		}
	}
	return out
}

func (hw *testHW) backends() Backends {
	return Backends{
		Regs:     &testRegs{hw},
		Sleep:    &testSleep{hw},
		Rails:    &testRails{hw},
		CoreRail: &testCoreRail{hw},
		Bus:      &testBus{hw},
		Efuse:    &testEfuse{hw},
	}
}

type testRegs struct{ hw *testHW }

func (r *testRegs) ReadIndirect(bank int, addr uint32) uint32 {
	r.hw.mu.Lock()
	defer r.hw.mu.Unlock()
	return r.hw.indirect[[2]uint32{uint32(bank), addr}]
}

func (r *testRegs) WriteIndirect(bank int, addr uint32, val uint32) {
	r.hw.mu.Lock()
	defer r.hw.mu.Unlock()
	r.hw.indirect[[2]uint32{uint32(bank), addr}] = val
	r.hw.logf("mux:%d:%03x=%x", bank, addr, val)
}

func (r *testRegs) Read(base uintptr, off uint32) uint32 {
	r.hw.mu.Lock()
	defer r.hw.mu.Unlock()
	return r.hw.direct[[2]uint64{uint64(base), uint64(off)}]
}

func (r *testRegs) Write(base uintptr, off uint32, val uint32) {
	r.hw.mu.Lock()
	defer r.hw.mu.Unlock()
	r.hw.direct[[2]uint64{uint64(base), uint64(off)}] = val
	r.hw.logf("pll:%x:%02x=%x", base, off, val)
}

func (r *testRegs) Barrier() {}

type testSleep struct{ hw *testHW }

func (s *testSleep) Udelay(us int) {
	s.hw.mu.Lock()
	defer s.hw.mu.Unlock()
	s.hw.delays = append(s.hw.delays, us)
}

type testRails struct{ hw *testHW }

func (r *testRails) SetVoltage(rail string, voter int, uv, maxUV int) error {
	r.hw.mu.Lock()
	defer r.hw.mu.Unlock()

	if r.hw.failRail == rail {
		r.hw.failRail = ""
		return fmt.Errorf("rail %s: injected failure", rail)
	}
	r.hw.railCur[fmt.Sprintf("%s/%d", rail, voter)] = uv
	r.hw.logf("rail:%s:%d=%d", rail, voter, uv)
	return nil
}

type testCoreRail struct{ hw *testHW }

func (c *testCoreRail) SetVoltage(cpu int, uv, maxUV int) error {
	c.hw.mu.Lock()
	defer c.hw.mu.Unlock()

	if c.hw.failCore {
		c.hw.failCore = false
		return fmt.Errorf("core rail cpu%d: injected failure", cpu)
	}
	c.hw.coreCur[cpu] = uv
	c.hw.logf("core:%d=%d", cpu, uv)
	return nil
}

func (c *testCoreRail) Enable(cpu int) error { return nil }

type testBus struct{ hw *testHW }

func (b *testBus) UpdateRequest(level int) error {
	b.hw.mu.Lock()
	defer b.hw.mu.Unlock()

	if b.hw.failBus {
		b.hw.failBus = false
		return fmt.Errorf("bus: injected failure")
	}
	b.hw.busLevels = append(b.hw.busLevels, level)
	b.hw.logf("bus:%d", level)
	return nil
}

func (b *testBus) busLevel() int {
	b.hw.mu.Lock()
	defer b.hw.mu.Unlock()
	if len(b.hw.busLevels) == 0 {
		return -1
	}
	return b.hw.busLevels[len(b.hw.busLevels)-1]
}

type testEfuse struct{ hw *testHW }

func (e *testEfuse) ReadPTE() uint32 { return e.hw.pte }

// testTableBundle is the three-point calibration table used across the
// driver tests: 200 MHz at 900 mV, 400 MHz at 1000 mV, 800 MHz at 1100 mV,
// plus the standby point every table carries.
func testTableBundle() *TableBundle {
	return &TableBundle{
		L2Levels: []L2LevelSpec{
			{KHz: 1, Src: "qsb", VddDig: 900000, VddMem: 900000, BWLevel: 0},
			{KHz: 200000, Src: "hfpll", PriSrcSel: 1, PllLVal: 0x0A, VddDig: 950000, VddMem: 950000, BWLevel: 1},
			{KHz: 400000, Src: "hfpll", PriSrcSel: 1, PllLVal: 0x14, VddDig: 1000000, VddMem: 1000000, BWLevel: 2},
			{KHz: 800000, Src: "hfpll", PriSrcSel: 1, PllLVal: 0x28, VddDig: 1050000, VddMem: 1050000, BWLevel: 3},
		},
		ACPULevels: []ACPULevelSpec{
			{KHz: 1, Src: "qsb", L2Level: 0, VddCore: 850000},
			{UseForScaling: true, KHz: 200000, Src: "hfpll", PriSrcSel: 1, PllLVal: 0x0A, L2Level: 1, VddCore: 900000},
			{UseForScaling: true, KHz: 400000, Src: "hfpll", PriSrcSel: 1, PllLVal: 0x14, L2Level: 2, VddCore: 1000000},
			{UseForScaling: true, KHz: 800000, Src: "hfpll", PriSrcSel: 1, PllLVal: 0x1C, L2Level: 3, VddCore: 1100000},
		},
		BWMbps: []int{640, 1064, 1600, 2128},
	}
}

// newTestDriver builds a driver over the fake hardware with the three-point
// test table. Every core comes up at 800 MHz with firstSetCall pending.
func newTestDriver(t *testing.T, ncpus int) (*Driver, *testHW) {
	t.Helper()

	hw := newTestHW(ncpus)
	d, err := New(ncpus, hw.backends(), Config{Tables: testTableBundle()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return d, hw
}

// settle drives a core to a known rate with a normal transition and clears
// the recorded log, so the following assertions see only the calls of the
// operation under test.
func settle(t *testing.T, d *Driver, hw *testHW, cpu, khz int) {
	t.Helper()

	if err := d.SetRate(cpu, khz, ReasonCPUFreq); err != nil {
		t.Fatalf("settle cpu%d at %d KHz: %v", cpu, khz, err)
	}
	hw.reset()
}

// assertMemDigOrder walks the rail log for one voter and fails if the
// digital rail is ever observed above the memory rail.
func assertMemDigOrder(t *testing.T, hw *testHW, voter int) {
	t.Helper()

	mem, dig := 0, 0
	for _, entry := range hw.calls("rail:") {
		parts := strings.Split(entry, ":")
		if len(parts) != 3 {
			continue
		}
		rail := parts[1]
		var v, uv int
		if _, err := fmt.Sscanf(parts[2], "%d=%d", &v, &uv); err != nil || v != voter {
			continue
		}
		switch rail {
		case "krait0_mem":
			mem = uv
		case "krait0_dig":
			dig = uv
		}
		if mem != 0 && dig != 0 && dig > mem {
			t.Fatalf("vdd_dig %d observed above vdd_mem %d after %q", dig, mem, entry)
		}
	}
}
