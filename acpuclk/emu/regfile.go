// Package emu provides emulated hardware backends for the acpuclk driver:
// a map-backed register file, recording voltage rails, a bus client, and a
// programmable efuse. The CLI harness runs the full transition engine
// against these; unit tests in acpuclk carry their own smaller fakes.
package emu

import "sync"

type directKey struct {
	base uintptr
	off  uint32
}

type indirectKey struct {
	bank int
	addr uint32
}

// RegFile is a map-backed implementation of acpuclk.RegIO. Reads of
// never-written registers return zero, matching reset state.
type RegFile struct {
	mu       sync.Mutex
	direct   map[directKey]uint32
	indirect map[indirectKey]uint32
	writes   int
}

func NewRegFile() *RegFile {
	return &RegFile{
		direct:   make(map[directKey]uint32),
		indirect: make(map[indirectKey]uint32),
	}
}

func (r *RegFile) ReadIndirect(bank int, addr uint32) uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.indirect[indirectKey{bank, addr}]
}

func (r *RegFile) WriteIndirect(bank int, addr uint32, val uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.indirect[indirectKey{bank, addr}] = val
	r.writes++
}

func (r *RegFile) Read(base uintptr, off uint32) uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.direct[directKey{base, off}]
}

func (r *RegFile) Write(base uintptr, off uint32, val uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.direct[directKey{base, off}] = val
	r.writes++
}

func (r *RegFile) Barrier() {}

// Writes returns the total number of register writes observed.
func (r *RegFile) Writes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writes
}

// Sleeper accumulates requested settle time instead of sleeping, so a full
// harness run is instantaneous while the delay accounting stays observable.
type Sleeper struct {
	mu      sync.Mutex
	totalUs int64
}

func NewSleeper() *Sleeper { return &Sleeper{} }

func (s *Sleeper) Udelay(us int) {
	s.mu.Lock()
	s.totalUs += int64(us)
	s.mu.Unlock()
}

// TotalUs returns the accumulated settle time in microseconds.
func (s *Sleeper) TotalUs() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalUs
}

// Efuse returns a fixed PTE word.
type Efuse struct {
	PTE uint32
}

func (e *Efuse) ReadPTE() uint32 { return e.PTE }

// Footprint stores debug breadcrumbs in memory.
type Footprint struct {
	mu     sync.Mutex
	state  map[int]uint32
	cpuKHz map[int]int
	l2KHz  int
}

func NewFootprint() *Footprint {
	return &Footprint{state: make(map[int]uint32), cpuKHz: make(map[int]int)}
}

const footprintMagic = 0xACBDFE00

func (f *Footprint) SetState(cpu int, state uint32) {
	f.mu.Lock()
	f.state[cpu] = footprintMagic | state
	f.mu.Unlock()
}

func (f *Footprint) SetCPUFreq(cpu int, khz int) {
	f.mu.Lock()
	f.cpuKHz[cpu] = khz
	f.mu.Unlock()
}

func (f *Footprint) SetL2Freq(khz int) {
	f.mu.Lock()
	f.l2KHz = khz
	f.mu.Unlock()
}

// State returns the last state code recorded for a cpu (magic included).
func (f *Footprint) State(cpu int) uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state[cpu]
}
