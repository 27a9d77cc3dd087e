package emu

import (
	"fmt"
	"sync"
)

// RailSet is one recorded rail-backend call.
type RailSet struct {
	Rail  string
	Voter int
	UV    int
}

type railKey struct {
	rail  string
	voter int
}

// RailBank implements acpuclk.RailBackend, recording every call and the
// current voltage of each (rail, voter) pair. FailNext, when set, makes the
// next call fail without applying, mimicking a backend rejection.
type RailBank struct {
	mu       sync.Mutex
	cur      map[railKey]int
	History  []RailSet
	FailNext bool
}

func NewRailBank() *RailBank {
	return &RailBank{cur: make(map[railKey]int)}
}

func (b *RailBank) SetVoltage(rail string, voter int, uv, maxUV int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.FailNext {
		b.FailNext = false
		return fmt.Errorf("rail %s voter %d: backend rejected request", rail, voter)
	}
	if maxUV != 0 && uv > maxUV {
		return fmt.Errorf("rail %s voter %d: %duV above limit %duV", rail, voter, uv, maxUV)
	}

	b.cur[railKey{rail, voter}] = uv
	b.History = append(b.History, RailSet{Rail: rail, Voter: voter, UV: uv})
	return nil
}

// Voltage returns the current voltage of a (rail, voter) pair.
func (b *RailBank) Voltage(rail string, voter int) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cur[railKey{rail, voter}]
}

// CoreRail implements acpuclk.CoreRailBackend for a fixed number of cores.
type CoreRail struct {
	mu      sync.Mutex
	cur     []int
	enabled []bool
}

func NewCoreRail(ncpus int) *CoreRail {
	return &CoreRail{cur: make([]int, ncpus), enabled: make([]bool, ncpus)}
}

func (c *CoreRail) SetVoltage(cpu int, uv, maxUV int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cpu < 0 || cpu >= len(c.cur) {
		return fmt.Errorf("core rail: no cpu %d", cpu)
	}
	if maxUV != 0 && uv > maxUV {
		return fmt.Errorf("core rail cpu%d: %duV above limit %duV", cpu, uv, maxUV)
	}
	c.cur[cpu] = uv
	return nil
}

func (c *CoreRail) Enable(cpu int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cpu < 0 || cpu >= len(c.enabled) {
		return fmt.Errorf("core rail: no cpu %d", cpu)
	}
	c.enabled[cpu] = true
	return nil
}

// Voltage returns a core rail's current voltage.
func (c *CoreRail) Voltage(cpu int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cur[cpu]
}
