package acpuclk

import (
	"fmt"
	"sync"
)

// Metrics aggregates transition statistics for diagnostics. Advisory only;
// nothing in the transition path depends on it. Guarded by its own mutex
// because lock-free idle-path transitions record here too.
type Metrics struct {
	mu sync.Mutex

	Transitions map[SetRateReason]int // completed SetRate calls per reason
	Errors      int                   // SetRate calls that returned an error
	Hotplug     map[HotplugEvent]int  // lifecycle events seen
}

func NewMetrics() *Metrics {
	return &Metrics{
		Transitions: make(map[SetRateReason]int),
		Hotplug:     make(map[HotplugEvent]int),
	}
}

func (m *Metrics) recordTransition(reason SetRateReason, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Transitions[reason]++
	if err != nil {
		m.Errors++
	}
}

func (m *Metrics) recordHotplug(ev HotplugEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Hotplug[ev]++
}

// Print displays aggregated statistics.
func (m *Metrics) Print() {
	m.mu.Lock()
	defer m.mu.Unlock()

	fmt.Println("=== Transition Metrics ===")
	total := 0
	for _, n := range m.Transitions {
		total += n
	}
	fmt.Printf("Transitions          : %d\n", total)
	for _, r := range []SetRateReason{ReasonCPUFreq, ReasonPC, ReasonSWFI, ReasonHotplug} {
		if n := m.Transitions[r]; n > 0 {
			fmt.Printf("  %-18s : %d\n", r, n)
		}
	}
	fmt.Printf("Errors               : %d\n", m.Errors)
	for _, e := range []HotplugEvent{CPUDying, CPUDead, CPUUpCanceled, CPUUpPrepare, CPUStarting} {
		if n := m.Hotplug[e]; n > 0 {
			fmt.Printf("Hotplug %-12s : %d\n", e, n)
		}
	}
}
