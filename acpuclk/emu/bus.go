package emu

import "sync"

// BusClient implements acpuclk.BusBackend, recording the level history.
type BusClient struct {
	mu      sync.Mutex
	level   int
	History []int
}

func NewBusClient() *BusClient { return &BusClient{level: -1} }

func (b *BusClient) UpdateRequest(level int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.level = level
	b.History = append(b.History, level)
	return nil
}

// Level returns the bandwidth level currently in effect.
func (b *BusClient) Level() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.level
}
