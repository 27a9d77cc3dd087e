// Package acpuclk provides the frequency/voltage transition engine for a
// multi-core SoC sharing a single L2 clock domain and a memory bus.
//
// # Reading Guide
//
// Start with these three files to understand the transition engine:
//   - speed.go: CoreSpeed, L2Level, AcpuLevel table types and clock sources
//   - hfpll.go: the clock-source switching state machine and PLL sequencing
//   - driver.go: the SetRate entry point that orders voltage, clock, L2
//     arbitration, and bus bandwidth changes
//
// # Architecture
//
// The package defines the hardware-facing interfaces (RegIO, RailBackend,
// CoreRailBackend, BusBackend, EfuseReader, Sleeper); implementations live in
// sub-packages:
//   - emu/: emulated hardware used by the CLI harness
//
// Unit tests supply their own fakes (test_helpers_test.go).
//
// # Key pieces
//
//   - vreg.go: rail sequencing — memory before cache before core on the way
//     up, the reverse on the way down, with per-rail cached voltages
//   - l2.go: the shared-domain arbitrator combining per-core L2 votes
//   - bus.go: bus bandwidth requests derived from the applied L2 level
//   - hotplug.go: core lifecycle handling with mux save/restore
//   - plan.go: one-time frequency-plan selection from the PVS efuse
//   - bundle.go: optional YAML calibration-table overrides
package acpuclk
