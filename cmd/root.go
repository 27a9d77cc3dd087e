package cmd

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/zarboz/FusionUlt-AOSP/acpuclk"
	"github.com/zarboz/FusionUlt-AOSP/acpuclk/emu"
)

var (
	// CLI flags for the driver configuration
	logLevel    string // Log verbosity level
	cpus        int    // Number of core clock domains
	pvsOverride string // Force a PVS bin instead of decoding the efuse
	pteWord     uint32 // Efuse PTE word presented by the emulated fuse block
	maxFreqKHz  int    // Custom max scaling frequency (0 = table max)
	tablesPath  string // Optional YAML calibration bundle

	// CLI flags for the exercise harness
	seed        int64 // Seed for the random transition workload
	transitions int   // Transitions per core
	hotplug     bool  // Interleave a hotplug cycle on the last core
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "acpuclk",
	Short: "DVFS transition engine for the Fusion SoC, run against emulated hardware",
}

// newDriver builds the emulated hardware set and initializes the driver
// from the CLI flags.
func newDriver() (*acpuclk.Driver, *emu.RailBank, *emu.BusClient, error) {
	cfg := acpuclk.Config{
		PVSOverride: pvsOverride,
		MaxFreqKHz:  maxFreqKHz,
	}
	if tablesPath != "" {
		bundle, err := acpuclk.LoadTableBundle(tablesPath)
		if err != nil {
			return nil, nil, nil, err
		}
		cfg.Tables = bundle
	}

	rails := emu.NewRailBank()
	bus := emu.NewBusClient()
	be := acpuclk.Backends{
		Regs:      emu.NewRegFile(),
		Sleep:     emu.NewSleeper(),
		Rails:     rails,
		CoreRail:  emu.NewCoreRail(cpus),
		Bus:       bus,
		Efuse:     &emu.Efuse{PTE: pteWord},
		Footprint: emu.NewFootprint(),
	}

	d, err := acpuclk.New(cpus, be, cfg)
	return d, rails, bus, err
}

// runCmd exercises the transition engine with a concurrent random workload
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a concurrent transition workload against the emulated SoC",
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		d, _, bus, err := newDriver()
		if err != nil {
			return err
		}

		freqs := d.ScalingFrequencies()
		logrus.Infof("Starting workload: %d cpus, %d scaling frequencies, %d transitions/cpu",
			cpus, len(freqs), transitions)
		startTime := time.Now()

		// The last core is reserved for the hotplug cycle so scaling
		// requests never target a core that is offline.
		scalingCPUs := d.NumCPUs()
		runHotplug := hotplug && d.NumCPUs() > 1
		if runHotplug {
			scalingCPUs--
		}

		var g errgroup.Group
		for cpu := 0; cpu < scalingCPUs; cpu++ {
			cpu := cpu
			rng := rand.New(rand.NewSource(seed + int64(cpu)))
			g.Go(func() error {
				for i := 0; i < transitions; i++ {
					khz := freqs[rng.Intn(len(freqs))]
					if err := d.SetRate(cpu, khz, acpuclk.ReasonCPUFreq); err != nil {
						return fmt.Errorf("cpu%d: %w", cpu, err)
					}
					// Idle-path bounce through standby, lock-free.
					if i%8 == 7 {
						if err := d.SetRate(cpu, acpuclk.StbyKHz, acpuclk.ReasonPC); err != nil {
							return err
						}
						if err := d.SetRate(cpu, khz, acpuclk.ReasonSWFI); err != nil {
							return err
						}
					}
				}
				return nil
			})
		}
		if runHotplug {
			last := d.NumCPUs() - 1
			g.Go(func() error {
				for i := 0; i < transitions/4+1; i++ {
					for _, ev := range []acpuclk.HotplugEvent{
						acpuclk.CPUDying, acpuclk.CPUDead,
						acpuclk.CPUUpPrepare, acpuclk.CPUStarting,
					} {
						if err := d.OnHotplug(last, ev); err != nil {
							return fmt.Errorf("hotplug %s on cpu%d: %w", ev, last, err)
						}
					}
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		d.Metrics.Print()
		for cpu := 0; cpu < d.NumCPUs(); cpu++ {
			fmt.Printf("cpu%d final rate       : %d KHz\n", cpu, d.Rate(cpu))
		}
		fmt.Printf("L2 final rate        : %d KHz\n", d.L2Rate())
		fmt.Printf("Bus level in effect  : %d\n", bus.Level())
		logrus.Infof("Workload complete in %s.", time.Since(startTime))
		return nil
	},
}

// levelsCmd prints the active voltage table
var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "Print the selected frequency/voltage table",
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		d, _, _, err := newDriver()
		if err != nil {
			return err
		}
		for _, l := range d.VddLevels() {
			fmt.Printf("%8d: %8d\n", l.KHz, l.VddCore)
		}
		return nil
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().IntVar(&cpus, "cpus", 2, "Number of core clock domains")
	rootCmd.PersistentFlags().StringVar(&pvsOverride, "pvs", "", "Force PVS bin (slow, nom, fast)")
	rootCmd.PersistentFlags().Uint32Var(&pteWord, "pte", 0x400, "Efuse PTE word for the emulated fuse block")
	rootCmd.PersistentFlags().IntVar(&maxFreqKHz, "max-freq", 0, "Custom max scaling frequency in KHz (0 = table max)")
	rootCmd.PersistentFlags().StringVar(&tablesPath, "tables", "", "YAML calibration bundle overriding built-in tables")

	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for the random transition workload")
	runCmd.Flags().IntVar(&transitions, "transitions", 200, "Transitions per core")
	runCmd.Flags().BoolVar(&hotplug, "hotplug", true, "Interleave a hotplug cycle on the last core")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(levelsCmd)
}
