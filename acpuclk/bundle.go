package acpuclk

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TableBundle is a calibration-table override, loadable from a YAML file.
// It replaces the built-in ACPU, L2, and bandwidth tables wholesale; the
// sentinel entry is appended automatically.
type TableBundle struct {
	ACPULevels []ACPULevelSpec `yaml:"acpu_levels"`
	L2Levels   []L2LevelSpec   `yaml:"l2_levels"`
	BWMbps     []int           `yaml:"bw_mbps"`
}

// ACPULevelSpec is one operating point in YAML form.
type ACPULevelSpec struct {
	UseForScaling bool   `yaml:"use_for_scaling"`
	KHz           int    `yaml:"khz"`
	Src           string `yaml:"src"`
	PriSrcSel     uint32 `yaml:"pri_src_sel"`
	SecSrcSel     uint32 `yaml:"sec_src_sel"`
	PllLVal       uint32 `yaml:"pll_l_val"`
	L2Level       int    `yaml:"l2_level"`
	VddCore       int    `yaml:"vdd_core"`
}

// L2LevelSpec is one shared-domain level in YAML form.
type L2LevelSpec struct {
	KHz       int    `yaml:"khz"`
	Src       string `yaml:"src"`
	PriSrcSel uint32 `yaml:"pri_src_sel"`
	SecSrcSel uint32 `yaml:"sec_src_sel"`
	PllLVal   uint32 `yaml:"pll_l_val"`
	VddDig    int    `yaml:"vdd_dig"`
	VddMem    int    `yaml:"vdd_mem"`
	BWLevel   int    `yaml:"bw_level"`
}

// LoadTableBundle reads and parses a YAML calibration file.
func LoadTableBundle(path string) (*TableBundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading calibration bundle: %w", err)
	}
	var b TableBundle
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parsing calibration bundle: %w", err)
	}
	return &b, nil
}

// validSources is the set of recognized clock-source names.
var validSources = map[string]ClockSource{
	"qsb":   SrcQSB,
	"pll8":  SrcPLL8,
	"hfpll": SrcHFPLL,
}

// Validate checks source names, cross-references, mux ranges, and frequency
// ordering of the bundle.
func (b *TableBundle) Validate() error {
	if len(b.ACPULevels) == 0 || len(b.L2Levels) == 0 || len(b.BWMbps) == 0 {
		return fmt.Errorf("bundle must carry acpu_levels, l2_levels, and bw_mbps")
	}

	for i, l := range b.L2Levels {
		if _, ok := validSources[l.Src]; !ok {
			return fmt.Errorf("l2_levels[%d]: unknown source %q", i, l.Src)
		}
		if l.PriSrcSel > 3 || l.SecSrcSel > 3 {
			return fmt.Errorf("l2_levels[%d]: mux select out of range", i)
		}
		if l.BWLevel < 0 || l.BWLevel >= len(b.BWMbps) {
			return fmt.Errorf("l2_levels[%d]: bw_level %d out of range", i, l.BWLevel)
		}
		if l.VddMem < l.VddDig {
			return fmt.Errorf("l2_levels[%d]: vdd_mem %d below vdd_dig %d", i, l.VddMem, l.VddDig)
		}
		if i > 0 && l.KHz <= b.L2Levels[i-1].KHz {
			return fmt.Errorf("l2_levels[%d]: frequencies must be strictly increasing", i)
		}
	}

	for i, a := range b.ACPULevels {
		if _, ok := validSources[a.Src]; !ok {
			return fmt.Errorf("acpu_levels[%d]: unknown source %q", i, a.Src)
		}
		if a.PriSrcSel > 3 || a.SecSrcSel > 3 {
			return fmt.Errorf("acpu_levels[%d]: mux select out of range", i)
		}
		if a.L2Level < 0 || a.L2Level >= len(b.L2Levels) {
			return fmt.Errorf("acpu_levels[%d]: l2_level %d out of range", i, a.L2Level)
		}
		if a.VddCore < MinVddSC || a.VddCore > MaxVddSC {
			return fmt.Errorf("acpu_levels[%d]: vdd_core %d outside [%d, %d]",
				i, a.VddCore, MinVddSC, MaxVddSC)
		}
		if i > 0 && a.KHz <= b.ACPULevels[i-1].KHz {
			return fmt.Errorf("acpu_levels[%d]: frequencies must be strictly increasing", i)
		}
	}

	return nil
}

// build validates the bundle and converts it into driver table form,
// appending the zero sentinel.
func (b *TableBundle) build() ([]AcpuLevel, []L2Level, []BWLevel, error) {
	if err := b.Validate(); err != nil {
		return nil, nil, nil, err
	}

	l2 := make([]L2Level, 0, len(b.L2Levels))
	for _, l := range b.L2Levels {
		l2 = append(l2, L2Level{
			Speed:   CoreSpeed{l.KHz, validSources[l.Src], l.PriSrcSel, l.SecSrcSel, l.PllLVal},
			VddDig:  l.VddDig,
			VddMem:  l.VddMem,
			BWLevel: l.BWLevel,
		})
	}

	acpu := make([]AcpuLevel, 0, len(b.ACPULevels)+1)
	for _, a := range b.ACPULevels {
		acpu = append(acpu, AcpuLevel{
			UseForScaling: a.UseForScaling,
			Speed:         CoreSpeed{a.KHz, validSources[a.Src], a.PriSrcSel, a.SecSrcSel, a.PllLVal},
			L2:            a.L2Level,
			VddCore:       a.VddCore,
		})
	}
	acpu = append(acpu, AcpuLevel{})

	bw := make([]BWLevel, 0, len(b.BWMbps))
	for _, mbps := range b.BWMbps {
		bw = append(bw, BWLevel{MBps: mbps})
	}

	return acpu, l2, bw, nil
}
