package acpuclk

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Config carries the startup choices of the operating-point selector.
type Config struct {
	// PVSOverride forces a process bin ("slow", "nom", "fast") instead of
	// decoding the efuse. Empty means decode.
	PVSOverride string
	// MaxFreqKHz caps the table for the scaling-policy layer. Entries
	// above the cap stay in the table (the bring-up point may need them)
	// but lose their use-for-scaling mark. Zero means uncapped.
	MaxFreqKHz int
	// CPUID is the silicon revision word, consulted for errata that
	// require a core-voltage floor.
	CPUID uint32
	// Tables overrides the built-in calibration data.
	Tables *TableBundle
}

// PVS bins used by plan selection and the CLI.
const (
	PVSSlow = "slow"
	PVSNom  = "nom"
	PVSFast = "fast"
)

// Silicon revisions whose errata require the minimum core-voltage floor.
var vminCPUIDs = map[uint32]bool{
	0x511F04D0: true,
	0x511F04D1: true,
	0x510F06F0: true,
}

// decodePVS extracts the process bin from the fused PTE word: primary field
// at bits [12:10], fallback field at [15:13] when the primary reads as
// unprogrammed (0x7).
func decodePVS(pte uint32) uint32 {
	pvs := (pte >> 10) & 0x7
	if pvs == 0x7 {
		pvs = (pte >> 13) & 0x7
	}
	return pvs
}

// selectFreqPlan chooses the calibration tables, applies errata floors and
// the configured frequency cap, and returns the highest operating point
// usable for scaling. The tables are copied into driver-owned slices so
// later voltage adjustments never touch the package-level calibration data.
func (d *Driver) selectFreqPlan(cfg Config) (*AcpuLevel, error) {
	var acpuSrc []AcpuLevel
	var l2Src []L2Level
	var bwSrc []BWLevel

	switch {
	case cfg.Tables != nil:
		var err error
		acpuSrc, l2Src, bwSrc, err = cfg.Tables.build()
		if err != nil {
			return nil, fmt.Errorf("calibration bundle rejected: %w", err)
		}
		logrus.Info("ACPU PVS: custom calibration bundle")

	case cfg.PVSOverride != "":
		var err error
		acpuSrc, err = tableForBin(cfg.PVSOverride)
		if err != nil {
			return nil, err
		}
		l2Src, bwSrc = l2FreqTbl, bwLevelTbl
		logrus.Infof("ACPU PVS: forced %s by config", cfg.PVSOverride)

	default:
		if d.be.Efuse == nil {
			return nil, fmt.Errorf("no efuse reader and no PVS override")
		}
		switch pvs := decodePVS(d.be.Efuse.ReadPTE()); pvs {
		case 0x0, 0x7:
			logrus.Info("ACPU PVS: Fusion SLOW")
			acpuSrc = acpuFreqTblSlow
		case 0x1:
			logrus.Info("ACPU PVS: Fusion NOM")
			acpuSrc = acpuFreqTblNom
		case 0x3:
			logrus.Info("ACPU PVS: Fusion FAST")
			acpuSrc = acpuFreqTblFast
		default:
			logrus.Warnf("ACPU PVS: unknown bin %#x, defaulting to nom", pvs)
			acpuSrc = acpuFreqTblNom
		}
		l2Src, bwSrc = l2FreqTbl, bwLevelTbl
	}

	d.acpuTbl = append([]AcpuLevel(nil), acpuSrc...)
	d.l2Tbl = append([]L2Level(nil), l2Src...)
	d.bwTbl = append([]BWLevel(nil), bwSrc...)

	if vminCPUIDs[cfg.CPUID] {
		logrus.Info("Applying minimum core-voltage floor for silicon errata")
		applyVmin(d.acpuTbl)
	}

	if cfg.MaxFreqKHz != 0 {
		applyMaxFreq(d.acpuTbl, cfg.MaxFreqKHz)
	}

	// Find the max supported scaling frequency.
	var maxLevel *AcpuLevel
	for i := range d.acpuTbl {
		if d.acpuTbl[i].Speed.KHz == 0 {
			break
		}
		if d.acpuTbl[i].UseForScaling {
			maxLevel = &d.acpuTbl[i]
		}
	}
	if maxLevel == nil {
		return nil, fmt.Errorf("frequency table has no scaling entries")
	}

	logrus.Infof("Max ACPU freq: %d KHz", maxLevel.Speed.KHz)
	d.maxVdd = maxLevel.VddCore

	return maxLevel, nil
}

func tableForBin(bin string) ([]AcpuLevel, error) {
	switch bin {
	case PVSSlow:
		return acpuFreqTblSlow, nil
	case PVSNom:
		return acpuFreqTblNom, nil
	case PVSFast:
		return acpuFreqTblFast, nil
	}
	return nil, fmt.Errorf("unknown PVS bin %q", bin)
}

// applyVmin raises any core voltage below the mandated floor.
func applyVmin(tbl []AcpuLevel) {
	for i := range tbl {
		if tbl[i].Speed.KHz == 0 {
			break
		}
		if tbl[i].VddCore < MinVddSC {
			tbl[i].VddCore = MinVddSC
		}
	}
}

// applyMaxFreq marks every entry above the cap as unusable for scaling.
// The entries remain in the table and stay reachable internally.
func applyMaxFreq(tbl []AcpuLevel, maxKHz int) {
	for i := range tbl {
		if tbl[i].Speed.KHz == 0 {
			break
		}
		if tbl[i].Speed.KHz == maxKHz {
			for j := i + 1; j < len(tbl) && tbl[j].Speed.KHz != 0; j++ {
				tbl[j].UseForScaling = false
			}
			return
		}
	}
}
