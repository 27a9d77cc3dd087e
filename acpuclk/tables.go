package acpuclk

// Built-in calibration data for the Fusion silicon, binned by process
// variation. Voltages in microvolts, frequencies in KHz. The first entry of
// every table is the standby point; tables end with a zero sentinel.

// l2FreqTbl is the shared-domain level table.
var l2FreqTbl = []L2Level{
	{CoreSpeed{StbyKHz, SrcQSB, 0, 0, 0x00}, 1050000, 1050000, 0},
	{CoreSpeed{192000, SrcPLL8, 0, 2, 0x00}, 1050000, 1050000, 1},
	{CoreSpeed{384000, SrcHFPLL, 2, 0, 0x20}, 1050000, 1050000, 2},
	{CoreSpeed{486000, SrcHFPLL, 2, 0, 0x24}, 1050000, 1050000, 2},
	{CoreSpeed{540000, SrcHFPLL, 2, 0, 0x28}, 1050000, 1050000, 2},
	{CoreSpeed{594000, SrcHFPLL, 1, 0, 0x16}, 1050000, 1050000, 2},
	{CoreSpeed{648000, SrcHFPLL, 1, 0, 0x18}, 1050000, 1050000, 4},
	{CoreSpeed{702000, SrcHFPLL, 1, 0, 0x1A}, 1050000, 1050000, 4},
	{CoreSpeed{756000, SrcHFPLL, 1, 0, 0x1C}, 1150000, 1150000, 4},
	{CoreSpeed{810000, SrcHFPLL, 1, 0, 0x1E}, 1150000, 1150000, 4},
	{CoreSpeed{864000, SrcHFPLL, 1, 0, 0x20}, 1150000, 1150000, 4},
	{CoreSpeed{918000, SrcHFPLL, 1, 0, 0x22}, 1150000, 1150000, 6},
	{CoreSpeed{972000, SrcHFPLL, 1, 0, 0x24}, 1150000, 1150000, 6},
	{CoreSpeed{1026000, SrcHFPLL, 1, 0, 0x26}, 1150000, 1150000, 6},
	{CoreSpeed{1080000, SrcHFPLL, 1, 0, 0x28}, 1150000, 1150000, 6},
	{CoreSpeed{1134000, SrcHFPLL, 1, 0, 0x2A}, 1150000, 1150000, 6},
	{CoreSpeed{1188000, SrcHFPLL, 1, 0, 0x2C}, 1150000, 1150000, 6},
	{CoreSpeed{1242000, SrcHFPLL, 1, 0, 0x2E}, 1150000, 1150000, 6},
	{CoreSpeed{1350000, SrcHFPLL, 1, 0, 0x30}, 1150000, 1150000, 6},
	{CoreSpeed{1458000, SrcHFPLL, 1, 0, 0x32}, 1150000, 1150000, 6},
	{CoreSpeed{1512000, SrcHFPLL, 1, 0, 0x34}, 1150000, 1150000, 7},
	{CoreSpeed{1674000, SrcHFPLL, 1, 0, 0x36}, 1150000, 1150000, 7},
	{CoreSpeed{1728000, SrcHFPLL, 1, 0, 0x36}, 1150000, 1150000, 7},
}

// bwLevelTbl maps bandwidth levels to instantaneous bus bandwidth.
var bwLevelTbl = []BWLevel{
	{640},  // at least 80 MHz on bus
	{1064}, // at least 133 MHz on bus
	{1600}, // at least 200 MHz on bus
	{2128}, // at least 266 MHz on bus
	{3200}, // at least 400 MHz on bus
	{3600}, // at least 450 MHz on bus
	{3936}, // at least 492 MHz on bus
	{4264}, // at least 533 MHz on bus
	{4480}, // at least 550 MHz on bus
	{4800}, // at least 600 MHz on bus
	{5200}, // at least 650 MHz on bus
}

var acpuFreqTblSlow = []AcpuLevel{
	{false, CoreSpeed{StbyKHz, SrcQSB, 0, 0, 0x00}, 0, 850000},
	{true, CoreSpeed{192000, SrcPLL8, 0, 2, 0x00}, 1, 900000},
	{true, CoreSpeed{384000, SrcHFPLL, 2, 0, 0x20}, 7, 900000},
	{true, CoreSpeed{486000, SrcHFPLL, 2, 0, 0x24}, 7, 950000},
	{false, CoreSpeed{540000, SrcHFPLL, 2, 0, 0x28}, 7, 1000000},
	{true, CoreSpeed{594000, SrcHFPLL, 1, 0, 0x16}, 7, 1000000},
	{false, CoreSpeed{648000, SrcHFPLL, 1, 0, 0x18}, 7, 1025000},
	{true, CoreSpeed{702000, SrcHFPLL, 1, 0, 0x1A}, 7, 1025000},
	{false, CoreSpeed{756000, SrcHFPLL, 1, 0, 0x1C}, 7, 1075000},
	{true, CoreSpeed{810000, SrcHFPLL, 1, 0, 0x1E}, 7, 1075000},
	{false, CoreSpeed{864000, SrcHFPLL, 1, 0, 0x20}, 7, 1100000},
	{true, CoreSpeed{918000, SrcHFPLL, 1, 0, 0x22}, 7, 1100000},
	{false, CoreSpeed{972000, SrcHFPLL, 1, 0, 0x24}, 7, 1125000},
	{true, CoreSpeed{1026000, SrcHFPLL, 1, 0, 0x26}, 7, 1125000},
	{false, CoreSpeed{1080000, SrcHFPLL, 1, 0, 0x28}, 16, 1175000},
	{true, CoreSpeed{1134000, SrcHFPLL, 1, 0, 0x2A}, 16, 1175000},
	{false, CoreSpeed{1188000, SrcHFPLL, 1, 0, 0x2C}, 16, 1200000},
	{true, CoreSpeed{1242000, SrcHFPLL, 1, 0, 0x2E}, 16, 1200000},
	{false, CoreSpeed{1296000, SrcHFPLL, 1, 0, 0x30}, 16, 1225000},
	{true, CoreSpeed{1350000, SrcHFPLL, 1, 0, 0x32}, 16, 1225000},
	{false, CoreSpeed{1404000, SrcHFPLL, 1, 0, 0x34}, 16, 1237500},
	{true, CoreSpeed{1458000, SrcHFPLL, 1, 0, 0x36}, 16, 1237500},
	{true, CoreSpeed{1512000, SrcHFPLL, 1, 0, 0x38}, 18, 1250000},
	{true, CoreSpeed{1674000, SrcHFPLL, 1, 0, 0x3A}, 18, 1275000},
	{true, CoreSpeed{1728000, SrcHFPLL, 1, 0, 0x3C}, 19, 1300000},
	{true, CoreSpeed{1809000, SrcHFPLL, 1, 0, 0x3E}, 19, 1325000},
	{true, CoreSpeed{1890000, SrcHFPLL, 1, 0, 0x40}, 20, 1350000},
	{true, CoreSpeed{1998000, SrcHFPLL, 1, 0, 0x40}, 21, 1350000},
	{true, CoreSpeed{2160000, SrcHFPLL, 1, 0, 0x40}, 21, 1350000},
	{},
}

var acpuFreqTblNom = []AcpuLevel{
	{false, CoreSpeed{StbyKHz, SrcQSB, 0, 0, 0x00}, 0, 800000},
	{true, CoreSpeed{192000, SrcPLL8, 0, 2, 0x00}, 1, 800000},
	{true, CoreSpeed{384000, SrcHFPLL, 2, 0, 0x20}, 7, 850000},
	{true, CoreSpeed{486000, SrcHFPLL, 2, 0, 0x24}, 7, 900000},
	{false, CoreSpeed{540000, SrcHFPLL, 2, 0, 0x28}, 7, 950000},
	{true, CoreSpeed{594000, SrcHFPLL, 1, 0, 0x16}, 7, 950000},
	{false, CoreSpeed{648000, SrcHFPLL, 1, 0, 0x18}, 7, 975000},
	{true, CoreSpeed{702000, SrcHFPLL, 1, 0, 0x1A}, 7, 975000},
	{false, CoreSpeed{756000, SrcHFPLL, 1, 0, 0x1C}, 7, 1025000},
	{true, CoreSpeed{810000, SrcHFPLL, 1, 0, 0x1E}, 7, 1025000},
	{false, CoreSpeed{864000, SrcHFPLL, 1, 0, 0x20}, 7, 1050000},
	{true, CoreSpeed{918000, SrcHFPLL, 1, 0, 0x22}, 7, 1050000},
	{false, CoreSpeed{972000, SrcHFPLL, 1, 0, 0x24}, 7, 1075000},
	{true, CoreSpeed{1026000, SrcHFPLL, 1, 0, 0x26}, 7, 1075000},
	{false, CoreSpeed{1080000, SrcHFPLL, 1, 0, 0x28}, 16, 1100000},
	{true, CoreSpeed{1134000, SrcHFPLL, 1, 0, 0x2A}, 16, 1125000},
	{false, CoreSpeed{1188000, SrcHFPLL, 1, 0, 0x2C}, 16, 1125000},
	{true, CoreSpeed{1242000, SrcHFPLL, 1, 0, 0x2E}, 16, 1150000},
	{false, CoreSpeed{1296000, SrcHFPLL, 1, 0, 0x30}, 16, 1150000},
	{true, CoreSpeed{1350000, SrcHFPLL, 1, 0, 0x32}, 16, 1175000},
	{false, CoreSpeed{1404000, SrcHFPLL, 1, 0, 0x34}, 16, 1175000},
	{true, CoreSpeed{1458000, SrcHFPLL, 1, 0, 0x36}, 16, 1187500},
	{true, CoreSpeed{1512000, SrcHFPLL, 1, 0, 0x38}, 18, 1200000},
	{true, CoreSpeed{1674000, SrcHFPLL, 1, 0, 0x3A}, 18, 1225000},
	{true, CoreSpeed{1728000, SrcHFPLL, 1, 0, 0x3C}, 19, 1250000},
	{true, CoreSpeed{1809000, SrcHFPLL, 1, 0, 0x3E}, 19, 1275000},
	{true, CoreSpeed{1890000, SrcHFPLL, 1, 0, 0x40}, 19, 1300000},
	{true, CoreSpeed{1998000, SrcHFPLL, 1, 0, 0x40}, 21, 1325000},
	{true, CoreSpeed{2160000, SrcHFPLL, 1, 0, 0x40}, 21, 1350000},
	{},
}

var acpuFreqTblFast = []AcpuLevel{
	{false, CoreSpeed{StbyKHz, SrcQSB, 0, 0, 0x00}, 0, 800000},
	{true, CoreSpeed{192000, SrcPLL8, 0, 2, 0x00}, 1, 800000},
	{true, CoreSpeed{384000, SrcHFPLL, 2, 0, 0x20}, 7, 800000},
	{true, CoreSpeed{486000, SrcHFPLL, 2, 0, 0x24}, 7, 850000},
	{false, CoreSpeed{540000, SrcHFPLL, 2, 0, 0x28}, 7, 900000},
	{true, CoreSpeed{594000, SrcHFPLL, 1, 0, 0x16}, 7, 900000},
	{false, CoreSpeed{648000, SrcHFPLL, 1, 0, 0x18}, 7, 925000},
	{true, CoreSpeed{702000, SrcHFPLL, 1, 0, 0x1A}, 7, 925000},
	{false, CoreSpeed{756000, SrcHFPLL, 1, 0, 0x1C}, 7, 975000},
	{true, CoreSpeed{810000, SrcHFPLL, 1, 0, 0x1E}, 7, 975000},
	{false, CoreSpeed{864000, SrcHFPLL, 1, 0, 0x20}, 7, 1000000},
	{true, CoreSpeed{918000, SrcHFPLL, 1, 0, 0x22}, 7, 1000000},
	{false, CoreSpeed{972000, SrcHFPLL, 1, 0, 0x24}, 7, 1025000},
	{true, CoreSpeed{1026000, SrcHFPLL, 1, 0, 0x26}, 7, 1025000},
	{false, CoreSpeed{1080000, SrcHFPLL, 1, 0, 0x28}, 16, 1075000},
	{true, CoreSpeed{1134000, SrcHFPLL, 1, 0, 0x2A}, 16, 1075000},
	{false, CoreSpeed{1188000, SrcHFPLL, 1, 0, 0x2C}, 16, 1100000},
	{true, CoreSpeed{1242000, SrcHFPLL, 1, 0, 0x2E}, 16, 1100000},
	{false, CoreSpeed{1296000, SrcHFPLL, 1, 0, 0x30}, 16, 1125000},
	{true, CoreSpeed{1350000, SrcHFPLL, 1, 0, 0x32}, 16, 1125000},
	{false, CoreSpeed{1404000, SrcHFPLL, 1, 0, 0x34}, 16, 1125000},
	{true, CoreSpeed{1458000, SrcHFPLL, 1, 0, 0x36}, 16, 1137500},
	{true, CoreSpeed{1512000, SrcHFPLL, 1, 0, 0x38}, 18, 1150000},
	{true, CoreSpeed{1674000, SrcHFPLL, 1, 0, 0x3A}, 18, 1175000},
	{true, CoreSpeed{1728000, SrcHFPLL, 1, 0, 0x3C}, 19, 1200000},
	{true, CoreSpeed{1809000, SrcHFPLL, 1, 0, 0x3E}, 19, 1250000},
	{true, CoreSpeed{1890000, SrcHFPLL, 1, 0, 0x40}, 19, 1275000},
	{true, CoreSpeed{1998000, SrcHFPLL, 1, 0, 0x40}, 21, 1300000},
	{true, CoreSpeed{2160000, SrcHFPLL, 1, 0, 0x40}, 21, 1325000},
	{},
}
