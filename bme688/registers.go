package bme688

// I²C addresses, selected by the SDO strap pin.
const (
	AddressLow  = 0x76 // SDO to GND
	AddressHigh = 0x77 // SDO to VDDIO
)

const (
	variantID = 0x01 // expected content of regVariantID
	chipID    = 0x61

	regChipID    = 0xd0
	regVariantID = 0xf0
	regCtrlHum   = 0x72
	regCtrlMeas  = 0x74
	regConfig    = 0x75 // IIR filter
)

// Control register bit fields.
const (
	ctrlMeasModeMask = 0b_0000_0011
	modeForced       = 0b_01

	ctrlMeasOSRS  = 0b_100_100_00 // osrs_t 8x, osrs_p 8x
	ctrlMeasKeep  = 0b_000_000_11
	ctrlHumOSRS   = 0b_100 // osrs_h 8x
	ctrlHumKeep   = 0b_1111_1000
	configFilter  = 0b_010 << 2 // filter coefficient 3
	configKeep    = 0b_1110_0011
	ctrlGas1RunHS = 0b_0010_0000 // run_gas, nb_conv = 0
)

// Gas heater set points. Profiles 1-9 follow at +1 each and are not used.
const (
	regIdacHeat0 = 0x50
	regResHeat0  = 0x5a
	regGasWait0  = 0x64
	regCtrlGas0  = 0x70
	regCtrlGas1  = 0x71
)

// Field 0 data registers. Fields 1 and 2 repeat the layout at
// fieldStride and 2*fieldStride.
const (
	fieldStride = 0x11

	regMeasStatus0 = 0x1d
	regPressMSB0   = 0x1f
	regPressLSB0   = 0x20
	regPressXLSB0  = 0x21
	regTempMSB0    = 0x22
	regTempLSB0    = 0x23
	regTempXLSB0   = 0x24
	regHumMSB0     = 0x25
	regHumLSB0     = 0x26
	regGasRMSB0    = 0x2c
	regGasRLSB0    = 0x2d
)

// meas_status_0 and gas_r_lsb flags.
const (
	statusNewData   = 1 << 7
	statusGasMeas   = 1 << 6
	statusMeasuring = 1 << 5
	gasValid        = 1 << 5
	gasHeatStab     = 1 << 4
	gasRangeMask    = 0x0f
)

// Calibration coefficient registers, in two non-contiguous banks
// (0x8a-0xa0 and 0xe1-0xee) plus three heater bytes at the bottom.
const (
	regParT1LSB = 0xe9
	regParT1MSB = 0xea
	regParT2LSB = 0x8a
	regParT2MSB = 0x8b
	regParT3    = 0x8c

	regParP1LSB = 0x8e
	regParP1MSB = 0x8f
	regParP2LSB = 0x90
	regParP2MSB = 0x91
	regParP3    = 0x92
	regParP4LSB = 0x94
	regParP4MSB = 0x95
	regParP5LSB = 0x96
	regParP5MSB = 0x97
	regParP7    = 0x98
	regParP6    = 0x99
	regParP8LSB = 0x9c
	regParP8MSB = 0x9d
	regParP9LSB = 0x9e
	regParP9MSB = 0x9f
	regParP10   = 0xa0

	regParH2MSB   = 0xe1
	regParH1H2LSB = 0xe2 // H1 in 3:0, H2 in 7:4
	regParH1MSB   = 0xe3
	regParH3      = 0xe4
	regParH4      = 0xe5
	regParH5      = 0xe6
	regParH6      = 0xe7
	regParH7      = 0xe8

	regParG2LSB     = 0xeb
	regParG2MSB     = 0xec
	regParG1        = 0xed
	regParG3        = 0xee
	regResHeatRange = 0x02 // bits 5:4
	regResHeatVal   = 0x00
)
