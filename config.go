package lorapong

import "time"

const (
	// Carrier and crystal reference for the reference deployment.
	// Compiled in; not runtime-configurable.
	RF_FREQUENCY = 868000000 // 868MHz (EU)
	F_XTAL       = 32000000  // 32MHz
)

// Timeout is a device-side RX/TX timeout in 15.625us ticks, the unit the
// SetRx and SetTx commands take.
type Timeout uint32

const (
	// TimeoutDisabled runs the operation with no device-side timeout.
	TimeoutDisabled Timeout = 0x000000
	// TimeoutContinuous keeps the receiver listening indefinitely.
	TimeoutContinuous Timeout = 0xffffff
)

// TimeoutFor converts a duration to device ticks.
func TimeoutFor(d time.Duration) Timeout {
	return Timeout(d.Milliseconds() << 6)
}

// ModParams are the LoRa modulation parameters passed to
// SetModulationParams.
type ModParams struct {
	SpreadingFactor byte
	Bandwidth       byte
	CodingRate      byte
	LowDataRateOpt  byte
}

// TxParams carry the transmit power and PA ramp time.
type TxParams struct {
	Power    int8
	RampTime byte
}

// PaConfig is the power amplifier configuration.
type PaConfig struct {
	DutyCycle byte
	HpMax     byte
	DeviceSel byte
	PaLut     byte
}

// PacketParams describe the LoRa packet format. PayloadLen is rewritten on
// every transmission to the actual payload size.
type PacketParams struct {
	PreambleLen uint16
	FixedLen    bool
	PayloadLen  byte
	CrcOn       bool
	InvertIQ    bool
}

// Config is the full static radio configuration: assembled once before the
// main loop, consumed exactly once by Radio.Init, never mutated afterwards.
type Config struct {
	PacketType  byte
	SyncWord    uint16
	CalibParam  byte
	Mod         ModParams
	Tx          TxParams
	Pa          PaConfig
	Packet      *PacketParams
	Dio1IrqMask uint16
	Dio2IrqMask uint16
	Dio3IrqMask uint16
	RfFrequency uint32 // carrier in Hz
	FreqSteps   uint32 // carrier in PLL steps, precomputed against F_XTAL
}

// CalcFreqSteps converts a carrier frequency in Hz into the PLL step value
// the SetRfFrequency command takes: steps = (f << 25) / f_xtal.
func CalcFreqSteps(freq, xtal uint32) uint32 {
	return uint32((uint64(freq) << 25) / uint64(xtal))
}

// BuildConfig assembles the radio configuration for the reference
// deployment. Pure: every field is statically determined.
func BuildConfig() Config {
	return Config{
		PacketType: PACKET_TYPE_LORA,
		SyncWord:   SYNC_WORD_PRIVATE,
		CalibParam: CALIBRATE_ALL,
		Mod: ModParams{
			SpreadingFactor: LORA_SF7,
			Bandwidth:       LORA_BW_125,
			CodingRate:      LORA_CR_4_5,
		},
		Tx: TxParams{
			Power:    14,
			RampTime: RAMP_200U,
		},
		Pa: PaConfig{
			DutyCycle: 0x04,
			HpMax:     0x00,
			DeviceSel: DEVICE_SEL_SX1261,
			PaLut:     0x01,
		},
		Packet: &PacketParams{
			PreambleLen: DefaultPreambleLen,
			PayloadLen:  MAX_PAYLOAD,
			CrcOn:       true,
		},
		// Completion, reception and timeout all route to DIO1, the line
		// the latch watches.
		Dio1IrqMask: IRQ_TX_DONE | IRQ_RX_DONE | IRQ_TIMEOUT,
		Dio2IrqMask: IRQ_NONE,
		Dio3IrqMask: IRQ_NONE,
		RfFrequency: RF_FREQUENCY,
		FreqSteps:   CalcFreqSteps(RF_FREQUENCY, F_XTAL),
	}
}
