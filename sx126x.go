package lorapong

import (
	"flag"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/kidoman/embd"
	_ "github.com/kidoman/embd/host/rpi"
)

//go:generate mockgen -destination=mocks/embd.go -package=mocks github.com/kidoman/embd SPIBus,DigitalPin

var dio1pin = flag.Int("dio1", 24, "GPIO pin connected to SX126x DIO1 (BCM numbering)")
var busypin = flag.Int("busy", 25, "GPIO pin connected to SX126x BUSY (BCM numbering)")
var nresetpin = flag.Int("nreset", 17, "GPIO pin connected to SX126x NRESET (BCM numbering)")
var antpin = flag.Int("ant", 27, "GPIO pin connected to the antenna switch (BCM numbering)")

const (
	// Commands. See SX1261/2 datasheet; chapter 13.
	CMD_SET_SLEEP               = 0x84
	CMD_SET_STANDBY             = 0x80
	CMD_SET_TX                  = 0x83
	CMD_SET_RX                  = 0x82
	CMD_SET_PACKET_TYPE         = 0x8a
	CMD_SET_RF_FREQUENCY        = 0x86
	CMD_SET_PA_CONFIG           = 0x95
	CMD_SET_TX_PARAMS           = 0x8e
	CMD_SET_MODULATION_PARAMS   = 0x8b
	CMD_SET_PACKET_PARAMS       = 0x8c
	CMD_SET_DIO_IRQ_PARAMS      = 0x08
	CMD_SET_BUFFER_BASE_ADDRESS = 0x8f
	CMD_CALIBRATE               = 0x89
	CMD_WRITE_REGISTER          = 0x0d
	CMD_WRITE_BUFFER            = 0x0e
	CMD_READ_BUFFER             = 0x1e
	CMD_GET_STATUS              = 0xc0
	CMD_GET_IRQ_STATUS          = 0x12
	CMD_CLEAR_IRQ_STATUS        = 0x02
	CMD_GET_RX_BUFFER_STATUS    = 0x13
	CMD_GET_DEVICE_ERRORS       = 0x17
	CMD_CLEAR_DEVICE_ERRORS     = 0x07

	// Registers
	REG_LORA_SYNC_WORD_MSB = 0x0740

	// IRQ bits
	IRQ_NONE            = 0x0000
	IRQ_TX_DONE         = 0x0001
	IRQ_RX_DONE         = 0x0002
	IRQ_PREAMBLE_DET    = 0x0004
	IRQ_SYNC_WORD_VALID = 0x0008
	IRQ_HEADER_VALID    = 0x0010
	IRQ_HEADER_ERR      = 0x0020
	IRQ_CRC_ERR         = 0x0040
	IRQ_CAD_DONE        = 0x0080
	IRQ_CAD_DETECTED    = 0x0100
	IRQ_TIMEOUT         = 0x0200
	IRQ_ALL             = 0x03ff

	// Standby modes
	STDBY_RC   = 0x00
	STDBY_XOSC = 0x01

	// Sleep modes
	SLEEP_START_COLD = 0x00
	SLEEP_START_WARM = 0x04

	// Packet types
	PACKET_TYPE_GFSK = 0x00
	PACKET_TYPE_LORA = 0x01

	// LoRa sync words
	SYNC_WORD_PUBLIC  = 0x3444
	SYNC_WORD_PRIVATE = 0x1424

	// Calibration parameter enabling every calibration block.
	CALIBRATE_ALL = 0x7f

	// PA ramp times
	RAMP_200U = 0x04

	// Device selection for SetPaConfig
	DEVICE_SEL_SX1262 = 0x00
	DEVICE_SEL_SX1261 = 0x01

	// LoRa modulation parameter values
	LORA_SF5    = 0x05
	LORA_SF6    = 0x06
	LORA_SF7    = 0x07
	LORA_SF8    = 0x08
	LORA_SF9    = 0x09
	LORA_SF10   = 0x0a
	LORA_SF11   = 0x0b
	LORA_SF12   = 0x0c
	LORA_BW_125 = 0x04
	LORA_BW_250 = 0x05
	LORA_BW_500 = 0x06
	LORA_CR_4_5 = 0x01
	LORA_CR_4_6 = 0x02
	LORA_CR_4_7 = 0x03
	LORA_CR_4_8 = 0x04

	// LoRa packet parameter values
	HEADER_EXPLICIT = 0x00
	HEADER_IMPLICIT = 0x01
	CRC_OFF         = 0x00
	CRC_ON          = 0x01
	IQ_STANDARD     = 0x00
	IQ_INVERTED     = 0x01

	// Size of the device data buffer.
	MAX_PAYLOAD = 0xff
)

// Commands take at most a few ms; wake-up from cold reset takes ~3.5ms.
const busyPollLimit = 5000

// Radio drives an SX126x LoRa transceiver over its command/status protocol.
// Every operation is synchronous: it busy-waits on the BUSY line around the
// SPI transfer and returns a typed failure rather than raising.
type Radio struct {
	bus embd.SPIBus
	// High while the device is processing a command.
	busy embd.DigitalPin
	// Active-low hardware reset line.
	nreset embd.DigitalPin
	lock   sync.Mutex
}

// New wraps an already-configured SPI bus and control pins.
func New(bus embd.SPIBus, busy, nreset embd.DigitalPin) *Radio {
	return &Radio{
		bus:    bus,
		busy:   busy,
		nreset: nreset,
	}
}

// NewRadio initialises the SPI bus and GPIO lines named by the package
// flags and registers latch.Signal as the rising-edge handler for DIO1.
// Ownership of the DIO1 pin transfers to the edge-watch context at that
// point; the returned NotifyLine is the read-only view the main loop keeps.
func NewRadio(latch *Latch) (*Radio, NotifyLine) {
	err := embd.InitSPI()
	if err != nil {
		panic(err)
	}

	err = embd.InitGPIO()
	if err != nil {
		panic(err)
	}

	dio1, err := embd.NewDigitalPin(*dio1pin)
	if err != nil {
		panic(err)
	}
	dio1.SetDirection(embd.In)

	busy, err := embd.NewDigitalPin(*busypin)
	if err != nil {
		panic(err)
	}
	busy.SetDirection(embd.In)

	nreset, err := embd.NewDigitalPin(*nresetpin)
	if err != nil {
		panic(err)
	}
	nreset.SetDirection(embd.Out)
	nreset.Write(embd.High)

	ant, err := embd.NewDigitalPin(*antpin)
	if err != nil {
		panic(err)
	}
	ant.SetDirection(embd.Out)
	ant.Write(embd.High)

	bus := embd.NewSPIBus(embd.SPIMode0, 0, 100000, 8, 0)

	if latch != nil {
		log.Print("Watching DIO1 for radio events...")
		dio1.Watch(embd.EdgeRising, func(pin embd.DigitalPin) {
			latch.Signal()
		})
	}

	return New(bus, busy, nreset), notifyLine{dio1}
}

// Close puts the device to sleep and releases the bus and control pins.
// The DIO1 pin stays with the edge-watch context.
func (r *Radio) Close() {
	r.execSet(CMD_SET_SLEEP, SLEEP_START_COLD)
	r.bus.Close()
	r.busy.Close()
	r.nreset.Close()
	embd.CloseGPIO()
	embd.CloseSPI()
}

// notifyLine is the read-only view of the DIO1 pin handed back to the main
// loop. The pin itself is owned by the edge-watch registration, so protocol
// code can never race with the interrupt hand-off.
type notifyLine struct {
	pin embd.DigitalPin
}

func (n notifyLine) Read() (int, error) {
	return n.pin.Read()
}

// Reset pulses NRESET to put the device through a full hardware reset.
func (r *Radio) Reset() error {
	if err := r.nreset.Write(embd.Low); err != nil {
		return err
	}
	time.Sleep(1 * time.Millisecond)
	if err := r.nreset.Write(embd.High); err != nil {
		return err
	}
	// Wake-up from reset takes ~3.5ms.
	time.Sleep(5 * time.Millisecond)
	return nil
}

func (r *Radio) waitBusy() error {
	for i := 0; i < busyPollLimit; i++ {
		v, err := r.busy.Read()
		if err != nil {
			return err
		}
		if v == embd.Low {
			return nil
		}
		time.Sleep(100 * time.Microsecond)
	}
	return fmt.Errorf("Timed out waiting for BUSY to clear")
}

func (r *Radio) execSet(opcode byte, params ...byte) error {
	if err := r.waitBusy(); err != nil {
		return err
	}
	data := append([]byte{opcode}, params...)
	if err := r.bus.TransferAndReceiveData(data); err != nil {
		return err
	}
	if opcode == CMD_SET_SLEEP {
		// BUSY stays high while the device sleeps.
		return nil
	}
	return r.waitBusy()
}

func (r *Radio) execGet(opcode byte, n int) ([]byte, error) {
	if err := r.waitBusy(); err != nil {
		return nil, err
	}
	data := make([]byte, n+2)
	data[0] = opcode
	if err := r.bus.TransferAndReceiveData(data); err != nil {
		return nil, err
	}
	if err := r.waitBusy(); err != nil {
		return nil, err
	}
	return data[2:], nil
}

// WriteRegister writes values to the register file starting at addr.
func (r *Radio) WriteRegister(addr uint16, values ...byte) error {
	params := append([]byte{byte(addr >> 8), byte(addr)}, values...)
	return r.execSet(CMD_WRITE_REGISTER, params...)
}

// Init performs the one-time device configuration. Must be called before
// any other command; a failure here is not retried.
func (r *Radio) Init(cfg Config) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	log.Printf("Configuring radio: %dHz carrier, sync word %#04x", cfg.RfFrequency, cfg.SyncWord)

	if err := r.Reset(); err != nil {
		return fmt.Errorf("Failed to reset device: %v", err)
	}
	if err := r.execSet(CMD_SET_STANDBY, STDBY_RC); err != nil {
		return fmt.Errorf("Failed to enter standby: %v", err)
	}
	if err := r.execSet(CMD_SET_PACKET_TYPE, cfg.PacketType); err != nil {
		return fmt.Errorf("Failed to set packet type: %v", err)
	}
	if err := r.WriteRegister(REG_LORA_SYNC_WORD_MSB, byte(cfg.SyncWord>>8), byte(cfg.SyncWord)); err != nil {
		return fmt.Errorf("Failed to set sync word: %v", err)
	}
	if err := r.execSet(CMD_CALIBRATE, cfg.CalibParam); err != nil {
		return fmt.Errorf("Failed to calibrate: %v", err)
	}
	if err := r.execSet(CMD_SET_PA_CONFIG, cfg.Pa.DutyCycle, cfg.Pa.HpMax, cfg.Pa.DeviceSel, cfg.Pa.PaLut); err != nil {
		return fmt.Errorf("Failed to configure PA: %v", err)
	}
	if err := r.execSet(CMD_SET_TX_PARAMS, byte(cfg.Tx.Power), cfg.Tx.RampTime); err != nil {
		return fmt.Errorf("Failed to set TX params: %v", err)
	}
	if err := r.execSet(CMD_SET_MODULATION_PARAMS, cfg.Mod.SpreadingFactor, cfg.Mod.Bandwidth, cfg.Mod.CodingRate, cfg.Mod.LowDataRateOpt); err != nil {
		return fmt.Errorf("Failed to set modulation params: %v", err)
	}
	if cfg.Packet != nil {
		if err := r.setPacketParams(*cfg.Packet); err != nil {
			return fmt.Errorf("Failed to set packet params: %v", err)
		}
	}
	if err := r.execSet(CMD_SET_RF_FREQUENCY, byte(cfg.FreqSteps>>24), byte(cfg.FreqSteps>>16), byte(cfg.FreqSteps>>8), byte(cfg.FreqSteps)); err != nil {
		return fmt.Errorf("Failed to set RF frequency: %v", err)
	}
	irq := cfg.Dio1IrqMask | cfg.Dio2IrqMask | cfg.Dio3IrqMask
	if err := r.execSet(CMD_SET_DIO_IRQ_PARAMS,
		byte(irq>>8), byte(irq),
		byte(cfg.Dio1IrqMask>>8), byte(cfg.Dio1IrqMask),
		byte(cfg.Dio2IrqMask>>8), byte(cfg.Dio2IrqMask),
		byte(cfg.Dio3IrqMask>>8), byte(cfg.Dio3IrqMask)); err != nil {
		return fmt.Errorf("Failed to set DIO IRQ params: %v", err)
	}
	if err := r.execSet(CMD_SET_BUFFER_BASE_ADDRESS, 0x00, 0x00); err != nil {
		return fmt.Errorf("Failed to set buffer base address: %v", err)
	}
	return nil
}

func (r *Radio) setPacketParams(p PacketParams) error {
	header := byte(HEADER_EXPLICIT)
	if p.FixedLen {
		header = HEADER_IMPLICIT
	}
	crc := byte(CRC_OFF)
	if p.CrcOn {
		crc = CRC_ON
	}
	iq := byte(IQ_STANDARD)
	if p.InvertIQ {
		iq = IQ_INVERTED
	}
	return r.execSet(CMD_SET_PACKET_PARAMS, byte(p.PreambleLen>>8), byte(p.PreambleLen), header, p.PayloadLen, crc, iq)
}

// SetRx arms the receiver with the given timeout. Safe to call repeatedly
// whenever the engine wants to re-enter listening.
func (r *Radio) SetRx(t Timeout) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.execSet(CMD_SET_RX, byte(t>>16), byte(t>>8), byte(t))
}

// ClearIrqStatus clears the pending IRQ flags in mask. Issued once per
// observed hardware event, before interpreting status, so stale flags
// cannot retrigger.
func (r *Radio) ClearIrqStatus(mask uint16) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.execSet(CMD_CLEAR_IRQ_STATUS, byte(mask>>8), byte(mask))
}

// Status returns the device's most recent command status. Non-blocking
// beyond the command exchange itself.
func (r *Radio) Status() (DeviceStatus, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	ret, err := r.execGet(CMD_GET_STATUS, 1)
	if err != nil {
		return 0, err
	}
	return DeviceStatus(ret[0]), nil
}

// IrqStatus returns the pending IRQ flags.
func (r *Radio) IrqStatus() (uint16, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	ret, err := r.execGet(CMD_GET_IRQ_STATUS, 2)
	if err != nil {
		return 0, err
	}
	return uint16(ret[0])<<8 | uint16(ret[1]), nil
}

// DeviceErrors returns the accumulated device error flags.
func (r *Radio) DeviceErrors() (uint16, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	ret, err := r.execGet(CMD_GET_DEVICE_ERRORS, 2)
	if err != nil {
		return 0, err
	}
	return uint16(ret[0])<<8 | uint16(ret[1]), nil
}

// RxBufferStatus reports where the most recent payload starts in the
// device data buffer and its length.
func (r *Radio) RxBufferStatus() (RxBufferStatus, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	ret, err := r.execGet(CMD_GET_RX_BUFFER_STATUS, 2)
	if err != nil {
		return RxBufferStatus{}, err
	}
	return RxBufferStatus{
		PayloadLength: ret[0],
		StartOffset:   ret[1],
	}, nil
}

// ReadBuffer copies len(p) bytes out of the device data buffer starting at
// offset.
func (r *Radio) ReadBuffer(offset uint8, p []byte) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if err := r.waitBusy(); err != nil {
		return err
	}
	data := make([]byte, len(p)+3)
	data[0] = CMD_READ_BUFFER
	data[1] = offset
	if err := r.bus.TransferAndReceiveData(data); err != nil {
		return err
	}
	if err := r.waitBusy(); err != nil {
		return err
	}
	copy(p, data[3:])
	return nil
}

// Send writes payload into the device data buffer and begins a
// transmission. Completion is reported through the DIO1 line shared with
// reception, so it surfaces through the same latch path; notify is read
// once beforehand to catch a completion event left asserted by a previous
// operation.
func (r *Radio) Send(payload []byte, t Timeout, preambleLen uint16, crcOn bool, notify NotifyLine) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if len(payload) > MAX_PAYLOAD {
		return fmt.Errorf("Packet too long: %d", len(payload))
	}
	if notify != nil {
		v, err := notify.Read()
		if err != nil {
			return fmt.Errorf("Failed to read completion line: %v", err)
		}
		if v != embd.Low {
			return fmt.Errorf("Completion line already asserted")
		}
	}

	log.Printf("Sending %d bytes", len(payload))
	if err := r.execSet(CMD_WRITE_BUFFER, append([]byte{0x00}, payload...)...); err != nil {
		return fmt.Errorf("Failed to write data buffer: %v", err)
	}
	params := PacketParams{
		PreambleLen: preambleLen,
		PayloadLen:  byte(len(payload)),
		CrcOn:       crcOn,
	}
	if err := r.setPacketParams(params); err != nil {
		return fmt.Errorf("Failed to set packet params: %v", err)
	}
	if err := r.execSet(CMD_SET_TX, byte(t>>16), byte(t>>8), byte(t)); err != nil {
		return fmt.Errorf("Failed to enter TX mode: %v", err)
	}
	return nil
}
