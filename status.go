package lorapong

import "fmt"

// CommandStatus classifies the outcome of the device's most recent
// operation. See SX1261/2 datasheet; section 13.5.1.
type CommandStatus byte

const (
	STATUS_DATA_AVAILABLE    CommandStatus = 0x02
	STATUS_COMMAND_TIMEOUT   CommandStatus = 0x03
	STATUS_PROCESSING_ERROR  CommandStatus = 0x04
	STATUS_EXECUTION_FAILURE CommandStatus = 0x05
	STATUS_TX_DONE           CommandStatus = 0x06
)

func (s CommandStatus) String() string {
	switch s {
	case STATUS_DATA_AVAILABLE:
		return "data available"
	case STATUS_COMMAND_TIMEOUT:
		return "command timeout"
	case STATUS_PROCESSING_ERROR:
		return "command processing error"
	case STATUS_EXECUTION_FAILURE:
		return "failure to execute command"
	case STATUS_TX_DONE:
		return "transmission done"
	}
	return fmt.Sprintf("reserved (%#02x)", byte(s))
}

// DeviceStatus is the raw GetStatus response byte. Produced fresh on each
// poll cycle and consumed immediately.
type DeviceStatus byte

// CommandStatus extracts the command status field (bits 3:1).
func (s DeviceStatus) CommandStatus() CommandStatus {
	return CommandStatus((s >> 1) & 0x07)
}

// ChipMode extracts the chip mode field (bits 6:4).
func (s DeviceStatus) ChipMode() byte {
	return byte(s>>4) & 0x07
}

// RxBufferStatus describes where in the device data buffer the most recent
// payload starts and how long it is. Only meaningful immediately after a
// data-available status.
type RxBufferStatus struct {
	PayloadLength uint8
	StartOffset   uint8
}
