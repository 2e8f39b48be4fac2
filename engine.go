package lorapong

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
)

//go:generate mockgen -source=engine.go -destination=mocks/engine.go -package=mocks

const (
	// ChunkSize bounds each ReadBuffer transfer when draining a payload.
	ChunkSize = 32
	// DefaultPreambleLen is the preamble length used for replies.
	DefaultPreambleLen = 8
	// DefaultRxTimeout bounds each listen period. The transmit timeout
	// stays disabled.
	DefaultRxTimeout = 3 * time.Second

	latchPollInterval = time.Millisecond
)

// DefaultReply is sent back after every received message.
var DefaultReply = []byte("Hello from lorapong!")

// NotifyLine is a read-only view of the transmit-completion line, the same
// physical line the interrupt latch watches.
type NotifyLine interface {
	Read() (int, error)
}

// Transceiver is the command surface the engine drives. *Radio satisfies
// it; the tests substitute a scripted double. Every call blocks until the
// device has taken the command and returns a typed failure the engine
// treats as fatal.
type Transceiver interface {
	SetRx(t Timeout) error
	ClearIrqStatus(mask uint16) error
	Status() (DeviceStatus, error)
	RxBufferStatus() (RxBufferStatus, error)
	ReadBuffer(offset uint8, p []byte) error
	Send(payload []byte, t Timeout, preambleLen uint16, crcOn bool, notify NotifyLine) error
}

// Engine runs the receive/reply loop: it waits on the interrupt latch,
// classifies each device event and issues the corresponding command
// sequence. Received message text is surfaced on sink one chunk at a time;
// abnormal statuses are reported on the logger.
type Engine struct {
	radio     Transceiver
	latch     *Latch
	notify    NotifyLine
	log       *zap.SugaredLogger
	sink      io.Writer
	rxTimeout Timeout
	reply     []byte
}

func NewEngine(radio Transceiver, latch *Latch, notify NotifyLine, logger *zap.SugaredLogger, sink io.Writer) *Engine {
	return &Engine{
		radio:     radio,
		latch:     latch,
		notify:    notify,
		log:       logger,
		sink:      sink,
		rxTimeout: TimeoutFor(DefaultRxTimeout),
		reply:     DefaultReply,
	}
}

// Run arms the receiver and services latched hardware events until ctx is
// cancelled or a device command fails. Command timeouts and unrecognised
// statuses are reported and tolerated; any command failure is fatal.
func (e *Engine) Run(ctx context.Context) error {
	if err := e.radio.SetRx(e.rxTimeout); err != nil {
		return fmt.Errorf("Failed to arm receiver: %v", err)
	}
	e.log.Infow("listening", "timeout", DefaultRxTimeout)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if !e.latch.Take() {
			time.Sleep(latchPollInterval)
			continue
		}
		if err := e.HandleEvent(); err != nil {
			return err
		}
	}
}

// HandleEvent services one latched hardware event: it clears the device's
// pending interrupt mask, reads the command status and dispatches on it.
// Rapid events may coalesce into a single latch observation, in which case
// only the most recent status is acted on.
func (e *Engine) HandleEvent() error {
	if err := e.radio.ClearIrqStatus(IRQ_ALL); err != nil {
		return fmt.Errorf("Failed to clear interrupts: %v", err)
	}
	status, err := e.radio.Status()
	if err != nil {
		return fmt.Errorf("Failed to read status: %v", err)
	}

	switch status.CommandStatus() {
	case STATUS_DATA_AVAILABLE:
		return e.drainAndReply()
	case STATUS_TX_DONE:
		if err := e.radio.SetRx(e.rxTimeout); err != nil {
			return fmt.Errorf("Failed to re-arm receiver: %v", err)
		}
		e.log.Debugw("reply sent, listening again")
	case STATUS_COMMAND_TIMEOUT:
		// The device stays in its prior listening state; no re-arm.
		rxTimeouts.Inc()
		e.log.Warnw("receive timed out")
	default:
		unclassifiedStatuses.Inc()
		e.log.Warnw("unclassified command status",
			"status", status.CommandStatus().String(),
			"chipMode", status.ChipMode())
	}
	return nil
}

// drainAndReply reads the received payload out of the device buffer in
// chunks of at most ChunkSize bytes, surfaces each chunk on the sink as it
// arrives and dispatches the fixed reply. A zero-length payload drains
// zero chunks but still gets a reply.
func (e *Engine) drainAndReply() error {
	bs, err := e.radio.RxBufferStatus()
	if err != nil {
		return fmt.Errorf("Failed to read buffer status: %v", err)
	}
	e.log.Infow("message received", "length", bs.PayloadLength, "offset", bs.StartOffset)

	chunk := make([]byte, ChunkSize)
	length := int(bs.PayloadLength)
	for off := 0; off < length; off += ChunkSize {
		n := length - off
		if n > ChunkSize {
			n = ChunkSize
		}
		if err := e.radio.ReadBuffer(bs.StartOffset+uint8(off), chunk[:n]); err != nil {
			return fmt.Errorf("Failed to read buffer at offset %d: %v", off, err)
		}
		e.sink.Write(chunk[:n])
		bytesDrained.Add(float64(n))
	}
	e.sink.Write([]byte("\n"))
	messagesReceived.Inc()

	if err := e.radio.Send(e.reply, TimeoutDisabled, DefaultPreambleLen, true, e.notify); err != nil {
		return fmt.Errorf("Failed to send reply: %v", err)
	}
	repliesSent.Inc()
	return nil
}
