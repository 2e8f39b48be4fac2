package lorapong_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/hatstand/lorapong"
	"github.com/hatstand/lorapong/mocks"
	"go.uber.org/zap"

	. "github.com/smartystreets/goconvey/convey"
)

var rxTimeout = lorapong.TimeoutFor(lorapong.DefaultRxTimeout)

// status builds a GetStatus response byte carrying the given command status.
func status(cs lorapong.CommandStatus) lorapong.DeviceStatus {
	return lorapong.DeviceStatus(byte(cs) << 1)
}

// fill returns a ReadBuffer stand-in that fills the chunk with ch.
func fill(ch byte) func(byte, []byte) error {
	return func(offset byte, p []byte) error {
		for i := range p {
			p[i] = ch
		}
		return nil
	}
}

func WithEngine(t *testing.T, f func(radio *mocks.MockTransceiver, engine *lorapong.Engine, latch *lorapong.Latch, out *bytes.Buffer)) func() {
	return func() {
		mock := gomock.NewController(t)
		defer mock.Finish()
		radio := mocks.NewMockTransceiver(mock)
		latch := lorapong.NewLatch()
		out := &bytes.Buffer{}
		engine := lorapong.NewEngine(radio, latch, nil, zap.NewNop().Sugar(), out)
		f(radio, engine, latch, out)
	}
}

func TestDrainAndReply(t *testing.T) {
	Convey("payload drained in bounded chunks, then reply", t, WithEngine(t, func(radio *mocks.MockTransceiver, engine *lorapong.Engine, latch *lorapong.Latch, out *bytes.Buffer) {
		// 70 bytes starting at offset 5: chunks of 32, 32 and 6.
		gomock.InOrder(
			radio.EXPECT().ClearIrqStatus(uint16(lorapong.IRQ_ALL)).Return(nil),
			radio.EXPECT().Status().Return(status(lorapong.STATUS_DATA_AVAILABLE), nil),
			radio.EXPECT().RxBufferStatus().Return(lorapong.RxBufferStatus{PayloadLength: 70, StartOffset: 5}, nil),
			radio.EXPECT().ReadBuffer(uint8(5), gomock.Any()).DoAndReturn(fill('a')),
			radio.EXPECT().ReadBuffer(uint8(37), gomock.Any()).DoAndReturn(fill('b')),
			radio.EXPECT().ReadBuffer(uint8(69), gomock.Any()).DoAndReturn(fill('c')),
			radio.EXPECT().Send(lorapong.DefaultReply, lorapong.TimeoutDisabled, uint16(lorapong.DefaultPreambleLen), true, gomock.Nil()).Return(nil),
		)

		So(engine.HandleEvent(), ShouldBeNil)
		So(out.String(), ShouldEqual, strings.Repeat("a", 32)+strings.Repeat("b", 32)+strings.Repeat("c", 6)+"\n")
	}))

	Convey("payload of exactly one chunk", t, WithEngine(t, func(radio *mocks.MockTransceiver, engine *lorapong.Engine, latch *lorapong.Latch, out *bytes.Buffer) {
		gomock.InOrder(
			radio.EXPECT().ClearIrqStatus(uint16(lorapong.IRQ_ALL)).Return(nil),
			radio.EXPECT().Status().Return(status(lorapong.STATUS_DATA_AVAILABLE), nil),
			radio.EXPECT().RxBufferStatus().Return(lorapong.RxBufferStatus{PayloadLength: 32, StartOffset: 0}, nil),
			radio.EXPECT().ReadBuffer(uint8(0), gomock.Any()).DoAndReturn(fill('x')),
			radio.EXPECT().Send(lorapong.DefaultReply, lorapong.TimeoutDisabled, uint16(lorapong.DefaultPreambleLen), true, gomock.Nil()).Return(nil),
		)

		So(engine.HandleEvent(), ShouldBeNil)
		So(out.String(), ShouldEqual, strings.Repeat("x", 32)+"\n")
	}))

	Convey("empty payload still gets a reply", t, WithEngine(t, func(radio *mocks.MockTransceiver, engine *lorapong.Engine, latch *lorapong.Latch, out *bytes.Buffer) {
		gomock.InOrder(
			radio.EXPECT().ClearIrqStatus(uint16(lorapong.IRQ_ALL)).Return(nil),
			radio.EXPECT().Status().Return(status(lorapong.STATUS_DATA_AVAILABLE), nil),
			radio.EXPECT().RxBufferStatus().Return(lorapong.RxBufferStatus{PayloadLength: 0, StartOffset: 0}, nil),
			radio.EXPECT().Send(lorapong.DefaultReply, lorapong.TimeoutDisabled, uint16(lorapong.DefaultPreambleLen), true, gomock.Nil()).Return(nil),
		)

		So(engine.HandleEvent(), ShouldBeNil)
		So(out.String(), ShouldEqual, "\n")
	}))
}

func TestDispatch(t *testing.T) {
	Convey("transmit done always re-arms the receiver", t, WithEngine(t, func(radio *mocks.MockTransceiver, engine *lorapong.Engine, latch *lorapong.Latch, out *bytes.Buffer) {
		gomock.InOrder(
			radio.EXPECT().ClearIrqStatus(uint16(lorapong.IRQ_ALL)).Return(nil),
			radio.EXPECT().Status().Return(status(lorapong.STATUS_TX_DONE), nil),
			radio.EXPECT().SetRx(rxTimeout).Return(nil),
		)

		So(engine.HandleEvent(), ShouldBeNil)
	}))

	Convey("command timeout is reported without re-arming", t, WithEngine(t, func(radio *mocks.MockTransceiver, engine *lorapong.Engine, latch *lorapong.Latch, out *bytes.Buffer) {
		gomock.InOrder(
			radio.EXPECT().ClearIrqStatus(uint16(lorapong.IRQ_ALL)).Return(nil),
			radio.EXPECT().Status().Return(status(lorapong.STATUS_COMMAND_TIMEOUT), nil),
		)

		So(engine.HandleEvent(), ShouldBeNil)
		So(out.String(), ShouldBeEmpty)
	}))

	Convey("unclassified status is reported without re-arming", t, WithEngine(t, func(radio *mocks.MockTransceiver, engine *lorapong.Engine, latch *lorapong.Latch, out *bytes.Buffer) {
		gomock.InOrder(
			radio.EXPECT().ClearIrqStatus(uint16(lorapong.IRQ_ALL)).Return(nil),
			radio.EXPECT().Status().Return(status(lorapong.STATUS_PROCESSING_ERROR), nil),
		)

		So(engine.HandleEvent(), ShouldBeNil)
		So(out.String(), ShouldBeEmpty)
	}))

	Convey("scripted event sequence", t, WithEngine(t, func(radio *mocks.MockTransceiver, engine *lorapong.Engine, latch *lorapong.Latch, out *bytes.Buffer) {
		gomock.InOrder(
			// Event 1: payload available; drain and reply.
			radio.EXPECT().ClearIrqStatus(uint16(lorapong.IRQ_ALL)).Return(nil),
			radio.EXPECT().Status().Return(status(lorapong.STATUS_DATA_AVAILABLE), nil),
			radio.EXPECT().RxBufferStatus().Return(lorapong.RxBufferStatus{PayloadLength: 5, StartOffset: 0}, nil),
			radio.EXPECT().ReadBuffer(uint8(0), gomock.Any()).DoAndReturn(func(offset byte, p []byte) error {
				copy(p, "hello")
				return nil
			}),
			radio.EXPECT().Send(lorapong.DefaultReply, lorapong.TimeoutDisabled, uint16(lorapong.DefaultPreambleLen), true, gomock.Nil()).Return(nil),
			// Event 2: transmit done; re-arm.
			radio.EXPECT().ClearIrqStatus(uint16(lorapong.IRQ_ALL)).Return(nil),
			radio.EXPECT().Status().Return(status(lorapong.STATUS_TX_DONE), nil),
			radio.EXPECT().SetRx(rxTimeout).Return(nil),
			// Event 3: command timeout; report only.
			radio.EXPECT().ClearIrqStatus(uint16(lorapong.IRQ_ALL)).Return(nil),
			radio.EXPECT().Status().Return(status(lorapong.STATUS_COMMAND_TIMEOUT), nil),
			// Event 4: unrecognised status; report only.
			radio.EXPECT().ClearIrqStatus(uint16(lorapong.IRQ_ALL)).Return(nil),
			radio.EXPECT().Status().Return(status(lorapong.STATUS_EXECUTION_FAILURE), nil),
		)

		for i := 0; i < 4; i++ {
			So(engine.HandleEvent(), ShouldBeNil)
		}
		So(out.String(), ShouldEqual, "hello\n")
	}))
}

func TestDeviceErrorsAreFatal(t *testing.T) {
	Convey("failing to clear interrupts", t, WithEngine(t, func(radio *mocks.MockTransceiver, engine *lorapong.Engine, latch *lorapong.Latch, out *bytes.Buffer) {
		radio.EXPECT().ClearIrqStatus(uint16(lorapong.IRQ_ALL)).Return(errors.New("spi failure"))

		So(engine.HandleEvent(), ShouldNotBeNil)
	}))

	Convey("failing to read status", t, WithEngine(t, func(radio *mocks.MockTransceiver, engine *lorapong.Engine, latch *lorapong.Latch, out *bytes.Buffer) {
		gomock.InOrder(
			radio.EXPECT().ClearIrqStatus(uint16(lorapong.IRQ_ALL)).Return(nil),
			radio.EXPECT().Status().Return(lorapong.DeviceStatus(0), errors.New("spi failure")),
		)

		So(engine.HandleEvent(), ShouldNotBeNil)
	}))

	Convey("failing to re-arm after transmit", t, WithEngine(t, func(radio *mocks.MockTransceiver, engine *lorapong.Engine, latch *lorapong.Latch, out *bytes.Buffer) {
		gomock.InOrder(
			radio.EXPECT().ClearIrqStatus(uint16(lorapong.IRQ_ALL)).Return(nil),
			radio.EXPECT().Status().Return(status(lorapong.STATUS_TX_DONE), nil),
			radio.EXPECT().SetRx(rxTimeout).Return(errors.New("spi failure")),
		)

		So(engine.HandleEvent(), ShouldNotBeNil)
	}))
}

func TestRun(t *testing.T) {
	Convey("arms the receiver, services latched events and stops on cancel", t, WithEngine(t, func(radio *mocks.MockTransceiver, engine *lorapong.Engine, latch *lorapong.Latch, out *bytes.Buffer) {
		armed := make(chan struct{})
		handled := make(chan struct{})
		gomock.InOrder(
			radio.EXPECT().SetRx(rxTimeout).DoAndReturn(func(t lorapong.Timeout) error {
				close(armed)
				return nil
			}),
			radio.EXPECT().ClearIrqStatus(uint16(lorapong.IRQ_ALL)).Return(nil),
			radio.EXPECT().Status().DoAndReturn(func() (lorapong.DeviceStatus, error) {
				close(handled)
				return status(lorapong.STATUS_COMMAND_TIMEOUT), nil
			}),
		)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		done := make(chan error, 1)
		go func() {
			done <- engine.Run(ctx)
		}()

		<-armed
		latch.Signal()
		<-handled
		cancel()
		So(<-done, ShouldEqual, context.Canceled)
	}))

	Convey("fails fast if the receiver cannot be armed", t, WithEngine(t, func(radio *mocks.MockTransceiver, engine *lorapong.Engine, latch *lorapong.Latch, out *bytes.Buffer) {
		radio.EXPECT().SetRx(rxTimeout).Return(errors.New("spi failure"))

		So(engine.Run(context.Background()), ShouldNotBeNil)
	}))
}
