package lorapong_test

import (
	"testing"

	"github.com/hatstand/lorapong"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLatch(t *testing.T) {
	Convey("starts clear", t, func() {
		latch := lorapong.NewLatch()
		So(latch.Take(), ShouldBeFalse)
	})

	Convey("a signal is observed exactly once", t, func() {
		latch := lorapong.NewLatch()
		latch.Signal()
		So(latch.Take(), ShouldBeTrue)
		So(latch.Take(), ShouldBeFalse)
		So(latch.Take(), ShouldBeFalse)
	})

	Convey("signals before a take coalesce into one observation", t, func() {
		latch := lorapong.NewLatch()
		latch.Signal()
		latch.Signal()
		So(latch.Take(), ShouldBeTrue)
		So(latch.Take(), ShouldBeFalse)
	})

	Convey("re-signalling after a take is observed again", t, func() {
		latch := lorapong.NewLatch()
		latch.Signal()
		So(latch.Take(), ShouldBeTrue)
		latch.Signal()
		So(latch.Take(), ShouldBeTrue)
	})
}
