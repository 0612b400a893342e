package history

import (
	"testing"

	"github.com/reelroom/reelroom/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestHistory(t *testing.T) {
	Convey("Given an asset watched part way", t, func() {
		So(Save("teaser-1a2b3c", "Spring Launch Teaser", 42, 120), ShouldBeNil)

		Convey("Then it can be resumed", func() {
			pos, ok := Resume("teaser-1a2b3c").Get()
			So(ok, ShouldBeTrue)
			So(pos, ShouldEqual, 42)
		})

		Convey("When it is watched to the end", func() {
			So(Save("teaser-1a2b3c", "Spring Launch Teaser", 119, 120), ShouldBeNil)

			Convey("Then there is nothing to resume", func() {
				So(Resume("teaser-1a2b3c").IsPresent(), ShouldBeFalse)
			})
		})

		Convey("When it is removed", func() {
			So(Remove("teaser-1a2b3c"), ShouldBeNil)

			Convey("Then it is forgotten", func() {
				entries, err := Get()
				So(err, ShouldBeNil)
				So(entries, ShouldNotContainKey, "teaser-1a2b3c")
			})
		})
	})

	Convey("Given an asset barely started", t, func() {
		So(Save("demo-ffffff", "Product Demo", 2, 60), ShouldBeNil)

		Convey("Then it starts from the beginning", func() {
			So(Resume("demo-ffffff").IsPresent(), ShouldBeFalse)
		})
	})
}
