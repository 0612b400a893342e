package query

import (
	"testing"

	"github.com/reelroom/reelroom/filesystem"
	"github.com/reelroom/reelroom/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestQuery(t *testing.T) {
	Convey("Given remembered play references", t, func() {
		viper.Set(key.LibrarySuggestions, true)

		So(Remember("Holiday Campaign Cut", 1), ShouldBeNil)
		So(Remember("holiday recap", 10), ShouldBeNil)
		So(Remember("   ", 5), ShouldBeNil)

		Convey("Then suggestions are ranked highest first", func() {
			s := SuggestMany("holiday")
			So(len(s), ShouldBeGreaterThanOrEqualTo, 2)
			So(s[0], ShouldEqual, "holiday recap")
			So(Suggest("hcut").OrEmpty(), ShouldEqual, "holiday campaign cut")
		})

		Convey("Then remembering again refreshes suggestions", func() {
			_ = SuggestMany("holiday")
			So(Remember("holiday campaign cut", 100), ShouldBeNil)
			So(SuggestMany("holiday")[0], ShouldEqual, "holiday campaign cut")
		})

		Convey("Then blank input is never stored", func() {
			So(SuggestMany(""), ShouldNotContain, "")
		})

		Convey("Then disabling suggestions hides them", func() {
			viper.Set(key.LibrarySuggestions, false)
			So(SuggestMany("holiday"), ShouldBeEmpty)
		})
	})
}
