package log

import (
	"bytes"
	"testing"

	"github.com/reelroom/reelroom/filesystem"
	"github.com/reelroom/reelroom/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestLogging(t *testing.T) {
	Convey("Given logging is disabled", t, func() {
		var buf bytes.Buffer
		configure(&buf, false, "trace")
		viper.Set(key.LogsWrite, false)
		So(Setup(), ShouldBeNil)

		Convey("When messages are logged", func() {
			Warnf("dropped %d", 1)

			Convey("Then nothing is written", func() {
				So(buf.Len(), ShouldEqual, 0)
			})
		})
	})

	Convey("Given logging to a buffer in JSON", t, func() {
		var buf bytes.Buffer
		configure(&buf, true, "debug")
		defer enabled.Store(false)

		Convey("When an entry with fields is logged", func() {
			With(Fields{"player": "asset-42"}).Warnf("fullscreen: %s", "denied")

			Convey("Then the fields and message are written", func() {
				So(buf.String(), ShouldContainSubstring, `"player":"asset-42"`)
				So(buf.String(), ShouldContainSubstring, "fullscreen: denied")
				So(buf.String(), ShouldContainSubstring, `"level":"warning"`)
			})
		})

		Convey("When a message is below the level", func() {
			configure(&buf, true, "error")
			Infof("quiet")

			Convey("Then it is dropped", func() {
				So(buf.String(), ShouldNotContainSubstring, "quiet")
			})
		})
	})

	Convey("Given logs.write is enabled", t, func() {
		viper.Set(key.LogsWrite, true)
		defer viper.Set(key.LogsWrite, false)
		defer enabled.Store(false)

		Convey("Then setup creates the log file", func() {
			So(Setup(), ShouldBeNil)
			So(enabled.Load(), ShouldBeTrue)
		})
	})
}
