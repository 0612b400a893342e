package open

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCommand(t *testing.T) {
	Convey("Given a poster URL", t, func() {
		target := "https://cdn.example.com/poster.jpg?w=640&h=360"

		Convey("Then linux uses xdg-open or the chosen app", func() {
			cmd, err := Command("linux", target, "")
			So(err, ShouldBeNil)
			So(cmd.Args, ShouldResemble, []string{"xdg-open", target})

			cmd, err = Command("linux", target, "feh")
			So(err, ShouldBeNil)
			So(cmd.Args, ShouldResemble, []string{"feh", target})
		})

		Convey("Then darwin passes the app with -a", func() {
			cmd, err := Command("darwin", target, "Preview")
			So(err, ShouldBeNil)
			So(cmd.Args, ShouldResemble, []string{"open", "-a", "Preview", target})
		})

		Convey("Then windows escapes ampersands for start", func() {
			cmd, err := Command("windows", target, "mspaint")
			So(err, ShouldBeNil)
			So(cmd.Args[len(cmd.Args)-1], ShouldEqual, "https://cdn.example.com/poster.jpg?w=640^&h=360")
		})

		Convey("Then unknown platforms are refused", func() {
			_, err := Command("plan9", target, "")
			So(err, ShouldNotBeNil)
		})
	})
}
