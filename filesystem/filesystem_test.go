package filesystem

import (
	"os"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestBackend(t *testing.T) {
	Convey("Given the filesystem backend", t, func() {
		Convey("When switched to the OS", func() {
			SetOsFs()

			Convey("Then it reports OsFs", func() {
				So(API().Name(), ShouldEqual, "OsFs")
			})
		})

		Convey("When switched to memory", func() {
			SetMemMapFs()

			Convey("Then gache writes land in memory", func() {
				fs := GacheFs{}
				So(fs.MkdirAll("/cache", os.ModePerm), ShouldBeNil)

				f, err := fs.OpenFile("/cache/catalog.json", os.O_CREATE|os.O_WRONLY, 0o644)
				So(err, ShouldBeNil)
				_, err = f.Write([]byte("{}"))
				So(err, ShouldBeNil)
				So(f.Close(), ShouldBeNil)

				exists, err := API().Exists("/cache/catalog.json")
				So(err, ShouldBeNil)
				So(exists, ShouldBeTrue)
				So(API().Name(), ShouldEqual, "MemMapFS")
			})
		})
	})
}
