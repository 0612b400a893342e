package version

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/reelroom/reelroom/filesystem"
	"github.com/reelroom/reelroom/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestCompare(t *testing.T) {
	Convey("Given release tags", t, func() {
		Convey("When they are compared", func() {
			for _, tc := range []struct {
				a, b string
				want int
			}{
				{"0.3.1", "0.3.1", 0},
				{"v1.0.0", "0.9.9", 1},
				{"0.3.1", "0.10.0", -1},
				{"0.4", "0.4.0", 0},
				{"0.4.0+build.7", "0.4.0", 0},
				{"0.4.0", "0.4.0-rc.1", 1},
				{"0.4.0-rc.1", "0.4.0-rc.2", -1},
			} {
				got, err := Compare(tc.a, tc.b)
				So(err, ShouldBeNil)
				So(got, ShouldEqual, tc.want)
			}
		})

		Convey("When a tag is malformed", func() {
			for _, tag := range []string{"latest", "", "1.2.3.4", "1.-2.0"} {
				_, err := Parse(tag)
				So(errors.Is(err, ErrMalformed), ShouldBeTrue)
			}
		})

		Convey("When a tag is parsed", func() {
			r, err := Parse(" v1.2.0-rc.1 ")
			So(err, ShouldBeNil)

			Convey("Then it prints without the prefix", func() {
				So(r.String(), ShouldEqual, "1.2.0-rc.1")
				So(r.Stable(), ShouldBeFalse)
			})
		})
	})

	Convey("Given a newer release", t, func() {
		Convey("Then stable users are offered stable releases only", func() {
			So(Upgrade("0.4.0", "0.3.1"), ShouldBeTrue)
			So(Upgrade("0.4.0-rc.1", "0.3.1"), ShouldBeFalse)
			So(Upgrade("0.3.1", "0.3.1"), ShouldBeFalse)
		})

		Convey("Then pre-release users are offered the next pre-release", func() {
			So(Upgrade("0.4.0-rc.2", "0.4.0-rc.1"), ShouldBeTrue)
			So(Upgrade("0.4.0", "0.4.0-rc.2"), ShouldBeTrue)
		})

		Convey("Then unparsable tags are never offered", func() {
			So(Upgrade("nightly", "0.3.1"), ShouldBeFalse)
		})
	})
}

func TestLatest(t *testing.T) {
	ctx := context.Background()

	Convey("Given a release endpoint", t, func() {
		filesystem.SetMemMapFs()
		hits := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits++
			_, _ = w.Write([]byte(`{"tag_name":"v9.9.9"}`))
		}))
		defer srv.Close()

		prev := ReleasesURL
		ReleasesURL = srv.URL
		defer func() { ReleasesURL = prev }()

		Convey("When the latest version is requested twice", func() {
			first, err := Latest(ctx)
			So(err, ShouldBeNil)
			second, err := Latest(ctx)
			So(err, ShouldBeNil)

			Convey("Then the tag is trimmed and the second answer is cached", func() {
				So(first, ShouldEqual, "9.9.9")
				So(second, ShouldEqual, "9.9.9")
				So(hits, ShouldEqual, 1)
			})
		})

		Convey("When version checks are enabled", func() {
			viper.Set(key.CliVersionCheck, true)
			defer viper.Set(key.CliVersionCheck, false)

			var out bytes.Buffer
			Notify(ctx, &out)

			Convey("Then the newer release is announced", func() {
				So(out.String(), ShouldContainSubstring, "9.9.9")
			})
		})
	})
}
