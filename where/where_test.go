package where

import (
	"path/filepath"
	"testing"

	"github.com/reelroom/reelroom/filesystem"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestPaths(t *testing.T) {
	Convey("Given the path resolvers", t, func() {
		for name, resolve := range map[string]func() string{
			"config":  Config,
			"cache":   Cache,
			"logs":    Logs,
			"library": Library,
			"temp":    Temp,
		} {
			Convey("Then "+name+" is an existing directory", func() {
				path := resolve()
				So(path, ShouldNotBeEmpty)
				So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
			})
		}
	})

	Convey("Given a config path override", t, func() {
		custom := filepath.Join("/", "opt", "reelroom-test")
		t.Setenv(EnvConfigPath, custom)

		Convey("Then config and its children follow it", func() {
			So(Config(), ShouldEqual, custom)
			So(Library(), ShouldEqual, filepath.Join(custom, "library"))
		})
	})
}
