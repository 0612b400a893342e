package icon

import (
	"testing"

	"github.com/reelroom/reelroom/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestGet(t *testing.T) {
	Convey("Given the transport icons", t, func() {
		targets := []Icon{Play, Pause, Buffering, Ended, Fail, Retry}

		Convey("They render for each variant", func() {
			for _, variant := range AvailableVariants() {
				Convey("variant="+variant, func() {
					viper.Set(key.IconsVariant, variant)
					for _, target := range targets {
						So(Get(target), ShouldNotBeEmpty)
					}
				})
			}
		})

		Convey("They render empty for an unknown variant", func() {
			viper.Set(key.IconsVariant, "")
			So(Get(Play), ShouldBeEmpty)
		})
	})

	Convey("Every icon has a definition", t, func() {
		for i := Success; i <= Asset; i++ {
			So(icons[i], ShouldNotBeNil)
		}
	})
}
