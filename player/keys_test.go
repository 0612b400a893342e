package player

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestKeyboardShortcuts(t *testing.T) {
	Convey("Given a player listening on a keyboard", t, func() {
		f := newFixture()
		kb := NewKeyboard()
		p, el := f.mount("a", Options{Document: kb})
		el.Duration(200)

		Convey("When space is pressed twice", func() {
			So(kb.Dispatch(" "), ShouldBeTrue)
			playing := p.State().Phase
			So(kb.Dispatch("k"), ShouldBeTrue)

			Convey("Then playback toggles", func() {
				So(playing, ShouldEqual, Playing)
				So(p.State().Phase, ShouldEqual, Paused)
			})
		})

		Convey("When the arrow keys are pressed", func() {
			el.Tick(50)
			kb.Dispatch("right")
			forward := p.State().CurrentTime
			kb.Dispatch("j")
			kb.Dispatch("j")
			kb.Dispatch("down")

			Convey("Then position and volume move by one step", func() {
				So(forward, ShouldEqual, 50+DefaultSeekStep)
				So(p.State().CurrentTime, ShouldEqual, 50-DefaultSeekStep)
				So(p.State().Volume, ShouldEqual, 0.95)
			})
		})

		Convey("When a digit is pressed", func() {
			kb.Dispatch("3")

			Convey("Then the player jumps to that tenth", func() {
				So(p.State().CurrentTime, ShouldEqual, 60)
			})
		})

		Convey("When m and f are pressed", func() {
			kb.Dispatch("m")
			kb.Dispatch("f")

			Convey("Then the player is muted and fullscreen", func() {
				So(p.State().Muted, ShouldBeTrue)
				So(p.State().Fullscreen, ShouldBeTrue)
			})

			Convey("And escape is pressed", func() {
				So(kb.Dispatch("esc"), ShouldBeTrue)

				Convey("Then fullscreen is left", func() {
					So(p.State().Fullscreen, ShouldBeFalse)
				})
			})
		})

		Convey("When escape is pressed outside fullscreen", func() {
			Convey("Then the key is not consumed", func() {
				So(kb.Dispatch("esc"), ShouldBeFalse)
			})
		})

		Convey("When an unbound key is pressed", func() {
			Convey("Then it is not consumed", func() {
				So(kb.Dispatch("x"), ShouldBeFalse)
			})
		})

		Convey("When the player closes", func() {
			So(p.Close(), ShouldBeNil)

			Convey("Then its listener is removed", func() {
				So(kb.Listeners(), ShouldEqual, 0)
				So(kb.Dispatch(" "), ShouldBeFalse)
			})
		})
	})
}
