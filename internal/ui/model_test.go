package ui

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestModel(t *testing.T) {
	Convey("Given a notifier", t, func() {
		m := &Model{}

		Convey("When a playback error is reported", func() {
			msg := NotifyPlaybackError(errors.New("media element reported an error"))()
			cmd := m.Update(msg)

			Convey("Then it is shown with a retry hint and clears later", func() {
				So(cmd, ShouldNotBeNil)
				So(m.Current(), ShouldContainSubstring, "media element reported an error")
				So(m.Current(), ShouldContainSubstring, "r to retry")
				So(m.View("player\ncontrols"), ShouldContainSubstring, "controls  ")
			})

			Convey("And a stale clear arrives after a newer notification", func() {
				m.Update(NotificationMsg("second"))
				m.Update(ClearNotificationMsg{Seq: 1})

				Convey("Then the newer notification stays", func() {
					So(m.Current(), ShouldEqual, "second")
				})
			})

			Convey("And its own clear arrives", func() {
				m.Update(ClearNotificationMsg{Seq: 1})

				Convey("Then nothing is shown", func() {
					So(m.Current(), ShouldBeEmpty)
					So(m.View("player"), ShouldEqual, "player")
				})
			})
		})
	})
}
