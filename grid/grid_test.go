package grid

import (
	"context"
	"errors"
	"testing"

	"github.com/reelroom/reelroom/key"
	"github.com/reelroom/reelroom/media/mediatest"
	"github.com/reelroom/reelroom/player"
	"github.com/reelroom/reelroom/registry"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func mount(opts Options, ids ...string) (*Coordinator, *registry.Registry, map[string]*mediatest.Element) {
	reg := registry.New()
	g, err := New(registry.WithRegistry(context.Background(), reg), opts)
	So(err, ShouldBeNil)

	els := make(map[string]*mediatest.Element)
	for _, id := range ids {
		el := mediatest.New()
		So(g.Add(id, el), ShouldBeNil)
		els[id] = el
	}
	return g, reg, els
}

func TestHoverPreview(t *testing.T) {
	Convey("Given a grid of three cards", t, func() {
		g, reg, els := mount(Options{}, "a", "b", "c")

		Convey("Then every card is registered, muted and looping", func() {
			So(reg.IDs(), ShouldResemble, []string{HandleID("a"), HandleID("b"), HandleID("c")})
			_, muted := els["a"].Volume()
			So(muted, ShouldBeTrue)
			So(els["a"].Looping(), ShouldBeTrue)
		})

		Convey("When the pointer enters a card", func() {
			els["a"].Tick(12)
			g.PointerEnter("a")

			Convey("Then it plays from the start", func() {
				So(els["a"].Plays(), ShouldEqual, 1)
				So(els["a"].Paused(), ShouldBeFalse)
				So(els["a"].CurrentTime(), ShouldEqual, 0)

				card, _ := g.Card("a")
				So(card.Hovered, ShouldBeTrue)
			})

			Convey("And moves to another card", func() {
				g.PointerLeave("a")
				g.PointerEnter("b")

				Convey("Then only the new card plays", func() {
					So(els["a"].Paused(), ShouldBeTrue)
					So(els["b"].Paused(), ShouldBeFalse)
				})
			})

			Convey("And another card is entered without leaving", func() {
				g.PointerEnter("c")

				Convey("Then the registry pauses the first", func() {
					So(els["a"].Paused(), ShouldBeTrue)
					So(els["c"].Paused(), ShouldBeFalse)

					card, _ := g.Card("a")
					So(card.Hovered, ShouldBeFalse)
				})
			})

			Convey("And another handle of the scope pauses it", func() {
				els["a"].Tick(3)
				reg.PauseAllExcept("elsewhere")

				Convey("Then the card is paused and no longer hovered", func() {
					So(els["a"].Paused(), ShouldBeTrue)

					card, _ := g.Card("a")
					So(card.Hovered, ShouldBeFalse)
					So(card.CurrentTime, ShouldEqual, 0)
				})

				Convey("Then later progress does not move the scrub bar", func() {
					els["a"].Tick(5)
					card, _ := g.Card("a")
					So(card.CurrentTime, ShouldEqual, 0)
				})
			})

			Convey("And the preview reports progress", func() {
				els["a"].Tick(4.5)

				Convey("Then the card scrub position follows", func() {
					card, _ := g.Card("a")
					So(card.CurrentTime, ShouldEqual, 4.5)
				})
			})

			Convey("And the pointer leaves", func() {
				els["a"].Tick(4.5)
				g.PointerLeave("a")

				Convey("Then the preview is paused and rewound", func() {
					So(els["a"].Paused(), ShouldBeTrue)
					So(els["a"].CurrentTime(), ShouldEqual, 0)

					card, _ := g.Card("a")
					So(card.Hovered, ShouldBeFalse)
					So(card.CurrentTime, ShouldEqual, 0)
				})
			})
		})

		Convey("When a card is removed", func() {
			g.Remove("b")
			g.Remove("b")

			Convey("Then it leaves the registry and the grid", func() {
				So(reg.IDs(), ShouldResemble, []string{HandleID("a"), HandleID("c")})
				So(len(g.Cards()), ShouldEqual, 2)
				So(els["b"].Subscribers(), ShouldEqual, 0)
			})
		})

		Convey("When the grid closes", func() {
			g.Close()

			Convey("Then nothing stays registered", func() {
				So(reg.Len(), ShouldEqual, 0)
				So(g.Cards(), ShouldBeEmpty)
			})
		})
	})
}

func TestReducedMotion(t *testing.T) {
	Convey("Given a grid with reduced motion", t, func() {
		g, _, els := mount(Options{ReducedMotion: true}, "a", "b")
		So(els["b"].Play(context.Background()), ShouldBeNil)

		Convey("When a card is hovered and left", func() {
			g.PointerEnter("a")
			hovered, _ := g.Card("a")
			g.PointerLeave("a")

			Convey("Then no playback is requested", func() {
				So(hovered.Hovered, ShouldBeTrue)
				So(els["a"].Plays(), ShouldEqual, 0)
				So(els["a"].Pauses(), ShouldEqual, 0)
				So(els["b"].Paused(), ShouldBeFalse)
			})
		})
	})

	Convey("Given the preference in config", t, func() {
		viper.Set(key.GridReducedMotion, true)
		defer viper.Set(key.GridReducedMotion, false)

		Convey("Then it is detected", func() {
			So(DetectReducedMotion(), ShouldBeTrue)
		})
	})

	Convey("Given the preference in the environment", t, func() {
		t.Setenv("REDUCE_MOTION", "1")

		Convey("Then it is detected", func() {
			So(DetectReducedMotion(), ShouldBeTrue)
		})
	})
}

func TestPreviewFailure(t *testing.T) {
	Convey("Given a card whose preview cannot play", t, func() {
		g, _, els := mount(Options{}, "a")
		els["a"].PlayErr = errors.New("decode error")

		Convey("When it is hovered", func() {
			g.PointerEnter("a")

			Convey("Then it falls back to a static card", func() {
				card, _ := g.Card("a")
				So(card.Failed, ShouldBeTrue)
			})

			Convey("And hovered again", func() {
				g.PointerLeave("a")
				g.PointerEnter("a")

				Convey("Then no further playback is attempted", func() {
					So(els["a"].Plays(), ShouldEqual, 1)
				})
			})
		})
	})

	Convey("Given a card whose preview reports an error", t, func() {
		g, _, els := mount(Options{}, "a")

		Convey("When the error arrives", func() {
			els["a"].Fail(errors.New("network"))

			Convey("Then the card is marked failed", func() {
				card, _ := g.Card("a")
				So(card.Failed, ShouldBeTrue)
			})
		})
	})

	Convey("Given no registry scope", t, func() {
		_, err := New(context.Background(), Options{})

		Convey("Then the grid cannot mount", func() {
			So(errors.Is(err, registry.ErrNoRegistry), ShouldBeTrue)
		})
	})
}

func TestSharedAssetID(t *testing.T) {
	Convey("Given a card and a player for the same asset in one scope", t, func() {
		g, reg, els := mount(Options{}, "x")
		ctx := registry.WithRegistry(context.Background(), reg)

		el := mediatest.New()
		p, err := player.New(ctx, el, player.Options{ID: "x", SourceURL: "https://cdn.example.com/x.mp4"})
		So(err, ShouldBeNil)

		Convey("Then both are registered", func() {
			So(reg.IDs(), ShouldResemble, []string{HandleID("x"), "x"})
		})

		Convey("When the player plays and closes", func() {
			So(p.Play(), ShouldBeNil)
			So(p.Close(), ShouldBeNil)

			Convey("Then the card stays registered", func() {
				So(reg.IDs(), ShouldResemble, []string{HandleID("x")})
			})

			Convey("And the card is hovered before another player plays", func() {
				g.PointerEnter("x")
				So(els["x"].Paused(), ShouldBeFalse)

				other, err := player.New(ctx, mediatest.New(), player.Options{ID: "y", SourceURL: "https://cdn.example.com/y.mp4"})
				So(err, ShouldBeNil)
				So(other.Play(), ShouldBeNil)

				Convey("Then the preview is paused", func() {
					So(els["x"].Paused(), ShouldBeTrue)
				})
			})
		})

		Convey("When the card is mounted again while the player plays", func() {
			So(p.Play(), ShouldBeNil)
			So(g.Add("x", mediatest.New()), ShouldBeNil)

			Convey("Then the player keeps its registration", func() {
				So(reg.IDs(), ShouldResemble, []string{HandleID("x"), "x"})
			})

			Convey("And the card is hovered", func() {
				g.PointerEnter("x")

				Convey("Then the player is paused", func() {
					So(el.Paused(), ShouldBeTrue)
				})
			})
		})
	})
}
