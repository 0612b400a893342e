package library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/reelroom/reelroom/filesystem"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

var dirs atomic.Int64

// freshDir keeps each goconvey pass on its own catalog file.
func freshDir() string {
	return fmt.Sprintf("/library/%d", dirs.Add(1))
}

func newTestStore(dir string) *Store {
	s := NewStore(dir)
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	n := 0
	s.now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Hour)
	}
	return s
}

func TestStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty catalog", t, func() {
		dir := freshDir()
		s := newTestStore(dir)

		Convey("When assets are created", func() {
			launch := &Asset{Title: "Spring Launch Teaser", SourceURL: "https://cdn.example.com/teaser.mp4", Stage: Review, Creator: "Northwind"}
			recap := &Asset{Title: "Summer Recap", SourceURL: "https://cdn.example.com/recap.mp4", Stage: Published, Creator: "Contoso"}
			So(s.Create(ctx, launch), ShouldBeNil)
			So(s.Create(ctx, recap), ShouldBeNil)

			Convey("Then ids and timestamps are assigned", func() {
				So(launch.ID, ShouldStartWith, "spring_launch_teaser-")
				So(launch.CreatedAt.IsZero(), ShouldBeFalse)
			})

			Convey("Then they list newest first", func() {
				assets, err := s.List(ctx, Filter{})
				So(err, ShouldBeNil)
				So(len(assets), ShouldEqual, 2)
				So(assets[0].Title, ShouldEqual, "Summer Recap")
			})

			Convey("Then filters narrow the listing", func() {
				byStage, err := s.List(ctx, Filter{Stage: mo.Some(Review)})
				So(err, ShouldBeNil)
				So(len(byStage), ShouldEqual, 1)
				So(byStage[0].ID, ShouldEqual, launch.ID)

				byCreator, err := s.List(ctx, Filter{Creator: "contoso"})
				So(err, ShouldBeNil)
				So(len(byCreator), ShouldEqual, 1)

				byQuery, err := s.List(ctx, Filter{Query: "sprlaunch"})
				So(err, ShouldBeNil)
				So(len(byQuery), ShouldEqual, 1)
				So(byQuery[0].ID, ShouldEqual, launch.ID)
			})

			Convey("And one is updated", func() {
				updated := *launch
				updated.Stage = Approved
				updated.CreatedAt = time.Time{}
				So(s.Update(ctx, &updated), ShouldBeNil)

				Convey("Then the change persists and the creation time is kept", func() {
					got, err := s.Get(ctx, launch.ID)
					So(err, ShouldBeNil)
					So(got.Stage, ShouldEqual, Approved)
					So(got.CreatedAt.Equal(launch.CreatedAt), ShouldBeTrue)
				})
			})

			Convey("And one is deleted", func() {
				So(s.Delete(ctx, recap.ID), ShouldBeNil)

				Convey("Then it is gone", func() {
					_, err := s.Get(ctx, recap.ID)
					So(errors.Is(err, ErrNotFound), ShouldBeTrue)
					So(errors.Is(s.Delete(ctx, recap.ID), ErrNotFound), ShouldBeTrue)
				})
			})

			Convey("And the catalog is reopened", func() {
				reopened := NewStore(dir)

				Convey("Then the assets are still there", func() {
					got, err := reopened.Get(ctx, launch.ID)
					So(err, ShouldBeNil)
					So(got.Title, ShouldEqual, launch.Title)
				})
			})

			Convey("And an id is reused", func() {
				err := s.Create(ctx, &Asset{ID: launch.ID, Title: "Copy", SourceURL: "/tmp/copy.mp4"})

				Convey("Then creation fails", func() {
					So(errors.Is(err, ErrDuplicateID), ShouldBeTrue)
				})
			})
		})

		Convey("When an asset has no source", func() {
			err := s.Create(ctx, &Asset{Title: "Untitled"})

			Convey("Then it is rejected", func() {
				So(errors.Is(err, ErrInvalidAsset), ShouldBeTrue)
			})
		})

		Convey("When updating an unknown asset", func() {
			err := s.Update(ctx, &Asset{ID: "ghost", Title: "Ghost", SourceURL: "/tmp/ghost.mp4"})

			Convey("Then it is not found", func() {
				So(errors.Is(err, ErrNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestResolve(t *testing.T) {
	ctx := context.Background()

	Convey("Given a catalog with similar titles", t, func() {
		s := newTestStore(freshDir())
		for _, title := range []string{"Holiday Campaign Cut", "Holiday Campaign Cutdown 15s", "Product Demo"} {
			So(s.Create(ctx, &Asset{ID: NewID(title), Title: title, SourceURL: "https://cdn.example.com/x.mp4"}), ShouldBeNil)
		}

		Convey("When resolving by id", func() {
			all, _ := s.List(ctx, Filter{})
			got, err := Resolve(ctx, s, all[0].ID)

			Convey("Then the exact asset is returned", func() {
				So(err, ShouldBeNil)
				So(got.ID, ShouldEqual, all[0].ID)
			})
		})

		Convey("When resolving by title", func() {
			got, err := Resolve(ctx, s, "holiday campaign cut")

			Convey("Then the closest title wins", func() {
				So(err, ShouldBeNil)
				So(got.Title, ShouldEqual, "Holiday Campaign Cut")
			})
		})

		Convey("When nothing matches", func() {
			_, err := Resolve(ctx, s, "zzz")

			Convey("Then it is not found", func() {
				So(errors.Is(err, ErrNotFound), ShouldBeTrue)
			})
		})
	})

	Convey("Media references are recognized", t, func() {
		So(IsMediaRef("https://cdn.example.com/a.mp4"), ShouldBeTrue)
		So(IsMediaRef("/videos/a.mp4"), ShouldBeTrue)
		So(IsMediaRef("holiday-cut-a1b2c3"), ShouldBeFalse)
	})
}

func TestStage(t *testing.T) {
	Convey("Given stage names", t, func() {
		Convey("Then they round trip through JSON", func() {
			b, err := json.Marshal(Asset{Title: "a", SourceURL: "b", Stage: Published})
			So(err, ShouldBeNil)
			So(string(b), ShouldContainSubstring, `"stage":"published"`)

			var a Asset
			So(json.Unmarshal(b, &a), ShouldBeNil)
			So(a.Stage, ShouldEqual, Published)
		})

		Convey("Then parsing is case-insensitive and strict", func() {
			s, err := ParseStage(" Approved ")
			So(err, ShouldBeNil)
			So(s, ShouldEqual, Approved)

			_, err = ParseStage("shipped")
			So(err, ShouldNotBeNil)
		})

		Convey("Then the schema lists them as an enum", func() {
			schema := new(jsonschema.Reflector).Reflect(&Asset{})
			b, err := json.Marshal(schema)
			So(err, ShouldBeNil)
			So(string(b), ShouldContainSubstring, `"archived"`)
		})
	})
}
