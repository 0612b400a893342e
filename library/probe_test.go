package library

import (
	"bytes"
	"testing"

	"github.com/Eyevinn/mp4ff/mp4"
	"github.com/reelroom/reelroom/filesystem"
	"github.com/spf13/afero"
	. "github.com/smartystreets/goconvey/convey"
)

func encodedInit(durationMs uint64) []byte {
	init := mp4.CreateEmptyInit()
	init.AddEmptyTrack(90000, "video", "und")
	init.Moov.Mvhd.Timescale = 1000
	init.Moov.Mvhd.Duration = durationMs
	init.Moov.Trak.Tkhd.Width = mp4.Fixed32(1920 << 16)
	init.Moov.Trak.Tkhd.Height = mp4.Fixed32(1080 << 16)

	var buf bytes.Buffer
	if err := init.Encode(&buf); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func TestProbe(t *testing.T) {
	Convey("Given an MP4 header", t, func() {
		data := encodedInit(12_500)

		Convey("Then duration and size are read", func() {
			info, err := ProbeMP4(bytes.NewReader(data))
			So(err, ShouldBeNil)
			So(info.Duration, ShouldAlmostEqual, 12.5)
			So(info.Width, ShouldEqual, 1920)
			So(info.Height, ShouldEqual, 1080)
		})

		Convey("Then a local file is probed through the filesystem", func() {
			So(afero.WriteFile(filesystem.API(), "/renders/teaser.mp4", data, 0o644), ShouldBeNil)
			info, err := ProbeFile("/renders/teaser.mp4")
			So(err, ShouldBeNil)
			So(info.Width, ShouldEqual, 1920)
		})
	})

	Convey("Garbage is rejected", t, func() {
		_, err := ProbeMP4(bytes.NewReader([]byte("not a movie")))
		So(err, ShouldNotBeNil)
	})

	Convey("Only local MP4 files are probeable", t, func() {
		So(Probeable("/renders/teaser.mp4"), ShouldBeTrue)
		So(Probeable("./cuts/Final.MOV"), ShouldBeTrue)
		So(Probeable("https://cdn.example.com/teaser.mp4"), ShouldBeFalse)
		So(Probeable("/renders/teaser.webm"), ShouldBeFalse)
	})
}
