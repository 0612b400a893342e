package mpv

import (
	"bufio"
	"encoding/json"
	"net"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/reelroom/reelroom/media"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeServer answers every IPC line with success and records the commands.
type fakeServer struct {
	ln       net.Listener
	mu       sync.Mutex
	commands [][]interface{}
	conns    []net.Conn
}

func newFakeServer(t *testing.T) (*fakeServer, string) {
	path := filepath.Join(t.TempDir(), "mpv.sock")
	ln, err := net.Listen("unix", path)
	if err != nil {
		t.Fatal(err)
	}

	s := &fakeServer{ln: ln}
	go s.serve()
	return s, path
}

func (s *fakeServer) serve() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		s.mu.Lock()
		s.conns = append(s.conns, conn)
		s.mu.Unlock()

		go func(conn net.Conn) {
			scanner := bufio.NewScanner(conn)
			for scanner.Scan() {
				var req request
				if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
					continue
				}
				s.mu.Lock()
				s.commands = append(s.commands, req.Command)
				s.mu.Unlock()
				_, _ = conn.Write([]byte(`{"event":"idle"}` + "\n" + `{"data":null,"error":"success"}` + "\n"))
			}
		}(conn)
	}
}

func (s *fakeServer) broadcast(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.conns {
		_, _ = c.Write([]byte(line + "\n"))
	}
}

func (s *fakeServer) sent() [][]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]interface{}(nil), s.commands...)
}

func (s *fakeServer) close() {
	_ = s.ln.Close()
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.conns {
		_ = c.Close()
	}
}

func TestSanitizeMediaTarget(t *testing.T) {
	Convey("Given media targets", t, func() {
		Convey("When the target is an http URL", func() {
			out, err := sanitizeMediaTarget("  https://cdn.example.com/a.mp4 ")

			Convey("Then it is accepted trimmed", func() {
				So(err, ShouldBeNil)
				So(out, ShouldEqual, "https://cdn.example.com/a.mp4")
			})
		})

		Convey("When the target is a local path", func() {
			out, err := sanitizeMediaTarget("/videos/../videos/a.mp4")

			Convey("Then it is cleaned", func() {
				So(err, ShouldBeNil)
				So(out, ShouldEqual, filepath.Clean("/videos/a.mp4"))
			})
		})

		Convey("When the target is hostile", func() {
			for _, target := range []string{"", "--script=evil.lua", "file:///etc/passwd", "https://a\nb"} {
				_, err := sanitizeMediaTarget(target)
				So(err, ShouldNotBeNil)
			}
		})
	})
}

func TestArgs(t *testing.T) {
	Convey("Given a preview element", t, func() {
		e := New(Options{
			Title:      "Summer\nDrop",
			Geometry:   "30%",
			Borderless: true,
			Headers:    map[string]string{"Referer": "https://studio.example.com"},
		})
		e.socketPath = "/tmp/reelroom-test.sock"

		Convey("When the command line is built", func() {
			args := strings.Join(e.args(), " ")

			Convey("Then it starts paused and idle on the socket", func() {
				So(args, ShouldContainSubstring, "--input-ipc-server=/tmp/reelroom-test.sock")
				So(args, ShouldContainSubstring, "--pause=yes")
				So(args, ShouldContainSubstring, "--idle=yes")
				So(args, ShouldContainSubstring, "--keep-open=yes")
			})

			Convey("Then window options are applied", func() {
				So(args, ShouldContainSubstring, "--geometry=30%")
				So(args, ShouldContainSubstring, "--no-border")
				So(args, ShouldContainSubstring, "--title=Summer Drop")
				So(args, ShouldContainSubstring, "--http-header-fields=Referer: https://studio.example.com")
			})
		})
	})
}

func TestTranslate(t *testing.T) {
	Convey("Given an element", t, func() {
		e := New(Options{})

		Convey("When pause flips", func() {
			ev, ok := e.translate("pause", false)

			Convey("Then playing is reported and mirrored", func() {
				So(ok, ShouldBeTrue)
				So(ev.Kind, ShouldEqual, media.Playing)
				So(e.Paused(), ShouldBeFalse)
			})
		})

		Convey("When volume and mute change", func() {
			_, _ = e.translate("volume", 40.0)
			ev, ok := e.translate("mute", true)

			Convey("Then both are carried on the event", func() {
				So(ok, ShouldBeTrue)
				So(ev.Kind, ShouldEqual, media.VolumeChange)
				So(ev.Volume, ShouldEqual, 0.4)
				So(ev.Muted, ShouldBeTrue)
			})
		})

		Convey("When ontop changes without a picture-in-picture request", func() {
			_, ok := e.translate("ontop", true)

			Convey("Then it is ignored", func() {
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When a file fails to load", func() {
			ev, ok := e.translate("end-file-error", "loading failed")

			Convey("Then an error event is produced", func() {
				So(ok, ShouldBeTrue)
				So(ev.Kind, ShouldEqual, media.Error)
				So(ev.Err.Error(), ShouldContainSubstring, "loading failed")
			})
		})

		Convey("When the property is unknown or the payload is null", func() {
			_, unknown := e.translate("chapter", 2.0)
			_, null := e.translate("duration", nil)

			Convey("Then nothing is produced", func() {
				So(unknown, ShouldBeFalse)
				So(null, ShouldBeFalse)
			})
		})
	})
}

func TestPickReply(t *testing.T) {
	Convey("Given a read holding an event before the reply", t, func() {
		b := []byte(`{"event":"playback-restart"}` + "\n" + `{"data":12.5,"error":"success"}` + "\n")

		Convey("Then the reply is found", func() {
			r, err := pickReply(b)
			So(err, ShouldBeNil)
			So(r.Data, ShouldEqual, 12.5)
		})
	})

	Convey("Given a read holding only events", t, func() {
		_, err := pickReply([]byte(`{"event":"idle"}`))

		Convey("Then it is an error", func() {
			So(err, ShouldNotBeNil)
		})
	})
}

func TestIPC(t *testing.T) {
	Convey("Given an element connected to a fake mpv", t, func() {
		server, path := newFakeServer(t)
		defer server.close()

		e := New(Options{})
		e.socketPath = path

		Convey("When transport commands are issued", func() {
			So(e.SetVolume(0.5), ShouldBeNil)
			So(e.SetCurrentTime(30), ShouldBeNil)
			So(e.SetLoop(true), ShouldBeNil)

			Convey("Then they reach mpv in mpv units", func() {
				sent := server.sent()
				So(len(sent), ShouldEqual, 3)
				So(sent[0], ShouldResemble, []interface{}{"set_property", "volume", 50.0})
				So(sent[1], ShouldResemble, []interface{}{"seek", 30.0, "absolute"})
				So(sent[2], ShouldResemble, []interface{}{"set_property", "loop-file", "inf"})
			})
		})

		Convey("When the listener receives property changes", func() {
			got := make(chan media.Event, 4)
			e.Subscribe(media.TimeUpdate, func(ev media.Event) { got <- ev })

			l, err := listen(path, e.dispatch)
			So(err, ShouldBeNil)
			defer l.stop()

			// wait for the observe requests to land before broadcasting
			deadline := time.Now().Add(time.Second)
			for len(server.sent()) < len(observed) && time.Now().Before(deadline) {
				time.Sleep(5 * time.Millisecond)
			}
			server.broadcast(`{"event":"property-change","id":1,"name":"time-pos","data":7.5}`)

			Convey("Then they are emitted as media events", func() {
				select {
				case ev := <-got:
					So(ev.Seconds, ShouldEqual, 7.5)
				case <-time.After(time.Second):
					So("timeout", ShouldBeEmpty)
				}
			})
		})
	})
}
