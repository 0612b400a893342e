package mpv

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/reelroom/reelroom/log"
	"github.com/reelroom/reelroom/media"
)

// observed lists the mpv properties mirrored into media events.
var observed = []string{
	"time-pos",
	"duration",
	"pause",
	"eof-reached",
	"paused-for-cache",
	"cache-buffering-state",
	"volume",
	"mute",
	"speed",
	"ontop",
}

// listener owns the persistent IPC connection that receives property
// change notifications. mpv scopes observe_property to the connection that
// issued it, so observation and reading share one socket.
type listener struct {
	conn net.Conn
	emit func(name string, data interface{})
	done chan struct{}
	once sync.Once
}

func listen(socketPath string, emit func(name string, data interface{})) (*listener, error) {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("event listener connect: %w", err)
	}

	enc := json.NewEncoder(conn)
	for i, name := range observed {
		if err := enc.Encode(request{Command: []interface{}{"observe_property", i + 1, name}}); err != nil {
			conn.Close()
			return nil, fmt.Errorf("observe %s: %w", name, err)
		}
	}

	l := &listener{conn: conn, emit: emit, done: make(chan struct{})}
	go l.readLoop()

	log.Debugf("mpv: observing %d properties on %s", len(observed), socketPath)
	return l, nil
}

func (l *listener) stop() {
	l.once.Do(func() {
		_ = l.conn.Close()
	})
	<-l.done
}

// readLoop dispatches newline-delimited events until the connection closes.
func (l *listener) readLoop() {
	defer close(l.done)

	scanner := bufio.NewScanner(l.conn)
	scanner.Buffer(make([]byte, replyBufSize), 1<<20)

	for scanner.Scan() {
		var msg struct {
			Event  string      `json:"event"`
			Name   string      `json:"name"`
			Data   interface{} `json:"data"`
			Reason string      `json:"reason"`
			Error  string      `json:"file_error"`
		}
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			continue
		}

		switch msg.Event {
		case "":
			// command reply
		case "property-change":
			l.emit(msg.Name, msg.Data)
		case "end-file":
			if msg.Reason == "error" {
				l.emit("end-file-error", msg.Error)
			}
		default:
			l.emit(msg.Event, nil)
		}
	}

	if err := scanner.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		log.Warnf("mpv: event listener: %v", err)
	}
}

// translate maps one mpv notification to a media event, updating the
// element's mirrored transport values on the way.
func (e *Element) translate(name string, data interface{}) (media.Event, bool) {
	e.stateMu.Lock()
	defer e.stateMu.Unlock()

	switch name {
	case "time-pos":
		if v, ok := data.(float64); ok {
			return media.Event{Kind: media.TimeUpdate, Seconds: v}, true
		}
	case "duration":
		if v, ok := data.(float64); ok {
			return media.Event{Kind: media.DurationChange, Seconds: v}, true
		}
	case "pause":
		if v, ok := data.(bool); ok {
			e.paused = v
			if v {
				return media.Event{Kind: media.Paused}, true
			}
			return media.Event{Kind: media.Playing}, true
		}
	case "eof-reached":
		if v, ok := data.(bool); ok && v {
			e.paused = true
			return media.Event{Kind: media.Ended}, true
		}
	case "paused-for-cache":
		if v, ok := data.(bool); ok {
			if v {
				return media.Event{Kind: media.Waiting}, true
			}
			return media.Event{Kind: media.CanPlay}, true
		}
	case "cache-buffering-state":
		if v, ok := data.(float64); ok {
			return media.Event{Kind: media.Progress, BufferedPercent: v}, true
		}
	case "volume":
		if v, ok := data.(float64); ok {
			e.volume = v / 100
			return media.Event{Kind: media.VolumeChange, Volume: e.volume, Muted: e.muted}, true
		}
	case "mute":
		if v, ok := data.(bool); ok {
			e.muted = v
			return media.Event{Kind: media.VolumeChange, Volume: e.volume, Muted: e.muted}, true
		}
	case "speed":
		if v, ok := data.(float64); ok {
			return media.Event{Kind: media.RateChange, Rate: v}, true
		}
	case "ontop":
		if v, ok := data.(bool); ok && e.pipRequested {
			if v {
				return media.Event{Kind: media.EnterPictureInPicture}, true
			}
			e.pipRequested = false
			return media.Event{Kind: media.LeavePictureInPicture}, true
		}
	case "file-loaded":
		return media.Event{Kind: media.CanPlay}, true
	case "end-file-error":
		msg, _ := data.(string)
		if msg == "" {
			msg = "unknown error"
		}
		return media.Event{Kind: media.Error, Err: fmt.Errorf("mpv: %s", msg)}, true
	}

	return media.Event{}, false
}
