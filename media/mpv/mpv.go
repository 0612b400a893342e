// Package mpv implements media.Element on top of an mpv process driven
// through its JSON-IPC socket.
package mpv

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/reelroom/reelroom/constant"
	"github.com/reelroom/reelroom/filesystem"
	"github.com/reelroom/reelroom/log"
	"github.com/reelroom/reelroom/media"
	"github.com/reelroom/reelroom/where"
	"github.com/spf13/afero"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
	quitTimeout       = 3 * time.Second

	// pipScale is the window scale used to emulate picture-in-picture.
	pipScale = 0.4
)

// ErrReleased is returned by commands issued after Release.
var ErrReleased = errors.New("mpv element released")

// Options configures the mpv window backing an Element.
type Options struct {
	// Binary defaults to "mpv" on PATH.
	Binary  string
	Title   string
	Headers map[string]string

	// Geometry is passed through as --geometry, e.g. "30%" for previews.
	Geometry string

	// Borderless hides window decorations and the on-screen controller.
	Borderless bool
}

// Element is a media.Element backed by one mpv process. The process is
// started lazily on the first Load.
type Element struct {
	media.Emitter

	opts Options

	// ipcMu serializes socket writes.
	ipcMu sync.Mutex

	procMu     sync.Mutex
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{}
	events     *listener
	released   bool

	stateMu      sync.Mutex
	paused       bool
	volume       float64
	muted        bool
	pipRequested bool
}

// New creates an Element without starting mpv.
func New(opts Options) *Element {
	if opts.Binary == "" {
		opts.Binary = "mpv"
	}
	return &Element{
		opts:   opts,
		paused: true,
		volume: 1,
		exited: make(chan struct{}),
	}
}

const socketExt = ".sock"

// Sockets lists the IPC sockets of mpv processes started by this app.
// Sockets of processes that did not exit cleanly stay behind until the
// temp directory is cleared.
func Sockets() ([]string, error) {
	return afero.Glob(filesystem.API(), filepath.Join(where.Temp(), constant.App+"-*"+socketExt))
}

// Available reports whether the mpv binary can be found.
func Available(binary string) bool {
	if binary == "" {
		binary = "mpv"
	}
	_, err := exec.LookPath(binary)
	return err == nil
}

// args builds the mpv command line. Only the socket, window and title are
// set; decoding and output follow the user's mpv.conf.
func (e *Element) args() []string {
	title := sanitizeTitle(e.opts.Title)
	args := []string{
		"--no-terminal",
		"--really-quiet",
		fmt.Sprintf("--input-ipc-server=%s", e.socketPath),
		"--idle=yes",
		"--pause=yes",
		"--keep-open=yes",
		"--force-window=yes",
	}

	if title != "" {
		args = append(args, fmt.Sprintf("--force-media-title=%s", title), fmt.Sprintf("--title=%s", title))
	}

	if e.opts.Geometry != "" {
		args = append(args, fmt.Sprintf("--geometry=%s", e.opts.Geometry))
	}

	if e.opts.Borderless {
		args = append(args, "--no-border", "--osc=no")
	}

	if header := headerFields(e.opts.Headers); header != "" {
		args = append(args, fmt.Sprintf("--http-header-fields=%s", header))
	}

	return args
}

// start launches mpv and attaches the event listener.
func (e *Element) start() error {
	e.procMu.Lock()
	defer e.procMu.Unlock()

	if e.released {
		return ErrReleased
	}
	if e.cmd != nil && e.running() {
		return nil
	}

	if e.socketPath == "" {
		suffix := make([]byte, 4)
		if _, err := rand.Read(suffix); err != nil {
			return fmt.Errorf("generate socket name: %w", err)
		}
		e.socketPath = filepath.Join(where.Temp(), fmt.Sprintf("%s-%x%s", constant.App, suffix, socketExt))
	}

	e.cmd = exec.Command(e.opts.Binary, e.args()...)
	e.cmd.SysProcAttr = detached()
	e.cmd.Stdout = nil
	e.cmd.Stderr = nil
	e.cmd.Stdin = nil

	if err := e.cmd.Start(); err != nil {
		return fmt.Errorf("start mpv: %w", err)
	}

	exited := make(chan struct{})
	e.exited = exited
	cmd := e.cmd
	go func() {
		_ = cmd.Wait()
		close(exited)
	}()

	if err := e.waitForSocket(); err != nil {
		select {
		case <-exited:
		default:
			log.Warnf("mpv: killing process, socket never became ready")
			_ = killGroup(cmd)
		}
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	events, err := listen(e.socketPath, e.dispatch)
	if err != nil {
		_ = killGroup(cmd)
		return err
	}
	e.events = events

	log.Infof("mpv: started pid %d on %s", cmd.Process.Pid, e.socketPath)
	return nil
}

func (e *Element) running() bool {
	select {
	case <-e.exited:
		return false
	default:
		return true
	}
}

// waitForSocket polls until the IPC socket accepts connections.
func (e *Element) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-e.exited:
			return fmt.Errorf("mpv exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", e.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", e.socketPath, socketWaitRetries)
}

func (e *Element) dispatch(name string, data interface{}) {
	if ev, ok := e.translate(name, data); ok {
		e.Emit(ev)
	}
}

// Exited returns a channel closed when the mpv process ends.
func (e *Element) Exited() <-chan struct{} {
	e.procMu.Lock()
	defer e.procMu.Unlock()
	return e.exited
}

func (e *Element) Load(ctx context.Context, src string) error {
	target, err := sanitizeMediaTarget(src)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := e.start(); err != nil {
		return err
	}

	if _, err := e.command("loadfile", target, "replace"); err != nil {
		return err
	}

	e.stateMu.Lock()
	e.paused = true
	e.stateMu.Unlock()

	return e.set("pause", true)
}

func (e *Element) Play(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := e.set("pause", false); err != nil {
		return err
	}

	e.stateMu.Lock()
	e.paused = false
	e.stateMu.Unlock()
	return nil
}

func (e *Element) Pause() error {
	if err := e.set("pause", true); err != nil {
		return err
	}

	e.stateMu.Lock()
	e.paused = true
	e.stateMu.Unlock()
	return nil
}

func (e *Element) Paused() bool {
	e.stateMu.Lock()
	defer e.stateMu.Unlock()
	return e.paused
}

func (e *Element) SetCurrentTime(seconds float64) error {
	_, err := e.command("seek", seconds, "absolute")
	return err
}

func (e *Element) SetVolume(volume float64) error {
	return e.set("volume", volume*100)
}

func (e *Element) SetMuted(muted bool) error {
	return e.set("mute", muted)
}

func (e *Element) SetPlaybackRate(rate float64) error {
	return e.set("speed", rate)
}

func (e *Element) SetLoop(loop bool) error {
	if loop {
		return e.set("loop-file", "inf")
	}
	return e.set("loop-file", "no")
}

func (e *Element) RequestFullscreen() error {
	return e.set("fullscreen", true)
}

func (e *Element) ExitFullscreen() error {
	return e.set("fullscreen", false)
}

// RequestPictureInPicture emulates picture-in-picture with a shrunken,
// always-on-top window.
func (e *Element) RequestPictureInPicture() error {
	e.stateMu.Lock()
	e.pipRequested = true
	e.stateMu.Unlock()

	if err := e.set("window-scale", pipScale); err != nil {
		return err
	}
	return e.set("ontop", true)
}

func (e *Element) ExitPictureInPicture() error {
	if err := e.set("ontop", false); err != nil {
		return err
	}
	return e.set("window-scale", 1.0)
}

// Release quits mpv, killing it if it does not exit in time, and removes
// the socket file.
func (e *Element) Release() error {
	e.procMu.Lock()
	if e.released {
		e.procMu.Unlock()
		return nil
	}
	e.released = true
	cmd, exited, events := e.cmd, e.exited, e.events
	e.procMu.Unlock()

	if cmd == nil {
		return nil
	}

	_, _ = e.command("quit")

	select {
	case <-exited:
	case <-time.After(quitTimeout):
		_ = killGroup(cmd)
	}

	if events != nil {
		events.stop()
	}

	_ = os.Remove(e.socketPath)
	return nil
}

// Socket returns the IPC socket path, empty before the first Load.
func (e *Element) Socket() string {
	e.procMu.Lock()
	defer e.procMu.Unlock()
	return e.socketPath
}

func headerFields(headers map[string]string) string {
	if len(headers) == 0 {
		return ""
	}

	var b strings.Builder
	for k, v := range headers {
		if b.Len() > 0 {
			b.WriteString(",")
		}
		b.WriteString(fmt.Sprintf("%s: %s", k, strings.ReplaceAll(v, ",", "%2C")))
	}
	return b.String()
}

// sanitizeMediaTarget rejects sources that mpv would parse as flags or
// that use schemes other than http(s) and local paths.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty URL")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in URL")
	}

	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("url must not start with '-' (looks like a flag)")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	return filepath.Clean(l), nil
}

func sanitizeTitle(title string) string {
	t := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ", "\x00", "").Replace(title)
	return strings.TrimSpace(t)
}
