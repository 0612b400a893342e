package mpv

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"time"
)

// request is the JSON structure written to mpv's IPC socket.
type request struct {
	Command []interface{} `json:"command"`
}

// reply is the JSON structure mpv answers with. Event is set instead when
// the line is an unsolicited event broadcast.
type reply struct {
	Data  interface{} `json:"data"`
	Error string      `json:"error"`
	Event string      `json:"event"`
}

const (
	commandRetries = 3
	retryDelay     = 100 * time.Millisecond
	replyDeadline  = time.Second
	replyBufSize   = 4096
)

// command sends one IPC command, retrying transient connection failures.
// Writes are serialized per element.
func (e *Element) command(args ...interface{}) (interface{}, error) {
	e.ipcMu.Lock()
	defer e.ipcMu.Unlock()

	var lastErr error
	for attempt := 0; attempt < commandRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(retryDelay)
		}

		data, err := roundTrip(e.socketPath, args)
		if err == nil {
			return data, nil
		}
		lastErr = err
	}

	return nil, fmt.Errorf("mpv %v failed after %d attempts: %w", args[0], commandRetries, lastErr)
}

// set is shorthand for a set_property command.
func (e *Element) set(property string, value interface{}) error {
	_, err := e.command("set_property", property, value)
	return err
}

// roundTrip performs one command over a fresh connection.
func roundTrip(socketPath string, args []interface{}) (interface{}, error) {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	payload, err := json.Marshal(request{Command: args})
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	// mpv reads newline-delimited JSON.
	if _, err := conn.Write(append(payload, '\n')); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}

	if err := conn.SetReadDeadline(time.Now().Add(replyDeadline)); err != nil {
		return nil, fmt.Errorf("set deadline: %w", err)
	}

	buf := make([]byte, replyBufSize)
	n, err := conn.Read(buf)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	r, err := pickReply(buf[:n])
	if err != nil {
		return nil, err
	}

	if r.Error != "" && r.Error != "success" {
		return nil, fmt.Errorf("mpv: %s", r.Error)
	}

	return r.Data, nil
}

// pickReply returns the first command reply in a read, skipping event
// lines mpv broadcasts to every client.
func pickReply(b []byte) (reply, error) {
	for _, line := range bytes.Split(b, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		var r reply
		if err := json.Unmarshal(line, &r); err != nil {
			return reply{}, fmt.Errorf("unmarshal: %w", err)
		}
		if r.Event == "" {
			return r, nil
		}
	}
	return reply{}, fmt.Errorf("no reply in %d bytes", len(b))
}
