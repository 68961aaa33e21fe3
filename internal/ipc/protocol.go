package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/glwindow/internal/displaymode"
	"github.com/1broseidon/glwindow/internal/window"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandSetProperties CommandType = "SET_PROPERTIES"
	CommandGetState      CommandType = "GET_STATE"
	CommandListModes     CommandType = "LIST_MODES"
	CommandGetStatus     CommandType = "GET_STATUS"
	CommandReload        CommandType = "RELOAD"
	CommandClose         CommandType = "CLOSE"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// SetPropertiesData is returned by SET_PROPERTIES. Rejected lists the
// requested fields the window could not apply.
type SetPropertiesData struct {
	Rejected []string `json:"rejected"`
}

// StateData represents the data returned by GET_STATE
type StateData struct {
	Window window.State `json:"window"`
	// FullscreenMode and WindowedMode are set while a display-mode session
	// is live.
	FullscreenMode *displaymode.Mode `json:"fullscreen_mode,omitempty"`
	WindowedMode   *displaymode.Mode `json:"windowed_mode,omitempty"`
}

// ModesData represents the data returned by LIST_MODES
type ModesData struct {
	Modes   []displaymode.Mode `json:"modes"`
	Current displaymode.Mode   `json:"current"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	Backend       string `json:"backend"`
	PID           int    `json:"pid"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Frames        uint64 `json:"frames"`
	FrameRate     int    `json:"frame_rate"`
	WindowOpen    bool   `json:"window_open"`
	DaemonRunning bool   `json:"daemon_running"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
