package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/glwindow/internal/ipc"
	"github.com/1broseidon/glwindow/internal/props"
)

const (
	ServerName    = "glwindow"
	ServerVersion = "0.1.0"
)

// Daemon is the part of the IPC client the tools use.
type Daemon interface {
	SetProperties(req props.Request) (*ipc.SetPropertiesData, error)
	GetState() (*ipc.StateData, error)
	ListModes() (*ipc.ModesData, error)
}

var _ Daemon = (*ipc.Client)(nil)

// Server is the MCP server exposing the glwindow daemon to agents.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    Daemon
	logger    *slog.Logger
}

// NewServer creates an MCP server that forwards to daemon.
func NewServer(daemon Daemon, logger *slog.Logger) *Server {
	s := &Server{
		daemon: daemon,
		logger: logger,
	}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_window_properties",
		Description: "Change properties of the glwindow window: origin, size, fullscreen, minimized, foreground, decorations, fixed size, cursor visibility, z-order and title. Omitted fields are left unchanged. Returns the fields that could not be applied and the resulting window state.",
	}, s.handleSetWindowProperties)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_window_state",
		Description: "Get the current state of the glwindow window, including the active and saved display modes while fullscreen.",
	}, s.handleGetWindowState)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_display_modes",
		Description: "List the display modes of the monitor the window is on. Fullscreen requests with a size pick from these modes.",
	}, s.handleListDisplayModes)
}
