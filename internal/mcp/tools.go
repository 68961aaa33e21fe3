package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) handleSetWindowProperties(_ context.Context, _ *mcpsdk.CallToolRequest, args SetWindowPropertiesInput) (*mcpsdk.CallToolResult, SetWindowPropertiesOutput, error) {
	req := args.Request()
	if _, err := req.Properties(); err != nil {
		return nil, SetWindowPropertiesOutput{}, err
	}
	if args.Size != nil && (args.Size.Width <= 0 || args.Size.Height <= 0) {
		return nil, SetWindowPropertiesOutput{}, fmt.Errorf("size must be positive, got %dx%d", args.Size.Width, args.Size.Height)
	}

	res, err := s.daemon.SetProperties(req)
	if err != nil {
		return nil, SetWindowPropertiesOutput{}, fmt.Errorf("failed to set window properties: %w", err)
	}
	state, err := s.daemon.GetState()
	if err != nil {
		return nil, SetWindowPropertiesOutput{}, fmt.Errorf("failed to read window state: %w", err)
	}

	rejected := res.Rejected
	if rejected == nil {
		rejected = []string{}
	}
	s.logger.Info("mcp: set_window_properties", "rejected", rejected)
	return nil, SetWindowPropertiesOutput{Rejected: rejected, State: windowStateFrom(state)}, nil
}

func (s *Server) handleGetWindowState(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetWindowStateInput) (*mcpsdk.CallToolResult, WindowState, error) {
	state, err := s.daemon.GetState()
	if err != nil {
		return nil, WindowState{}, fmt.Errorf("failed to read window state: %w", err)
	}
	return nil, windowStateFrom(state), nil
}

func (s *Server) handleListDisplayModes(_ context.Context, _ *mcpsdk.CallToolRequest, args ListDisplayModesInput) (*mcpsdk.CallToolResult, ListDisplayModesOutput, error) {
	data, err := s.daemon.ListModes()
	if err != nil {
		return nil, ListDisplayModesOutput{}, fmt.Errorf("failed to list display modes: %w", err)
	}

	out := ListDisplayModesOutput{
		Current: data.Current.String(),
		Modes:   make([]DisplayMode, 0, len(data.Modes)),
	}
	for _, m := range data.Modes {
		if args.Width != 0 && m.Width != args.Width {
			continue
		}
		if args.Height != 0 && m.Height != args.Height {
			continue
		}
		out.Modes = append(out.Modes, displayModeFrom(m, data.Current))
	}
	return nil, out, nil
}
