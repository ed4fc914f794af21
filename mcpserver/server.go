// Package mcpserver exposes the agent tool adapter on the host protocol: an
// MCP server speaking JSON-RPC over stdio. Single-shot calls return one tool
// result; streaming calls forward each progress event to the client as a
// logging notification and return the terminal event as the tool result.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/encryptedcommerce/OpenManus/config"
	"github.com/encryptedcommerce/OpenManus/core"
	"github.com/encryptedcommerce/OpenManus/logging"
	"github.com/encryptedcommerce/OpenManus/stream"
	"github.com/encryptedcommerce/OpenManus/tool"
)

// Server wraps an MCP server with the agent tool registered.
type Server struct {
	mcp     *server.MCPServer
	adapter *tool.AgentTool
	logger  logging.Logger
}

// New builds a Server from configuration and an agent factory.
func New(cfg config.Config, factory core.Factory, logger logging.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}

	mode, err := tool.ParseStreamMode(cfg.Tool.StreamMode)
	if err != nil {
		return nil, err
	}
	policy, err := parseErrorPolicy(cfg.Tool.ErrorPolicy)
	if err != nil {
		return nil, err
	}

	adapter := tool.New(factory, func(o *tool.Options) {
		o.StreamMode = mode
		o.ErrorPolicy = policy
		if cfg.Tool.IncludeFullResult != nil {
			o.IncludeFullResult = *cfg.Tool.IncludeFullResult
		}
		if cfg.Tool.DefaultMaxSteps > 0 {
			o.DefaultMaxSteps = cfg.Tool.DefaultMaxSteps
		}
		o.StepDelay = cfg.Tool.StepDelay()
		o.Logger = logger
	})

	mcpSrv := server.NewMCPServer(cfg.Server.Name, cfg.Server.Version,
		server.WithToolCapabilities(false),
	)

	s := &Server{mcp: mcpSrv, adapter: adapter, logger: logger}

	schema, err := json.Marshal(adapter.Parameters())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tool schema: %w", err)
	}
	mcpSrv.AddTool(
		mcp.NewToolWithRawSchema(adapter.Name(), adapter.Description(), schema),
		s.handleCall,
	)

	return s, nil
}

// Serve runs the server over stdio until the client disconnects.
func (s *Server) Serve() error {
	s.logger.Info("mcpserver.serve", "tool", s.adapter.Name(), "stream_mode", s.adapter.StreamMode().String())
	return server.ServeStdio(s.mcp)
}

// Adapter returns the wrapped tool adapter.
func (s *Server) Adapter() *tool.AgentTool { return s.adapter }

func (s *Server) handleCall(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	parsed, err := s.adapter.ParseRequest(req.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if s.adapter.ShouldStream(parsed) {
		return s.streamCall(ctx, parsed), nil
	}

	res := s.adapter.Execute(ctx, parsed)
	if res.Error != "" {
		return mcp.NewToolResultError(res.Error), nil
	}
	return mcp.NewToolResultText(res.JSON()), nil
}

// streamCall drains the event sequence, forwarding each event to the client
// and turning the terminal event into the tool result.
func (s *Server) streamCall(ctx context.Context, req tool.Request) *mcp.CallToolResult {
	mcpSrv := server.ServerFromContext(ctx)

	var terminal core.ProgressEvent
	for event := range s.adapter.Stream(ctx, req) {
		terminal = event
		if mcpSrv == nil {
			continue
		}
		err := mcpSrv.SendNotificationToClient(ctx, "notifications/message", map[string]any{
			"level": notificationLevel(event),
			"data":  event.JSON(),
		})
		if err != nil {
			s.logger.Warn("mcpserver.notify_failed", "status", string(event.Status), "error", err.Error())
		}
	}

	if terminal.Status == core.StatusError {
		return mcp.NewToolResultError(terminal.Error)
	}
	return mcp.NewToolResultText(terminal.JSON())
}

func notificationLevel(e core.ProgressEvent) string {
	if e.Status == core.StatusError {
		return "error"
	}
	return "info"
}

func parseErrorPolicy(s string) (stream.ErrorPolicy, error) {
	switch s {
	case "", "abort_on_error":
		return stream.AbortOnError, nil
	case "continue_on_error":
		return stream.ContinueOnError, nil
	default:
		return stream.AbortOnError, fmt.Errorf("unknown error policy %q", s)
	}
}
