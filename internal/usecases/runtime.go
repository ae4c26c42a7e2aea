// Package usecases implements the application logic of the SEO MCP server:
// the protocol runtime that executes tools and the catalog resolver that
// describes them.
package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/seometrics/seo-mcp-server/internal/domain"
	"github.com/seometrics/seo-mcp-server/internal/domain/shared"
	"github.com/seometrics/seo-mcp-server/internal/infrastructure/logging"
)

// MCP protocol version advertised during initialize.
const mcpProtocolVersion = "2024-11-05"

// Runtime is the tool-execution engine. It owns the registered toolset,
// tracks bound session transports, and routes JSON-RPC messages into tool
// execution.
type Runtime struct {
	name       string
	version    string
	tools      domain.ToolRepository
	transports sync.Map
	logger     *logging.Logger
}

// NewRuntime creates a Runtime backed by the given tool repository.
func NewRuntime(name, version string, tools domain.ToolRepository, logger *logging.Logger) *Runtime {
	return &Runtime{
		name:    name,
		version: version,
		tools:   tools,
		logger:  logger,
	}
}

// BindSession attaches a live transport so server-originated messages for
// that session reach its stream.
func (rt *Runtime) BindSession(session domain.SessionTransport) {
	rt.transports.Store(session.ID(), session)
}

// UnbindSession detaches a transport after its stream closed.
func (rt *Runtime) UnbindSession(id string) {
	rt.transports.Delete(id)
}

// ListTools returns the currently registered tools, sorted by name.
func (rt *Runtime) ListTools(ctx context.Context) ([]*domain.Tool, error) {
	tools, err := rt.tools.ListTools(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name < tools[j].Name })
	return tools, nil
}

// Notify pushes a server-originated notification onto a session's stream.
func (rt *Runtime) Notify(sessionID string, notification *domain.Notification) error {
	value, ok := rt.transports.Load(sessionID)
	if !ok {
		return domain.NewSessionNotFoundError(sessionID)
	}

	data, err := json.Marshal(shared.JSONRPCRequest{
		JSONRPC: shared.JSONRPCVersion,
		Method:  notification.Method,
		Params:  mustMarshal(notification.Params),
	})
	if err != nil {
		return err
	}

	return value.(domain.SessionTransport).Send(fmt.Sprintf("event: message\ndata: %s\n\n", data))
}

// HandleMessage routes one raw JSON-RPC message for a session. Notifications
// (requests without an ID) produce a nil response.
func (rt *Runtime) HandleMessage(ctx context.Context, sessionID string, raw json.RawMessage) interface{} {
	var req shared.JSONRPCRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return shared.NewErrorResponse(nil, shared.ParseError, shared.ErrorMessage(shared.ParseError))
	}
	if req.JSONRPC != shared.JSONRPCVersion || req.Method == "" {
		return shared.NewErrorResponse(req.ID, shared.InvalidRequest, shared.ErrorMessage(shared.InvalidRequest))
	}

	rt.logger.Debug("dispatching message", logging.Fields{
		"sessionId": sessionID,
		"method":    req.Method,
	})

	response := rt.dispatch(ctx, req)
	if req.IsNotification() {
		return nil
	}
	return response
}

func (rt *Runtime) dispatch(ctx context.Context, req shared.JSONRPCRequest) shared.JSONRPCResponse {
	switch req.Method {
	case "initialize":
		return shared.NewSuccessResponse(req.ID, shared.InitializeResult{
			ProtocolVersion: mcpProtocolVersion,
			Capabilities:    shared.Capabilities{Tools: &shared.ToolsCapability{}},
			ServerInfo:      shared.ServerInfo{Name: rt.name, Version: rt.version},
		})

	case "ping":
		return shared.NewSuccessResponse(req.ID, struct{}{})

	case "tools/list":
		tools, err := rt.ListTools(ctx)
		if err != nil {
			return shared.NewErrorResponse(req.ID, shared.InternalError, shared.ErrorMessage(shared.InternalError))
		}
		return shared.NewSuccessResponse(req.ID, map[string]interface{}{"tools": tools})

	case "tools/call":
		return rt.callTool(ctx, req)

	default:
		return shared.NewErrorResponse(req.ID, shared.MethodNotFound, shared.ErrorMessage(shared.MethodNotFound))
	}
}

func (rt *Runtime) callTool(ctx context.Context, req shared.JSONRPCRequest) shared.JSONRPCResponse {
	var params struct {
		Name      string                 `json:"name"`
		Arguments map[string]interface{} `json:"arguments"`
	}
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return shared.NewErrorResponse(req.ID, shared.InvalidParams, shared.ErrorMessage(shared.InvalidParams))
		}
	}
	if params.Name == "" {
		return shared.NewErrorResponse(req.ID, shared.InvalidParams, "missing tool name")
	}

	tool, err := rt.tools.GetTool(ctx, params.Name)
	if err != nil {
		return shared.NewErrorResponse(req.ID, shared.NotFound, err.Error())
	}

	result, err := tool.Handler(ctx, params.Arguments)
	if err != nil {
		rt.logger.Warn("tool call failed", logging.Fields{
			"tool":  params.Name,
			"error": err.Error(),
		})
		return shared.NewSuccessResponse(req.ID, shared.CallToolResult{
			Content: []shared.TextContent{{Type: "text", Text: err.Error()}},
			IsError: true,
		})
	}

	data, err := json.Marshal(result)
	if err != nil {
		return shared.NewErrorResponse(req.ID, shared.InternalError, shared.ErrorMessage(shared.InternalError))
	}

	return shared.NewSuccessResponse(req.ID, shared.CallToolResult{
		Content: []shared.TextContent{{Type: "text", Text: string(data)}},
	})
}

func mustMarshal(v interface{}) json.RawMessage {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return data
}
