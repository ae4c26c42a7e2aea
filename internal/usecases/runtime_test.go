package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seometrics/seo-mcp-server/internal/domain"
	"github.com/seometrics/seo-mcp-server/internal/domain/shared"
	"github.com/seometrics/seo-mcp-server/internal/infrastructure/logging"
)

// stubRepo is a map-backed ToolRepository for runtime tests.
type stubRepo struct {
	mu    sync.Mutex
	tools map[string]*domain.Tool
	err   error
}

func newStubRepo(tools ...*domain.Tool) *stubRepo {
	r := &stubRepo{tools: make(map[string]*domain.Tool)}
	for _, tool := range tools {
		r.tools[tool.Name] = tool
	}
	return r
}

func (r *stubRepo) GetTool(ctx context.Context, name string) (*domain.Tool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	tool, ok := r.tools[name]
	if !ok {
		return nil, domain.NewToolNotFoundError(name)
	}
	return tool, nil
}

func (r *stubRepo) ListTools(ctx context.Context) ([]*domain.Tool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := make([]*domain.Tool, 0, len(r.tools))
	for _, tool := range r.tools {
		out = append(out, tool)
	}
	return out, nil
}

func (r *stubRepo) AddTool(ctx context.Context, tool *domain.Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[tool.Name] = tool
	return nil
}

func (r *stubRepo) DeleteTool(ctx context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tools, name)
	return nil
}

func echoTool(name string) *domain.Tool {
	return &domain.Tool{
		Name:        name,
		Description: name + " tool",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		},
		Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			return map[string]interface{}{"echo": args}, nil
		},
	}
}

func newTestRuntime(t *testing.T, tools ...*domain.Tool) *Runtime {
	t.Helper()
	return NewRuntime("seo-mcp-server", "test", newStubRepo(tools...), logging.Nop())
}

func handle(t *testing.T, rt *Runtime, raw string) interface{} {
	t.Helper()
	return rt.HandleMessage(context.Background(), "session-1", json.RawMessage(raw))
}

func asResponse(t *testing.T, v interface{}) shared.JSONRPCResponse {
	t.Helper()
	resp, ok := v.(shared.JSONRPCResponse)
	require.True(t, ok, "expected a JSON-RPC response, got %T", v)
	return resp
}

func TestRuntime_Initialize(t *testing.T) {
	rt := newTestRuntime(t)

	resp := asResponse(t, handle(t, rt, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05"}}`))
	require.Nil(t, resp.Error)

	result, ok := resp.Result.(shared.InitializeResult)
	require.True(t, ok)
	assert.Equal(t, "2024-11-05", result.ProtocolVersion)
	assert.Equal(t, "seo-mcp-server", result.ServerInfo.Name)
	assert.NotNil(t, result.Capabilities.Tools)
}

func TestRuntime_Ping(t *testing.T) {
	rt := newTestRuntime(t)

	resp := asResponse(t, handle(t, rt, `{"jsonrpc":"2.0","id":"ping-1","method":"ping"}`))
	assert.Nil(t, resp.Error)
	assert.Equal(t, "ping-1", resp.ID)
}

func TestRuntime_ToolsList(t *testing.T) {
	rt := newTestRuntime(t, echoTool("b_tool"), echoTool("a_tool"))

	resp := asResponse(t, handle(t, rt, `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`))
	require.Nil(t, resp.Error)

	result, ok := resp.Result.(map[string]interface{})
	require.True(t, ok)
	tools, ok := result["tools"].([]*domain.Tool)
	require.True(t, ok)
	require.Len(t, tools, 2)
	assert.True(t, sort.SliceIsSorted(tools, func(i, j int) bool { return tools[i].Name < tools[j].Name }))
}

func TestRuntime_ToolsCall(t *testing.T) {
	rt := newTestRuntime(t, echoTool("keyword_metrics"))

	resp := asResponse(t, handle(t, rt,
		`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"keyword_metrics","arguments":{"keyword":"golang"}}}`))
	require.Nil(t, resp.Error)

	result, ok := resp.Result.(shared.CallToolResult)
	require.True(t, ok)
	assert.False(t, result.IsError)
	require.Len(t, result.Content, 1)
	assert.Equal(t, "text", result.Content[0].Type)
	assert.Contains(t, result.Content[0].Text, `"keyword":"golang"`)
}

func TestRuntime_ToolsCallUnknownTool(t *testing.T) {
	rt := newTestRuntime(t)

	resp := asResponse(t, handle(t, rt,
		`{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"no_such_tool"}}`))
	require.NotNil(t, resp.Error)
	assert.Equal(t, int(shared.NotFound), resp.Error.Code)
}

func TestRuntime_ToolsCallMissingName(t *testing.T) {
	rt := newTestRuntime(t, echoTool("keyword_metrics"))

	resp := asResponse(t, handle(t, rt,
		`{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{"arguments":{}}}`))
	require.NotNil(t, resp.Error)
	assert.Equal(t, int(shared.InvalidParams), resp.Error.Code)
}

func TestRuntime_ToolsCallHandlerFailure(t *testing.T) {
	failing := &domain.Tool{
		Name:        "serp_snapshot",
		InputSchema: map[string]interface{}{"type": "object", "properties": map[string]interface{}{}},
		Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			return nil, errors.New("upstream index unavailable")
		},
	}
	rt := newTestRuntime(t, failing)

	resp := asResponse(t, handle(t, rt,
		`{"jsonrpc":"2.0","id":6,"method":"tools/call","params":{"name":"serp_snapshot"}}`))
	require.Nil(t, resp.Error, "handler failures are reported inside the result")

	result, ok := resp.Result.(shared.CallToolResult)
	require.True(t, ok)
	assert.True(t, result.IsError)
	require.Len(t, result.Content, 1)
	assert.Contains(t, result.Content[0].Text, "upstream index unavailable")
}

func TestRuntime_NotificationProducesNoResponse(t *testing.T) {
	rt := newTestRuntime(t)

	resp := handle(t, rt, `{"jsonrpc":"2.0","method":"notifications/initialized"}`)
	assert.Nil(t, resp)
}

func TestRuntime_ParseError(t *testing.T) {
	rt := newTestRuntime(t)

	resp := asResponse(t, handle(t, rt, `{not json`))
	require.NotNil(t, resp.Error)
	assert.Equal(t, int(shared.ParseError), resp.Error.Code)
}

func TestRuntime_InvalidRequest(t *testing.T) {
	rt := newTestRuntime(t)

	for _, raw := range []string{
		`{"jsonrpc":"1.0","id":1,"method":"ping"}`,
		`{"jsonrpc":"2.0","id":1}`,
	} {
		resp := asResponse(t, handle(t, rt, raw))
		require.NotNil(t, resp.Error, "raw: %s", raw)
		assert.Equal(t, int(shared.InvalidRequest), resp.Error.Code)
	}
}

func TestRuntime_MethodNotFound(t *testing.T) {
	rt := newTestRuntime(t)

	resp := asResponse(t, handle(t, rt, `{"jsonrpc":"2.0","id":7,"method":"resources/list"}`))
	require.NotNil(t, resp.Error)
	assert.Equal(t, int(shared.MethodNotFound), resp.Error.Code)
	assert.Equal(t, shared.ErrorMessage(shared.MethodNotFound), resp.Error.Message)
}

type recordingTransport struct {
	id     string
	mu     sync.Mutex
	events []string
}

func (r *recordingTransport) ID() string               { return r.id }
func (r *recordingTransport) CreatedAt() time.Time     { return time.Time{} }
func (r *recordingTransport) Close()                   {}
func (r *recordingTransport) Context() context.Context { return context.Background() }
func (r *recordingTransport) Send(event string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func TestRuntime_Notify(t *testing.T) {
	rt := newTestRuntime(t)
	transport := &recordingTransport{id: "session-1"}
	rt.BindSession(transport)

	err := rt.Notify("session-1", &domain.Notification{
		Method: "notifications/tools/list_changed",
		Params: map[string]interface{}{"reason": "registered"},
	})
	require.NoError(t, err)

	transport.mu.Lock()
	defer transport.mu.Unlock()
	require.Len(t, transport.events, 1)
	assert.Contains(t, transport.events[0], "event: message")
	assert.Contains(t, transport.events[0], "notifications/tools/list_changed")
}

func TestRuntime_NotifyUnboundSession(t *testing.T) {
	rt := newTestRuntime(t)

	err := rt.Notify("nobody", &domain.Notification{Method: "notifications/ping"})
	require.Error(t, err)

	var derr *domain.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "session_not_found", derr.Kind)
}

func TestRuntime_UnbindStopsNotify(t *testing.T) {
	rt := newTestRuntime(t)
	transport := &recordingTransport{id: "session-1"}
	rt.BindSession(transport)
	rt.UnbindSession("session-1")

	err := rt.Notify("session-1", &domain.Notification{Method: "notifications/ping"})
	assert.Error(t, err)
}
