// Package domain defines the core entities and contracts of the SEO MCP server.
package domain

// Tool represents a tool that can be called by clients. InputSchema is the
// JSON-schema-shaped description of the tool's arguments as exposed to
// clients; Handler executes a call.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	InputSchema interface{}     `json:"inputSchema"`
	Handler     ToolHandlerFunc `json:"-"`
}

// ToolDescriptor is the normalized, read-only view of a tool served by the
// introspection endpoint.
type ToolDescriptor struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  ToolParameters `json:"parameters"`
}

// ToolParameters describes a tool's parameters in canonical form.
type ToolParameters struct {
	Properties map[string]ParameterSpec `json:"properties"`
	Required   []string                 `json:"required"`
}

// ParameterSpec describes a single tool parameter.
type ParameterSpec struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// Notification represents a server-originated message pushed to a client
// session outside the request/response cycle.
type Notification struct {
	Method string
	Params map[string]interface{}
}
