package usecases

import (
	"context"
	"sort"

	"github.com/seometrics/seo-mcp-server/internal/domain"
	"github.com/seometrics/seo-mcp-server/internal/infrastructure/logging"
)

// ToolLister is the slice of the protocol runtime the resolver depends on.
type ToolLister interface {
	ListTools(ctx context.Context) ([]*domain.Tool, error)
}

// CatalogResolver produces the normalized tool descriptors served by the
// introspection endpoint. When live extraction yields nothing or fails
// validation, a fixed fallback catalog is served instead, so introspection
// never returns an empty or malformed list.
type CatalogResolver struct {
	runtime  ToolLister
	fallback []domain.ToolDescriptor
	logger   *logging.Logger
}

// NewCatalogResolver creates a resolver over the given runtime with the
// given fallback catalog.
func NewCatalogResolver(runtime ToolLister, fallback []domain.ToolDescriptor, logger *logging.Logger) *CatalogResolver {
	return &CatalogResolver{
		runtime:  runtime,
		fallback: fallback,
		logger:   logger,
	}
}

// Resolve returns the current catalog, sorted by tool name.
func (c *CatalogResolver) Resolve(ctx context.Context) []domain.ToolDescriptor {
	tools, err := c.runtime.ListTools(ctx)
	if err != nil {
		c.logger.Warn("tool extraction failed, serving fallback catalog", logging.Fields{
			"error": err.Error(),
		})
		return c.fallback
	}
	if len(tools) == 0 {
		c.logger.Warn("no tools registered, serving fallback catalog")
		return c.fallback
	}

	descriptors := make([]domain.ToolDescriptor, 0, len(tools))
	for _, tool := range tools {
		desc, ok := normalizeTool(tool)
		if !ok {
			c.logger.Warn("tool failed catalog validation, serving fallback catalog", logging.Fields{
				"tool": tool.Name,
			})
			return c.fallback
		}
		descriptors = append(descriptors, desc)
	}

	sort.Slice(descriptors, func(i, j int) bool { return descriptors[i].Name < descriptors[j].Name })
	return descriptors
}

// normalizeTool converts one registered tool into descriptor form. A tool
// with an empty name or a schema that is not object-shaped is rejected.
func normalizeTool(tool *domain.Tool) (domain.ToolDescriptor, bool) {
	if tool == nil || tool.Name == "" {
		return domain.ToolDescriptor{}, false
	}
	params, ok := normalizeSchema(tool.InputSchema)
	if !ok {
		return domain.ToolDescriptor{}, false
	}
	return domain.ToolDescriptor{
		Name:        tool.Name,
		Description: tool.Description,
		Parameters:  params,
	}, true
}

// normalizeSchema accepts the two schema shapes tools carry in practice: a
// plain JSON-schema object with a properties map, and a wrapped
// {"shape": {...}} container whose entries carry their own required flag.
func normalizeSchema(schema interface{}) (domain.ToolParameters, bool) {
	m, ok := schema.(map[string]interface{})
	if !ok {
		return domain.ToolParameters{}, false
	}

	var props map[string]interface{}
	var required []string

	if p, ok := m["properties"].(map[string]interface{}); ok {
		props = p
		required = stringSlice(m["required"])
	} else if shape, ok := m["shape"].(map[string]interface{}); ok {
		props = shape
		for name, v := range shape {
			entry, ok := v.(map[string]interface{})
			if !ok {
				continue
			}
			if req, _ := entry["required"].(bool); req {
				required = append(required, name)
			}
		}
	} else {
		return domain.ToolParameters{}, false
	}

	out := domain.ToolParameters{
		Properties: make(map[string]domain.ParameterSpec, len(props)),
		Required:   []string{},
	}
	for name, v := range props {
		spec := domain.ParameterSpec{Type: "string"}
		if entry, ok := v.(map[string]interface{}); ok {
			if t, ok := entry["type"].(string); ok && t != "" {
				spec.Type = t
			}
			if d, ok := entry["description"].(string); ok {
				spec.Description = d
			}
		}
		out.Properties[name] = spec
	}

	sort.Strings(required)
	out.Required = append(out.Required, required...)
	return out, true
}

func stringSlice(v interface{}) []string {
	switch vv := v.(type) {
	case []string:
		return append([]string(nil), vv...)
	case []interface{}:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
