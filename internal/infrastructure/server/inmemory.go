package server

import (
	"context"
	"sync"

	"github.com/seometrics/seo-mcp-server/internal/domain"
)

// InMemoryToolRepository implements a ToolRepository using in-memory storage.
type InMemoryToolRepository struct {
	tools sync.Map
}

// NewInMemoryToolRepository creates a new InMemoryToolRepository.
func NewInMemoryToolRepository() *InMemoryToolRepository {
	return &InMemoryToolRepository{}
}

// GetTool retrieves a tool by its name.
func (r *InMemoryToolRepository) GetTool(ctx context.Context, name string) (*domain.Tool, error) {
	if tool, ok := r.tools.Load(name); ok {
		return tool.(*domain.Tool), nil
	}
	return nil, domain.NewToolNotFoundError(name)
}

// ListTools returns all available tools.
func (r *InMemoryToolRepository) ListTools(ctx context.Context) ([]*domain.Tool, error) {
	var tools []*domain.Tool
	r.tools.Range(func(_, value interface{}) bool {
		tools = append(tools, value.(*domain.Tool))
		return true
	})
	return tools, nil
}

// AddTool adds a new tool to the repository.
func (r *InMemoryToolRepository) AddTool(ctx context.Context, tool *domain.Tool) error {
	r.tools.Store(tool.Name, tool)
	return nil
}

// DeleteTool removes a tool from the repository.
func (r *InMemoryToolRepository) DeleteTool(ctx context.Context, name string) error {
	if _, ok := r.tools.Load(name); !ok {
		return domain.NewToolNotFoundError(name)
	}
	r.tools.Delete(name)
	return nil
}
