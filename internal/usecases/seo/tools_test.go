package seo

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seometrics/seo-mcp-server/internal/domain"
	"github.com/seometrics/seo-mcp-server/internal/infrastructure/logging"
	"github.com/seometrics/seo-mcp-server/internal/usecases"
)

// mapRepo is a minimal ToolRepository for registration tests.
type mapRepo struct {
	mu    sync.Mutex
	tools map[string]*domain.Tool
}

func newMapRepo() *mapRepo {
	return &mapRepo{tools: make(map[string]*domain.Tool)}
}

func (r *mapRepo) GetTool(ctx context.Context, name string) (*domain.Tool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tool, ok := r.tools[name]
	if !ok {
		return nil, domain.NewToolNotFoundError(name)
	}
	return tool, nil
}

func (r *mapRepo) ListTools(ctx context.Context) ([]*domain.Tool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Tool, 0, len(r.tools))
	for _, tool := range r.tools {
		out = append(out, tool)
	}
	return out, nil
}

func (r *mapRepo) AddTool(ctx context.Context, tool *domain.Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[tool.Name] = tool
	return nil
}

func (r *mapRepo) DeleteTool(ctx context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tools, name)
	return nil
}

func registeredTools(t *testing.T) *mapRepo {
	t.Helper()
	repo := newMapRepo()
	require.NoError(t, RegisterTools(context.Background(), repo, NewStaticDataSource()))
	return repo
}

func callTool(t *testing.T, repo *mapRepo, name string, args map[string]interface{}) (interface{}, error) {
	t.Helper()
	tool, err := repo.GetTool(context.Background(), name)
	require.NoError(t, err)
	return tool.Handler(context.Background(), args)
}

func TestRegisterTools(t *testing.T) {
	repo := registeredTools(t)

	tools, err := repo.ListTools(context.Background())
	require.NoError(t, err)
	require.Len(t, tools, 4)

	for _, name := range []string{"keyword_metrics", "serp_snapshot", "backlink_summary", "domain_overview"} {
		tool, err := repo.GetTool(context.Background(), name)
		require.NoError(t, err, "tool %s should be registered", name)
		assert.NotEmpty(t, tool.Description)
		assert.NotNil(t, tool.Handler)
		assert.NotNil(t, tool.InputSchema)
	}
}

func TestKeywordMetricsTool(t *testing.T) {
	repo := registeredTools(t)

	result, err := callTool(t, repo, "keyword_metrics", map[string]interface{}{"keyword": "golang hosting"})
	require.NoError(t, err)

	metrics, ok := result.(*KeywordMetrics)
	require.True(t, ok)
	assert.Equal(t, "golang hosting", metrics.Keyword)
	assert.Equal(t, "us", metrics.Country, "country defaults to us")
	assert.GreaterOrEqual(t, metrics.Difficulty, 1)
	assert.LessOrEqual(t, metrics.Difficulty, 100)
	assert.Greater(t, metrics.SearchVolume, 0)

	// Missing required argument.
	_, err = callTool(t, repo, "keyword_metrics", map[string]interface{}{})
	assert.Error(t, err)

	// Wrong argument type.
	_, err = callTool(t, repo, "keyword_metrics", map[string]interface{}{"keyword": 42})
	assert.Error(t, err)
}

func TestSERPSnapshotTool(t *testing.T) {
	repo := registeredTools(t)

	result, err := callTool(t, repo, "serp_snapshot", map[string]interface{}{
		"query": "best crm software",
		"limit": float64(3),
	})
	require.NoError(t, err)

	entries, ok := result.([]SERPEntry)
	require.True(t, ok)
	require.Len(t, entries, 3)
	for i, entry := range entries {
		assert.Equal(t, i+1, entry.Position)
		assert.Contains(t, entry.Title, "best crm software")
		assert.Contains(t, entry.URL, "best-crm-software")
	}

	// Default limit applies when the argument is absent.
	result, err = callTool(t, repo, "serp_snapshot", map[string]interface{}{"query": "seo audit"})
	require.NoError(t, err)
	assert.Len(t, result.([]SERPEntry), 10)

	for _, limit := range []float64{0, -5, 101} {
		_, err = callTool(t, repo, "serp_snapshot", map[string]interface{}{
			"query": "seo audit",
			"limit": limit,
		})
		assert.Error(t, err, "limit %v must be rejected", limit)
	}
}

func TestBacklinkSummaryTool(t *testing.T) {
	repo := registeredTools(t)

	result, err := callTool(t, repo, "backlink_summary", map[string]interface{}{"domain": "example.com"})
	require.NoError(t, err)

	summary, ok := result.(*BacklinkSummary)
	require.True(t, ok)
	assert.Equal(t, "example.com", summary.Domain)
	assert.Greater(t, summary.ReferringDomains, 0)
	assert.GreaterOrEqual(t, summary.TotalBacklinks, summary.ReferringDomains)
	assert.InDelta(t, 0.675, summary.DofollowRatio, 0.325)

	_, err = callTool(t, repo, "backlink_summary", map[string]interface{}{})
	assert.Error(t, err)
}

func TestDomainOverviewTool(t *testing.T) {
	repo := registeredTools(t)

	result, err := callTool(t, repo, "domain_overview", map[string]interface{}{"domain": "example.com"})
	require.NoError(t, err)

	overview, ok := result.(*DomainOverview)
	require.True(t, ok)
	assert.Equal(t, "example.com", overview.Domain)
	assert.GreaterOrEqual(t, overview.AuthorityScore, 1)
	assert.LessOrEqual(t, overview.AuthorityScore, 100)
}

// Identical inputs must always produce identical figures.
func TestStaticDataSourceIsDeterministic(t *testing.T) {
	ds := NewStaticDataSource()
	ctx := context.Background()

	a, err := ds.KeywordMetrics(ctx, "golang", "us")
	require.NoError(t, err)
	b, err := ds.KeywordMetrics(ctx, "golang", "us")
	require.NoError(t, err)
	assert.Equal(t, a, b)

	// Different inputs diverge.
	c, err := ds.KeywordMetrics(ctx, "golang", "de")
	require.NoError(t, err)
	assert.NotEqual(t, a, c)

	s1, err := ds.BacklinkSummary(ctx, "example.com")
	require.NoError(t, err)
	s2, err := ds.BacklinkSummary(ctx, "example.com")
	require.NoError(t, err)
	assert.Equal(t, s1, s2)
}

// The fixed fallback catalog must be exactly what normalizing the live
// toolset produces, so clients see one catalog shape either way.
func TestFallbackCatalogMirrorsRegisteredTools(t *testing.T) {
	repo := registeredTools(t)

	runtime := usecases.NewRuntime("test", "test", repo, logging.Nop())
	resolver := usecases.NewCatalogResolver(runtime, nil, logging.Nop())

	normalized := resolver.Resolve(context.Background())
	assert.Equal(t, FallbackCatalog(), normalized)
}
