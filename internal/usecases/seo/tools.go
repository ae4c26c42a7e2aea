package seo

import (
	"context"
	"fmt"

	"github.com/seometrics/seo-mcp-server/internal/domain"
)

const defaultSERPLimit = 10

// RegisterTools adds the built-in SEO tools to the repository, backed by the
// given data source.
func RegisterTools(ctx context.Context, repo domain.ToolRepository, ds DataSource) error {
	for _, tool := range []*domain.Tool{
		keywordMetricsTool(ds),
		serpSnapshotTool(ds),
		backlinkSummaryTool(ds),
		domainOverviewTool(ds),
	} {
		if err := repo.AddTool(ctx, tool); err != nil {
			return fmt.Errorf("registering tool %s: %w", tool.Name, err)
		}
	}
	return nil
}

func keywordMetricsTool(ds DataSource) *domain.Tool {
	return &domain.Tool{
		Name:        "keyword_metrics",
		Description: "Search volume, difficulty and CPC for a keyword",
		InputSchema: objectSchema(map[string]interface{}{
			"keyword": property("string", "Keyword to analyze"),
			"country": property("string", "Two-letter country code, defaults to us"),
		}, "keyword"),
		Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			keyword, err := requiredString(args, "keyword")
			if err != nil {
				return nil, err
			}
			country := optionalString(args, "country", "us")
			return ds.KeywordMetrics(ctx, keyword, country)
		},
	}
}

func serpSnapshotTool(ds DataSource) *domain.Tool {
	return &domain.Tool{
		Name:        "serp_snapshot",
		Description: "Top organic search results for a query",
		InputSchema: objectSchema(map[string]interface{}{
			"query":    property("string", "Search query"),
			"location": property("string", "Location bias, defaults to us"),
			"limit":    property("number", "Number of results, defaults to 10"),
		}, "query"),
		Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			query, err := requiredString(args, "query")
			if err != nil {
				return nil, err
			}
			location := optionalString(args, "location", "us")
			limit := optionalInt(args, "limit", defaultSERPLimit)
			if limit <= 0 || limit > 100 {
				return nil, fmt.Errorf("limit must be between 1 and 100, got %d", limit)
			}
			return ds.SERPSnapshot(ctx, query, location, limit)
		},
	}
}

func backlinkSummaryTool(ds DataSource) *domain.Tool {
	return &domain.Tool{
		Name:        "backlink_summary",
		Description: "Backlink totals and referring domains for a domain",
		InputSchema: objectSchema(map[string]interface{}{
			"domain": property("string", "Domain to inspect, e.g. example.com"),
		}, "domain"),
		Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			target, err := requiredString(args, "domain")
			if err != nil {
				return nil, err
			}
			return ds.BacklinkSummary(ctx, target)
		},
	}
}

func domainOverviewTool(ds DataSource) *domain.Tool {
	return &domain.Tool{
		Name:        "domain_overview",
		Description: "Authority score, organic keywords and traffic estimate for a domain",
		InputSchema: objectSchema(map[string]interface{}{
			"domain": property("string", "Domain to inspect, e.g. example.com"),
		}, "domain"),
		Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			target, err := requiredString(args, "domain")
			if err != nil {
				return nil, err
			}
			return ds.DomainOverview(ctx, target)
		},
	}
}

// FallbackCatalog is the fixed descriptor list served when live tool
// extraction fails validation. It mirrors the built-in toolset above.
func FallbackCatalog() []domain.ToolDescriptor {
	return []domain.ToolDescriptor{
		{
			Name:        "backlink_summary",
			Description: "Backlink totals and referring domains for a domain",
			Parameters: domain.ToolParameters{
				Properties: map[string]domain.ParameterSpec{
					"domain": {Type: "string", Description: "Domain to inspect, e.g. example.com"},
				},
				Required: []string{"domain"},
			},
		},
		{
			Name:        "domain_overview",
			Description: "Authority score, organic keywords and traffic estimate for a domain",
			Parameters: domain.ToolParameters{
				Properties: map[string]domain.ParameterSpec{
					"domain": {Type: "string", Description: "Domain to inspect, e.g. example.com"},
				},
				Required: []string{"domain"},
			},
		},
		{
			Name:        "keyword_metrics",
			Description: "Search volume, difficulty and CPC for a keyword",
			Parameters: domain.ToolParameters{
				Properties: map[string]domain.ParameterSpec{
					"keyword": {Type: "string", Description: "Keyword to analyze"},
					"country": {Type: "string", Description: "Two-letter country code, defaults to us"},
				},
				Required: []string{"keyword"},
			},
		},
		{
			Name:        "serp_snapshot",
			Description: "Top organic search results for a query",
			Parameters: domain.ToolParameters{
				Properties: map[string]domain.ParameterSpec{
					"query":    {Type: "string", Description: "Search query"},
					"location": {Type: "string", Description: "Location bias, defaults to us"},
					"limit":    {Type: "number", Description: "Number of results, defaults to 10"},
				},
				Required: []string{"query"},
			},
		},
	}
}

// Schema and argument helpers

func objectSchema(properties map[string]interface{}, required ...string) map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

func property(typ, description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        typ,
		"description": description,
	}
}

func requiredString(args map[string]interface{}, name string) (string, error) {
	value, ok := args[name].(string)
	if !ok || value == "" {
		return "", fmt.Errorf("parameter %q must be a non-empty string", name)
	}
	return value, nil
}

func optionalString(args map[string]interface{}, name, fallback string) string {
	if value, ok := args[name].(string); ok && value != "" {
		return value
	}
	return fallback
}

func optionalInt(args map[string]interface{}, name string, fallback int) int {
	// JSON numbers decode as float64.
	if value, ok := args[name].(float64); ok {
		return int(value)
	}
	return fallback
}
