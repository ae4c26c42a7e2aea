// Package seo provides the built-in SEO data tools exposed by the server.
package seo

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
)

// KeywordMetrics are the headline figures for one keyword in one country.
type KeywordMetrics struct {
	Keyword      string  `json:"keyword"`
	Country      string  `json:"country"`
	SearchVolume int     `json:"searchVolume"`
	Difficulty   int     `json:"difficulty"`
	CPC          float64 `json:"cpc"`
}

// SERPEntry is one organic result in a search snapshot.
type SERPEntry struct {
	Position int    `json:"position"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	Domain   string `json:"domain"`
}

// BacklinkSummary aggregates a domain's link profile.
type BacklinkSummary struct {
	Domain           string  `json:"domain"`
	TotalBacklinks   int     `json:"totalBacklinks"`
	ReferringDomains int     `json:"referringDomains"`
	DofollowRatio    float64 `json:"dofollowRatio"`
}

// DomainOverview summarizes a domain's organic standing.
type DomainOverview struct {
	Domain          string `json:"domain"`
	AuthorityScore  int    `json:"authorityScore"`
	OrganicKeywords int    `json:"organicKeywords"`
	MonthlyTraffic  int    `json:"monthlyTraffic"`
}

// DataSource supplies the metrics behind the built-in tools.
type DataSource interface {
	KeywordMetrics(ctx context.Context, keyword, country string) (*KeywordMetrics, error)
	SERPSnapshot(ctx context.Context, query, location string, limit int) ([]SERPEntry, error)
	BacklinkSummary(ctx context.Context, domain string) (*BacklinkSummary, error)
	DomainOverview(ctx context.Context, domain string) (*DomainOverview, error)
}

// StaticDataSource derives deterministic figures from its inputs. It stands
// in for a real SEO data provider behind the same interface.
type StaticDataSource struct{}

// NewStaticDataSource creates a new StaticDataSource.
func NewStaticDataSource() *StaticDataSource {
	return &StaticDataSource{}
}

// KeywordMetrics returns stable metrics for the keyword/country pair.
func (s *StaticDataSource) KeywordMetrics(ctx context.Context, keyword, country string) (*KeywordMetrics, error) {
	seed := keyword + "/" + country
	return &KeywordMetrics{
		Keyword:      keyword,
		Country:      country,
		SearchVolume: derive(seed+"volume", 50, 250000),
		Difficulty:   derive(seed+"difficulty", 1, 100),
		CPC:          float64(derive(seed+"cpc", 10, 2500)) / 100,
	}, nil
}

// SERPSnapshot returns up to limit synthetic organic results for the query.
func (s *StaticDataSource) SERPSnapshot(ctx context.Context, query, location string, limit int) ([]SERPEntry, error) {
	slug := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(query)), " ", "-")
	entries := make([]SERPEntry, 0, limit)
	for i := 1; i <= limit; i++ {
		host := fmt.Sprintf("result%d-%s.example.com", i, location)
		entries = append(entries, SERPEntry{
			Position: i,
			Title:    fmt.Sprintf("%s | result %d", query, i),
			URL:      fmt.Sprintf("https://%s/%s", host, slug),
			Domain:   host,
		})
	}
	return entries, nil
}

// BacklinkSummary returns a stable link profile for the domain.
func (s *StaticDataSource) BacklinkSummary(ctx context.Context, domain string) (*BacklinkSummary, error) {
	referring := derive(domain+"referring", 10, 50000)
	return &BacklinkSummary{
		Domain:           domain,
		TotalBacklinks:   referring * derive(domain+"perDomain", 2, 40),
		ReferringDomains: referring,
		DofollowRatio:    float64(derive(domain+"dofollow", 40, 95)) / 100,
	}, nil
}

// DomainOverview returns a stable organic summary for the domain.
func (s *StaticDataSource) DomainOverview(ctx context.Context, domain string) (*DomainOverview, error) {
	return &DomainOverview{
		Domain:          domain,
		AuthorityScore:  derive(domain+"authority", 1, 100),
		OrganicKeywords: derive(domain+"keywords", 20, 500000),
		MonthlyTraffic:  derive(domain+"traffic", 100, 5000000),
	}, nil
}

// derive maps a seed string onto [min, max].
func derive(seed string, min, max int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(seed))
	return min + int(h.Sum32()%uint32(max-min+1))
}
