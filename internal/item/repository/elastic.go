package repository

import (
	"context"
	"strings"

	"github.com/fekuna/hotel-stock-service/internal/item/dto"
	"github.com/fekuna/hotel-stock-service/internal/model"
	"github.com/fekuna/hotel-stock-service/internal/pkg/search"
)

const itemMapping = `{
	"mappings": {
		"properties": {
			"item_code": { "type": "keyword" },
			"kind": { "type": "keyword" },
			"item_name": { "type": "keyword" },
			"category": { "type": "keyword" }
		}
	}
}`

// maxSearchHits bounds one candidate lookup; item master data is small.
const maxSearchHits = 1000

type ElasticIndexer struct {
	es    *search.Client
	index string
}

func NewElasticIndexer(es *search.Client, index string) *ElasticIndexer {
	return &ElasticIndexer{es: es, index: index}
}

func (r *ElasticIndexer) EnsureIndex(ctx context.Context) error {
	return r.es.CreateIndex(ctx, r.index, itemMapping)
}

type itemDocument struct {
	ItemCode string         `json:"item_code"`
	Kind     model.ItemKind `json:"kind"`
	ItemName string         `json:"item_name"`
	Category string         `json:"category"`
}

func (r *ElasticIndexer) IndexItem(ctx context.Context, it *model.Item) error {
	return r.es.Index(ctx, r.index, it.ItemCode, itemDocument{
		ItemCode: it.ItemCode,
		Kind:     it.Kind,
		ItemName: it.ItemName,
		Category: it.Category,
	})
}

func (r *ElasticIndexer) DeleteItem(ctx context.Context, itemCode string) error {
	return r.es.Delete(ctx, r.index, itemCode)
}

// SearchItemCodes returns candidate codes; callers merge them with the store listing.
func (r *ElasticIndexer) SearchItemCodes(ctx context.Context, filters *dto.ItemFilters) ([]string, error) {
	res, err := r.es.Search(ctx, r.index, buildItemQuery(filters))
	if err != nil {
		return nil, err
	}

	codes := make([]string, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		codes = append(codes, hit.ID)
	}
	return codes, nil
}

func buildItemQuery(filters *dto.ItemFilters) map[string]any {
	boolQuery := map[string]any{}

	if q := strings.TrimSpace(filters.Query); q != "" {
		pattern := "*" + escapeWildcard(q) + "*"
		should := []map[string]any{}
		for _, field := range []string{"item_code", "item_name", "category"} {
			should = append(should, map[string]any{
				"wildcard": map[string]any{
					field: map[string]any{"value": pattern, "case_insensitive": true},
				},
			})
		}
		boolQuery["should"] = should
		boolQuery["minimum_should_match"] = 1
	}
	if filters.Kind != "" {
		boolQuery["filter"] = []map[string]any{
			{"term": map[string]any{"kind": string(filters.Kind)}},
		}
	}

	return map[string]any{
		"query":   map[string]any{"bool": boolQuery},
		"size":    maxSearchHits,
		"_source": false,
	}
}

var wildcardEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)

func escapeWildcard(s string) string {
	return wildcardEscaper.Replace(s)
}
