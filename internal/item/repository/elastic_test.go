package repository

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/fekuna/hotel-stock-service/internal/item/dto"
	"github.com/fekuna/hotel-stock-service/internal/model"
	"github.com/fekuna/hotel-stock-service/internal/pkg/search"
)

func TestBuildItemQuery(t *testing.T) {
	q := buildItemQuery(&dto.ItemFilters{Kind: model.KindLinen, Query: " tow*el "})

	b, err := json.Marshal(q)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	body := string(b)
	for _, want := range []string{
		`"value":"*tow\\*el*"`,
		`"case_insensitive":true`,
		`{"term":{"kind":"linen"}}`,
		`"minimum_should_match":1`,
		`{"wildcard":{"category":`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("query %s missing %s", body, want)
		}
	}

	empty := buildItemQuery(&dto.ItemFilters{})
	if got := empty["query"].(map[string]any)["bool"].(map[string]any); len(got) != 0 {
		t.Errorf("empty filters bool = %v, want no clauses", got)
	}
}

func TestEscapeWildcard(t *testing.T) {
	tests := []struct{ in, want string }{
		{"towel", "towel"},
		{"a*b", `a\*b`},
		{"a?b", `a\?b`},
		{`a\b`, `a\\b`},
	}
	for _, tt := range tests {
		if got := escapeWildcard(tt.in); got != tt.want {
			t.Errorf("escapeWildcard(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// fakeCluster answers the handful of endpoints the indexer uses.
type fakeCluster struct {
	mu       sync.Mutex
	requests []string
}

func (f *fakeCluster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	f.mu.Unlock()
	io.Copy(io.Discard, r.Body)

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.URL.Path == "/":
		io.WriteString(w, `{"version":{"number":"8.19.0","build_flavor":"default"},"tagline":"You Know, for Search"}`)
	case strings.HasSuffix(r.URL.Path, "/_search"):
		io.WriteString(w, `{"hits":{"total":{"value":2},"hits":[{"_id":"TWL-01"},{"_id":"TWL-02"}]}}`)
	case r.Method == http.MethodDelete:
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"result":"not_found"}`)
	default:
		io.WriteString(w, `{"result":"created"}`)
	}
}

func TestElasticIndexer(t *testing.T) {
	cluster := &fakeCluster{}
	srv := httptest.NewServer(cluster)
	defer srv.Close()

	es, err := search.NewClient(&search.Config{Addresses: []string{srv.URL}})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	idx := NewElasticIndexer(es, "stock_items")
	ctx := context.Background()

	if err := idx.IndexItem(ctx, &model.Item{ItemCode: "TWL-01", Kind: model.KindLinen, ItemName: "Bath Towel"}); err != nil {
		t.Fatalf("IndexItem() error = %v", err)
	}
	if err := idx.DeleteItem(ctx, "GONE"); err != nil {
		t.Errorf("DeleteItem() of missing doc error = %v, want nil", err)
	}

	codes, err := idx.SearchItemCodes(ctx, &dto.ItemFilters{Query: "towel"})
	if err != nil {
		t.Fatalf("SearchItemCodes() error = %v", err)
	}
	if want := []string{"TWL-01", "TWL-02"}; !reflect.DeepEqual(codes, want) {
		t.Errorf("codes = %v, want %v", codes, want)
	}

	cluster.mu.Lock()
	defer cluster.mu.Unlock()
	if !contains(cluster.requests, "PUT /stock_items/_doc/TWL-01") {
		t.Errorf("requests = %v, want an index PUT for TWL-01", cluster.requests)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
