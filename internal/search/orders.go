package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Scribax/followers-shop/internal/models"
	"github.com/Scribax/followers-shop/internal/transport"
	"github.com/Scribax/followers-shop/pkg/logging"
)

const OrderIndex = "orders"

// OrderIndexer mirrors order rows into Elasticsearch so the admin search can
// run there. A nil indexer disables both indexing and querying; callers fall
// back to the SQL search.
type OrderIndexer struct {
	ES *elasticsearch.Client
}

func NewOrderIndexer(url, user, password string) (*OrderIndexer, error) {
	if url == "" {
		return nil, nil
	}

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch error: %s", res.Status())
	}

	return &OrderIndexer{ES: client}, nil
}

func (ix *OrderIndexer) Enabled() bool { return ix != nil && ix.ES != nil }

// IndexOrder upserts one order document. Index failures are logged and
// swallowed; the SQL store stays the source of truth.
func (ix *OrderIndexer) IndexOrder(ctx context.Context, order *models.Order) {
	if !ix.Enabled() {
		return
	}
	l := logging.FromContext(ctx).With("svc", "search.index_order", "order_id", order.ID)

	data, err := json.Marshal(order)
	if err != nil {
		l.Error("index_failed", "error", err)
		return
	}

	res, err := ix.ES.Index(
		OrderIndex,
		bytes.NewReader(data),
		ix.ES.Index.WithDocumentID(order.ID),
		ix.ES.Index.WithContext(ctx),
	)
	if err != nil {
		l.Error("index_failed", "error", err)
		return
	}
	defer res.Body.Close()
	if res.IsError() {
		l.Error("index_failed", "status", res.Status())
	}
}

func (ix *OrderIndexer) DeleteOrder(ctx context.Context, id string) {
	if !ix.Enabled() {
		return
	}
	l := logging.FromContext(ctx).With("svc", "search.delete_order", "order_id", id)

	res, err := ix.ES.Delete(OrderIndex, id, ix.ES.Delete.WithContext(ctx))
	if err != nil {
		l.Error("delete_failed", "error", err)
		return
	}
	res.Body.Close()
}

// searchQuery builds the query body for the admin criteria. The search term
// is a case-insensitive substring match over id, customer email, and handle,
// same contract as the SQL LIKE fallback.
func searchQuery(criteria transport.SearchOrdersCriteria) map[string]any {
	must := make([]map[string]any, 0, 3)

	if criteria.Status != "" {
		must = append(must, map[string]any{
			"term": map[string]any{"status.keyword": criteria.Status},
		})
	}
	if criteria.StartDate != nil && criteria.EndDate != nil {
		must = append(must, map[string]any{
			"range": map[string]any{
				"createdAt": map[string]any{
					"gte": criteria.StartDate,
					"lte": criteria.EndDate,
				},
			},
		})
	}
	if criteria.SearchTerm != "" {
		pattern := "*" + strings.ToLower(criteria.SearchTerm) + "*"
		should := make([]map[string]any, 0, 3)
		for _, field := range []string{"id.keyword", "customerEmail.keyword", "igUsername.keyword"} {
			should = append(should, map[string]any{
				"wildcard": map[string]any{
					field: map[string]any{"value": pattern, "case_insensitive": true},
				},
			})
		}
		must = append(must, map[string]any{
			"bool": map[string]any{"should": should, "minimum_should_match": 1},
		})
	}

	return map[string]any{
		"query": map[string]any{"bool": map[string]any{"must": must}},
		"sort":  []map[string]any{{"createdAt": map[string]any{"order": "desc"}}},
		"size":  100,
	}
}

// SearchOrders runs the admin criteria against the order index.
func (ix *OrderIndexer) SearchOrders(ctx context.Context, criteria transport.SearchOrdersCriteria) ([]models.Order, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(searchQuery(criteria)); err != nil {
		return nil, err
	}

	res, err := ix.ES.Search(
		ix.ES.Search.WithContext(ctx),
		ix.ES.Search.WithIndex(OrderIndex),
		ix.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("search error: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source models.Order `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, err
	}

	orders := make([]models.Order, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		orders[i] = hit.Source
	}
	return orders, nil
}
