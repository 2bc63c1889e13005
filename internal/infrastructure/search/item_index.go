package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/pinit-down/internal/domain/entity"
)

const (
	requestTimeout    = 3 * time.Second
	defaultSearchSize = 20
	maxSearchSize     = 100
)

// ItemIndex mirrors cart items into an Elasticsearch index for full-text search.
// Every query carries a term filter on the owner id.
type ItemIndex struct {
	ES    *elasticsearch.Client
	Index string
}

func NewItemIndex(es *elasticsearch.Client, index string) *ItemIndex {
	return &ItemIndex{ES: es, Index: index}
}

// Put indexes or replaces the item document.
func (x *ItemIndex) Put(ctx context.Context, item *entity.CartItem) error {
	doc := make(map[string]any, len(item.Fields)+3)
	for k, v := range item.Fields {
		doc[k] = v
	}
	doc["userId"] = item.UserID
	doc["createdAt"] = item.CreatedAt.Format(time.RFC3339Nano)
	if item.UpdatedAt != nil {
		doc["updatedAt"] = item.UpdatedAt.Format(time.RFC3339Nano)
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.Index, DocumentID: item.ID, Body: bytes.NewReader(b), Refresh: "false"}
	return x.do(ctx, req)
}

func (x *ItemIndex) Delete(ctx context.Context, id string) error {
	req := esapi.DeleteRequest{Index: x.Index, DocumentID: id}
	return x.do(ctx, req)
}

// DeleteByOwner drops every document of ownerID.
func (x *ItemIndex) DeleteByOwner(ctx context.Context, ownerID string) error {
	b, err := json.Marshal(map[string]any{
		"query": map[string]any{"term": map[string]any{"userId": ownerID}},
	})
	if err != nil {
		return err
	}
	req := esapi.DeleteByQueryRequest{Index: []string{x.Index}, Body: bytes.NewReader(b)}
	return x.do(ctx, req)
}

// Search returns the ids of ownerID's items matching q, best match first.
func (x *ItemIndex) Search(ctx context.Context, ownerID, q string, size int) ([]string, error) {
	if size <= 0 || size > maxSearchSize {
		size = defaultSearchSize
	}
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"filter": []any{
					map[string]any{"term": map[string]any{"userId": ownerID}},
				},
				"must": []any{
					map[string]any{
						"simple_query_string": map[string]any{
							"query":            q,
							"fields":           []string{"title^2", "*"},
							"default_operator": "and",
							"lenient":          true,
						},
					},
				},
			},
		},
		"_source": false,
		"size":    size,
	}
	b, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.ES.Search(
		x.ES.Search.WithContext(c),
		x.ES.Search.WithIndex(x.Index),
		x.ES.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode == 404 {
		return []string{}, nil
	}
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		ids = append(ids, h.ID)
	}
	return ids, nil
}

type doer interface {
	Do(ctx context.Context, transport esapi.Transport) (*esapi.Response, error)
}

func (x *ItemIndex) do(ctx context.Context, req doer) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	// a missing document on delete is not a failure
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("elasticsearch %s", strings.ToLower(res.Status()))
	}
	return nil
}

// EnsureIndex creates the index with a keyword mapping for the owner id. An existing index is left as is.
func (x *ItemIndex) EnsureIndex(ctx context.Context) error {
	b, err := json.Marshal(map[string]any{
		"mappings": map[string]any{
			"properties": map[string]any{
				"userId":    map[string]any{"type": "keyword"},
				"title":     map[string]any{"type": "text"},
				"createdAt": map[string]any{"type": "date"},
				"updatedAt": map[string]any{"type": "date"},
			},
		},
	})
	if err != nil {
		return err
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := esapi.IndicesCreateRequest{Index: x.Index, Body: bytes.NewReader(b)}.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != 400 {
		return fmt.Errorf("elasticsearch create index: %s", res.Status())
	}
	return nil
}
