package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/hungpv1995/blog-seeder/internal/models"
)

// IndexName is the Elasticsearch index holding blog posts.
const IndexName = "posts"

type ElasticSearch struct {
	client *elasticsearch.Client
}

func NewElasticSearch(client *elasticsearch.Client) *ElasticSearch {
	return &ElasticSearch{client: client}
}

// CreateIndex creates the posts index with proper mapping
func (es *ElasticSearch) CreateIndex(ctx context.Context) error {
	mapping := `{
		"mappings": {
			"properties": {
				"id": {"type": "integer"},
				"title": {"type": "text"},
				"content": {"type": "text"},
				"author_id": {"type": "integer"},
				"author": {"type": "keyword"},
				"date_posted": {"type": "date"}
			}
		}
	}`

	req := esapi.IndicesCreateRequest{
		Index: IndexName,
		Body:  strings.NewReader(mapping),
	}

	res, err := req.Do(ctx, es.client)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() && !strings.Contains(res.String(), "resource_already_exists_exception") {
		return fmt.Errorf("error creating index: %s", res.String())
	}

	return nil
}

// IndexPost indexes a post in Elasticsearch
func (es *ElasticSearch) IndexPost(ctx context.Context, post *models.Post) error {
	docJSON, err := json.Marshal(post)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      IndexName,
		DocumentID: strconv.Itoa(post.ID),
		Body:       bytes.NewReader(docJSON),
	}

	res, err := req.Do(ctx, es.client)
	if err != nil {
		return fmt.Errorf("failed to index document: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error indexing document: %s", res.String())
	}
	return nil
}

type searchResult struct {
	Hits struct {
		Hits []struct {
			Score  float64     `json:"_score"`
			Source models.Post `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// SearchHit is a post matched by a full-text query
type SearchHit struct {
	models.Post
	Score float64 `json:"score"`
}

// SearchPosts performs full-text search on posts
func (es *ElasticSearch) SearchPosts(ctx context.Context, query string) ([]SearchHit, error) {
	searchQuery := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"title", "content"},
			},
		},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(searchQuery); err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}

	res, err := es.client.Search(
		es.client.Search.WithContext(ctx),
		es.client.Search.WithIndex(IndexName),
		es.client.Search.WithBody(&buf),
		es.client.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search error: %s", res.String())
	}

	var result searchResult
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	hits := make([]SearchHit, 0, len(result.Hits.Hits))
	for _, h := range result.Hits.Hits {
		hits = append(hits, SearchHit{Post: h.Source, Score: h.Score})
	}
	return hits, nil
}
