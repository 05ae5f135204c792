package database

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/olivere/elastic/v7"

	"github.com/locvowork/hr_data_bridge/internal/domain"
)

// ElasticSearchClient wraps olivere/elastic access to the replica store.
// The local_employees index links back to primary employee IDs by
// convention only; no referential integrity is declared or enforced.
type ElasticSearchClient struct {
	client *elastic.Client
	index  string
}

// NewElasticSearchClient creates a new client for Elasticsearch 7.x.
func NewElasticSearchClient(url, index string) (*ElasticSearchClient, error) {
	client, err := elastic.NewClient(
		elastic.SetURL(url),
		elastic.SetSniff(false), // Essential when using Docker or cloud
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	return &ElasticSearchClient{client: client, index: index}, nil
}

// WrapElasticClient wraps an existing client, mainly for tests.
func WrapElasticClient(client *elastic.Client, index string) *ElasticSearchClient {
	if client == nil {
		return nil
	}
	return &ElasticSearchClient{client: client, index: index}
}

// Index stores a local employee document using employee_id as document ID.
func (es *ElasticSearchClient) Index(ctx context.Context, doc domain.LocalEmployee) error {
	_, err := es.client.Index().
		Index(es.index).
		Id(strconv.Itoa(doc.EmployeeID)).
		BodyJson(doc).
		Refresh("true"). // Make changes immediately searchable
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to index local employee %d: %w", doc.EmployeeID, err)
	}
	return nil
}

// Get retrieves a local employee document by employee ID.
func (es *ElasticSearchClient) Get(ctx context.Context, employeeID int) (*domain.LocalEmployee, error) {
	result, err := es.client.Get().
		Index(es.index).
		Id(strconv.Itoa(employeeID)).
		Do(ctx)
	if err != nil {
		if elastic.IsNotFound(err) {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to get local employee %d: %w", employeeID, err)
	}
	if !result.Found {
		return nil, domain.ErrEmployeeNotFound
	}

	var doc domain.LocalEmployee
	if err := json.Unmarshal(result.Source, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode local employee %d: %w", employeeID, err)
	}
	return &doc, nil
}

// GetAll retrieves every local employee document. The replica holds at
// most a few thousand rows, so a single bounded search is enough and we
// skip the scroll API.
func (es *ElasticSearchClient) GetAll(ctx context.Context) ([]domain.LocalEmployee, error) {
	result, err := es.client.Search().
		Index(es.index).
		Query(elastic.NewMatchAllQuery()).
		Sort("employee_id", true).
		Size(10000).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to search local employees: %w", err)
	}

	docs := make([]domain.LocalEmployee, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		var doc domain.LocalEmployee
		if err := json.Unmarshal(hit.Source, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode local employee hit: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Delete removes a local employee document.
func (es *ElasticSearchClient) Delete(ctx context.Context, employeeID int) error {
	_, err := es.client.Delete().
		Index(es.index).
		Id(strconv.Itoa(employeeID)).
		Refresh("true").
		Do(ctx)
	if err != nil {
		if elastic.IsNotFound(err) {
			return domain.ErrEmployeeNotFound
		}
		return fmt.Errorf("failed to delete local employee %d: %w", employeeID, err)
	}
	return nil
}

// Ping verifies the replica store is reachable.
func (es *ElasticSearchClient) Ping(ctx context.Context) error {
	if _, err := es.client.IndexExists(es.index).Do(ctx); err != nil {
		return fmt.Errorf("replica store unreachable: %w", err)
	}
	return nil
}

// EnsureIndex creates the index with an explicit mapping when missing.
func (es *ElasticSearchClient) EnsureIndex(ctx context.Context) error {
	exists, err := es.client.IndexExists(es.index).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check index %s: %w", es.index, err)
	}
	if exists {
		return nil
	}

	mapping := `{
		"mappings": {
			"properties": {
				"employee_id":      {"type": "integer"},
				"local_name":       {"type": "keyword"},
				"local_department": {"type": "keyword"},
				"synced_at":        {"type": "date"}
			}
		}
	}`
	_, err = es.client.CreateIndex(es.index).BodyString(mapping).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create index %s: %w", es.index, err)
	}
	return nil
}
