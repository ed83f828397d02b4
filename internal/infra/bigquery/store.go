// Package bigquery implements the warehouse store on BigQuery. The staging
// dataset holds the cleaned dataset, the swap tables used for atomic
// replacement, and the load-run log; the warehouse dataset holds the three
// dimension tables and the fact table.
package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"

	"github.com/dvloznov/retail-warehouse/internal/etl"
)

const (
	StagingTable  = "retail_cleaned"
	ProductTable  = "dim_product"
	CustomerTable = "dim_customer"
	DateTable     = "dim_date"
	FactTable     = "fact_sales"
	LoadRunsTable = "load_runs"
)

// Store executes warehouse reads and writes against BigQuery.
type Store struct {
	client    *bigquery.Client
	projectID string
	staging   string
	warehouse string
}

var _ etl.Store = (*Store)(nil)
var _ etl.RunLog = (*Store)(nil)

// NewStore creates a store scoped to one project and dataset pair. The
// caller owns the lifetime and must Close it on all exit paths.
func NewStore(ctx context.Context, projectID, stagingDataset, warehouseDataset string) (*Store, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("NewStore: bigquery client: %w", err)
	}
	return &Store{
		client:    client,
		projectID: projectID,
		staging:   stagingDataset,
		warehouse: warehouseDataset,
	}, nil
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

// runQuery runs a query job to completion.
func (s *Store) runQuery(ctx context.Context, sql string, params ...bigquery.QueryParameter) error {
	q := s.client.Query(sql)
	q.Parameters = params

	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("running query: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("waiting for job: %w", err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("job error: %w", err)
	}
	return nil
}

func (s *Store) tableRef(dataset, table string) string {
	return fmt.Sprintf("`%s.%s.%s`", s.projectID, dataset, table)
}
