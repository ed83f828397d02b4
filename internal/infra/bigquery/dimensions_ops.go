package bigquery

import (
	"context"
	"fmt"

	"github.com/dvloznov/retail-warehouse/internal/etl"
)

// replaceTable swaps the full contents of a table in one logical operation:
// rows are streamed into a swap table in the staging dataset, then published
// with a single CREATE OR REPLACE statement. The target never shows an empty
// window between the old and the new contents.
func (s *Store) replaceTable(ctx context.Context, dataset, table, columns string, rows interface{}, n int) error {
	swap := table + "_swap"
	create := fmt.Sprintf("CREATE OR REPLACE TABLE %s (%s)", s.tableRef(s.staging, swap), columns)
	if err := s.runQuery(ctx, create); err != nil {
		return fmt.Errorf("%s: create swap table: %w", table, err)
	}

	if n > 0 {
		inserter := s.client.Dataset(s.staging).Table(swap).Inserter()
		if err := inserter.Put(ctx, rows); err != nil {
			return fmt.Errorf("%s: stage rows: %w", table, err)
		}
	}

	publish := fmt.Sprintf("CREATE OR REPLACE TABLE %s AS SELECT * FROM %s",
		s.tableRef(dataset, table), s.tableRef(s.staging, swap))
	if err := s.runQuery(ctx, publish); err != nil {
		return fmt.Errorf("%s: publish: %w", table, err)
	}
	return nil
}

// ReplaceProducts replaces dwh.dim_product with the given rows.
func (s *Store) ReplaceProducts(ctx context.Context, dims []etl.ProductDim) error {
	rows := make([]*DimProductRow, 0, len(dims))
	for _, d := range dims {
		rows = append(rows, &DimProductRow{
			ProductID:   d.ProductID,
			StockCode:   d.StockCode,
			Description: d.Description,
		})
	}
	return s.replaceTable(ctx, s.warehouse, ProductTable, productColumns, rows, len(rows))
}

// ReplaceCustomers replaces dwh.dim_customer with the given rows.
func (s *Store) ReplaceCustomers(ctx context.Context, dims []etl.CustomerDim) error {
	rows := make([]*DimCustomerRow, 0, len(dims))
	for _, d := range dims {
		rows = append(rows, &DimCustomerRow{
			CustomerID:   d.CustomerID,
			CustomerCode: d.CustomerCode,
			Country:      d.Country,
		})
	}
	return s.replaceTable(ctx, s.warehouse, CustomerTable, customerColumns, rows, len(rows))
}

// ReplaceDates replaces dwh.dim_date with the given rows.
func (s *Store) ReplaceDates(ctx context.Context, dims []etl.DateDim) error {
	rows := make([]*DimDateRow, 0, len(dims))
	for _, d := range dims {
		rows = append(rows, &DimDateRow{
			DateID: d.DateID,
			Date:   d.Date,
			Year:   int64(d.Year),
			Month:  int64(d.Month),
			Day:    int64(d.Day),
		})
	}
	return s.replaceTable(ctx, s.warehouse, DateTable, dateColumns, rows, len(rows))
}
