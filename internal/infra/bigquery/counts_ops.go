package bigquery

import (
	"context"
	"fmt"

	"google.golang.org/api/iterator"
)

// CountWarehouseRows returns the row count of a warehouse table. Used to
// verify a load against the build report.
func (s *Store) CountWarehouseRows(ctx context.Context, table string) (int64, error) {
	q := s.client.Query(fmt.Sprintf("SELECT COUNT(*) AS n FROM %s", s.tableRef(s.warehouse, table)))

	it, err := q.Read(ctx)
	if err != nil {
		return 0, fmt.Errorf("CountWarehouseRows %s: query read: %w", table, err)
	}

	var row struct {
		N int64 `bigquery:"n"`
	}
	err = it.Next(&row)
	if err == iterator.Done {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("CountWarehouseRows %s: iter next: %w", table, err)
	}
	return row.N, nil
}
