package bigquery

import (
	"context"
	"fmt"

	"github.com/dvloznov/retail-warehouse/internal/etl"
)

// AppendFacts appends one batch of fact rows to dwh.fact_sales. This is a
// plain append: retrying a failed batch can duplicate rows that were
// partially applied, so callers must verify before retrying.
func (s *Store) AppendFacts(ctx context.Context, facts []etl.FactRow) error {
	if len(facts) == 0 {
		return nil
	}

	rows := make([]*FactSaleRow, 0, len(facts))
	for _, f := range facts {
		rows = append(rows, &FactSaleRow{
			InvoiceID:   f.InvoiceID,
			ProductID:   f.ProductID,
			CustomerID:  f.CustomerID,
			DateID:      f.DateID,
			Quantity:    f.Quantity,
			UnitPrice:   f.UnitPrice,
			TotalAmount: f.TotalAmount,
		})
	}

	inserter := s.client.Dataset(s.warehouse).Table(FactTable).Inserter()
	if err := inserter.Put(ctx, rows); err != nil {
		return fmt.Errorf("AppendFacts: inserting rows: %w", err)
	}
	return nil
}
