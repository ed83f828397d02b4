package bigquery

import (
	"context"

	"github.com/dvloznov/retail-warehouse/internal/etl"
)

// StageCleanRecords replaces staging.retail_cleaned with the cleaned dataset
// of the current build.
func (s *Store) StageCleanRecords(ctx context.Context, records []etl.CleanRecord) error {
	rows := make([]*StagingSaleRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, &StagingSaleRow{
			InvoiceID:    r.InvoiceID,
			StockCode:    r.StockCode,
			Description:  r.Description,
			Quantity:     r.Quantity,
			InvoiceDate:  r.InvoiceDate,
			UnitPrice:    r.UnitPrice,
			CustomerCode: r.CustomerCode,
			Country:      r.Country,
		})
	}
	return s.replaceTable(ctx, s.staging, StagingTable, stagingColumns, rows, len(rows))
}
