// Package ingest reads the retail CSV export into typed raw records.
// Structurally malformed rows (wrong field count, non-numeric quantity or
// price) are skipped here and counted; value-level filtering is the
// cleaner's job.
package ingest

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math/big"
	"os"
	"strconv"
	"strings"

	"github.com/dvloznov/retail-warehouse/internal/etl"
	"github.com/dvloznov/retail-warehouse/internal/gcs"
)

// Columns of the retail export, matched case-insensitively against the
// header row.
var requiredColumns = []string{
	"invoiceno", "stockcode", "description", "quantity",
	"invoicedate", "unitprice", "customerid",
}

// CSVSource reads raw records from a local CSV file or a gs:// object.
type CSVSource struct{}

var _ etl.Source = (*CSVSource)(nil)

// ReadRecords reads the whole source into memory. Returns the parsed records
// in file order plus the number of skipped malformed rows.
func (s *CSVSource) ReadRecords(ctx context.Context, uri string) ([]etl.RawRecord, int, error) {
	if strings.HasPrefix(uri, "gs://") {
		data, err := gcs.Download(ctx, uri)
		if err != nil {
			return nil, 0, fmt.Errorf("read source %q: %w", uri, err)
		}
		return ParseCSV(bytes.NewReader(data))
	}

	f, err := os.Open(uri)
	if err != nil {
		return nil, 0, fmt.Errorf("read source %q: %w", uri, err)
	}
	defer f.Close()
	return ParseCSV(f)
}

// ParseCSV parses a retail export from r. The first row must be a header
// containing at least the required columns; a "country" column is optional.
func ParseCSV(r io.Reader) ([]etl.RawRecord, int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read CSV header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, 0, fmt.Errorf("CSV header missing column %q", name)
		}
	}

	var (
		records []etl.RawRecord
		skipped int
	)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}

		rec, ok := parseRow(row, cols)
		if !ok {
			skipped++
			continue
		}
		records = append(records, rec)
	}

	return records, skipped, nil
}

func parseRow(row []string, cols map[string]int) (etl.RawRecord, bool) {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	rec := etl.RawRecord{
		InvoiceID:        field("invoiceno"),
		StockCode:        field("stockcode"),
		Description:      field("description"),
		InvoiceTimestamp: field("invoicedate"),
		CustomerCode:     field("customerid"),
		Country:          field("country"),
	}

	// Quantity must be numeric to type the record at all. An empty or
	// fractional value makes the row structurally malformed.
	qty := field("quantity")
	if qty == "" {
		return etl.RawRecord{}, false
	}
	n, err := strconv.ParseInt(qty, 10, 64)
	if err != nil {
		return etl.RawRecord{}, false
	}
	rec.Quantity = n

	// An empty price stays nil so the cleaner's presence check drops it;
	// a non-numeric one means the row cannot be typed.
	if price := field("unitprice"); price != "" {
		rat, ok := new(big.Rat).SetString(price)
		if !ok {
			return etl.RawRecord{}, false
		}
		rec.UnitPrice = rat
	}

	return rec, true
}
