package etl

import (
	"sync"

	"cloud.google.com/go/civil"
)

// BuildDimensions derives the product, customer and date dimensions from the
// cleaned records. Each dimension dedupes by natural key on first occurrence
// and assigns dense surrogate keys starting at 1 in that order, so a rebuild
// over identical input reproduces the same assignment. Attribute values are
// the ones observed at first occurrence. The three scans share no state and
// run concurrently.
func BuildDimensions(records []CleanRecord) *Dimensions {
	dims := &Dimensions{}

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		dims.Products, dims.productKeys = buildProductDim(records)
	}()
	go func() {
		defer wg.Done()
		dims.Customers, dims.customerKeys = buildCustomerDim(records)
	}()
	go func() {
		defer wg.Done()
		dims.Dates, dims.dateKeys = buildDateDim(records)
	}()
	wg.Wait()

	return dims
}

func buildProductDim(records []CleanRecord) ([]ProductDim, map[string]int64) {
	rows := make([]ProductDim, 0)
	keys := make(map[string]int64)
	for _, r := range records {
		if _, ok := keys[r.StockCode]; ok {
			continue
		}
		id := int64(len(rows)) + 1
		keys[r.StockCode] = id
		rows = append(rows, ProductDim{
			ProductID:   id,
			StockCode:   r.StockCode,
			Description: r.Description,
		})
	}
	return rows, keys
}

func buildCustomerDim(records []CleanRecord) ([]CustomerDim, map[string]int64) {
	rows := make([]CustomerDim, 0)
	keys := make(map[string]int64)
	for _, r := range records {
		if _, ok := keys[r.CustomerCode]; ok {
			continue
		}
		id := int64(len(rows)) + 1
		keys[r.CustomerCode] = id
		rows = append(rows, CustomerDim{
			CustomerID:   id,
			CustomerCode: r.CustomerCode,
			Country:      r.Country,
		})
	}
	return rows, keys
}

// buildDateDim truncates invoice timestamps to calendar dates before
// deduplication; year, month and day are derived from the truncated value.
func buildDateDim(records []CleanRecord) ([]DateDim, map[civil.Date]int64) {
	rows := make([]DateDim, 0)
	keys := make(map[civil.Date]int64)
	for _, r := range records {
		d := civil.DateOf(r.InvoiceDate)
		if _, ok := keys[d]; ok {
			continue
		}
		id := int64(len(rows)) + 1
		keys[d] = id
		rows = append(rows, DateDim{
			DateID: id,
			Date:   d,
			Year:   d.Year,
			Month:  int(d.Month),
			Day:    d.Day,
		})
	}
	return rows, keys
}
