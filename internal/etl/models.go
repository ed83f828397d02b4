package etl

import (
	"math/big"
	"time"

	"cloud.google.com/go/civil"
)

// RawRecord is one transaction line as produced by the ingestion layer.
// Numeric fields are already typed; the invoice timestamp stays a string
// because export formats vary and parsing it is the cleaner's job. A nil
// UnitPrice means the source field was empty.
type RawRecord struct {
	InvoiceID        string
	StockCode        string
	Description      string
	Quantity         int64
	InvoiceTimestamp string
	UnitPrice        *big.Rat
	CustomerCode     string
	Country          string
}

// CleanRecord is a RawRecord that survived cleaning: all key fields present,
// timestamp parsed, quantity and unit price strictly positive. Records are
// never mutated after cleaning; both the dimension builder and the fact
// builder read the same materialized slice.
type CleanRecord struct {
	InvoiceID    string
	StockCode    string
	Description  string
	Quantity     int64
	InvoiceDate  time.Time
	UnitPrice    *big.Rat
	CustomerCode string
	Country      string
}

// ProductDim is one row of the product dimension.
type ProductDim struct {
	ProductID   int64
	StockCode   string
	Description string
}

// CustomerDim is one row of the customer dimension.
type CustomerDim struct {
	CustomerID   int64
	CustomerCode string
	Country      string
}

// DateDim is one row of the date dimension, at calendar-date granularity.
type DateDim struct {
	DateID int64
	Date   civil.Date
	Year   int
	Month  int
	Day    int
}

// FactRow is one sale measure referencing the three dimensions by surrogate
// key. TotalAmount is Quantity × UnitPrice, computed exactly.
type FactRow struct {
	InvoiceID   string
	ProductID   int64
	CustomerID  int64
	DateID      int64
	Quantity    int64
	UnitPrice   *big.Rat
	TotalAmount *big.Rat
}

// Dimensions holds the three dimension row sets plus the natural-key →
// surrogate-key maps the fact builder joins against. Keys are only ever
// assigned by BuildDimensions; lookups never create entries.
type Dimensions struct {
	Products  []ProductDim
	Customers []CustomerDim
	Dates     []DateDim

	productKeys  map[string]int64
	customerKeys map[string]int64
	dateKeys     map[civil.Date]int64
}

// ProductKey returns the surrogate key assigned to a stock code.
func (d *Dimensions) ProductKey(stockCode string) (int64, bool) {
	id, ok := d.productKeys[stockCode]
	return id, ok
}

// CustomerKey returns the surrogate key assigned to a customer code.
func (d *Dimensions) CustomerKey(customerCode string) (int64, bool) {
	id, ok := d.customerKeys[customerCode]
	return id, ok
}

// DateKey returns the surrogate key assigned to a calendar date.
func (d *Dimensions) DateKey(date civil.Date) (int64, bool) {
	id, ok := d.dateKeys[date]
	return id, ok
}

// BuildReport summarizes one completed warehouse build.
type BuildReport struct {
	RawRows      int
	DroppedRows  int
	CleanRows    int
	ProductRows  int
	CustomerRows int
	DateRows     int
	FactRows     int
}
