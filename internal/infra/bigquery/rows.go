package bigquery

import (
	"math/big"
	"time"

	"cloud.google.com/go/civil"
)

// Row structs for the staging and warehouse tables. Money columns are
// NUMERIC and carried as *big.Rat; calendar dates are DATE via civil.Date.
// Column names are the canonical lowercase identifiers of the warehouse
// schema.

type StagingSaleRow struct {
	InvoiceID    string    `bigquery:"invoice_id"`
	StockCode    string    `bigquery:"stock_code"`
	Description  string    `bigquery:"description"`
	Quantity     int64     `bigquery:"quantity"`
	InvoiceDate  time.Time `bigquery:"invoice_date"`
	UnitPrice    *big.Rat  `bigquery:"unit_price"`
	CustomerCode string    `bigquery:"customer_code"`
	Country      string    `bigquery:"country"`
}

type DimProductRow struct {
	ProductID   int64  `bigquery:"product_id"`
	StockCode   string `bigquery:"stock_code"`
	Description string `bigquery:"description"`
}

type DimCustomerRow struct {
	CustomerID   int64  `bigquery:"customer_id"`
	CustomerCode string `bigquery:"customer_code"`
	Country      string `bigquery:"country"`
}

type DimDateRow struct {
	DateID int64      `bigquery:"date_id"`
	Date   civil.Date `bigquery:"calendar_date"`
	Year   int64      `bigquery:"year"`
	Month  int64      `bigquery:"month"`
	Day    int64      `bigquery:"day"`
}

type FactSaleRow struct {
	InvoiceID   string   `bigquery:"invoice_id"`
	ProductID   int64    `bigquery:"product_id"`
	CustomerID  int64    `bigquery:"customer_id"`
	DateID      int64    `bigquery:"date_id"`
	Quantity    int64    `bigquery:"quantity"`
	UnitPrice   *big.Rat `bigquery:"unit_price"`
	TotalAmount *big.Rat `bigquery:"total_amount"`
}
