package etl

import (
	"math/big"

	"cloud.google.com/go/civil"
)

// BuildFacts joins the cleaned records against the dimension key maps and
// computes the sale measures. It emits exactly one fact row per clean record,
// in input order; nothing is dropped or deduplicated here. TotalAmount is
// Quantity × UnitPrice in exact rational arithmetic.
//
// A lookup miss means the dimensions were built from a different snapshot of
// the records than the one passed here; that violates the build contract, so
// the whole build aborts rather than emitting a row with a dangling key.
func BuildFacts(records []CleanRecord, dims *Dimensions) ([]FactRow, error) {
	facts := make([]FactRow, 0, len(records))
	for i, r := range records {
		productID, ok := dims.ProductKey(r.StockCode)
		if !ok {
			return nil, &IntegrityError{Dimension: "product", NaturalKey: r.StockCode, Record: i}
		}
		customerID, ok := dims.CustomerKey(r.CustomerCode)
		if !ok {
			return nil, &IntegrityError{Dimension: "customer", NaturalKey: r.CustomerCode, Record: i}
		}
		date := civil.DateOf(r.InvoiceDate)
		dateID, ok := dims.DateKey(date)
		if !ok {
			return nil, &IntegrityError{Dimension: "date", NaturalKey: date.String(), Record: i}
		}

		total := new(big.Rat).Mul(new(big.Rat).SetInt64(r.Quantity), r.UnitPrice)
		facts = append(facts, FactRow{
			InvoiceID:   r.InvoiceID,
			ProductID:   productID,
			CustomerID:  customerID,
			DateID:      dateID,
			Quantity:    r.Quantity,
			UnitPrice:   r.UnitPrice,
			TotalAmount: total,
		})
	}
	return facts, nil
}
