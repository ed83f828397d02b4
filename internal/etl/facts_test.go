package etl

import (
	"errors"
	"math/big"
	"testing"
	"time"
)

// Three raw rows, one dropped for negative quantity, two facts referencing
// shared dimension keys.
func exampleRaw(t *testing.T) []RawRecord {
	t.Helper()
	return []RawRecord{
		{InvoiceID: "1", StockCode: "A1", Description: "mug", Quantity: 3,
			InvoiceTimestamp: "2021-01-05", UnitPrice: price(t, "2.5"), CustomerCode: "C1", Country: "FR"},
		{InvoiceID: "2", StockCode: "A1", Description: "mug", Quantity: -1,
			InvoiceTimestamp: "2021-01-06", UnitPrice: price(t, "5"), CustomerCode: "C2", Country: "FR"},
		{InvoiceID: "3", StockCode: "B2", Description: "bowl", Quantity: 1,
			InvoiceTimestamp: "2021-01-05", UnitPrice: price(t, "10"), CustomerCode: "C1", Country: "FR"},
	}
}

func TestBuildFacts_Example(t *testing.T) {
	clean, dropped := Clean(exampleRaw(t))
	if dropped != 1 {
		t.Fatalf("dropped = %d, want 1", dropped)
	}

	dims := BuildDimensions(clean)
	facts, err := BuildFacts(clean, dims)
	if err != nil {
		t.Fatalf("BuildFacts: %v", err)
	}

	if len(facts) != len(clean) {
		t.Fatalf("got %d facts for %d clean records", len(facts), len(clean))
	}

	first := facts[0]
	if first.InvoiceID != "1" || first.ProductID != 1 || first.CustomerID != 1 || first.DateID != 1 {
		t.Errorf("first fact = %+v, want invoice 1 → product 1, customer 1, date 1", first)
	}
	if want := price(t, "7.5"); first.TotalAmount.Cmp(want) != 0 {
		t.Errorf("first total = %v, want %v", first.TotalAmount, want)
	}

	second := facts[1]
	if second.InvoiceID != "3" || second.ProductID != 2 || second.CustomerID != 1 || second.DateID != 1 {
		t.Errorf("second fact = %+v, want invoice 3 → product 2, customer 1, date 1", second)
	}
	if want := price(t, "10"); second.TotalAmount.Cmp(want) != 0 {
		t.Errorf("second total = %v, want %v", second.TotalAmount, want)
	}
}

func TestBuildFacts_ExactTotals(t *testing.T) {
	// 0.1 * 3 is inexact in binary floats; rationals keep it exact.
	jan5 := time.Date(2021, 1, 5, 0, 0, 0, 0, time.UTC)
	records := []CleanRecord{
		cleanRecord(t, "1", "A1", "mug", 3, jan5, "0.1", "C1", "FR"),
	}

	facts, err := BuildFacts(records, BuildDimensions(records))
	if err != nil {
		t.Fatalf("BuildFacts: %v", err)
	}

	want := new(big.Rat).SetFrac64(3, 10)
	if facts[0].TotalAmount.Cmp(want) != 0 {
		t.Errorf("total = %v, want exactly 3/10", facts[0].TotalAmount)
	}
}

func TestBuildFacts_ReferentialIntegrity(t *testing.T) {
	clean, _ := Clean(exampleRaw(t))

	// Dimensions built from a stale subset of the records: the fact builder
	// must refuse rather than emit a dangling key.
	staleDims := BuildDimensions(clean[:1])

	_, err := BuildFacts(clean, staleDims)
	if err == nil {
		t.Fatal("expected an integrity error for inconsistent snapshots")
	}

	var integrityErr *IntegrityError
	if !errors.As(err, &integrityErr) {
		t.Fatalf("error = %T, want *IntegrityError", err)
	}
	if integrityErr.Dimension != "product" || integrityErr.NaturalKey != "B2" {
		t.Errorf("integrity error = %+v, want product/B2", integrityErr)
	}
}

func TestBuildFacts_EveryKeyResolves(t *testing.T) {
	clean, _ := Clean(exampleRaw(t))
	dims := BuildDimensions(clean)
	facts, err := BuildFacts(clean, dims)
	if err != nil {
		t.Fatalf("BuildFacts: %v", err)
	}

	products := make(map[int64]bool)
	for _, p := range dims.Products {
		products[p.ProductID] = true
	}
	customers := make(map[int64]bool)
	for _, c := range dims.Customers {
		customers[c.CustomerID] = true
	}
	dates := make(map[int64]bool)
	for _, d := range dims.Dates {
		dates[d.DateID] = true
	}

	for i, f := range facts {
		if !products[f.ProductID] || !customers[f.CustomerID] || !dates[f.DateID] {
			t.Errorf("fact %d references a key outside this build: %+v", i, f)
		}
	}
}
