package etl

import (
	"math/big"
	"testing"
	"time"
)

// price parses a decimal literal into the exact rational the builders use.
func price(t *testing.T, s string) *big.Rat {
	t.Helper()
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		t.Fatalf("bad price literal %q", s)
	}
	return r
}

func validRaw(t *testing.T) RawRecord {
	t.Helper()
	return RawRecord{
		InvoiceID:        "536365",
		StockCode:        "85123A",
		Description:      "WHITE HANGING HEART T-LIGHT HOLDER",
		Quantity:         6,
		InvoiceTimestamp: "12/1/2010 8:26",
		UnitPrice:        price(t, "2.55"),
		CustomerCode:     "17850",
		Country:          "United Kingdom",
	}
}

func TestClean_Filters(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*RawRecord)
		wantKept bool
	}{
		{"valid record", func(r *RawRecord) {}, true},
		{"empty invoice id", func(r *RawRecord) { r.InvoiceID = "" }, false},
		{"empty stock code", func(r *RawRecord) { r.StockCode = "" }, false},
		{"empty description", func(r *RawRecord) { r.Description = "" }, false},
		{"empty timestamp", func(r *RawRecord) { r.InvoiceTimestamp = "" }, false},
		{"empty customer code", func(r *RawRecord) { r.CustomerCode = "" }, false},
		{"missing unit price", func(r *RawRecord) { r.UnitPrice = nil }, false},
		{"unparseable timestamp", func(r *RawRecord) { r.InvoiceTimestamp = "not a date" }, false},
		{"negative quantity", func(r *RawRecord) { r.Quantity = -2 }, false},
		{"zero quantity", func(r *RawRecord) { r.Quantity = 0 }, false},
		{"zero unit price", func(r *RawRecord) { r.UnitPrice = big.NewRat(0, 1) }, false},
		{"negative unit price", func(r *RawRecord) { r.UnitPrice = big.NewRat(-1, 1) }, false},
		{"empty country is kept", func(r *RawRecord) { r.Country = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := validRaw(t)
			tt.mutate(&rec)

			clean, dropped := Clean([]RawRecord{rec})
			if kept := len(clean) == 1; kept != tt.wantKept {
				t.Errorf("kept = %v, want %v", kept, tt.wantKept)
			}
			if wantDropped := map[bool]int{true: 0, false: 1}[tt.wantKept]; dropped != wantDropped {
				t.Errorf("dropped = %d, want %d", dropped, wantDropped)
			}
		})
	}
}

func TestClean_ParsesTimestamp(t *testing.T) {
	rec := validRaw(t)
	clean, _ := Clean([]RawRecord{rec})
	if len(clean) != 1 {
		t.Fatalf("expected 1 clean record, got %d", len(clean))
	}

	want := time.Date(2010, time.December, 1, 8, 26, 0, 0, time.UTC)
	if !clean[0].InvoiceDate.Equal(want) {
		t.Errorf("InvoiceDate = %v, want %v", clean[0].InvoiceDate, want)
	}
}

func TestClean_PreservesOrder(t *testing.T) {
	a := validRaw(t)
	a.InvoiceID = "1"
	bad := validRaw(t)
	bad.InvoiceID = "2"
	bad.Quantity = -1
	c := validRaw(t)
	c.InvoiceID = "3"

	clean, dropped := Clean([]RawRecord{a, bad, c})
	if dropped != 1 {
		t.Fatalf("dropped = %d, want 1", dropped)
	}
	if len(clean) != 2 || clean[0].InvoiceID != "1" || clean[1].InvoiceID != "3" {
		t.Errorf("unexpected survivors: %+v", clean)
	}
}

func TestClean_EmptyInput(t *testing.T) {
	clean, dropped := Clean(nil)
	if len(clean) != 0 || dropped != 0 {
		t.Errorf("Clean(nil) = (%d records, %d dropped), want (0, 0)", len(clean), dropped)
	}
}

func TestParseTimestamp_Layouts(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"12/1/2010 8:26", time.Date(2010, 12, 1, 8, 26, 0, 0, time.UTC)},
		{"1/5/2021 13:04:09", time.Date(2021, 1, 5, 13, 4, 9, 0, time.UTC)},
		{"2021-01-05 13:04:09", time.Date(2021, 1, 5, 13, 4, 9, 0, time.UTC)},
		{"2021-01-05", time.Date(2021, 1, 5, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := parseTimestamp(tt.input)
			if !ok {
				t.Fatalf("parseTimestamp(%q) failed", tt.input)
			}
			if !got.Equal(tt.want) {
				t.Errorf("parseTimestamp(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}

	if _, ok := parseTimestamp("13/13/2010 8:26"); ok {
		t.Error("expected month 13 to fail parsing")
	}
}
