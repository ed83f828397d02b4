package etl

import (
	"time"
)

// timestampLayouts are tried in order when parsing invoice timestamps.
// The retail export writes month-first timestamps without zero padding.
var timestampLayouts = []string{
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Clean filters and normalizes raw records. In order: records with an empty
// key field are dropped, records whose timestamp does not parse are dropped,
// and records with a non-positive quantity or unit price (returns,
// cancellations, giveaway rows) are dropped. Output order matches input
// order. Returns the surviving records plus the number dropped.
func Clean(raw []RawRecord) ([]CleanRecord, int) {
	clean := make([]CleanRecord, 0, len(raw))
	for _, r := range raw {
		if r.InvoiceID == "" || r.StockCode == "" || r.Description == "" ||
			r.InvoiceTimestamp == "" || r.CustomerCode == "" || r.UnitPrice == nil {
			continue
		}
		ts, ok := parseTimestamp(r.InvoiceTimestamp)
		if !ok {
			// Unparseable timestamps are treated the same as absent ones.
			continue
		}
		if r.Quantity <= 0 || r.UnitPrice.Sign() <= 0 {
			continue
		}
		clean = append(clean, CleanRecord{
			InvoiceID:    r.InvoiceID,
			StockCode:    r.StockCode,
			Description:  r.Description,
			Quantity:     r.Quantity,
			InvoiceDate:  ts,
			UnitPrice:    r.UnitPrice,
			CustomerCode: r.CustomerCode,
			Country:      r.Country,
		})
	}
	return clean, len(raw) - len(clean)
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
