package netsuite

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SuiteQL rows carry every value as a string or json.Number under
// lower-cased column names. These helpers decode that shape once, at the
// adapter boundary.

// str returns the first non-empty value among the given columns.
func (r row) str(columns ...string) string {
	for _, col := range columns {
		switch v := r[col].(type) {
		case string:
			if v != "" {
				return v
			}
		case json.Number:
			return v.String()
		}
	}
	return ""
}

// flag decodes the 'T'/'F' boolean convention. Missing columns are false.
func (r row) flag(column string) bool {
	return r.str(column) == "T"
}

// dec parses a numeric column, returning zero for empty or missing values.
func (r row) dec(column string) (decimal.Decimal, error) {
	s := r.str(column)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("netsuite: column %s: %w", column, err)
	}
	return d, nil
}

// dateLayouts covers the formats SuiteQL emits depending on account locale.
var dateLayouts = []string{"2006-01-02", "1/2/2006", "02/01/2006", time.RFC3339}

// date parses a date column. The zero time is returned for empty values.
func (r row) date(column string) (time.Time, error) {
	s := r.str(column)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("netsuite: column %s: unrecognized date %q", column, s)
}
