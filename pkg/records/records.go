// Package records defines the record model shared by the parser, the
// cleaning chain, and the report builder.
//
// A Record is a map keyed by canonical column name. Values are whatever the
// pipeline stages have produced so far: raw strings straight from the CSV
// reader, typed values (int, float64, time.Time) after coercion, or nil for
// missing/blank fields. The typed accessors perform no conversion; they
// return the zero value and false when the stored value is absent, nil, or
// of a different type.
package records

import "time"

// Canonical column names for the layoffs dataset. The parser's header map
// folds whatever the export calls these columns into this set.
const (
	FieldCompany             = "company"
	FieldLocation            = "location"
	FieldIndustry            = "industry"
	FieldTotalLaidOff        = "total_laid_off"
	FieldPercentageLaidOff   = "percentage_laid_off"
	FieldEventDate           = "event_date"
	FieldStage               = "stage"
	FieldCountry             = "country"
	FieldFundsRaisedMillions = "funds_raised_millions"
)

// LineField is the reserved key under which the CSV parser stores a
// record's 1-based source line. It is never part of the storage columns; it
// exists for error reporting and to make load order explicit.
const LineField = "_line"

// Record is one layoff event keyed by canonical column name.
type Record map[string]any

// Line returns the source line recorded by the parser, or 0 when absent.
func (r Record) Line() int {
	n, _ := r.Int(LineField)
	return n
}

// Clone returns a shallow copy of r. Values are shared; keys are not.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// String returns the string value for key. ok is false when the value is
// missing, nil, or not a string.
func (r Record) String(key string) (string, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Int returns the int value for key. ok is false when the value is missing,
// nil, or not an int.
func (r Record) Int(key string) (int, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return 0, false
	}
	i, ok := v.(int)
	return i, ok
}

// Float returns the float64 value for key. Stored ints are widened so that
// percentage fields read back consistently regardless of how the source
// spelled them ("1" vs "1.0").
func (r Record) Float(key string) (float64, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

// Time returns the time.Time value for key. ok is false when the value is
// missing, nil, or not a time.Time.
func (r Record) Time(key string) (time.Time, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return time.Time{}, false
	}
	t, ok := v.(time.Time)
	return t, ok
}

// IsNull reports whether key is absent or holds nil.
func (r Record) IsNull(key string) bool {
	v, ok := r[key]
	return !ok || v == nil
}
