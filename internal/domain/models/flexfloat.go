// internal/domain/models/flexfloat.go
package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// FlexFloat is a number that may be missing or unparseable.
//
// Profile and requirement numbers arrive from free-text form fields and
// older documents stored them as strings, so decoding accepts BSON
// double/int32/int64/decimal/string and JSON number/string. Anything that
// does not parse to a finite number decodes as unset instead of failing.
type FlexFloat struct {
	Value float64
	Set   bool
}

// NewFlexFloat returns a FlexFloat holding v.
func NewFlexFloat(v float64) FlexFloat {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return FlexFloat{}
	}
	return FlexFloat{Value: v, Set: true}
}

// ParseFlexFloat parses s leniently. Blank or non-numeric input is unset.
func ParseFlexFloat(s string) FlexFloat {
	s = strings.TrimSpace(s)
	if s == "" {
		return FlexFloat{}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return FlexFloat{}
	}
	return NewFlexFloat(v)
}

// Or returns the value, or def when unset.
func (f FlexFloat) Or(def float64) float64 {
	if !f.Set {
		return def
	}
	return f.Value
}

// String renders the value for logs and messages; unset renders as "".
func (f FlexFloat) String() string {
	if !f.Set {
		return ""
	}
	return strconv.FormatFloat(f.Value, 'f', -1, 64)
}

// MarshalBSONValue stores unset values as null.
func (f FlexFloat) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if !f.Set {
		return bsontype.Null, nil, nil
	}
	return bson.MarshalValue(f.Value)
}

// UnmarshalBSONValue accepts numeric and string encodings.
func (f *FlexFloat) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Double:
		*f = NewFlexFloat(rv.Double())
	case bsontype.Int32:
		*f = NewFlexFloat(float64(rv.Int32()))
	case bsontype.Int64:
		*f = NewFlexFloat(float64(rv.Int64()))
	case bsontype.Decimal128:
		*f = ParseFlexFloat(rv.Decimal128().String())
	case bsontype.String:
		*f = ParseFlexFloat(rv.StringValue())
	default:
		*f = FlexFloat{}
	}
	return nil
}

// MarshalJSON renders unset values as null.
func (f FlexFloat) MarshalJSON() ([]byte, error) {
	if !f.Set {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(f.Value, 'f', -1, 64)), nil
}

// UnmarshalJSON accepts a number, a numeric string, or null.
func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = FlexFloat{}
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			*f = FlexFloat{}
			return nil
		}
		*f = ParseFlexFloat(s)
		return nil
	}
	*f = ParseFlexFloat(string(b))
	return nil
}
