package catalog

import (
	"fmt"
	"net/url"
	"strconv"
)

// Filter is one validated list predicate over a numeric metadata
// column.
type Filter struct {
	Column string
	Op     string
	Value  float64
}

// allowedFilters maps query parameter names to the column and
// comparison they are permitted to express. Keys outside this map are
// rejected before any query is built.
var allowedFilters = map[string]struct {
	column string
	op     string
}{
	"channels":     {"channels", "="},
	"maxduration":  {"duration", "<="},
	"minduration":  {"duration", ">="},
	"maxframerate": {"framerate", "<="},
	"minframerate": {"framerate", ">="},
	"maxframes":    {"frames", "<="},
	"minframes":    {"frames", ">="},
}

// ParseFilters validates list query parameters against the allow-list
// and parses their values. It fails closed: the first unrecognized key
// or unparseable value aborts with ErrInvalidQuery naming the
// parameter, before any query executes.
func ParseFilters(params url.Values) ([]Filter, error) {
	filters := make([]Filter, 0, len(params))
	for key, values := range params {
		spec, ok := allowedFilters[key]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrInvalidQuery, key)
		}
		if len(values) == 0 {
			return nil, fmt.Errorf("%w: %s has no value", ErrInvalidQuery, key)
		}
		value, err := strconv.ParseFloat(values[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s=%q is not a number", ErrInvalidQuery, key, values[0])
		}
		filters = append(filters, Filter{Column: spec.column, Op: spec.op, Value: value})
	}
	return filters, nil
}
