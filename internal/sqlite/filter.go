package sqlite

import (
	"fmt"
	"slices"
	"strings"

	"github.com/mesh-intelligence/kindof/pkg/kind"
	"github.com/mesh-intelligence/kindof/pkg/types"
)

// query accumulates WHERE conditions and their arguments.
type query struct {
	conditions []string
	args       []any
	limit      int
}

// sql renders the conditions, ordering and limit after base.
func (q *query) sql(base, order string) string {
	s := base
	if len(q.conditions) > 0 {
		s += " WHERE " + strings.Join(q.conditions, " AND ")
	}
	s += " ORDER BY " + order
	if q.limit > 0 {
		s += fmt.Sprintf(" LIMIT %d", q.limit)
	}
	return s
}

// stringFilter adds "column = ?" when key is present in filter.
func (q *query) stringFilter(filter map[string]any, key, column string) error {
	v, ok := filter[key]
	if !ok {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("%w: %s must be a string", types.ErrInvalidFilter, key)
	}
	q.conditions = append(q.conditions, column+" = ?")
	q.args = append(q.args, s)
	return nil
}

// labelFilter adds a label condition. Accepts a kind.Label or its string
// form.
func (q *query) labelFilter(filter map[string]any) error {
	v, ok := filter[types.FilterLabel]
	if !ok {
		return nil
	}
	var raw string
	switch l := v.(type) {
	case kind.Label:
		raw = string(l)
	case string:
		raw = l
	default:
		return fmt.Errorf("%w: label must be a string", types.ErrInvalidFilter)
	}
	label, err := kind.ParseLabel(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrInvalidFilter, err)
	}
	q.conditions = append(q.conditions, "label = ?")
	q.args = append(q.args, string(label))
	return nil
}

func (q *query) limitFilter(filter map[string]any) error {
	v, ok := filter[types.FilterLimit]
	if !ok {
		return nil
	}
	n, ok := toInt(v)
	if !ok || n < 0 {
		return fmt.Errorf("%w: limit must be a non-negative integer", types.ErrInvalidFilter)
	}
	q.limit = n
	return nil
}

// checkKeys rejects filter keys the table does not understand.
func checkKeys(filter map[string]any, allowed ...string) error {
	for k := range filter {
		if !slices.Contains(allowed, k) {
			return fmt.Errorf("%w: unknown key %q", types.ErrInvalidFilter, k)
		}
	}
	return nil
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}
