package kind

import "slices"

// Predicate is a named classification function.
type Predicate struct {
	Name string
	Fn   func(any) bool
}

// Check is the result of one predicate in a Report.
type Check struct {
	Name   string `json:"name"`
	Result bool   `json:"result"`
}

// Report is the full classification of one value.
type Report struct {
	Label  Label   `json:"label"`
	Checks []Check `json:"checks"`
}

var predicates = []Predicate{
	{"IsNullish", IsNullish},
	{"IsUndefined", IsUndefined},
	{"IsNull", IsNull},
	{"IsArray", IsArray},
	{"IsSyncArray", IsSyncArray},
	{"IsAsyncArray", IsAsyncArray},
	{"IsLiteralArray", IsLiteralArray},
	{"IsExtendedArray", IsExtendedArray},
	{"IsSyncLiteralArray", IsSyncLiteralArray},
	{"IsSyncExtendedArray", IsSyncExtendedArray},
	{"IsAsyncLiteralArray", IsAsyncLiteralArray},
	{"IsAsyncExtendedArray", IsAsyncExtendedArray},
	{"IsEmptyArray", IsEmptyArray},
	{"IsEmptySyncArray", IsEmptySyncArray},
	{"IsEmptyAsyncArray", IsEmptyAsyncArray},
	{"IsEmptyLiteralArray", IsEmptyLiteralArray},
	{"IsEmptyExtendedArray", IsEmptyExtendedArray},
	{"IsEmptySyncLiteralArray", IsEmptySyncLiteralArray},
	{"IsEmptySyncExtendedArray", IsEmptySyncExtendedArray},
	{"IsEmptyAsyncLiteralArray", IsEmptyAsyncLiteralArray},
	{"IsEmptyAsyncExtendedArray", IsEmptyAsyncExtendedArray},
	{"IsObject", IsObject},
	{"IsEmptyObject", IsEmptyObject},
	{"IsEmptyString", IsEmptyString},
	{"IsObjectEmpty", IsObjectEmpty},
	{"IsFunction", IsFunction},
	{"IsClass", IsClass},
}

// Predicates returns every exported predicate in a stable order.
func Predicates() []Predicate {
	return slices.Clone(predicates)
}

// Describe runs every predicate against v.
func Describe(v any) Report {
	r := Report{Label: Of(v), Checks: make([]Check, 0, len(predicates))}
	for _, p := range predicates {
		r.Checks = append(r.Checks, Check{Name: p.Name, Result: p.Fn(v)})
	}
	return r
}

// Passed returns the names of the predicates that held.
func (r Report) Passed() []string {
	var names []string
	for _, c := range r.Checks {
		if c.Result {
			names = append(names, c.Name)
		}
	}
	return names
}
