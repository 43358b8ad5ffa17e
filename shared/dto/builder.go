package dto

// NewFilterGroup starts an AND group that list handlers grow one optional
// query parameter at a time.
func NewFilterGroup() FilterGroup {
	return FilterGroup{Operator: FilterGroupOperatorAnd}
}

func (f *FilterGroup) Add(filter any) *FilterGroup {
	f.Filters = append(f.Filters, filter)

	return f
}

// Eq adds an equality filter. Empty strings and nil values are skipped so
// absent query parameters do not constrain the result.
func (f *FilterGroup) Eq(table, field string, value any) *FilterGroup {
	if isEmpty(value) {
		return f
	}

	if flag, ok := value.(*bool); ok {
		value = *flag
	}

	return f.Add(Filter{Table: table, Field: field, Operator: FilterOperatorEq, Value: value})
}

// Cmp adds a comparison filter under its own argument name so the same
// column can be bounded from both sides.
func (f *FilterGroup) Cmp(table, field, operator, argName string, value any) *FilterGroup {
	if isEmpty(value) {
		return f
	}

	return f.Add(Filter{Table: table, Field: field, Operator: operator, Value: value, ArgName: argName})
}

// Search matches term case-insensitively against any of fields.
func (f *FilterGroup) Search(table, term string, fields ...string) *FilterGroup {
	if term == "" || len(fields) == 0 {
		return f
	}

	group := FilterGroup{Operator: FilterGroupOperatorOr}
	for _, field := range fields {
		group.Filters = append(group.Filters, Filter{
			Table:    table,
			Field:    field,
			Operator: FilterOperatorLike,
			Value:    term,
			ArgName:  "q_" + field,
		})
	}

	return f.Add(group)
}

func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case *bool:
		return v == nil
	default:
		return false
	}
}
