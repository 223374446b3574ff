package postgrest

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Operator is a PostgREST filter operator token.
type Operator string

// The full PostgREST filter vocabulary.
const (
	OpEq    Operator = "eq"
	OpNeq   Operator = "neq"
	OpGt    Operator = "gt"
	OpGte   Operator = "gte"
	OpLt    Operator = "lt"
	OpLte   Operator = "lte"
	OpLike  Operator = "like"
	OpIlike Operator = "ilike"
	OpIs    Operator = "is"
	OpIn    Operator = "in"
	OpCs    Operator = "cs"
	OpCd    Operator = "cd"
	OpSl    Operator = "sl"
	OpSr    Operator = "sr"
	OpNxl   Operator = "nxl"
	OpNxr   Operator = "nxr"
	OpAdj   Operator = "adj"
	OpOv    Operator = "ov"
	OpFts   Operator = "fts"
	OpPlfts Operator = "plfts"
	OpPhfts Operator = "phfts"
	OpWfts  Operator = "wfts"
)

// Valid reports whether o is a known filter operator.
func (o Operator) Valid() bool {
	switch o {
	case OpEq, OpNeq, OpGt, OpGte, OpLt, OpLte, OpLike, OpIlike, OpIs,
		OpIn, OpCs, OpCd, OpSl, OpSr, OpNxl, OpNxr, OpAdj, OpOv,
		OpFts, OpPlfts, OpPhfts, OpWfts:
		return true
	}
	return false
}

// textSearch reports whether o is one of the full-text search operators.
func (o Operator) textSearch() bool {
	switch o {
	case OpFts, OpPlfts, OpPhfts, OpWfts:
		return true
	}
	return false
}

// FilterBuilder is a chain stage that accepts column filters and result
// modifiers. Every method returns a new builder; repeated filters append
// independent query parameters, which PostgREST treats as an implicit AND.
type FilterBuilder struct {
	ExecuteBuilder
}

// Filter appends a generic column filter of the form <op>.<value>.
// An unknown operator fails the chain at Execute.
func (f FilterBuilder) Filter(column string, op Operator, value string) FilterBuilder {
	b := f.clone()
	if !op.Valid() {
		if b.req.err == nil {
			b.req.err = fmt.Errorf("unknown filter operator %q", string(op))
		}
		return FilterBuilder{ExecuteBuilder{b}}
	}
	b.req.appendSearchParam(column, string(op)+"."+value)
	return FilterBuilder{ExecuteBuilder{b}}
}

// Not appends a negated column filter of the form not.<op>.<value>.
func (f FilterBuilder) Not(column string, op Operator, value string) FilterBuilder {
	b := f.clone()
	if !op.Valid() {
		if b.req.err == nil {
			b.req.err = fmt.Errorf("unknown filter operator %q", string(op))
		}
		return FilterBuilder{ExecuteBuilder{b}}
	}
	b.req.appendSearchParam(column, "not."+string(op)+"."+value)
	return FilterBuilder{ExecuteBuilder{b}}
}

// Or appends a disjunction of filters. The caller supplies pre-joined
// sub-filter syntax, e.g. "age.gte.18,status.eq.active".
func (f FilterBuilder) Or(filters string) FilterBuilder {
	b := f.clone()
	b.req.appendSearchParam("or", "("+filters+")")
	return FilterBuilder{ExecuteBuilder{b}}
}

// Eq filters rows whose column equals value.
func (f FilterBuilder) Eq(column, value string) FilterBuilder {
	return f.Filter(column, OpEq, value)
}

// Neq filters rows whose column does not equal value.
func (f FilterBuilder) Neq(column, value string) FilterBuilder {
	return f.Filter(column, OpNeq, value)
}

// Gt filters rows whose column is greater than value.
func (f FilterBuilder) Gt(column, value string) FilterBuilder {
	return f.Filter(column, OpGt, value)
}

// Gte filters rows whose column is greater than or equal to value.
func (f FilterBuilder) Gte(column, value string) FilterBuilder {
	return f.Filter(column, OpGte, value)
}

// Lt filters rows whose column is less than value.
func (f FilterBuilder) Lt(column, value string) FilterBuilder {
	return f.Filter(column, OpLt, value)
}

// Lte filters rows whose column is less than or equal to value.
func (f FilterBuilder) Lte(column, value string) FilterBuilder {
	return f.Filter(column, OpLte, value)
}

// Like filters rows whose column matches a case-sensitive pattern.
func (f FilterBuilder) Like(column, pattern string) FilterBuilder {
	return f.Filter(column, OpLike, pattern)
}

// Ilike filters rows whose column matches a case-insensitive pattern.
func (f FilterBuilder) Ilike(column, pattern string) FilterBuilder {
	return f.Filter(column, OpIlike, pattern)
}

// Is filters rows by identity comparison, e.g. "null", "true", "false".
func (f FilterBuilder) Is(column, value string) FilterBuilder {
	return f.Filter(column, OpIs, value)
}

// In filters rows whose column matches any of values.
func (f FilterBuilder) In(column string, values []string) FilterBuilder {
	return f.Filter(column, OpIn, strings.Join(values, ","))
}

// Contains filters rows whose column contains value. Strings pass through
// verbatim, string slices become an array literal, and anything else is
// serialized as JSON. Values that cannot be serialized leave the chain
// unchanged.
func (f FilterBuilder) Contains(column string, value any) FilterBuilder {
	return f.containment(column, OpCs, value)
}

// ContainedBy filters rows whose column is contained by value. Value forms
// match Contains.
func (f FilterBuilder) ContainedBy(column string, value any) FilterBuilder {
	return f.containment(column, OpCd, value)
}

func (f FilterBuilder) containment(column string, op Operator, value any) FilterBuilder {
	switch v := value.(type) {
	case string:
		return f.Filter(column, op, v)
	case []string:
		return f.Filter(column, op, "{"+strings.Join(v, ",")+"}")
	default:
		data, err := json.Marshal(value)
		if err != nil {
			return f
		}
		return f.Filter(column, op, string(data))
	}
}

// Overlaps filters rows whose column overlaps value (arrays and ranges).
func (f FilterBuilder) Overlaps(column, value string) FilterBuilder {
	return f.Filter(column, OpOv, value)
}

// RangeLt filters rows whose range column is strictly left of value.
func (f FilterBuilder) RangeLt(column, value string) FilterBuilder {
	return f.Filter(column, OpSl, value)
}

// RangeGt filters rows whose range column is strictly right of value.
func (f FilterBuilder) RangeGt(column, value string) FilterBuilder {
	return f.Filter(column, OpSr, value)
}

// RangeGte filters rows whose range column does not extend to the left of
// value. Maps to the nxl token, matching the wire protocol's vocabulary.
func (f FilterBuilder) RangeGte(column, value string) FilterBuilder {
	return f.Filter(column, OpNxl, value)
}

// RangeLte filters rows whose range column does not extend to the right of
// value. Maps to the nxr token, matching the wire protocol's vocabulary.
func (f FilterBuilder) RangeLte(column, value string) FilterBuilder {
	return f.Filter(column, OpNxr, value)
}

// RangeAdjacent filters rows whose range column is adjacent to value.
func (f FilterBuilder) RangeAdjacent(column, value string) FilterBuilder {
	return f.Filter(column, OpAdj, value)
}

// TextSearch appends a full-text search filter. op selects the search
// flavor and must be one of OpFts, OpPlfts, OpPhfts or OpWfts.
func (f FilterBuilder) TextSearch(column, query string, op Operator) FilterBuilder {
	if !op.textSearch() {
		b := f.clone()
		if b.req.err == nil {
			b.req.err = fmt.Errorf("operator %q is not a text search operator", string(op))
		}
		return FilterBuilder{ExecuteBuilder{b}}
	}
	return f.Filter(column, op, query)
}

// Order sorts the result by the given columns. Callers may suffix a column
// with a direction and nulls position, e.g. "created_at.desc.nullslast".
func (f FilterBuilder) Order(columns ...string) FilterBuilder {
	b := f.clone()
	b.req.appendSearchParam("order", strings.Join(columns, ","))
	return FilterBuilder{ExecuteBuilder{b}}
}

// Limit caps the number of rows returned.
func (f FilterBuilder) Limit(count int) FilterBuilder {
	b := f.clone()
	b.req.appendSearchParam("limit", strconv.Itoa(count))
	return FilterBuilder{ExecuteBuilder{b}}
}

// Offset skips the first count rows of the result.
func (f FilterBuilder) Offset(count int) FilterBuilder {
	b := f.clone()
	b.req.appendSearchParam("offset", strconv.Itoa(count))
	return FilterBuilder{ExecuteBuilder{b}}
}

// Range limits the result to rows from through to, inclusive, zero-based.
func (f FilterBuilder) Range(from, to int) FilterBuilder {
	return f.Offset(from).Limit(to - from + 1)
}

// Single asks the server to return one object instead of an array of rows.
// Responses with zero or multiple rows fail server-side.
func (f FilterBuilder) Single() FilterBuilder {
	b := f.clone()
	b.req.setHeader("Accept", "application/vnd.pgrst.object+json")
	return FilterBuilder{ExecuteBuilder{b}}
}
