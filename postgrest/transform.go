package postgrest

import (
	"net/http"
	"strings"
	"unicode"
)

// QueryBuilder is the chain stage positioned at a table, before an
// operation has been selected.
type QueryBuilder struct {
	builder
}

// Select configures a GET request for the given columns. With no arguments
// all columns are selected. Whitespace outside double-quoted identifiers is
// stripped, so `"My Column"` survives while incidental spaces around commas
// are removed.
func (q QueryBuilder) Select(columns ...string) FilterBuilder {
	b := q.clone()
	b.req.method = http.MethodGet

	selection := "*"
	if len(columns) > 0 {
		selection = sanitizeColumns(strings.Join(columns, ","))
	}
	b.req.appendSearchParam("select", selection)

	return FilterBuilder{ExecuteBuilder{b}}
}

// Insert configures a POST request inserting values, asking the server to
// return the affected rows.
func (q QueryBuilder) Insert(values any) ExecuteBuilder {
	return q.write(values, false, "")
}

// Upsert configures a POST request that merges values on conflicting keys.
// onConflict optionally names the conflict target columns and may be empty.
func (q QueryBuilder) Upsert(values any, onConflict string) ExecuteBuilder {
	return q.write(values, true, onConflict)
}

func (q QueryBuilder) write(values any, upsert bool, onConflict string) ExecuteBuilder {
	b := q.clone()
	b.req.method = http.MethodPost
	if upsert {
		b.req.setHeader("Prefer", "return=representation,resolution=merge-duplicates")
	} else {
		b.req.setHeader("Prefer", "return=representation")
	}
	if onConflict != "" {
		b.req.appendSearchParam("on_conflict", onConflict)
	}
	b.req.body = values
	return ExecuteBuilder{b}
}

// Update configures a PATCH request updating values. The returned builder
// exposes filters; an unfiltered update touches every row in the table.
func (q QueryBuilder) Update(values any) FilterBuilder {
	b := q.clone()
	b.req.method = http.MethodPatch
	b.req.setHeader("Prefer", "return=representation")
	b.req.body = values
	return FilterBuilder{ExecuteBuilder{b}}
}

// Delete configures a DELETE request. The returned builder exposes filters;
// an unfiltered delete removes every row in the table.
func (q QueryBuilder) Delete() FilterBuilder {
	b := q.clone()
	b.req.method = http.MethodDelete
	b.req.setHeader("Prefer", "return=representation")
	return FilterBuilder{ExecuteBuilder{b}}
}

// sanitizeColumns removes whitespace that is not inside a double-quoted
// identifier segment. Quoting state toggles on each '"' seen left to right.
func sanitizeColumns(columns string) string {
	var sb strings.Builder
	sb.Grow(len(columns))

	quoted := false
	for _, r := range columns {
		if r == '"' {
			quoted = !quoted
		}
		if unicode.IsSpace(r) && !quoted {
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
