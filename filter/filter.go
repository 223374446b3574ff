// Package filter provides client-side filtering of PostgREST result rows
// using expr expressions.
//
// Server-side filters cover most needs, but some predicates are easier to
// express locally (string helpers, date math, combinations over decoded
// values). A compiled RowFilter evaluates an expression against each row
// decoded from a response body.
package filter

import (
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// RowFilter represents a compiled row filter expression.
type RowFilter struct {
	program    *vm.Program
	expression string
}

// helperFunctions returns the helpers available inside filter expressions.
func helperFunctions() map[string]any {
	return map[string]any{
		// String helpers, all case-insensitive
		"contains": func(str, substr string) bool {
			return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
		},
		"startsWith": func(str, prefix string) bool {
			return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
		},
		"endsWith": func(str, suffix string) bool {
			return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
		},
		"lower": strings.ToLower,
		"upper": strings.ToUpper,
		// Date helpers
		"parseDate": func(dateStr string) time.Time {
			t, _ := time.Parse("2006-01-02", dateStr)
			return t
		},
		"daysSince": func(dateStr string) int {
			t, err := time.Parse(time.RFC3339, dateStr)
			if err != nil {
				t, err = time.Parse("2006-01-02", dateStr)
				if err != nil {
					return 0
				}
			}
			return int(time.Since(t).Hours() / 24)
		},
		"now": time.Now,
	}
}

// Compile parses and compiles a filter expression. Row columns are exposed
// as top-level variables; the whole row is also available as "row".
func Compile(expression string) (*RowFilter, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	program, err := expr.Compile(expression,
		expr.Env(helperFunctions()),
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	return &RowFilter{
		program:    program,
		expression: expression,
	}, nil
}

// Expression returns the original filter expression.
func (f *RowFilter) Expression() string {
	return f.expression
}

// Match evaluates the filter against a single row.
func (f *RowFilter) Match(row map[string]any) (bool, error) {
	env := make(map[string]any, len(row)+12)
	for column, value := range row {
		env[column] = value
	}
	for name, fn := range helperFunctions() {
		env[name] = fn
	}
	env["row"] = row

	result, err := expr.Run(f.program, env)
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expression,
			Reason:     "failed to evaluate expression",
			Err:        err,
		}
	}

	matched, ok := result.(bool)
	if !ok {
		return false, &EvaluationError{
			Expression: f.expression,
			Reason:     "expression did not produce a boolean",
		}
	}
	return matched, nil
}

// Apply returns the rows matching the filter, preserving input order.
func (f *RowFilter) Apply(rows []map[string]any) ([]map[string]any, error) {
	matches := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		ok, err := f.Match(row)
		if err != nil {
			return nil, err
		}
		if ok {
			matches = append(matches, row)
		}
	}
	return matches, nil
}
