package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/s0up4200/restq/postgrest"
)

// applyFilterFlags applies --filter values of the form "column=op.value"
// (or "column=not.op.value") to a builder chain.
func applyFilterFlags(fb postgrest.FilterBuilder, filters []string) (postgrest.FilterBuilder, error) {
	for _, raw := range filters {
		column, condition, found := strings.Cut(raw, "=")
		if !found || column == "" {
			return fb, fmt.Errorf("invalid filter %q: expected column=op.value", raw)
		}

		negated := false
		if rest, ok := strings.CutPrefix(condition, "not."); ok {
			negated = true
			condition = rest
		}

		op, value, found := strings.Cut(condition, ".")
		if !found {
			return fb, fmt.Errorf("invalid filter %q: expected column=op.value", raw)
		}

		operator := postgrest.Operator(op)
		if !operator.Valid() {
			return fb, fmt.Errorf("invalid filter %q: unknown operator %q", raw, op)
		}

		if negated {
			fb = fb.Not(column, operator, value)
		} else {
			fb = fb.Filter(column, operator, value)
		}
	}
	return fb, nil
}

// decodeRows decodes a response body into generic rows. PostgREST returns
// an array for collection requests and an object for single-object requests.
func decodeRows(body []byte) ([]map[string]any, error) {
	if len(body) == 0 {
		return nil, nil
	}

	var rows []map[string]any
	if err := json.Unmarshal(body, &rows); err == nil {
		return rows, nil
	}

	var row map[string]any
	if err := json.Unmarshal(body, &row); err != nil {
		return nil, fmt.Errorf("failed to decode response rows: %w", err)
	}
	return []map[string]any{row}, nil
}

// printRows pretty-prints rows as indented JSON.
func printRows(rows []map[string]any) error {
	out, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode rows: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
