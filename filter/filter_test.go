package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		wantErr    bool
	}{
		{
			name:       "simple comparison",
			expression: "year > 2000",
			wantErr:    false,
		},
		{
			name:       "helper call",
			expression: `contains(title, "heat")`,
			wantErr:    false,
		},
		{
			name:       "empty expression",
			expression: "   ",
			wantErr:    true,
		},
		{
			name:       "non-boolean expression",
			expression: "1 + 2",
			wantErr:    true,
		},
		{
			name:       "syntax error",
			expression: "year >",
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Compile(tt.expression)
			if tt.wantErr {
				require.Error(t, err)

				var compErr *CompilationError
				assert.ErrorAs(t, err, &compErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expression, f.Expression())
		})
	}
}

func TestMatch(t *testing.T) {
	row := map[string]any{
		"id":    float64(1),
		"title": "Heat",
		"year":  float64(1995),
		"tags":  []any{"thriller", "crime"},
	}

	tests := []struct {
		name       string
		expression string
		want       bool
	}{
		{"column comparison", "year == 1995", true},
		{"column mismatch", "year > 2000", false},
		{"contains helper", `contains(title, "HEAT")`, true},
		{"startsWith helper", `startsWith(title, "he")`, true},
		{"endsWith helper", `endsWith(title, "xyz")`, false},
		{"row access", `row.title == "Heat"`, true},
		{"membership", `"crime" in tags`, true},
		{"missing column is nil", "missing == nil", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Compile(tt.expression)
			require.NoError(t, err)

			got, err := f.Match(row)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApply(t *testing.T) {
	rows := []map[string]any{
		{"title": "Heat", "year": float64(1995)},
		{"title": "Ronin", "year": float64(1998)},
		{"title": "Collateral", "year": float64(2004)},
	}

	f, err := Compile("year < 2000")
	require.NoError(t, err)

	matches, err := f.Apply(rows)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "Heat", matches[0]["title"])
	assert.Equal(t, "Ronin", matches[1]["title"])
}

func TestApplyEmptyInput(t *testing.T) {
	f, err := Compile("year < 2000")
	require.NoError(t, err)

	matches, err := f.Apply(nil)
	require.NoError(t, err)
	assert.Empty(t, matches)
}
