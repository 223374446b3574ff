package cmd

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/restq/filter"
	"github.com/s0up4200/restq/postgrest"
)

var (
	selectColumns []string
	filterFlags   []string
	orderColumns  []string
	limitFlag     int
	offsetFlag    int
	countFlag     bool
	headFlag      bool
	whereExpr     string
)

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get <table>...",
	Short: "Query rows from one or more tables",
	Long: `Query rows from tables exposed by the PostgREST server.

Filters use PostgREST syntax: --filter "year=gte.2000" --filter "title=like.Heat*".
Prefix the operator with "not." to negate it. Multiple tables are queried
concurrently. The --where flag applies an additional client-side expression
filter to the decoded rows, e.g. --where 'contains(title, "heat")'.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().StringSliceVarP(&selectColumns, "select", "s", nil, "columns to select (default all)")
	getCmd.Flags().StringArrayVarP(&filterFlags, "filter", "f", nil, "PostgREST filter, column=op.value (repeatable)")
	getCmd.Flags().StringSliceVar(&orderColumns, "order", nil, "order columns, e.g. year.desc,title.asc")
	getCmd.Flags().IntVar(&limitFlag, "limit", 0, "maximum rows to return (0 uses query.default_limit)")
	getCmd.Flags().IntVar(&offsetFlag, "offset", 0, "rows to skip")
	getCmd.Flags().BoolVar(&countFlag, "count", false, "request an exact total row count")
	getCmd.Flags().BoolVar(&headFlag, "head", false, "fetch headers only, no rows")
	getCmd.Flags().StringVarP(&whereExpr, "where", "w", "", "client-side filter expression applied to decoded rows")
}

func runGet(cmd *cobra.Command, args []string) error {
	var localFilter *filter.RowFilter
	if whereExpr != "" {
		var err error
		localFilter, err = filter.Compile(whereExpr)
		if err != nil {
			return fmt.Errorf("invalid --where expression: %w", err)
		}
	}

	ctx := context.Background()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Query.Concurrency)

	results := make(map[string]*postgrest.Response, len(args))
	var mu sync.Mutex

	for _, table := range args {
		g.Go(func() error {
			resp, err := queryTable(ctx, table)
			if err != nil {
				return fmt.Errorf("failed to query %s: %w", table, err)
			}
			mu.Lock()
			results[table] = resp
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for _, table := range args {
		if err := printResult(table, results[table], localFilter, len(args) > 1); err != nil {
			return err
		}
	}
	return nil
}

func queryTable(ctx context.Context, table string) (*postgrest.Response, error) {
	fb := client.From(table).Select(selectColumns...)

	fb, err := applyFilterFlags(fb, filterFlags)
	if err != nil {
		return nil, err
	}

	if len(orderColumns) > 0 {
		fb = fb.Order(orderColumns...)
	}

	limit := limitFlag
	if limit == 0 {
		limit = cfg.Query.DefaultLimit
	}
	if limit > 0 {
		fb = fb.Limit(limit)
	}
	if offsetFlag > 0 {
		fb = fb.Offset(offsetFlag)
	}

	opts := []postgrest.ExecuteOption{}
	if headFlag {
		opts = append(opts, postgrest.WithHead())
	}
	if countFlag || headFlag {
		opts = append(opts, postgrest.WithCount(postgrest.CountExact))
	}

	return fb.Execute(ctx, opts...)
}

func printResult(table string, resp *postgrest.Response, localFilter *filter.RowFilter, labeled bool) error {
	if labeled {
		fmt.Printf("%s\n%s\n", table, strings.Repeat("-", len(table)))
	}

	if resp.HasCount() {
		fmt.Printf("Total rows: %d\n", resp.Count)
	}
	if headFlag {
		return nil
	}

	rows, err := decodeRows(resp.Body)
	if err != nil {
		return err
	}

	if localFilter != nil {
		filtered, err := localFilter.Apply(rows)
		if err != nil {
			return err
		}
		logger.Debug().
			Int("before", len(rows)).
			Int("after", len(filtered)).
			Str("where", localFilter.Expression()).
			Msg("Applied client-side filter")
		rows = filtered
	}

	return printRows(rows)
}
