package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	insertData     string
	insertDataFile string
	upsertFlag     bool
	onConflict     string
)

// insertCmd represents the insert command
var insertCmd = &cobra.Command{
	Use:   "insert <table>",
	Short: "Insert rows into a table",
	Long: `Insert rows into a table exposed by the PostgREST server.

Row data is given as a JSON object or array of objects, either inline with
--data or from a file with --data-file. With --upsert, rows with conflicting
keys are merged instead of rejected; --on-conflict names the conflict target
columns.`,
	Args: cobra.ExactArgs(1),
	RunE: runInsert,
}

func init() {
	rootCmd.AddCommand(insertCmd)

	insertCmd.Flags().StringVar(&insertData, "data", "", "row data as JSON")
	insertCmd.Flags().StringVar(&insertDataFile, "data-file", "", "file containing row data as JSON")
	insertCmd.Flags().BoolVar(&upsertFlag, "upsert", false, "merge rows on conflicting keys")
	insertCmd.Flags().StringVar(&onConflict, "on-conflict", "", "comma-separated conflict target columns")
}

func runInsert(cmd *cobra.Command, args []string) error {
	table := args[0]

	values, err := readData(insertData, insertDataFile)
	if err != nil {
		return err
	}

	if cfg.Safety.DryRun {
		logger.Info().Str("table", table).Bool("upsert", upsertFlag).Msg("Dry run, not inserting")
		return nil
	}

	qb := client.From(table)
	eb := qb.Insert(values)
	if upsertFlag || onConflict != "" {
		eb = qb.Upsert(values, onConflict)
	}

	resp, err := eb.Execute(context.Background())
	if err != nil {
		return fmt.Errorf("failed to insert into %s: %w", table, err)
	}

	rows, err := decodeRows(resp.Body)
	if err != nil {
		return err
	}

	logger.Info().Str("table", table).Int("rows", len(rows)).Msg("Inserted rows")
	return printRows(rows)
}

// readData decodes row data from an inline JSON string or a file.
func readData(inline, file string) (any, error) {
	var raw []byte
	switch {
	case inline != "" && file != "":
		return nil, fmt.Errorf("--data and --data-file are mutually exclusive")
	case inline != "":
		raw = []byte(inline)
	case file != "":
		var err error
		raw, err = os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read data file: %w", err)
		}
	default:
		return nil, fmt.Errorf("row data is required: use --data or --data-file")
	}

	var values any
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("invalid row data: %w", err)
	}
	return values, nil
}
