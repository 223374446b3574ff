package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	updateData     string
	updateDataFile string
	updateFilters  []string
	updateAll      bool
)

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update <table>",
	Short: "Update rows in a table",
	Long: `Update rows in a table exposed by the PostgREST server.

At least one --filter is required so that an update cannot silently touch
every row; pass --all to update the whole table deliberately.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)

	updateCmd.Flags().StringVar(&updateData, "data", "", "column values as JSON")
	updateCmd.Flags().StringVar(&updateDataFile, "data-file", "", "file containing column values as JSON")
	updateCmd.Flags().StringArrayVarP(&updateFilters, "filter", "f", nil, "PostgREST filter, column=op.value (repeatable)")
	updateCmd.Flags().BoolVar(&updateAll, "all", false, "update every row in the table")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	table := args[0]

	if len(updateFilters) == 0 && !updateAll {
		return fmt.Errorf("refusing unfiltered update: pass --filter or --all")
	}

	values, err := readData(updateData, updateDataFile)
	if err != nil {
		return err
	}

	fb := client.From(table).Update(values)
	fb, err = applyFilterFlags(fb, updateFilters)
	if err != nil {
		return err
	}

	if cfg.Safety.DryRun {
		logger.Info().Str("table", table).Strs("filters", updateFilters).Msg("Dry run, not updating")
		return nil
	}

	resp, err := fb.Execute(context.Background())
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", table, err)
	}

	rows, err := decodeRows(resp.Body)
	if err != nil {
		return err
	}

	logger.Info().Str("table", table).Int("rows", len(rows)).Msg("Updated rows")
	return printRows(rows)
}
