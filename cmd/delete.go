package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	deleteFilters []string
	deleteAll     bool
	noConfirm     bool
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <table>",
	Short: "Delete rows from a table",
	Long: `Delete rows from a table exposed by the PostgREST server.

At least one --filter is required so that a delete cannot silently remove
every row; pass --all to clear the whole table deliberately. Deletions ask
for confirmation unless --no-confirm is given or safety.confirm_delete is
disabled in the config.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)

	deleteCmd.Flags().StringArrayVarP(&deleteFilters, "filter", "f", nil, "PostgREST filter, column=op.value (repeatable)")
	deleteCmd.Flags().BoolVar(&deleteAll, "all", false, "delete every row in the table")
	deleteCmd.Flags().BoolVar(&noConfirm, "no-confirm", false, "skip confirmation prompt")
}

func runDelete(cmd *cobra.Command, args []string) error {
	table := args[0]

	if len(deleteFilters) == 0 && !deleteAll {
		return fmt.Errorf("refusing unfiltered delete: pass --filter or --all")
	}

	fb := client.From(table).Delete()
	fb, err := applyFilterFlags(fb, deleteFilters)
	if err != nil {
		return err
	}

	if cfg.Safety.DryRun {
		logger.Info().Str("table", table).Strs("filters", deleteFilters).Msg("Dry run, not deleting")
		return nil
	}

	if cfg.Safety.ConfirmDelete && !noConfirm {
		target := strings.Join(deleteFilters, " AND ")
		if deleteAll {
			target = "ALL ROWS"
		}
		fmt.Printf("Delete rows from %s matching %s? [y/N]: ", table, target)
		var response string
		fmt.Scanln(&response)
		if strings.ToLower(strings.TrimSpace(response)) != "y" {
			logger.Info().Msg("Deletion cancelled")
			return nil
		}
	}

	resp, err := fb.Execute(context.Background())
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}

	rows, err := decodeRows(resp.Body)
	if err != nil {
		return err
	}

	logger.Info().Str("table", table).Int("rows", len(rows)).Msg("Deleted rows")
	return printRows(rows)
}
