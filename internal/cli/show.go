package cli

import (
	"context"
	"time"

	"github.com/imgajeed76/ivy/internal/ui/table"
	"github.com/spf13/cobra"
)

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Show a sheet",
		Long: `Show a sheet without changing it.

On a terminal the sheet opens in a read-only grid. When piped, or with
--no-pager, it is printed as an aligned table.

Examples:
  ivy show march.csv                     # Browse the sheet
  ivy show march.csv --json              # Print rows as JSON objects
  ivy show march.csv --raw | cut -f 5    # Tab-separated rows for scripts
  ivy show --remote office march         # Show a sheet stored in a database`,
		Args: cobra.MaximumNArgs(1),
		RunE: runShow,
	}

	addRemoteFlags(cmd)
	cmd.Flags().Bool("json", false, "Output rows as JSON")
	cmd.Flags().Bool("raw", false, "Output tab-separated rows without header")
	cmd.Flags().Bool("no-pager", false, "Print a plain table even on a terminal")

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	jsonOut, _ := cmd.Flags().GetBool("json")
	raw, _ := cmd.Flags().GetBool("raw")
	noPager, _ := cmd.Flags().GetBool("no-pager")

	ref, err := refFromArgs(cmd, args, "ivy show march.csv")
	if err != nil {
		return err
	}

	keymaps, err := cfg.Keymaps()
	if err != nil {
		return err
	}

	loadCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	doc, err := loadSheet(loadCtx, ref)
	if err != nil {
		return err
	}

	return table.DisplayResults(context.Background(), doc, table.DisplayOptions{
		JSON:    jsonOut,
		Raw:     raw,
		NoPager: noPager,
		Keymaps: keymaps,
	})
}
