package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/imgajeed76/ivy/internal/store"
	"github.com/imgajeed76/ivy/internal/ui/styles"
	"github.com/imgajeed76/ivy/internal/util"
	"github.com/spf13/cobra"
)

func newDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff <old> [<new>]",
		Short: "Show row changes between two sheets",
		Long: `Show row-level changes between two sheets.

With two files, compares them. With one file and --remote, compares the
remote copy (old) against the file (new).

Examples:
  ivy diff march.csv march-backup.csv
  ivy diff march.csv --remote office      # What would push change?
  ivy diff a.csv b.csv --stat             # Only count changed rows`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runDiff,
	}

	addRemoteFlags(cmd)
	cmd.Flags().IntP("unified", "U", store.DefaultDiffContext, "Number of context rows")
	cmd.Flags().Bool("stat", false, "Show a summary of added and removed rows")

	return cmd
}

func runDiff(cmd *cobra.Command, args []string) error {
	contextRows, _ := cmd.Flags().GetInt("unified")
	stat, _ := cmd.Flags().GetBool("stat")
	remote, _ := cmd.Flags().GetString("remote")
	sheet, _ := cmd.Flags().GetString("sheet")

	var oldRef, newRef sheetRef
	switch {
	case len(args) == 2:
		oldRef, newRef = sheetRef{Path: args[0]}, sheetRef{Path: args[1]}
	case remote != "":
		if sheet == "" {
			sheet = util.SheetName(args[0])
		}
		oldRef = sheetRef{Remote: remote, Sheet: sheet}
		newRef = sheetRef{Path: args[0]}
	default:
		return util.MissingArgumentError("new", "ivy diff old.csv new.csv")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	oldDoc, err := loadSheet(ctx, oldRef)
	if err != nil {
		return err
	}
	newDoc, err := loadSheet(ctx, newRef)
	if err != nil {
		return err
	}

	hunks := store.Diff(oldDoc, newDoc, contextRows)
	if len(hunks) == 0 {
		fmt.Fprintln(out, styles.MutedMsg("No differences"))
		return nil
	}

	if stat {
		added, removed := 0, 0
		for _, h := range hunks {
			for _, l := range h.Lines {
				switch l.Type {
				case store.DiffLineAdd:
					added++
				case store.DiffLineDelete:
					removed++
				}
			}
		}
		fmt.Fprintf(out, "%s  %s, %s\n",
			styles.Sheet(newRef.String()),
			styles.Green(fmt.Sprintf("%d rows added", added)),
			styles.Red(fmt.Sprintf("%d rows removed", removed)))
		return nil
	}

	fmt.Fprint(out, store.FormatDiff(oldRef.String(), newRef.String(), hunks, styles.NoColor()))
	return nil
}
