package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/imgajeed76/ivy/internal/ui/styles"
	"github.com/imgajeed76/ivy/internal/util"
	"github.com/spf13/cobra"
)

func newSheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets [remote]",
		Short: "List sheets stored in a database",
		Long: `List the sheets stored in a remote database, most recently updated
first. If no remote is specified, uses 'origin' by default.

Examples:
  ivy sheets
  ivy sheets office
  ivy sheets office --delete march   # Remove a sheet`,
		Args: cobra.MaximumNArgs(1),
		RunE: runSheets,
	}

	cmd.Flags().String("delete", "", "Delete the named sheet")

	return cmd
}

func runSheets(cmd *cobra.Command, args []string) error {
	del, _ := cmd.Flags().GetString("delete")

	remoteName := defaultRemote
	if len(args) > 0 {
		remoteName = args[0]
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conn, err := connectRemote(ctx, remoteName, true)
	if err != nil {
		return err
	}
	defer conn.Close()

	exists, err := conn.SchemaExists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		fmt.Fprintln(out, "No sheets")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Push one with:")
		fmt.Fprintf(out, "  ivy push <file> %s\n", remoteName)
		return nil
	}

	if del != "" {
		if _, err := conn.GetSheet(ctx, del); err != nil {
			return util.RemoteSheetNotFoundError(del)
		}
		if err := conn.DeleteSheet(ctx, del); err != nil {
			return err
		}
		fmt.Fprintln(out, styles.SuccessMsg(fmt.Sprintf("Deleted %s from %s", styles.Sheet(del), remoteName)))
		return nil
	}

	sheets, err := conn.ListSheets(ctx)
	if err != nil {
		return err
	}
	if len(sheets) == 0 {
		fmt.Fprintln(out, "No sheets")
		return nil
	}

	for _, s := range sheets {
		fmt.Fprintf(out, "%s  %s %6d rows  %s\n",
			styles.Hash(s.ContentHash, true),
			styles.Sheet(fmt.Sprintf("%-24s", s.Name)),
			s.RowCount,
			styles.Date(util.RelativeTime(s.UpdatedAt)))
	}
	return nil
}
