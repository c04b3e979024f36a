package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/imgajeed76/ivy/internal/config"
	"github.com/imgajeed76/ivy/internal/store"
	"github.com/imgajeed76/ivy/internal/ui"
	"github.com/imgajeed76/ivy/internal/ui/styles"
	"github.com/imgajeed76/ivy/internal/util"
	"github.com/spf13/cobra"
)

func newPullCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pull <file> [remote]",
		Short: "Copy a sheet from a database into a file",
		Long: `Copy a sheet from a remote PostgreSQL database into a file.

If no remote is specified, uses 'origin' by default. The sheet name is the
file name without extension unless --sheet is given.

Note: Pull will refuse to overwrite a file that changed since it was last
pushed or pulled. Push first, or use --force to discard local changes.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runPull,
	}

	cmd.Flags().StringP("sheet", "s", "", "Sheet name on the remote (default: file name)")
	cmd.Flags().BoolP("force", "f", false, "Overwrite local changes")

	return cmd
}

func runPull(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	sheet, _ := cmd.Flags().GetString("sheet")

	path := args[0]
	remoteName := defaultRemote
	if len(args) > 1 {
		remoteName = args[1]
	}
	if sheet == "" {
		sheet = util.SheetName(path)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	ledger, err := config.LoadSyncLedger()
	if err != nil {
		return err
	}

	conn, err := connectRemote(ctx, remoteName, false)
	if err != nil {
		return err
	}
	defer conn.Close()

	spinner := ui.NewSpinner(fmt.Sprintf("Fetching %s", styles.Sheet(sheet)))
	spinner.Start()
	doc, err := store.NewPostgresBackend(conn, sheet).Load(ctx)
	spinner.Stop()
	if err != nil {
		return err
	}
	remoteHash := doc.Hash()

	file := store.NewFileBackend(path)
	if util.FileExists(path) {
		local, err := file.Load(ctx)
		if err != nil && !force {
			return err
		}
		if err == nil {
			localHash := local.Hash()
			if localHash == remoteHash {
				recordSync(ledger, conn.URL(), sheet, remoteHash, config.SyncPull)
				fmt.Fprintln(out, "Already up to date.")
				return nil
			}
			// The file must still hold what this machine last pushed or pulled
			if !force && !ledger.Synced(conn.URL(), sheet, localHash) {
				return util.NewError("Pull rejected (local changes)").
					WithMessage(fmt.Sprintf("'%s' changed since it was last synced", path)).
					WithSuggestions(
						fmt.Sprintf("ivy diff %s --remote %s --sheet %s  # See what differs", path, remoteName, sheet),
						fmt.Sprintf("ivy push %s %s  # Keep the local copy", path, remoteName),
						fmt.Sprintf("ivy pull %s %s --force  # Discard local changes", path, remoteName),
					).
					Wrap(util.ErrDiverged)
			}
		}
	}

	if err := file.Save(ctx, doc); err != nil {
		return err
	}
	recordSync(ledger, conn.URL(), sheet, remoteHash, config.SyncPull)

	fmt.Fprintln(out, styles.SuccessMsg(fmt.Sprintf("Pulled %s (%d rows) -> %s %s",
		styles.Sheet(sheet), len(doc.Rows), styles.Path(path), styles.Hash(remoteHash, true))))
	slog.Info("pulled", "sheet", sheet, "remote", remoteName, "rows", len(doc.Rows), "hash", remoteHash)
	return nil
}
