package cli

import (
	"context"
	"errors"
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

const defaultRemote = "origin"

func newPushCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "push <file> [remote]",
		Short: "Copy a sheet into a database",
		Long: `Copy a sheet file into a remote PostgreSQL database.

If no remote is specified, uses 'origin' by default. The sheet is stored
under the file name without extension unless --sheet is given.

Note: Push will fail if the remote copy changed since it was last pushed
or pulled. In that case, pull first (or use --force to overwrite).`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runPush,
	}

	cmd.Flags().StringP("sheet", "s", "", "Sheet name on the remote (default: file name)")
	cmd.Flags().BoolP("force", "f", false, "Force push (overwrite remote)")

	return cmd
}

func runPush(cmd *cobra.Command, args []string) error {
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

	doc, err := store.NewFileBackend(path).Load(ctx)
	if err != nil {
		return err
	}
	doc.Name = sheet
	if err := prepareDocument(doc); err != nil {
		return err
	}
	localHash := doc.Hash()

	ledger, err := config.LoadSyncLedger()
	if err != nil {
		return err
	}

	conn, err := connectRemote(ctx, remoteName, false)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Initialize remote schema if needed
	exists, err := conn.SchemaExists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		fmt.Fprintln(out, "Initializing remote schema...")
		if err := conn.InitSchema(ctx); err != nil {
			return err
		}
	}

	remote, err := conn.GetSheet(ctx, sheet)
	if err != nil && !errors.Is(err, util.ErrSheetNotFound) {
		return err
	}

	if remote != nil {
		if remote.ContentHash == localHash {
			recordSync(ledger, conn.URL(), sheet, localHash, config.SyncPush)
			fmt.Fprintln(out, "Everything up-to-date")
			return nil
		}

		// The remote must still hold what this machine last pushed or pulled
		if !force && !ledger.Synced(conn.URL(), sheet, remote.ContentHash) {
			return util.NewError("Push rejected (remote changed)").
				WithMessage(fmt.Sprintf("'%s' on %s changed since it was last synced from here", sheet, remoteName)).
				WithCauses(
					"Someone else pushed this sheet",
					"The sheet was edited on the remote with ivy edit --remote",
					"This sheet was never pulled or pushed from this machine",
				).
				WithSuggestions(
					fmt.Sprintf("ivy diff %s --remote %s --sheet %s  # See what changed", path, remoteName, sheet),
					fmt.Sprintf("ivy pull %s %s --force  # Take the remote copy", path, remoteName),
					fmt.Sprintf("ivy push %s %s --force  # Overwrite the remote copy", path, remoteName),
				).
				Wrap(util.ErrDiverged)
		}
	}

	spinner := ui.NewSpinner(fmt.Sprintf("Pushing %s", styles.Sheet(sheet)))
	spinner.Start()
	if err := store.NewPostgresBackend(conn, sheet).Save(ctx, doc); err != nil {
		spinner.Error("push failed")
		return err
	}
	recordSync(ledger, conn.URL(), sheet, localHash, config.SyncPush)
	spinner.Success(fmt.Sprintf("Pushed %s (%d rows) -> %s %s",
		styles.Sheet(sheet), len(doc.Rows), styles.Cyan(remoteName), styles.Hash(localHash, true)))

	slog.Info("pushed", "sheet", sheet, "remote", remoteName, "rows", len(doc.Rows), "hash", localHash)
	return nil
}

// recordSync notes a completed transfer in the local ledger. The transfer
// already happened, so a failure here is only logged; the next push or pull
// of the sheet will then ask for --force.
func recordSync(ledger *config.SyncLedger, remoteURL, sheet, hash, direction string) {
	ledger.Record(remoteURL, sheet, hash, direction, time.Now())
	if err := ledger.Save(); err != nil {
		slog.Warn("failed to record sync state", "sheet", sheet, "path", config.SyncLedgerPath(), "error", err)
	}
}
