package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/imgajeed76/ivy/internal/db"
	"github.com/imgajeed76/ivy/internal/grid"
	"github.com/imgajeed76/ivy/internal/store"
	"github.com/imgajeed76/ivy/internal/timesheet"
	"github.com/imgajeed76/ivy/internal/ui"
	"github.com/imgajeed76/ivy/internal/ui/styles"
	"github.com/imgajeed76/ivy/internal/ui/table"
	"github.com/imgajeed76/ivy/internal/util"
	"github.com/spf13/cobra"
)

// sheetRef names a sheet either by file path or by remote and sheet name.
type sheetRef struct {
	Path   string
	Remote string
	Sheet  string
}

func (r sheetRef) String() string {
	if r.Remote != "" {
		return r.Sheet + " @ " + r.Remote
	}
	return r.Path
}

// addRemoteFlags registers --remote/--sheet on commands that accept either a
// file or a database sheet.
func addRemoteFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("remote", "r", "", "Remote name or PostgreSQL URL to read the sheet from")
	cmd.Flags().StringP("sheet", "s", "", "Sheet name on the remote (default: the file argument)")
}

// refFromArgs builds a sheetRef from the positional argument and remote
// flags. With --remote, the argument (if any) is the sheet name.
func refFromArgs(cmd *cobra.Command, args []string, example string) (sheetRef, error) {
	remote, _ := cmd.Flags().GetString("remote")
	sheet, _ := cmd.Flags().GetString("sheet")

	if remote != "" {
		if sheet == "" && len(args) > 0 {
			sheet = util.SheetName(args[0])
		}
		if sheet == "" {
			return sheetRef{}, util.MissingArgumentError("sheet", fmt.Sprintf("ivy %s --remote %s --sheet <name>", cmd.Name(), remote))
		}
		return sheetRef{Remote: remote, Sheet: sheet}, nil
	}

	if len(args) == 0 {
		return sheetRef{}, util.MissingArgumentError("file", example)
	}
	return sheetRef{Path: args[0]}, nil
}

// openBackend resolves ref to a backend. The returned func releases the
// database connection, if one was made.
func openBackend(ctx context.Context, ref sheetRef) (store.Backend, func(), error) {
	if ref.Remote == "" {
		return store.NewFileBackend(ref.Path), func() {}, nil
	}

	conn, err := connectRemote(ctx, ref.Remote, false)
	if err != nil {
		return nil, nil, err
	}
	return store.NewPostgresBackend(conn, ref.Sheet), conn.Close, nil
}

// connectRemote opens a database named by a remote or URL, with a spinner.
// lite asks for a single connection, enough for listing.
func connectRemote(ctx context.Context, nameOrURL string, lite bool) (*db.DB, error) {
	url, err := cfg.ResolveURL(nameOrURL)
	if err != nil {
		return nil, err
	}

	label := nameOrURL
	if label == url {
		label = "database"
	}

	spinner := ui.NewSpinner(fmt.Sprintf("Connecting to %s", styles.Cyan(label)))
	spinner.Start()
	var conn *db.DB
	if lite {
		conn, err = db.ConnectLite(ctx, url)
	} else {
		conn, err = db.Connect(ctx, url)
	}
	spinner.Stop()
	if err != nil {
		slog.Warn("connect failed", "remote", label, "error", err)
		return nil, util.DatabaseConnectionError(url, err)
	}
	slog.Debug("connected", "remote", label)
	return conn, nil
}

// loadSheet loads ref and gives it a name.
func loadSheet(ctx context.Context, ref sheetRef) (*store.Document, error) {
	backend, release, err := openBackend(ctx, ref)
	if err != nil {
		return nil, err
	}
	defer release()

	doc, err := backend.Load(ctx)
	if err != nil {
		return nil, err
	}
	if doc.Name == "" {
		doc.Name = util.SheetName(ref.Path)
	}
	return doc, nil
}

// isTimesheet applies the sheet.timesheet setting to doc's header.
func isTimesheet(doc *store.Document) bool {
	return cfg.Sheet.Timesheet && timesheet.Matches(doc)
}

// prepareDocument sets column flags: timesheet rules for timesheets, the
// configured read-only columns for anything that carries no flags of its own.
func prepareDocument(doc *store.Document) error {
	if isTimesheet(doc) {
		timesheet.Annotate(doc)
		return nil
	}
	for _, c := range doc.Columns {
		if c.ReadOnly || c.Computed {
			return nil
		}
	}
	cols, err := cfg.ReadOnlyColumns()
	if err != nil {
		return err
	}
	doc.MarkReadOnly(cols)
	return nil
}

// newEngine builds the grid engine for doc. Timesheets are recalculated once
// so derived cells are consistent before the first edit; that pass is not
// an edit, so the sheet starts clean. A view engine rejects every edit.
func newEngine(doc *store.Document, view bool) (*grid.Engine, error) {
	if err := prepareDocument(doc); err != nil {
		return nil, err
	}

	opts := grid.Options{
		PageSize:   cfg.Editor.PageSize,
		UndoLevels: cfg.Editor.UndoLevels,
		Clipboard:  table.Clipboard(),
		Logger:     slog.Default().With("sheet", doc.Name),
	}
	if view {
		opts.ReadOnly = func(int, int) bool { return true }
	}
	ts := isTimesheet(doc)
	if ts {
		opts.Hooks = timesheet.New()
	}

	e := grid.New(store.ToGrid(doc), opts)
	if ts {
		timesheet.Recalculate(e)
	}
	e.ResetDirty()
	return e, nil
}
