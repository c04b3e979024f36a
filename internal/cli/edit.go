package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/imgajeed76/ivy/internal/store"
	"github.com/imgajeed76/ivy/internal/ui/styles"
	"github.com/imgajeed76/ivy/internal/ui/table"
	"github.com/spf13/cobra"
)

func newEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <file>",
		Short: "Open a sheet in the grid editor",
		Long: `Open a sheet in the interactive grid editor.

Type to overwrite the active cell, enter or F2 to edit it, double click a
cell to edit it with the mouse. ctrl+z / ctrl+y undo and redo, ctrl+s
saves, ctrl+q quits (saving first). Changes are also saved every
editor.autosave_seconds.

Key bindings can be changed in the [keys.navigate] and [keys.edit]
sections of the config file.

Examples:
  ivy edit march.csv                         # Edit a CSV file
  ivy edit hours.xlsx                        # Edit the first sheet of a workbook
  ivy edit --remote office --sheet march     # Edit a sheet stored in a database`,
		Args: cobra.MaximumNArgs(1),
		RunE: runEdit,
	}

	addRemoteFlags(cmd)
	cmd.Flags().Bool("read-only", false, "Open without saving")

	return cmd
}

func runEdit(cmd *cobra.Command, args []string) error {
	readOnly, _ := cmd.Flags().GetBool("read-only")

	ref, err := refFromArgs(cmd, args, "ivy edit march.csv")
	if err != nil {
		return err
	}

	keymaps, err := cfg.Keymaps()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, release, err := openBackend(ctx, ref)
	if err != nil {
		return err
	}
	defer release()

	doc, err := backend.Load(ctx)
	if err != nil {
		return err
	}
	if doc.Name == "" {
		doc.Name = ref.String()
	}
	if len(doc.Rows) == 0 {
		doc.Rows = [][]string{make([]string, len(doc.Columns))}
	}

	engine, err := newEngine(doc, readOnly)
	if err != nil {
		return err
	}

	log := slog.Default().With("sheet", ref.String())
	log.Info("editing", "backend", backend.Describe(), "rows", len(doc.Rows), "timesheet", isTimesheet(doc))

	opts := table.EditorOptions{
		Title:       ref.String(),
		Headers:     doc.Headers(),
		Keymaps:     keymaps,
		DoubleClick: cfg.DoubleClick(),
		Autosave:    cfg.Autosave(),
		Logger:      log,
	}
	if !readOnly {
		columns := append([]store.Column(nil), doc.Columns...)
		opts.Save = func(ctx context.Context, rows [][]string) error {
			return backend.Save(ctx, &store.Document{Name: doc.Name, Columns: columns, Rows: rows})
		}
	}

	if err := table.RunEditor(ctx, engine, opts); err != nil {
		return err
	}

	if !readOnly {
		log.Info("closed", "rows", engine.RowCount())
		fmt.Fprintln(out, styles.SuccessMsg(fmt.Sprintf("Saved %s (%d rows)", styles.Sheet(ref.String()), engine.RowCount())))
	}
	return nil
}
