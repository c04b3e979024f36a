package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/imgajeed76/ivy/internal/store"
	"github.com/imgajeed76/ivy/internal/ui/styles"
	"github.com/imgajeed76/ivy/internal/util"
	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	formats := make([]string, len(store.Formats))
	for i, f := range store.Formats {
		formats[i] = string(f)
	}

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export a sheet to CSV, TSV, JSON or XLSX",
		Long: `Export a sheet to another format.

The format comes from --format, or from the extension of --output.
Without --output the sheet is written to stdout (not for xlsx).

Examples:
  ivy export march.csv -o march.xlsx
  ivy export march.csv --format json > march.json
  ivy export --remote office march -o march.csv`,
		Args: cobra.MaximumNArgs(1),
		RunE: runExport,
	}

	addRemoteFlags(cmd)
	cmd.Flags().StringP("format", "F", "", "Output format: "+strings.Join(formats, ", "))
	cmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")
	cmd.Flags().Bool("recalculate", true, "Recompute shift and total columns of timesheets first")

	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return formats, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	formatName, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")
	recalc, _ := cmd.Flags().GetBool("recalculate")

	ref, err := refFromArgs(cmd, args, "ivy export march.csv -o march.xlsx")
	if err != nil {
		return err
	}

	format := store.FormatFromPath(output)
	if formatName != "" {
		format, err = store.ParseFormat(formatName)
		if err != nil {
			return util.NewError(fmt.Sprintf("Unknown format '%s'", formatName)).
				WithMessage(fmt.Sprintf("Supported formats: %s", joinFormats())).
				Wrap(err)
		}
	}
	if format == store.FormatXLSX && output == "" {
		return util.NewError("XLSX cannot be written to a terminal").
			WithSuggestion("ivy export <file> -o out.xlsx")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	doc, err := loadSheet(ctx, ref)
	if err != nil {
		return err
	}

	if recalc && isTimesheet(doc) {
		engine, err := newEngine(doc, false)
		if err != nil {
			return err
		}
		doc.Rows = engine.Store().Values()
	}

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", output, err)
		}
		defer f.Close()
		w = f
	}

	if err := store.Export(w, doc, format); err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}

	if output != "" {
		fmt.Fprintln(out, styles.SuccessMsg(fmt.Sprintf("Exported %d rows to %s", len(doc.Rows), styles.Path(output))))
	}
	return nil
}

func joinFormats() string {
	names := make([]string, len(store.Formats))
	for i, f := range store.Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
