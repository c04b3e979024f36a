package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/imgajeed76/ivy/internal/store"
	"github.com/imgajeed76/ivy/internal/timesheet"
	"github.com/imgajeed76/ivy/internal/ui/styles"
	"github.com/imgajeed76/ivy/internal/util"
	"github.com/spf13/cobra"
)

func newNewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new <file>",
		Short: "Create a new timesheet",
		Long: `Create a new timesheet with one row dated today.

The file format follows the extension: .xlsx writes a workbook, anything
else writes CSV.

Examples:
  ivy new march.csv
  ivy new march.xlsx
  ivy new march.csv --edit     # Create and open it right away`,
		Args: cobra.ExactArgs(1),
		RunE: runNew,
	}

	cmd.Flags().BoolP("force", "f", false, "Overwrite an existing file")
	cmd.Flags().BoolP("edit", "e", false, "Open the new sheet in the editor")

	return cmd
}

func runNew(cmd *cobra.Command, args []string) error {
	path := args[0]
	force, _ := cmd.Flags().GetBool("force")
	edit, _ := cmd.Flags().GetBool("edit")

	if util.FileExists(path) && !force {
		return util.NewError(fmt.Sprintf("'%s' already exists", path)).
			WithSuggestions(
				fmt.Sprintf("ivy edit %s       # Edit the existing sheet", path),
				fmt.Sprintf("ivy new %s --force  # Replace it", path),
			).
			Wrap(util.ErrAlreadyExists)
	}

	doc := timesheet.Template(time.Now())
	doc.Name = util.SheetName(path)

	if err := store.NewFileBackend(path).Save(context.Background(), doc); err != nil {
		return err
	}
	fmt.Fprintln(out, styles.SuccessMsg(fmt.Sprintf("Created %s", styles.Path(path))))

	if edit {
		return runEdit(cmd, args)
	}
	return nil
}
