package cli

import (
	"fmt"
	"strings"

	"github.com/imgajeed76/ivy/internal/config"
	"github.com/imgajeed76/ivy/internal/input"
	"github.com/imgajeed76/ivy/internal/ui/styles"
	"github.com/imgajeed76/ivy/internal/util"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config <key> [value]",
		Short: "Get and set options",
		Long: `Get and set ivy options in the global config file.

Examples:
  ivy config editor.page_size         # Get value
  ivy config editor.page_size 20      # Set value
  ivy config sheet.timesheet false    # Treat every sheet as a plain grid
  ivy config --list                   # List all options and key bindings

Options:
` + config.GenerateHelpText(),
		Args: cobra.MaximumNArgs(2),
		RunE: runConfig,
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) != 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return config.ListKeys(), cobra.ShellCompDirectiveNoFileComp
		},
	}

	cmd.Flags().BoolP("list", "l", false, "List all configuration")
	cmd.Flags().Bool("path", false, "Print the config file location")

	return cmd
}

func runConfig(cmd *cobra.Command, args []string) error {
	listAll, _ := cmd.Flags().GetBool("list")
	showPath, _ := cmd.Flags().GetBool("path")

	if showPath {
		fmt.Fprintln(out, config.Path())
		return nil
	}

	if listAll {
		return listConfig()
	}

	if len(args) == 0 {
		return fmt.Errorf("usage: ivy config <key> [value]")
	}

	key := strings.ToLower(args[0])

	// Get or set?
	if len(args) == 1 {
		value, ok := cfg.GetValue(key)
		if !ok {
			return util.UnknownConfigKeyError(key, config.SuggestKeys(key))
		}
		fmt.Fprintln(out, value)
		return nil
	}

	if err := cfg.SetValue(key, args[1]); err != nil {
		return err
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}

func listConfig() error {
	for _, key := range config.ListKeys() {
		value, _ := cfg.GetValue(key)
		fmt.Fprintf(out, "%s=%s\n", key, value)
	}
	for _, name := range cfg.RemoteNames() {
		remote, _ := cfg.GetRemote(name)
		fmt.Fprintf(out, "remote.%s.url=%s\n", name, remote.URL)
	}

	keymaps, err := cfg.Keymaps()
	if err != nil {
		return err
	}
	fmt.Fprintln(out)
	printKeymap("keys.navigate", keymaps.Navigate)
	printKeymap("keys.edit", keymaps.Edit)
	return nil
}

func printKeymap(title string, km input.Keymap) {
	fmt.Fprintln(out, styles.SectionHeader(title))
	for _, b := range km.Bindings() {
		fmt.Fprintf(out, "  %-16s %s\n", b.Op, strings.Join(b.Keys(), ", "))
	}
}
