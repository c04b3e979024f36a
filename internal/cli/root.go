package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/imgajeed76/ivy/internal/config"
	"github.com/imgajeed76/ivy/internal/ui/styles"
	"github.com/imgajeed76/ivy/internal/util"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/spf13/cobra"
)

var (
	// Version information (set at build time)
	Version   = "dev"
	CommitSHA = "unknown"
	BuildDate = "unknown"
)

var (
	// cfg is loaded once per invocation by the root pre-run
	cfg *config.Config

	out io.Writer = colorable.NewColorableStdout()

	logFile *os.File
)

var rootCmd = &cobra.Command{
	Use:   "ivy",
	Short: "A terminal grid editor for timesheets",
	Long: `ivy edits CSV and XLSX sheets in the terminal, with full undo/redo of
every change. Sheets with a timesheet header (Day, Began, Ended, Shift,
Total, Description) get shift durations and daily totals computed as you
type.

Sheets can also live in a PostgreSQL database: push and pull copy them
between a file and a remote, and edit opens a remote sheet directly.

For more information, see: https://github.com/imgajeed76/ivy`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Version:       Version,
}

func Execute() error {
	defer closeLog()

	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)

		// Check if it's a structured IvyError
		var ivyErr *util.IvyError
		if errors.As(err, &ivyErr) {
			fmt.Fprintln(os.Stderr, ivyErr.Format())
		} else {
			// Simple error - still format nicely
			fmt.Fprintln(os.Stderr, styles.ErrorMsg(err.Error()))
		}
		return err
	}
	return nil
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides log.level)")

	// Version flag template to show more info
	rootCmd.SetVersionTemplate(fmt.Sprintf("ivy version %s\n  commit: %s\n  built:  %s\n", Version, CommitSHA, BuildDate))

	// Set up pre-run to handle global flags, config and logging
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		noColor, _ := cmd.Flags().GetBool("no-color")
		if noColor {
			styles.SetNoColor(true)
		}

		loaded, err := config.Load()
		if err != nil {
			return util.NewError("Cannot read config").
				WithContext(config.Path()).
				WithSuggestion("ivy config --list  # Check the config file parses").
				Wrap(err)
		}
		cfg = loaded

		styles.ApplyTheme(cfg.Theme.ActiveColor, cfg.Theme.EditColor, cfg.Theme.ReadOnlyColor)

		levelFlag, _ := cmd.Flags().GetString("log-level")
		if levelFlag != "" {
			cfg.Log.Level = levelFlag
		}
		setupLogging(cfg)
		slog.Debug("starting", "command", cmd.CommandPath(), "args", args, "version", Version)
		return nil
	}

	// Add all subcommands
	rootCmd.AddCommand(
		newVersionCmd(),
		newNewCmd(),
		newEditCmd(),
		newShowCmd(),
		newExportCmd(),
		newDiffCmd(),
		newPushCmd(),
		newPullCmd(),
		newSheetsCmd(),
		newRemoteCmd(),
		newConfigCmd(),
		newDoctorCmd(),
		newCompletionCmd(),
	)
}

// setupLogging points the default slog logger at the log file. The terminal
// belongs to the editor, so nothing is ever logged to stdout or stderr. A log
// file that cannot be opened disables logging instead of failing the command.
func setupLogging(c *config.Config) {
	path := c.LogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return
	}
	logFile = f

	slog.SetDefault(slog.New(tint.NewHandler(f, &tint.Options{
		Level:      c.LogLevel(),
		TimeFormat: time.RFC3339,
		NoColor:    true,
	})))
}

func closeLog() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

func newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for ivy.

To load completions:

Bash:
  $ source <(ivy completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ ivy completion bash > /etc/bash_completion.d/ivy
  # macOS:
  $ ivy completion bash > $(brew --prefix)/etc/bash_completion.d/ivy

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ ivy completion zsh > "${fpath[1]}/_ivy"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ ivy completion fish | source

  # To load completions for each session, execute once:
  $ ivy completion fish > ~/.config/fish/completions/ivy.fish

PowerShell:
  PS> ivy completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> ivy completion powershell > ivy.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return rootCmd.GenBashCompletion(os.Stdout)
			case "zsh":
				return rootCmd.GenZshCompletion(os.Stdout)
			case "fish":
				return rootCmd.GenFishCompletion(os.Stdout, true)
			case "powershell":
				return rootCmd.GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(out, "ivy version %s\n", Version)
			fmt.Fprintf(out, "  commit: %s\n", CommitSHA)
			fmt.Fprintf(out, "  built:  %s\n", BuildDate)
		},
	}
}
