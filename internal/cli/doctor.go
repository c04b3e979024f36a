package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"github.com/imgajeed76/ivy/internal/config"
	"github.com/imgajeed76/ivy/internal/db"
	"github.com/imgajeed76/ivy/internal/ui/styles"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the setup and diagnose issues",
		Long: `Run diagnostics to check if ivy is properly configured.

This command checks:
  - Config file and key bindings
  - Read-only column setting
  - Log file
  - Terminal and clipboard
  - Remote database connectivity`,
		RunE: runDoctor,
	}
}

func runDoctor(cmd *cobra.Command, args []string) error {
	fmt.Fprintln(out, styles.Boldf("ivy doctor"))
	fmt.Fprintln(out)

	allOK := true

	fmt.Fprint(out, "Checking config file... ")
	if _, err := os.Stat(config.Path()); err != nil {
		fmt.Fprintln(out, styles.Mute("DEFAULTS")+fmt.Sprintf(" (%s not found)", config.Path()))
	} else {
		fmt.Fprintln(out, styles.SuccessText("OK")+fmt.Sprintf(" (%s)", config.Path()))
	}

	fmt.Fprint(out, "Checking key bindings... ")
	if _, err := cfg.Keymaps(); err != nil {
		fmt.Fprintln(out, styles.Errorf("INVALID"))
		fmt.Fprintf(out, "  %v\n", err)
		allOK = false
	} else {
		n := len(cfg.Keys.Navigate) + len(cfg.Keys.Edit)
		fmt.Fprintln(out, styles.SuccessText("OK")+fmt.Sprintf(" (%d overrides)", n))
	}

	fmt.Fprint(out, "Checking read-only columns... ")
	if cols, err := cfg.ReadOnlyColumns(); err != nil {
		fmt.Fprintln(out, styles.Errorf("INVALID"))
		fmt.Fprintf(out, "  %v\n", err)
		allOK = false
	} else {
		fmt.Fprintln(out, styles.SuccessText("OK")+fmt.Sprintf(" (%v)", cols))
	}

	fmt.Fprint(out, "Checking log file... ")
	if logFile == nil {
		fmt.Fprintln(out, styles.WarningText("DISABLED"))
		fmt.Fprintf(out, "  Cannot write %s\n", cfg.LogPath())
	} else {
		fmt.Fprintln(out, styles.SuccessText("OK")+fmt.Sprintf(" (%s, level %s)", cfg.LogPath(), cfg.LogLevel()))
	}

	fmt.Fprint(out, "Checking terminal... ")
	if term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(out, styles.SuccessText("OK"))
	} else {
		fmt.Fprintln(out, styles.Mute("NOT A TTY")+" (show prints plain tables)")
	}

	fmt.Fprint(out, "Checking clipboard... ")
	if clipboard.Unsupported {
		fmt.Fprintln(out, styles.WarningText("UNAVAILABLE"))
		fmt.Fprintln(out, "  Cut and paste stay inside ivy (install xclip, xsel or wl-clipboard)")
	} else {
		fmt.Fprintln(out, styles.SuccessText("OK"))
	}

	fmt.Fprint(out, "Checking remotes... ")
	names := cfg.RemoteNames()
	if len(names) == 0 {
		fmt.Fprintln(out, styles.Mute("NONE"))
	} else {
		fmt.Fprintln(out, styles.SuccessText(fmt.Sprintf("%d configured", len(names))))
		for _, name := range names {
			remote, _ := cfg.GetRemote(name)
			if !pingRemote(remote.URL) {
				fmt.Fprintf(out, "  - %s %s\n", name, styles.Errorf("UNREACHABLE"))
				allOK = false
				continue
			}
			fmt.Fprintf(out, "  - %s %s\n", name, styles.SuccessText("OK"))
		}
	}

	fmt.Fprintln(out)
	if allOK {
		fmt.Fprintln(out, styles.SuccessMsg("All checks passed!"))
	} else {
		fmt.Fprintln(out, styles.WarningMsg("Some checks failed"))
	}
	return nil
}

func pingRemote(url string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := db.ConnectLite(ctx, url)
	if err != nil {
		return false
	}
	defer conn.Close()
	return conn.Ping(ctx) == nil
}
