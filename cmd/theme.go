package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docview/internal/prefs"
	"github.com/ziadkadry99/docview/internal/toggle"
)

// cliClient scopes the command line's preferences apart from browser clients.
const cliClient = "cli"

var themeAmbient string

var themeCmd = &cobra.Command{
	Use:       "theme [show|toggle]",
	Short:     "Show or toggle the stored theme preference",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"show", "toggle"},
	RunE:      runTheme,
}

func init() {
	themeCmd.Flags().StringVar(&themeAmbient, "ambient", string(toggle.Light), "ambient color scheme used when no theme is stored")
	rootCmd.AddCommand(themeCmd)
}

func runTheme(cmd *cobra.Command, args []string) error {
	ambient, ok := toggle.ParseTheme(themeAmbient)
	if !ok {
		return fmt.Errorf("invalid --ambient %q: must be light or dark", themeAmbient)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	backing, cleanup := openPrefs(cfg, newLogger(cfg, os.Stderr))
	defer cleanup()

	store := prefs.ForClient(context.Background(), backing, cliClient)
	theme := toggle.NewTheme(store, ambient, nil)

	if len(args) == 1 && args[0] == "toggle" {
		theme.Toggle()
	}

	source := "ambient"
	if theme.Pinned() {
		source = "stored"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", theme.Current(), source)
	return nil
}
