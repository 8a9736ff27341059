package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docview/internal/nav"
	"github.com/ziadkadry99/docview/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search section titles and content",
	Long:  `Runs the viewer's case-insensitive substring search over every section and subsection and prints the matches in document order.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().Int("limit", 0, "maximum number of results (0 for all)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	lib := loadLibrary(context.Background(), cfg, newLogger(cfg, os.Stderr))

	result := search.Filter(lib.Current().Index, args[0])
	if result.Reset {
		return fmt.Errorf("empty query")
	}
	matches := result.Matches
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		if matches == nil {
			matches = []search.Record{}
		}
		data, err := json.MarshalIndent(matches, "", "  ")
		if err != nil {
			return fmt.Errorf("marshalling results: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	if len(matches) == 0 {
		fmt.Fprintln(out, "No results found.")
		return nil
	}
	for i, m := range matches {
		fmt.Fprintf(out, "%d. [%s] %s\n", i+1, m.Kind, m.Title)
		fmt.Fprintf(out, "   %s\n", nav.Fragment(m.SectionID, m.SubsectionID))
	}
	return nil
}
