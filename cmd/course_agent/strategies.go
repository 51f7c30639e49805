package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/marcus/course-designer/internal/catalog"
	"github.com/spf13/cobra"
)

var strategiesCmd = &cobra.Command{
	Use:   "strategies [name]",
	Short: "List the delivery strategy catalog",
	Long:  "List every delivery strategy in the built-in catalog, or show the full definition of a single strategy by name.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStrategies,
}

var strategiesJSON bool

func init() {
	strategiesCmd.Flags().BoolVar(&strategiesJSON, "json", false, "Output as JSON")

	rootCmd.AddCommand(strategiesCmd)
}

func runStrategies(_ *cobra.Command, args []string) error {
	if len(args) == 1 {
		strategy, ok := catalog.ByName(args[0])
		if !ok {
			return fmt.Errorf("unknown strategy: %q (use 'strategies' to list the catalog)", args[0])
		}
		jsonBytes, err := json.MarshalIndent(strategy, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal strategy: %w", err)
		}
		_, _ = fmt.Fprintln(os.Stdout, string(jsonBytes))
		return nil
	}

	if strategiesJSON {
		jsonBytes, err := json.MarshalIndent(catalog.All(), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal catalog: %w", err)
		}
		_, _ = fmt.Fprintln(os.Stdout, string(jsonBytes))
		return nil
	}

	_, _ = fmt.Fprintf(os.Stdout, "%d delivery strategies:\n", catalog.Size())
	for _, s := range catalog.All() {
		_, _ = fmt.Fprintf(os.Stdout, "  %-28s %s\n", s.Name, s.Description)
	}
	return nil
}
