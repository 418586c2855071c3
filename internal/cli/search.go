package cmd

import (
	"context"
	"encoding/json"
	"os"

	"github.com/rohmanhakim/serp-aggregator/internal/aggregator"
	"github.com/rohmanhakim/serp-aggregator/internal/progress"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Run a single query and print the merged result as JSON",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		settings, err := loadSettings()
		if err != nil {
			fatalf("Error: %s", err)
		}

		reporter := reporterFor(verbose)
		a := aggregator.New(settings, aggregator.WithReporter(reporter))
		if err := a.Connect(); err != nil {
			fatalf("Error: %s", err)
		}
		defer a.Close()

		opts := aggregator.DefaultSearchOptions()
		opts.UseCache = !noCache

		result, searchErr := a.Search(context.Background(), args[0], opts)
		if searchErr != nil {
			fatalf("Error: %s", searchErr)
		}

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(result); err != nil {
			fatalf("Error: %s", err)
		}
	},
}

func reporterFor(verbose bool) progress.Reporter {
	if verbose {
		return progress.NewStderrReporter(true)
	}
	return progress.NewNullReporter()
}
