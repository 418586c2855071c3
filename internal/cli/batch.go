package cmd

import (
	"context"
	"encoding/json"
	"os"

	"github.com/rohmanhakim/serp-aggregator/internal/aggregator"
	"github.com/spf13/cobra"
)

var maxParallelQueries int

var searchBatchCmd = &cobra.Command{
	Use:   "search-batch [query...]",
	Short: "Run many queries and print a combined BatchResult as JSON",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		settings, err := loadSettings()
		if err != nil {
			fatalf("Error: %s", err)
		}

		a := aggregator.New(settings, aggregator.WithReporter(reporterFor(verbose)))
		if err := a.Connect(); err != nil {
			fatalf("Error: %s", err)
		}
		defer a.Close()

		opts := aggregator.DefaultSearchOptions()
		opts.UseCache = !noCache

		var batch interface{}
		if maxParallelQueries > 1 {
			batch = a.SearchParallel(context.Background(), args, opts, maxParallelQueries)
		} else {
			batch = a.SearchBatch(context.Background(), args, opts)
		}

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(batch); err != nil {
			fatalf("Error: %s", err)
		}
	},
}

func init() {
	searchBatchCmd.Flags().IntVar(&maxParallelQueries, "max-parallel-queries", 1, "run up to this many queries concurrently (1 = sequential)")
}
