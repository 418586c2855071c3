package cmd

import (
	"context"
	"encoding/json"
	"os"

	"github.com/rohmanhakim/serp-aggregator/internal/aggregator"
	"github.com/spf13/cobra"
)

var searchStreamCmd = &cobra.Command{
	Use:   "search-stream [query...]",
	Short: "Run many queries and print each result as a JSON line as it completes",
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

		encoder := json.NewEncoder(os.Stdout)
		for item := range a.SearchStream(context.Background(), args, opts) {
			if item.Err != nil {
				encoder.Encode(map[string]string{"query": item.Query, "error": item.Err.Error()})
				continue
			}
			encoder.Encode(map[string]any{"query": item.Query, "result": item.Result})
		}
	},
}
