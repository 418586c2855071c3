package main

import (
	cmd "github.com/rohmanhakim/serp-aggregator/internal/cli"
)

func main() {
	cmd.Execute()
}
