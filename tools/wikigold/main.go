// Command wikigold renders wikipedia pages and dumps to plain text with
// link spans, and loads the results into a store.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

// Set via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := newRootCommand(BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "wikigold: %v\n", err)
		return 1
	}
	return 0
}
