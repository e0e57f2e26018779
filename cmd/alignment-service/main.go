// alignment-service
//
// Job alignment matching for graduate employment records.
// Exposes a REST API (used by the Gateway) and a gRPC service to:
//   - updatePosition(position, company, ...): classify and persist
//   - checkPosition(...): dry run while typing
//   - confirmAlignment(confirmed): answer the pending question
//   - autocomplete(q): reference titles of every track
//
// A "yes" answer adds the title to the graduate's own track (self-expansion).
// Publishes EVENT_ALIGNMENT_CHANGED and EVENT_REFERENCE_EXPANDED to Redis.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:           "alignment-service",
	Short:         "Job alignment matching and self-expanding reference titles",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	// .env is optional
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "[alignment-service] Error: %v\n", err)
		os.Exit(1)
	}
}
