// Chatd is a chat backend that answers user messages from per-agent
// knowledge bases and incrementally builds a profile of each user.
//
// Usage:
//
//	chatd serve --config config.yaml
//	chatd version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	root := &cobra.Command{
		Use:          "chatd",
		Short:        "Knowledge-grounded chat backend with user profiling",
		SilenceUsage: true,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newVersionCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("chatd %s (commit %s, built %s)\n", version, gitCommit, buildDate)
		},
	}
}
