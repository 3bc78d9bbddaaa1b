package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	gitCommit = "unknown"
	buildTime = "unknown"
)

// SetVersionInfo records build metadata injected via ldflags
func SetVersionInfo(v, commit, built string) {
	version = v
	gitCommit = commit
	buildTime = built
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pr-commenter %s (commit %s, built %s)\n", version, gitCommit, buildTime)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
