package cmd

import (
	"fmt"

	"github.com/jocilejr/docs/internal/version"
	"github.com/spf13/cobra"
)

// CreateVersionCmd creates the version command.
func CreateVersionCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			if !verbose {
				fmt.Println(version.String())
				return
			}
			info := version.Get()
			fmt.Printf("version:    %s\n", info.Version)
			fmt.Printf("commit:     %s\n", info.GitCommit)
			fmt.Printf("built:      %s\n", info.BuildDate)
			fmt.Printf("go version: %s\n", info.GoVersion)
			fmt.Printf("platform:   %s\n", info.Platform)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print full build metadata")

	return cmd
}
