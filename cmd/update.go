package cmd

import (
	"fmt"
	"os"

	"github.com/jocilejr/docs/internal/updater"
	"github.com/spf13/cobra"
)

const defaultRepository = "jocilejr/docs"

// CreateUpdateCmd creates the update command.
func CreateUpdateCmd() *cobra.Command {
	var checkOnly bool
	var prerelease bool
	var repository string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update the installer binary to the latest release",
		Run: func(cmd *cobra.Command, _ []string) {
			client, err := updater.New(&updater.Options{
				Repository: repository,
				Prerelease: prerelease,
			})
			if err != nil {
				fmt.Fprintf(os.Stderr, "update failed: %v\n", err)
				os.Exit(1)
			}

			ctx := cmd.Context()

			if checkOnly {
				info, checkErr := client.Check(ctx)
				if checkErr != nil {
					fmt.Fprintf(os.Stderr, "update check failed: %v\n", checkErr)
					os.Exit(1)
				}
				if !info.UpdateAvailable {
					fmt.Printf("already up to date (%s)\n", info.CurrentVersion)
					return
				}
				fmt.Printf("update available: %s -> %s\n%s\n",
					info.CurrentVersion, info.LatestVersion, info.ReleaseURL)
				return
			}

			info, applyErr := client.Apply(ctx)
			if applyErr != nil {
				fmt.Fprintf(os.Stderr, "update failed: %v\n", applyErr)
				os.Exit(1)
			}
			if !info.UpdateAvailable {
				fmt.Printf("already up to date (%s)\n", info.CurrentVersion)
				return
			}
			fmt.Printf("updated to %s\n", info.LatestVersion)
		},
	}

	cmd.Flags().BoolVar(&checkOnly, "check", false, "Only check for updates, do not apply")
	cmd.Flags().BoolVar(&prerelease, "prerelease", false, "Allow updating to prerelease versions")
	cmd.Flags().StringVar(&repository, "repository", defaultRepository, "GitHub repository to update from")

	return cmd
}
