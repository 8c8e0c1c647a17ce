package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/jocilejr/docs/internal/npm"
	"github.com/spf13/cobra"
)

// CreateDoctorCmd creates the doctor command, which verifies the host has
// the toolchain the installer depends on.
func CreateDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that node and npm are available",
		Long: `Verifies that the Node.js toolchain is installed and reachable on PATH. ` +
			`Prints installation instructions for the current platform when something is missing.`,
		Run: func(_ *cobra.Command, _ []string) {
			green := color.New(color.FgGreen).SprintFunc()
			red := color.New(color.FgRed).SprintFunc()

			tc, err := npm.Detect()
			if err != nil {
				fmt.Printf("%s %v\n", red("missing:"), err)
				fmt.Printf("hint: %s\n", npm.InstallHint(runtime.GOOS))
				os.Exit(1)
			}

			fmt.Printf("%s node at %s (%s)\n", green("ok:"), tc.Node, toolVersion(tc.Node))
			fmt.Printf("%s npm at %s (%s)\n", green("ok:"), tc.NPM, toolVersion(tc.NPM))
		},
	}
}

func toolVersion(path string) string {
	out, err := exec.Command(path, "--version").Output()
	if err != nil {
		return "version unknown"
	}
	return strings.TrimSpace(string(out))
}
