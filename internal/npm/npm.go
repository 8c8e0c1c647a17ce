// Package npm builds the node/npm commands the installer runs and locates
// the toolchain on the host.
package npm

import (
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/jocilejr/docs/internal/process"
)

// Toolchain holds the resolved node and npm executable paths.
type Toolchain struct {
	Node string
	NPM  string
}

// Detect locates node and npm on PATH. Both must be present.
func Detect() (*Toolchain, error) {
	node, err := exec.LookPath("node")
	if err != nil {
		return nil, fmt.Errorf("node not found on PATH: %w", err)
	}
	npmPath, err := exec.LookPath("npm")
	if err != nil {
		return nil, fmt.Errorf("npm not found on PATH: %w", err)
	}
	return &Toolchain{Node: node, NPM: npmPath}, nil
}

// InstallHint returns the Node.js installation instruction for an OS.
func InstallHint(goos string) string {
	switch goos {
	case "linux":
		return "Use your package manager (e.g. sudo apt install nodejs npm)"
	case "darwin":
		return "Install via Homebrew: brew install node"
	case "windows":
		return "Download from https://nodejs.org/ or use winget install OpenJS.NodeJS"
	default:
		return "See https://nodejs.org/ for instructions for your system"
	}
}

// Install returns the command installing all declared dependencies in dir.
func Install(dir string) process.Command {
	return process.Command{Args: []string{"npm", "install"}, Dir: dir}
}

// InstallPackage returns the command ensuring one named package in dir.
func InstallPackage(dir, pkg string) process.Command {
	return process.Command{Args: []string{"npm", "install", pkg}, Dir: dir}
}

// RunScript returns the command running a package.json script in dir.
func RunScript(dir, script string) process.Command {
	return process.Command{Args: []string{"npm", "run", script}, Dir: dir}
}

// NodeScript returns the command running a script file with node, with dir
// as the working directory.
func NodeScript(dir, script string) process.Command {
	return process.Command{Args: []string{"node", filepath.Join(dir, script)}, Dir: dir}
}
