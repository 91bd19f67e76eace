// fitwire-profile is a CLI tool for inspecting and validating profile tables.
package main

import (
	"fmt"
	"os"

	"github.com/fitwire-protocol/fitwire-go/cmd/fitwire-profile/commands"
)

const (
	exitSuccess      = 0
	exitCommandError = 1
	exitValidation   = 2
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(exitCommandError)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var exitCode int
	switch cmd {
	case "validate":
		exitCode = commands.RunValidate(args, os.Stdout, os.Stderr)
	case "show":
		exitCode = commands.RunShow(args, os.Stdout, os.Stderr)
	case "help", "-h", "--help":
		printUsage()
		exitCode = exitSuccess
	case "version", "-v", "--version":
		fmt.Println("fitwire-profile version 0.1.0")
		exitCode = exitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		exitCode = exitCommandError
	}

	os.Exit(exitCode)
}

func printUsage() {
	fmt.Println(`fitwire-profile - profile table inspection and validation tool

Usage:
  fitwire-profile <command> [options] <file>

Commands:
  validate   Build every message schema and report construction errors
  show       Display profile messages and fields

Options:
  -h, --help     Show this help message
  -v, --version  Show version information

Examples:
  fitwire-profile validate profile.yaml
  fitwire-profile show --format json profile.yaml
  fitwire-profile show --message record profile.yaml

For command-specific help, run:
  fitwire-profile <command> --help`)
}
