package commands

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/fitwire-protocol/fitwire-go/pkg/fields"
	"github.com/fitwire-protocol/fitwire-go/pkg/profile"
	"github.com/fitwire-protocol/fitwire-go/pkg/schema"
	"github.com/fitwire-protocol/fitwire-go/pkg/types"
)

// RunValidate builds every message schema in the given profile files and
// reports construction errors. It returns a validation exit code when any
// file fails.
func RunValidate(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	verbose := fs.Bool("verbose", false, "List messages and field counts")
	fs.Usage = func() {}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}

	files := fs.Args()
	if len(files) == 0 {
		fmt.Fprintln(stderr, "Error: no files specified")
		printValidateUsage(stderr)
		return exitCommandError
	}

	failed := 0
	for _, path := range files {
		if err := validateFile(path, *verbose, stdout); err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", path, err)
			failed++
			continue
		}
		fmt.Fprintf(stdout, "%s: OK\n", path)
	}

	if failed > 0 {
		fmt.Fprintf(stderr, "%d of %d files failed validation\n", failed, len(files))
		return exitValidation
	}
	return exitSuccess
}

func validateFile(path string, verbose bool, stdout io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := profile.LoadRows(f)
	if err != nil {
		return err
	}

	messages, err := schema.BuildMessages(rows, types.NewRegistry())
	if err != nil {
		return err
	}

	if verbose {
		var names []string
		for name := range messages {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			msg := messages[name]
			dynamic := 0
			for _, field := range msg.Fields() {
				if field.Kind() == fields.KindDynamic {
					dynamic++
				}
			}
			fmt.Fprintf(stdout, "  %s: %d fields (%d dynamic)\n", name, len(msg.Fields()), dynamic)
		}
	}
	return nil
}

func printValidateUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage: fitwire-profile validate [options] <files...>

Options:
  --verbose   List messages and field counts

Examples:
  fitwire-profile validate profile.yaml
  fitwire-profile validate --verbose activity.yaml settings.yaml`)
}
