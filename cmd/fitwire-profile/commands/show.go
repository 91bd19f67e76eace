// Package commands implements the fitwire-profile CLI commands.
package commands

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fitwire-protocol/fitwire-go/pkg/fields"
	"github.com/fitwire-protocol/fitwire-go/pkg/profile"
	"github.com/fitwire-protocol/fitwire-go/pkg/schema"
	"github.com/fitwire-protocol/fitwire-go/pkg/types"
)

const (
	exitSuccess      = 0
	exitCommandError = 1
	exitValidation   = 2
)

// ShowOptions configures the show command.
type ShowOptions struct {
	Format  string // text, json
	Message string // filter by message name
	File    string
}

// ShowOutput represents the profile data for display.
type ShowOutput struct {
	File     string          `json:"file,omitempty"`
	Messages []MessageOutput `json:"messages"`
}

// MessageOutput represents one message schema.
type MessageOutput struct {
	Name   string        `json:"name"`
	Fields []FieldOutput `json:"fields"`
}

// FieldOutput represents a single constructed field.
type FieldOutput struct {
	Number *int   `json:"number,omitempty"`
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Type   string `json:"type,omitempty"`
	Units  string `json:"units,omitempty"`
}

// RunShow runs the show command.
func RunShow(args []string, stdout, stderr io.Writer) int {
	opts, err := parseShowArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}

	if opts.File == "" {
		fmt.Fprintln(stderr, "Error: no file specified")
		printShowUsage(stderr)
		return exitCommandError
	}

	messages, err := loadMessages(opts.File)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}

	output := buildShowOutput(opts.File, messages, opts)
	if opts.Message != "" && len(output.Messages) == 0 {
		fmt.Fprintf(stderr, "Error: no message named %s\n", opts.Message)
		return exitCommandError
	}

	switch opts.Format {
	case "json":
		data, _ := json.MarshalIndent(output, "", "  ")
		fmt.Fprintln(stdout, string(data))
	default:
		printShowText(stdout, output)
	}

	return exitSuccess
}

// loadMessages reads the profile file and builds every message schema.
func loadMessages(path string) (map[string]*schema.Message, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := profile.LoadRows(f)
	if err != nil {
		return nil, err
	}
	return schema.BuildMessages(rows, types.NewRegistry())
}

func buildShowOutput(path string, messages map[string]*schema.Message, opts ShowOptions) ShowOutput {
	output := ShowOutput{File: path}

	var names []string
	for name := range messages {
		if opts.Message != "" && name != opts.Message {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		msg := messages[name]
		mo := MessageOutput{Name: name}
		for _, field := range msg.Fields() {
			mo.Fields = append(mo.Fields, describeField(field))
		}
		output.Messages = append(output.Messages, mo)
	}
	return output
}

func describeField(field fields.Field) FieldOutput {
	fo := FieldOutput{
		Name: field.Name(),
		Kind: strings.ToLower(field.Kind().String()),
	}
	if numbered, ok := field.(interface{ Number() int }); ok {
		n := numbered.Number()
		fo.Number = &n
	}
	if carrier, ok := field.(fields.TypeCarrier); ok {
		fo.Type = carrier.Type().Name()
	}
	if united, ok := field.(interface{ Units() string }); ok {
		fo.Units = united.Units()
	}
	return fo
}

func printShowText(w io.Writer, output ShowOutput) {
	fmt.Fprintf(w, "File: %s\n", output.File)

	total := 0
	for _, msg := range output.Messages {
		fmt.Fprintf(w, "\n%s:\n", msg.Name)
		for _, f := range msg.Fields {
			num := "  -"
			if f.Number != nil {
				num = fmt.Sprintf("%3d", *f.Number)
			}
			line := fmt.Sprintf("  %s  %-28s %-10s %s", num, f.Name, f.Kind, f.Type)
			if f.Units != "" {
				line += " [" + f.Units + "]"
			}
			fmt.Fprintln(w, strings.TrimRight(line, " "))
			total++
		}
	}

	fmt.Fprintf(w, "\nTotal: %d messages, %d fields\n", len(output.Messages), total)
}

func parseShowArgs(args []string) (ShowOptions, error) {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	opts := ShowOptions{}

	fs.StringVar(&opts.Format, "format", "text", "Output format (text, json)")
	fs.StringVar(&opts.Format, "f", "text", "Output format (shorthand)")
	fs.StringVar(&opts.Message, "message", "", "Filter by message name")

	fs.Usage = func() {}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	remaining := fs.Args()
	if len(remaining) > 0 {
		opts.File = remaining[0]
	}

	return opts, nil
}

func printShowUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage: fitwire-profile show [options] <file>

Options:
  -f, --format    Output format (text, json) [default: text]
  --message       Filter by message name

Examples:
  fitwire-profile show profile.yaml
  fitwire-profile show --format json profile.yaml
  fitwire-profile show --message record profile.yaml`)
}
