package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/mkoskinen/nexotax/docs"
)

// docsCmd holds the flags for the 'docs' subcommand.
type docsCmd struct{}

func (*docsCmd) Name() string     { return "docs" }
func (*docsCmd) Synopsis() string { return "show a documentation topic" }
func (*docsCmd) Usage() string {
	return `ntx docs [<topic>...]

  Renders one or more documentation topics to the terminal. With no topic it
  lists the available ones; '*' shows everything.
`
}

func (c *docsCmd) SetFlags(f *flag.FlagSet) {}

func (c *docsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		all, err := docs.All()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Available topics: %s\n", strings.Join(all, ", "))
		return subcommands.ExitSuccess
	}

	content, err := docs.Topics(f.Args()...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(content)
	return subcommands.ExitSuccess
}
