package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/leapstack-labs/leapql/pkg/semantic"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// InterpretOptions holds options for the interpret command.
type InterpretOptions struct {
	Input string
}

// NewInterpretCommand creates the interpret command.
func NewInterpretCommand() *cobra.Command {
	opts := &InterpretOptions{}

	cmd := &cobra.Command{
		Use:   "interpret [QUERY]",
		Short: "Interpret a query and print its semantic model",
		Long: `Interpret a query against the metamodel and print the resulting
semantic query model.

The query is taken from the arguments, from --input, or from piped stdin.
Output follows --output: text prints the model tree, table lists the
from elements, json prints both.`,
		Example: `  # Print the model tree
  leapql interpret "select p.name from Person p where p.mate.age > 30"

  # List from elements, including implicit joins
  leapql interpret -o table "from Person p where p.address.city = 'Oslo'"

  # Read the query from a file
  leapql interpret --input query.lql -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInterpret(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read the query from file")

	return cmd
}

func runInterpret(cmd *cobra.Command, args []string, opts *InterpretOptions) error {
	query, err := readQuery(cmd, args, opts.Input)
	if err != nil {
		return err
	}

	cmdCtx := NewCommandContext(cmd)
	model, err := cmdCtx.LoadModel()
	if err != nil {
		return err
	}

	stmt, err := semantic.Interpret(query, cmdCtx.Consumer(model), cmdCtx.Options(nil))
	if err != nil {
		return err
	}
	return renderStatement(cmdCtx.Renderer, query, stmt)
}

// readQuery takes the query from args, a file or piped stdin.
func readQuery(cmd *cobra.Command, args []string, input string) (string, error) {
	var query string
	switch {
	case len(args) > 0:
		query = strings.Join(args, " ")
	case input != "":
		content, err := os.ReadFile(input)
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
		query = string(content)
	default:
		in := cmd.InOrStdin()
		if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			return "", errors.New("no query given: pass it as an argument, with --input, or on stdin")
		}
		content, err := io.ReadAll(in)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		query = string(content)
	}

	query = strings.TrimSuffix(strings.TrimSpace(query), ";")
	if strings.TrimSpace(query) == "" {
		return "", errors.New("empty query")
	}
	return query, nil
}
