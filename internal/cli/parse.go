package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/treemark/internal/logging"
	"github.com/yaklabco/treemark/internal/ui/pretty"
	"github.com/yaklabco/treemark/pkg/ast"
	"github.com/yaklabco/treemark/pkg/directive"
	"github.com/yaklabco/treemark/pkg/directive/std"
	"github.com/yaklabco/treemark/pkg/markup"
)

type parseFlags struct {
	defines []string
}

func newParseCommand() *cobra.Command {
	flags := &parseFlags{}

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a document and print its tree",
		Long: `Parse a markup document and print the resulting document tree.

Reads from stdin when no file is given, or when the file is "-".

Examples:
  treemark parse doc.txt
  treemark parse --define project.name=treemark doc.txt
  cat doc.txt | treemark parse`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, flags)
		},
	}

	cmd.Flags().StringArrayVar(&flags.defines, "define", nil,
		"substitution binding as key=value (repeatable)")

	return cmd
}

func runParse(cmd *cobra.Command, args []string, flags *parseFlags) error {
	logger := logging.Default()

	subs, err := parseDefines(flags.defines)
	if err != nil {
		return err
	}

	path, src, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	format, err := newFormat(subs)
	if err != nil {
		return err
	}
	doc := format.Parse(src)

	invalids := ast.Invalids(doc)
	logger.Debug("parsed document",
		logging.FieldPath, path,
		logging.FieldNodes, len(doc.Children),
		logging.FieldInvalidCount, len(invalids),
	)

	styles := outputStyles(cmd)
	fmt.Fprint(cmd.OutOrStdout(), styles.RenderTree(doc))
	return nil
}

// newFormat builds the reference format with all built-in directives.
func newFormat(subs map[string]string) (*markup.Format, error) {
	reg, err := directive.NewRegistry(nil, std.Specs()...)
	if err != nil {
		return nil, fmt.Errorf("build directive registry: %w", err)
	}
	var opts []markup.Option
	if len(subs) > 0 {
		opts = append(opts, markup.WithSubstitutions(subs))
	}
	return markup.New(reg, opts...), nil
}

// parseDefines converts repeated key=value flags into a substitution map.
func parseDefines(defines []string) (map[string]string, error) {
	if len(defines) == 0 {
		return nil, nil
	}
	subs := make(map[string]string, len(defines))
	for _, d := range defines {
		key, value, found := strings.Cut(d, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid --define %q: expected key=value", d)
		}
		subs[key] = value
	}
	return subs, nil
}

// readInput reads the document from the named file, or stdin for no
// argument or "-".
func readInput(cmd *cobra.Command, args []string) (path, src string, err error) {
	if len(args) == 0 || args[0] == "-" {
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
		return "<stdin>", string(content), nil
	}
	content, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", fmt.Errorf("read %s: %w", args[0], err)
	}
	return args[0], string(content), nil
}

// outputStyles resolves the persistent color flag against stdout.
func outputStyles(cmd *cobra.Command) *pretty.Styles {
	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}
	return pretty.NewStyles(pretty.IsColorEnabled(colorMode, os.Stdout))
}
