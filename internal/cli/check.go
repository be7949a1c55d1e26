package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/treemark/internal/logging"
	"github.com/yaklabco/treemark/internal/ui/pretty"
)

// ErrInvalidDirectives is returned when check finds invalid directives.
// It signals the exit code; the diagnostics themselves are already printed.
var ErrInvalidDirectives = errors.New("invalid directives found")

type checkFlags struct {
	defines   []string
	noContext bool
}

func newCheckCommand() *cobra.Command {
	flags := &checkFlags{}

	cmd := &cobra.Command{
		Use:   "check [files...]",
		Short: "Check documents for invalid directives",
		Long: `Parse documents and report every invalid directive occurrence as a
diagnostic with its source location. Exits non-zero when any document
contains invalid directives.

Reads from stdin when no file is given.

Examples:
  treemark check doc.txt
  treemark check docs/intro.txt docs/setup.txt
  treemark check --no-context doc.txt`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, flags)
		},
	}

	cmd.Flags().StringArrayVar(&flags.defines, "define", nil,
		"substitution binding as key=value (repeatable)")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false,
		"omit source line context from diagnostics")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string, flags *checkFlags) error {
	logger := logging.Default()

	subs, err := parseDefines(flags.defines)
	if err != nil {
		return err
	}
	format, err := newFormat(subs)
	if err != nil {
		return err
	}

	styles := outputStyles(cmd)
	out := cmd.OutOrStdout()
	width := pretty.TerminalWidth(os.Stdout, 100)

	if len(args) == 0 {
		args = []string{"-"}
	}

	total := 0
	for _, arg := range args {
		path, src, err := readInput(cmd, []string{arg})
		if err != nil {
			return err
		}
		doc := format.Parse(src)

		diags := pretty.CollectDiagnostics(path, src, doc)
		logger.Debug("checked document",
			logging.FieldPath, path,
			logging.FieldInvalidCount, len(diags),
		)
		if len(diags) == 0 {
			continue
		}
		total += len(diags)

		fmt.Fprintln(out, styles.FormatFileHeader(path, len(diags)))
		for _, d := range diags {
			if len(d.SourceLine) > width {
				d.SourceLine = d.SourceLine[:width]
			}
			fmt.Fprint(out, styles.FormatDiagnostic(d, !flags.noContext))
		}
	}

	if total > 0 {
		fmt.Fprintln(out, styles.Failure.Render(fmt.Sprintf("%d invalid directive(s)", total)))
		return ErrInvalidDirectives
	}
	fmt.Fprintln(out, styles.Success.Render("no invalid directives"))
	return nil
}
