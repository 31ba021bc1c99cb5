package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nickandperla.net/snailfish/pkg/snailfish"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Add numbers interactively, one per line",
	Long: `repl keeps a running sum. Each line is parsed and added to it, and the
reduced sum and its magnitude are printed. A malformed line is reported
and ignored.

Commands:
  :reset   start a new sum
  :quit    exit (Ctrl+D also exits)`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		in := cmd.InOrStdin()
		prompt := false
		if f, ok := in.(*os.File); ok {
			prompt = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
		return runREPL(in, cmd.OutOrStdout(), prompt)
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func printBanner(out io.Writer) {
	fmt.Fprintln(out, "snailfish REPL (Ctrl+D to exit)")
	fmt.Fprintln(out, "Enter one number per line; :reset clears the sum.")
	fmt.Fprintln(out)
}

// runREPL reads lines until EOF or :quit. Prompts and the banner are only
// written for interactive input.
func runREPL(in io.Reader, out io.Writer, prompt bool) error {
	if prompt {
		printBanner(out)
	}

	reader := bufio.NewReader(in)
	var sum snailfish.Node
	lineNo := 0

	for {
		if prompt {
			fmt.Fprint(out, ">>> ")
		}

		line, err := reader.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			if prompt {
				fmt.Fprintln(out)
			}
			if err == io.EOF {
				return nil
			}
			return err
		}
		lineNo++

		line = strings.TrimRight(line, " \t\r\n")
		switch line {
		case "":
			continue
		case ":quit":
			return nil
		case ":reset":
			sum = nil
			fmt.Fprintln(out, "sum cleared")
			continue
		}

		n, err := engine.ParseLine(line, lineNo)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			continue
		}

		if sum == nil {
			sum, err = engine.Reduce(n)
		} else {
			sum, err = engine.Add(sum, n)
		}
		if err != nil {
			// Reduction failures are defects, not input mistakes.
			return err
		}
		logger.Debug("running sum", zap.Int("line", lineNo), zap.Stringer("number", sum))
		fmt.Fprintf(out, "%s\n%d\n", sum, engine.Magnitude(sum))
	}
}
